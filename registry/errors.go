// Copyright 2026 Lattice Works
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package registry

import "errors"

var (
	// ErrSerializationFailed indicates a record could not be encoded or
	// decoded.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTxnConflict indicates a write transaction kept conflicting after
	// exhausting its optimistic retries.
	ErrTxnConflict = errors.New("transaction conflict, retries exhausted")

	// ErrStorageClosed indicates the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")
)
