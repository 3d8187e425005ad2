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


package core

import "errors"

// Error taxonomy shared by the registry and the pipelines.
var (
	// ErrNotFoundOrNotOwned collapses "collection does not exist" and
	// "collection belongs to another tenant" into one outward signal so
	// existence cannot be probed across tenants.
	ErrNotFoundOrNotOwned = errors.New("collection not found or not owned by tenant")

	// ErrDuplicateName indicates a tenant name is already registered.
	ErrDuplicateName = errors.New("name already registered")

	// ErrInvalidCredentials indicates a failed authentication attempt.
	ErrInvalidCredentials = errors.New("invalid name or secret")

	// ErrCorruptCredential indicates a stored provider key could not be
	// decrypted. Fatal for the request, not for the process.
	ErrCorruptCredential = errors.New("corrupt provider credential")

	// ErrUnsupportedModel indicates a model selector outside the closed enum.
	ErrUnsupportedModel = errors.New("unsupported model selector")

	// ErrEmbedding indicates an embedding failure for a single document.
	// Non-fatal to the rest of the ingestion batch.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates a provider invocation failure during answer
	// generation. Fatal to the query call.
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyQuery indicates a query with no text.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrNoDocuments indicates an ingestion request with no documents.
	ErrNoDocuments = errors.New("at least one document required")
)
