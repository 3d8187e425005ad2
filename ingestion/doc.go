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

// Package ingestion implements the document ingestion pipeline.
//
// An ingestion call moves uploaded documents through fixed stages:
// ownership validation, raw file persistence, text extraction, chunking,
// embedding and vector upsert, then a single registry commit. Documents
// are processed concurrently on a bounded worker pool and fail
// independently; the collection is marked ready only once at least one
// document has been indexed.
package ingestion
