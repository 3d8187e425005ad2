// Package vectorstore provides per-collection vector index handles on top
// of an embedded chromem database.
//
// Collection names embed the owning tenant id, so a handle can only ever
// address one tenant's chunks. Upserts are batched per document and keyed
// by deterministic chunk ids, which makes re-ingestion idempotent.
package vectorstore
