// Package registry defines the persistence abstraction for tenants and
// collections.
//
// The registry is the source of truth for ownership: every operation that
// names a collection checks `collection.Owner == tenant` before touching
// anything, and a collection owned by another tenant is indistinguishable
// from a missing one (core.ErrNotFoundOrNotOwned). This masking prevents
// cross-tenant existence probing.
//
// Interfaces here decouple callers from the storage backend. The badger
// subpackage provides the BadgerDB implementation; tests use its in-memory
// mode. Records are serialized with the MUS format.
package registry
