package core

import (
	"time"

	"github.com/google/uuid"
)

// TenantID uniquely identifies an authenticated tenant.
type TenantID string

// CollectionID uniquely identifies a collection within the registry.
type CollectionID string

// NewTenantID generates a fresh tenant identifier.
func NewTenantID() TenantID {
	return TenantID(uuid.NewString())
}

// NewCollectionID generates a fresh collection identifier.
func NewCollectionID() CollectionID {
	return CollectionID(uuid.NewString())
}

// Tenant is an authenticated user owning zero or more collections.
// Tenants are created at sign-up and are immutable afterwards except
// for secret rotation.
type Tenant struct {
	Id         TenantID
	Name       string
	SecretHash []byte
	SecretSalt []byte
	InsertedAt time.Time
}

// CollectionState tracks the lifecycle of a collection.
// Creating is entered when ingestion starts and exited to Ready only
// after at least one chunk is durably indexed.
type CollectionState int

const (
	// StateCreating means the collection exists but nothing is indexed yet.
	StateCreating CollectionState = iota + 1
	// StateReady means at least one document has been indexed.
	StateReady
	// StateDeleting means teardown has started.
	StateDeleting
)

// Collection is a named, model-bound, document-backed RAG instance
// belonging to exactly one tenant.
type Collection struct {
	Id           CollectionID
	Owner        TenantID
	Name         string
	Model        ModelSelector
	EncryptedKey []byte   // provider API key, encrypted by the vault
	Documents    []string // manifest of ingested source paths, append-only
	State        CollectionState
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// IndexName returns the vector-index collection name for a collection.
// The tenant id is part of the name so one tenant's chunks can never be
// addressed through another tenant's handle.
func IndexName(tenant TenantID, collection CollectionID) string {
	return string(tenant) + "_" + string(collection)
}

// Upload is a raw document supplied by a caller, kept in memory until the
// ingestion pipeline persists it.
type Upload struct {
	Filename string
	Content  []byte
}

// CollectionSummary is the listing projection of a collection.
type CollectionSummary struct {
	Id    CollectionID
	Name  string
	Model ModelSelector
}

// DeleteResult reports the three independent teardown targets of a
// collection delete. Each is attempted even if another fails.
type DeleteResult struct {
	MetadataDeleted bool
	FilesDeleted    bool
	IndexDeleted    bool
}

// AllFailed reports whether none of the teardown targets existed.
func (r DeleteResult) AllFailed() bool {
	return !r.MetadataDeleted && !r.FilesDeleted && !r.IndexDeleted
}
