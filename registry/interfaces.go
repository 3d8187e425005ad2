package registry

import (
	"context"

	"github.com/latticeworks/ragd/core"
)

// TenantStore provides operations for managing tenants.
// Implementations must be thread-safe and support concurrent access.
type TenantStore interface {
	// RegisterTenant creates a tenant with a hashed secret.
	// Returns core.ErrDuplicateName if the name is taken.
	RegisterTenant(ctx context.Context, name, secret string) (*core.Tenant, error)

	// Authenticate verifies a name/secret pair and returns the tenant.
	// Secret comparison is digest-based and constant-time; plaintext
	// secrets are never stored. Returns core.ErrInvalidCredentials on
	// unknown name or wrong secret, without distinguishing the two.
	Authenticate(ctx context.Context, name, secret string) (*core.Tenant, error)

	// GetTenant retrieves a tenant by id.
	GetTenant(ctx context.Context, id core.TenantID) (*core.Tenant, error)
}

// CollectionStore provides operations for managing collection metadata.
// Every operation that names a collection performs the ownership check
// first; a collection owned by another tenant is reported identically to
// one that does not exist (core.ErrNotFoundOrNotOwned).
type CollectionStore interface {
	// CreateCollection persists a new collection row.
	// Sets InsertedAt if not already set.
	CreateCollection(ctx context.Context, collection *core.Collection) error

	// GetCollection retrieves a collection owned by tenant.
	GetCollection(ctx context.Context, tenant core.TenantID, id core.CollectionID) (*core.Collection, error)

	// ListCollections returns summaries of the tenant's collections.
	ListCollections(ctx context.Context, tenant core.TenantID) ([]core.CollectionSummary, error)

	// AppendDocuments unions paths into the collection manifest.
	// Re-adding an already-present path is a no-op. The update is a
	// read-modify-write under optimistic retry so racing appends on the
	// same collection cannot lose entries. Returns the updated manifest.
	AppendDocuments(ctx context.Context, tenant core.TenantID, id core.CollectionID, paths []string) ([]string, error)

	// SetState transitions the collection lifecycle state.
	SetState(ctx context.Context, tenant core.TenantID, id core.CollectionID, state core.CollectionState) error

	// DeleteCollection removes the metadata row. Returns false without
	// error when the row is already gone, so delete stays idempotent.
	DeleteCollection(ctx context.Context, tenant core.TenantID, id core.CollectionID) (bool, error)
}

// Store combines tenant and collection persistence behind one handle.
type Store interface {
	TenantStore
	CollectionStore

	// Close closes the storage backend and releases resources.
	Close() error
}
