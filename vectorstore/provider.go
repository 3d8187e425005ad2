package vectorstore

import (
	"context"

	"github.com/latticeworks/ragd/core"
)

// HandleProvider yields the live vector-store handle for a tenant's
// collection. Implementations route through the resource cache so all
// pipeline code paths share one handle per (tenant, collection) key.
type HandleProvider interface {
	CollectionHandle(ctx context.Context, tenant core.TenantID, id core.CollectionID) (*Handle, error)
}
