package badger

import "github.com/latticeworks/ragd/core"

// Key prefixes for different record types.
const (
	tenantPrefix     = "tenrec"
	tenantNamePrefix = "tenname"
	collectionPrefix = "colrec"
	ownerIndexPrefix = "colown"
)

// makeTenantKey generates a key for a tenant record by id.
func makeTenantKey(id core.TenantID) []byte {
	return []byte(tenantPrefix + ":" + string(id))
}

// makeTenantNameKey generates the unique-name index key for a tenant.
func makeTenantNameKey(name string) []byte {
	return []byte(tenantNamePrefix + ":" + name)
}

// makeCollectionKey generates a key for a collection record by id.
func makeCollectionKey(id core.CollectionID) []byte {
	return []byte(collectionPrefix + ":" + string(id))
}

// makeOwnerIndexKey generates the composite owner index key.
// Format: prefix:tenant:collection
func makeOwnerIndexKey(tenant core.TenantID, id core.CollectionID) []byte {
	return []byte(ownerIndexPrefix + ":" + string(tenant) + ":" + string(id))
}

// ownerIndexScanPrefix is the iteration prefix for one tenant's collections.
func ownerIndexScanPrefix(tenant core.TenantID) []byte {
	return []byte(ownerIndexPrefix + ":" + string(tenant) + ":")
}
