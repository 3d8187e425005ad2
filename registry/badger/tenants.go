package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/registry"
)

// Registry implements registry.Store on top of a badger Backend.
type Registry struct {
	backend *Backend
	logger  *slog.Logger
}

var _ registry.Store = (*Registry)(nil)

// NewRegistry creates a Registry using the given backend.
//
// Returns the registry.Store interface to enforce abstraction.
func NewRegistry(backend *Backend) (registry.Store, error) {
	return newRegistry(backend)
}

// newRegistry is the internal constructor returning the concrete type.
func newRegistry(backend *Backend) (*Registry, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &Registry{
		backend: backend,
		logger:  slog.Default().With("component", "registry"),
	}, nil
}

// Close closes the underlying backend.
func (r *Registry) Close() error {
	return r.backend.Close()
}

// RegisterTenant creates a tenant with an argon2id secret digest.
func (r *Registry) RegisterTenant(ctx context.Context, name, secret string) (*core.Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", core.ErrEmptyName)
	}

	digest, salt, err := hashSecret(secret)
	if err != nil {
		return nil, err
	}

	tenant := &core.Tenant{
		Id:         core.NewTenantID(),
		Name:       name,
		SecretHash: digest,
		SecretSalt: salt,
		InsertedAt: time.Now().UTC(),
	}
	if err := core.ValidateTenant(tenant); err != nil {
		return nil, err
	}

	err = r.backend.Update(func(tx *badger.Txn) error {
		_, err := tx.Get(makeTenantNameKey(name))
		if err == nil {
			return core.ErrDuplicateName
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := tx.Set(makeTenantKey(tenant.Id), registry.MarshalTenant(tenant)); err != nil {
			return err
		}
		return tx.Set(makeTenantNameKey(name), []byte(tenant.Id))
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("tenant registered", "tenant", tenant.Id, "name", name)
	return tenant, nil
}

// Authenticate verifies a name/secret pair.
func (r *Registry) Authenticate(ctx context.Context, name, secret string) (*core.Tenant, error) {
	var tenant *core.Tenant

	err := r.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTenantNameKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}

		var id core.TenantID
		if err := item.Value(func(val []byte) error {
			id = core.TenantID(val)
			return nil
		}); err != nil {
			return err
		}

		tenant, err = r.getTenant(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !verifySecret(secret, tenant.SecretHash, tenant.SecretSalt) {
		return nil, core.ErrInvalidCredentials
	}
	return tenant, nil
}

// GetTenant retrieves a tenant by id.
func (r *Registry) GetTenant(ctx context.Context, id core.TenantID) (*core.Tenant, error) {
	var tenant *core.Tenant
	err := r.backend.View(func(tx *badger.Txn) error {
		var err error
		tenant, err = r.getTenant(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *Registry) getTenant(tx *badger.Txn, id core.TenantID) (*core.Tenant, error) {
	item, err := tx.Get(makeTenantKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, core.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	var tenant *core.Tenant
	err = item.Value(func(val []byte) error {
		tenant, err = registry.UnmarshalTenant(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}
