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


package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/registry"
)

// CreateCollection persists a new collection row and its owner index entry.
func (r *Registry) CreateCollection(ctx context.Context, collection *core.Collection) error {
	if collection != nil && collection.InsertedAt.IsZero() {
		collection.InsertedAt = time.Now().UTC()
		collection.UpdatedAt = collection.InsertedAt
	}
	if err := core.ValidateCollection(collection); err != nil {
		return err
	}

	return r.backend.Update(func(tx *badger.Txn) error {
		if err := tx.Set(makeCollectionKey(collection.Id), registry.MarshalCollection(collection)); err != nil {
			return err
		}
		return tx.Set(makeOwnerIndexKey(collection.Owner, collection.Id), nil)
	})
}

// GetCollection retrieves a collection after the ownership check.
func (r *Registry) GetCollection(ctx context.Context, tenant core.TenantID, id core.CollectionID) (*core.Collection, error) {
	var collection *core.Collection
	err := r.backend.View(func(tx *badger.Txn) error {
		var err error
		collection, err = r.getOwned(tx, tenant, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// getOwned loads a collection row and masks not-found and not-owned into
// the same error.
func (r *Registry) getOwned(tx *badger.Txn, tenant core.TenantID, id core.CollectionID) (*core.Collection, error) {
	item, err := tx.Get(makeCollectionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, core.ErrNotFoundOrNotOwned
	}
	if err != nil {
		return nil, err
	}

	var collection *core.Collection
	err = item.Value(func(val []byte) error {
		collection, err = registry.UnmarshalCollection(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	if collection.Owner != tenant {
		return nil, core.ErrNotFoundOrNotOwned
	}
	return collection, nil
}

// ListCollections returns summaries of the tenant's collections via the
// owner index.
func (r *Registry) ListCollections(ctx context.Context, tenant core.TenantID) ([]core.CollectionSummary, error) {
	prefix := ownerIndexScanPrefix(tenant)
	summaries := []core.CollectionSummary{}

	err := r.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			id := core.CollectionID(key[len(prefix):])

			collection, err := r.getOwned(tx, tenant, id)
			if errors.Is(err, core.ErrNotFoundOrNotOwned) {
				// Stale index entry, skip.
				continue
			}
			if err != nil {
				return err
			}

			summaries = append(summaries, core.CollectionSummary{
				Id:    collection.Id,
				Name:  collection.Name,
				Model: collection.Model,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// AppendDocuments unions paths into the manifest under a read-modify-write
// transaction. Order is preserved; duplicates are dropped.
func (r *Registry) AppendDocuments(ctx context.Context, tenant core.TenantID, id core.CollectionID, paths []string) ([]string, error) {
	var manifest []string

	err := r.backend.Update(func(tx *badger.Txn) error {
		collection, err := r.getOwned(tx, tenant, id)
		if err != nil {
			return err
		}

		for _, path := range paths {
			if !slices.Contains(collection.Documents, path) {
				collection.Documents = append(collection.Documents, path)
			}
		}
		collection.UpdatedAt = time.Now().UTC()
		manifest = collection.Documents

		return tx.Set(makeCollectionKey(id), registry.MarshalCollection(collection))
	})
	if err != nil {
		return nil, err
	}
	return manifest, nil
}

// SetState transitions the collection lifecycle state.
func (r *Registry) SetState(ctx context.Context, tenant core.TenantID, id core.CollectionID, state core.CollectionState) error {
	return r.backend.Update(func(tx *badger.Txn) error {
		collection, err := r.getOwned(tx, tenant, id)
		if err != nil {
			return err
		}
		collection.State = state
		collection.UpdatedAt = time.Now().UTC()
		return tx.Set(makeCollectionKey(id), registry.MarshalCollection(collection))
	})
}

// DeleteCollection removes the metadata row and the owner index entry.
// A row that is already gone reports false without error.
func (r *Registry) DeleteCollection(ctx context.Context, tenant core.TenantID, id core.CollectionID) (bool, error) {
	deleted := false

	err := r.backend.Update(func(tx *badger.Txn) error {
		_, err := r.getOwned(tx, tenant, id)
		if errors.Is(err, core.ErrNotFoundOrNotOwned) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(makeCollectionKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(makeOwnerIndexKey(tenant, id)); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
