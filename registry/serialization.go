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


package registry

import (
	"fmt"
	"time"

	"github.com/latticeworks/ragd/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Records are serialized with the MUS format. Timestamps are stored as
// Unix microseconds; byte slices ride on the string serializer.

// MarshalTenant serializes a Tenant to bytes.
func MarshalTenant(tenant *core.Tenant) []byte {
	n := ord.String.Size(string(tenant.Id)) +
		ord.String.Size(tenant.Name) +
		ord.String.Size(string(tenant.SecretHash)) +
		ord.String.Size(string(tenant.SecretSalt)) +
		varint.Int64.Size(tenant.InsertedAt.UnixMicro())

	bs := make([]byte, n)
	off := ord.String.Marshal(string(tenant.Id), bs)
	off += ord.String.Marshal(tenant.Name, bs[off:])
	off += ord.String.Marshal(string(tenant.SecretHash), bs[off:])
	off += ord.String.Marshal(string(tenant.SecretSalt), bs[off:])
	varint.Int64.Marshal(tenant.InsertedAt.UnixMicro(), bs[off:])
	return bs
}

// UnmarshalTenant deserializes a Tenant from bytes.
func UnmarshalTenant(bs []byte) (*core.Tenant, error) {
	var tenant core.Tenant
	off := 0

	id, n, err := ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: tenant id: %w", ErrSerializationFailed, err)
	}
	off += n
	tenant.Id = core.TenantID(id)

	tenant.Name, n, err = ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: tenant name: %w", ErrSerializationFailed, err)
	}
	off += n

	hash, n, err := ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: secret hash: %w", ErrSerializationFailed, err)
	}
	off += n
	tenant.SecretHash = []byte(hash)

	salt, n, err := ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: secret salt: %w", ErrSerializationFailed, err)
	}
	off += n
	tenant.SecretSalt = []byte(salt)

	micros, _, err := varint.Int64.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	tenant.InsertedAt = time.UnixMicro(micros).UTC()

	return &tenant, nil
}

// MarshalCollection serializes a Collection to bytes.
func MarshalCollection(collection *core.Collection) []byte {
	n := ord.String.Size(string(collection.Id)) +
		ord.String.Size(string(collection.Owner)) +
		ord.String.Size(collection.Name) +
		varint.Int.Size(int(collection.Model)) +
		ord.String.Size(string(collection.EncryptedKey)) +
		varint.Int.Size(len(collection.Documents)) +
		varint.Int.Size(int(collection.State)) +
		varint.Int64.Size(collection.InsertedAt.UnixMicro()) +
		varint.Int64.Size(collection.UpdatedAt.UnixMicro())
	for _, doc := range collection.Documents {
		n += ord.String.Size(doc)
	}

	bs := make([]byte, n)
	off := ord.String.Marshal(string(collection.Id), bs)
	off += ord.String.Marshal(string(collection.Owner), bs[off:])
	off += ord.String.Marshal(collection.Name, bs[off:])
	off += varint.Int.Marshal(int(collection.Model), bs[off:])
	off += ord.String.Marshal(string(collection.EncryptedKey), bs[off:])
	off += varint.Int.Marshal(len(collection.Documents), bs[off:])
	for _, doc := range collection.Documents {
		off += ord.String.Marshal(doc, bs[off:])
	}
	off += varint.Int.Marshal(int(collection.State), bs[off:])
	off += varint.Int64.Marshal(collection.InsertedAt.UnixMicro(), bs[off:])
	varint.Int64.Marshal(collection.UpdatedAt.UnixMicro(), bs[off:])
	return bs
}

// UnmarshalCollection deserializes a Collection from bytes.
func UnmarshalCollection(bs []byte) (*core.Collection, error) {
	var collection core.Collection
	off := 0

	id, n, err := ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: collection id: %w", ErrSerializationFailed, err)
	}
	off += n
	collection.Id = core.CollectionID(id)

	owner, n, err := ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: owner: %w", ErrSerializationFailed, err)
	}
	off += n
	collection.Owner = core.TenantID(owner)

	collection.Name, n, err = ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: name: %w", ErrSerializationFailed, err)
	}
	off += n

	model, n, err := varint.Int.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: model: %w", ErrSerializationFailed, err)
	}
	off += n
	collection.Model = core.ModelSelector(model)

	key, n, err := ord.String.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: encrypted key: %w", ErrSerializationFailed, err)
	}
	off += n
	if key != "" {
		collection.EncryptedKey = []byte(key)
	}

	docCount, n, err := varint.Int.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: manifest length: %w", ErrSerializationFailed, err)
	}
	off += n
	if docCount > 0 {
		collection.Documents = make([]string, docCount)
		for i := 0; i < docCount; i++ {
			collection.Documents[i], n, err = ord.String.Unmarshal(bs[off:])
			if err != nil {
				return nil, fmt.Errorf("%w: manifest entry %d: %w", ErrSerializationFailed, i, err)
			}
			off += n
		}
	}

	state, n, err := varint.Int.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: state: %w", ErrSerializationFailed, err)
	}
	off += n
	collection.State = core.CollectionState(state)

	inserted, n, err := varint.Int64.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	off += n
	collection.InsertedAt = time.UnixMicro(inserted).UTC()

	updated, _, err := varint.Int64.Unmarshal(bs[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: updated at: %w", ErrSerializationFailed, err)
	}
	collection.UpdatedAt = time.UnixMicro(updated).UTC()

	return &collection, nil
}
