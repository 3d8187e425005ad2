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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeworks/ragd/core"
)

func TestTenantSerialization(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		original := &core.Tenant{
			Id:         core.NewTenantID(),
			Name:       "alice",
			SecretHash: []byte{0x01, 0x02, 0x00, 0xff},
			SecretSalt: []byte("sixteen-byte-salt"),
			InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
		}

		restored, err := UnmarshalTenant(MarshalTenant(original))
		require.NoError(t, err)
		assert.Equal(t, original, restored)
	})

	t.Run("binary digest survives string transport", func(t *testing.T) {
		original := &core.Tenant{
			Id:         core.NewTenantID(),
			Name:       "bob",
			SecretHash: []byte{0x00, 0xfe, 0x80, 0x7f},
			SecretSalt: []byte{0xff, 0x00, 0xff},
			InsertedAt: time.UnixMicro(1700000000000000).UTC(),
		}

		restored, err := UnmarshalTenant(MarshalTenant(original))
		require.NoError(t, err)
		assert.Equal(t, original.SecretHash, restored.SecretHash)
		assert.Equal(t, original.SecretSalt, restored.SecretSalt)
	})

	t.Run("truncated bytes", func(t *testing.T) {
		tenant := &core.Tenant{
			Id:         core.NewTenantID(),
			Name:       "carol",
			SecretHash: []byte("hash"),
			SecretSalt: []byte("salt"),
			InsertedAt: time.Now().UTC(),
		}
		bs := MarshalTenant(tenant)

		_, err := UnmarshalTenant(bs[:len(bs)/2])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestCollectionSerialization(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		original := &core.Collection{
			Id:           core.NewCollectionID(),
			Owner:        core.NewTenantID(),
			Name:         "boiler-docs",
			Model:        core.ModelOpenAI,
			EncryptedKey: []byte{0x9a, 0x00, 0x42},
			Documents:    []string{"/data/t/c/a.pdf", "/data/t/c/b.txt"},
			State:        core.StateReady,
			InsertedAt:   time.Now().UTC().Truncate(time.Microsecond),
			UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		}

		restored, err := UnmarshalCollection(MarshalCollection(original))
		require.NoError(t, err)
		assert.Equal(t, original, restored)
	})

	t.Run("empty manifest and key", func(t *testing.T) {
		original := &core.Collection{
			Id:         core.NewCollectionID(),
			Owner:      core.NewTenantID(),
			Name:       "fresh",
			Model:      core.ModelClaude,
			State:      core.StateCreating,
			InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
			UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		}

		restored, err := UnmarshalCollection(MarshalCollection(original))
		require.NoError(t, err)
		assert.Nil(t, restored.EncryptedKey)
		assert.Nil(t, restored.Documents)
		assert.Equal(t, original, restored)
	})

	t.Run("manifest order preserved", func(t *testing.T) {
		original := &core.Collection{
			Id:         core.NewCollectionID(),
			Owner:      core.NewTenantID(),
			Name:       "ordered",
			Model:      core.ModelOpenAI,
			Documents:  []string{"z.txt", "a.txt", "m.txt"},
			State:      core.StateReady,
			InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
			UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		}

		restored, err := UnmarshalCollection(MarshalCollection(original))
		require.NoError(t, err)
		assert.Equal(t, []string{"z.txt", "a.txt", "m.txt"}, restored.Documents)
	})

	t.Run("truncated bytes", func(t *testing.T) {
		collection := &core.Collection{
			Id:         core.NewCollectionID(),
			Owner:      core.NewTenantID(),
			Name:       "broken",
			Model:      core.ModelOpenAI,
			State:      core.StateReady,
			InsertedAt: time.Now().UTC(),
			UpdatedAt:  time.Now().UTC(),
		}
		bs := MarshalCollection(collection)

		_, err := UnmarshalCollection(bs[:3])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
