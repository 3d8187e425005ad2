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

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTenant() *Tenant {
	return &Tenant{
		Id:         NewTenantID(),
		Name:       "alice",
		SecretHash: []byte("digest"),
		SecretSalt: []byte("salt"),
		InsertedAt: time.Now(),
	}
}

func validCollection() *Collection {
	return &Collection{
		Id:    NewCollectionID(),
		Owner: NewTenantID(),
		Name:  "boiler-docs",
		Model: ModelOpenAI,
		State: StateCreating,
	}
}

func TestValidateTenant(t *testing.T) {
	t.Run("valid tenant", func(t *testing.T) {
		assert.NoError(t, ValidateTenant(validTenant()))
	})

	t.Run("nil tenant", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTenant(nil), ErrInvalidTenant)
	})

	t.Run("missing id", func(t *testing.T) {
		tenant := validTenant()
		tenant.Id = ""
		assert.ErrorIs(t, ValidateTenant(tenant), ErrInvalidTenant)
	})

	t.Run("empty name", func(t *testing.T) {
		tenant := validTenant()
		tenant.Name = ""
		err := ValidateTenant(tenant)
		assert.ErrorIs(t, err, ErrInvalidTenant)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("missing secret digest", func(t *testing.T) {
		tenant := validTenant()
		tenant.SecretHash = nil
		assert.ErrorIs(t, ValidateTenant(tenant), ErrInvalidTenant)

		tenant = validTenant()
		tenant.SecretSalt = nil
		assert.ErrorIs(t, ValidateTenant(tenant), ErrInvalidTenant)
	})
}

func TestValidateCollection(t *testing.T) {
	t.Run("valid collection", func(t *testing.T) {
		assert.NoError(t, ValidateCollection(validCollection()))
	})

	t.Run("nil collection", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCollection(nil), ErrInvalidCollection)
	})

	t.Run("missing id", func(t *testing.T) {
		collection := validCollection()
		collection.Id = ""
		assert.ErrorIs(t, ValidateCollection(collection), ErrInvalidCollection)
	})

	t.Run("missing owner", func(t *testing.T) {
		collection := validCollection()
		collection.Owner = ""
		assert.ErrorIs(t, ValidateCollection(collection), ErrInvalidCollection)
	})

	t.Run("empty name", func(t *testing.T) {
		collection := validCollection()
		collection.Name = ""
		err := ValidateCollection(collection)
		assert.ErrorIs(t, err, ErrInvalidCollection)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("invalid model", func(t *testing.T) {
		collection := validCollection()
		collection.Model = ModelSelector(42)
		err := ValidateCollection(collection)
		assert.ErrorIs(t, err, ErrInvalidCollection)
		assert.ErrorIs(t, err, ErrUnsupportedModel)
	})

	t.Run("empty manifest and key are allowed", func(t *testing.T) {
		collection := validCollection()
		collection.Documents = nil
		collection.EncryptedKey = nil
		assert.NoError(t, ValidateCollection(collection))
	})
}
