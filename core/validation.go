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
	"errors"
	"fmt"
)

// Domain validation errors.
var (
	// ErrInvalidTenant indicates a Tenant failed validation.
	ErrInvalidTenant = errors.New("invalid tenant")

	// ErrInvalidCollection indicates a Collection failed validation.
	ErrInvalidCollection = errors.New("invalid collection")

	// ErrEmptyName indicates a required name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")
)

// ValidateTenant validates a Tenant according to domain rules.
//
// Validation rules:
//   - Id must be set
//   - Name must not be empty
//   - SecretHash and SecretSalt must be present
func ValidateTenant(tenant *Tenant) error {
	if tenant == nil {
		return fmt.Errorf("%w: tenant is nil", ErrInvalidTenant)
	}

	if tenant.Id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTenant)
	}

	if tenant.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTenant, ErrEmptyName)
	}

	if len(tenant.SecretHash) == 0 || len(tenant.SecretSalt) == 0 {
		return fmt.Errorf("%w: secret digest is required", ErrInvalidTenant)
	}

	return nil
}

// ValidateCollection validates a Collection according to domain rules.
//
// Validation rules:
//   - Id and Owner must be set
//   - Name must not be empty
//   - Model must be a member of the closed selector enum
//
// NOT validated:
//   - Documents (empty until the first ingest commit)
//   - EncryptedKey (empty for selectors using ambient credentials)
func ValidateCollection(collection *Collection) error {
	if collection == nil {
		return fmt.Errorf("%w: collection is nil", ErrInvalidCollection)
	}

	if collection.Id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidCollection)
	}

	if collection.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidCollection)
	}

	if collection.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCollection, ErrEmptyName)
	}

	if !collection.Model.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidCollection, ErrUnsupportedModel)
	}

	return nil
}
