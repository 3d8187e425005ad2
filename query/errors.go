package query

import "errors"

var (
	// ErrRegistryRequired is returned when a registry store is not provided.
	ErrRegistryRequired = errors.New("registry store required")

	// ErrVaultRequired is returned when a credential vault is not provided.
	ErrVaultRequired = errors.New("credential vault required")

	// ErrHandleProviderRequired is returned when a vector handle provider is not provided.
	ErrHandleProviderRequired = errors.New("vector handle provider required")

	// ErrGeneratorFactoryRequired is returned when no generator factory is provided.
	ErrGeneratorFactoryRequired = errors.New("generator factory required")
)
