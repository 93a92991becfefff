package domain

import "context"

// RegistryRepository is the abstraction for any kind of database intended
// to persist registries.
type RegistryRepository interface {
	// AddRegistry adds a new registry to the repository.
	AddRegistry(ctx context.Context, registry *Registry) error
	// GetRegistry returns the registry deployed at addr.
	GetRegistry(ctx context.Context, addr Address) (*Registry, error)
	// UpdateRegistry updates the state of a registry in a transactional way.
	UpdateRegistry(
		ctx context.Context,
		addr Address, updateFn func(r *Registry) (*Registry, error),
	) error
}
