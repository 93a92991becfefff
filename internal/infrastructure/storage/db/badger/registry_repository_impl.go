package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type registryRepositoryImpl struct {
	store *badgerhold.Store
}

// NewRegistryRepositoryImpl returns a badger implementation of
// domain.RegistryRepository.
func NewRegistryRepositoryImpl(store *badgerhold.Store) domain.RegistryRepository {
	return &registryRepositoryImpl{store}
}

func (r *registryRepositoryImpl) AddRegistry(
	_ context.Context, registry *domain.Registry,
) error {
	return insert(r.store, registry.Address.String(), *registry)
}

func (r *registryRepositoryImpl) GetRegistry(
	_ context.Context, addr domain.Address,
) (*domain.Registry, error) {
	var registry domain.Registry
	if err := get(
		r.store, addr.String(), &registry, domain.ErrRegistryNotFound,
	); err != nil {
		return nil, err
	}
	return &registry, nil
}

func (r *registryRepositoryImpl) UpdateRegistry(
	_ context.Context,
	addr domain.Address,
	updateFn func(r *domain.Registry) (*domain.Registry, error),
) error {
	var registry domain.Registry
	return update(
		r.store, addr.String(), &registry, domain.ErrRegistryNotFound,
		func() (interface{}, error) {
			updatedRegistry, err := updateFn(&registry)
			if err != nil {
				return nil, err
			}
			return *updatedRegistry, nil
		},
	)
}
