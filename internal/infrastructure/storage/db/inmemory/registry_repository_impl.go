package inmemory

import (
	"context"
	"sync"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type registryInmemoryStore struct {
	registries map[domain.Address]domain.Registry
	locker     *sync.RWMutex
}

type registryRepositoryImpl struct {
	store *registryInmemoryStore
}

// NewRegistryRepositoryImpl returns a new inmemory RegistryRepository
// implementation. Registries are deep copied in and out of the store since
// they hold maps.
func NewRegistryRepositoryImpl() domain.RegistryRepository {
	return &registryRepositoryImpl{&registryInmemoryStore{
		registries: make(map[domain.Address]domain.Registry),
		locker:     &sync.RWMutex{},
	}}
}

func (r *registryRepositoryImpl) AddRegistry(
	_ context.Context, registry *domain.Registry,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.registries[registry.Address]; ok {
		return domain.ErrContractAlreadyExists
	}
	r.store.registries[registry.Address] = registry.Clone()
	return nil
}

func (r *registryRepositoryImpl) GetRegistry(
	_ context.Context, addr domain.Address,
) (*domain.Registry, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	registry, ok := r.store.registries[addr]
	if !ok {
		return nil, domain.ErrRegistryNotFound
	}
	clone := registry.Clone()
	return &clone, nil
}

func (r *registryRepositoryImpl) UpdateRegistry(
	_ context.Context,
	addr domain.Address,
	updateFn func(r *domain.Registry) (*domain.Registry, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	registry, ok := r.store.registries[addr]
	if !ok {
		return domain.ErrRegistryNotFound
	}
	clone := registry.Clone()
	updatedRegistry, err := updateFn(&clone)
	if err != nil {
		return err
	}
	r.store.registries[addr] = *updatedRegistry
	return nil
}
