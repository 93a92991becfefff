package inmemory

import (
	"context"
	"sync"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type factoryInmemoryStore struct {
	factories map[domain.Address]domain.Factory
	locker    *sync.RWMutex
}

type factoryRepositoryImpl struct {
	store *factoryInmemoryStore
}

// NewFactoryRepositoryImpl returns a new inmemory FactoryRepository
// implementation.
func NewFactoryRepositoryImpl() domain.FactoryRepository {
	return &factoryRepositoryImpl{&factoryInmemoryStore{
		factories: make(map[domain.Address]domain.Factory),
		locker:    &sync.RWMutex{},
	}}
}

func (r *factoryRepositoryImpl) AddFactory(
	_ context.Context, factory *domain.Factory,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.factories[factory.Address]; ok {
		return domain.ErrContractAlreadyExists
	}
	r.store.factories[factory.Address] = *factory
	return nil
}

func (r *factoryRepositoryImpl) GetFactory(
	_ context.Context, addr domain.Address,
) (*domain.Factory, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	factory, ok := r.store.factories[addr]
	if !ok {
		return nil, domain.ErrFactoryNotFound
	}
	return &factory, nil
}

func (r *factoryRepositoryImpl) UpdateFactory(
	_ context.Context,
	addr domain.Address,
	updateFn func(f *domain.Factory) (*domain.Factory, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	factory, ok := r.store.factories[addr]
	if !ok {
		return domain.ErrFactoryNotFound
	}
	updatedFactory, err := updateFn(&factory)
	if err != nil {
		return err
	}
	r.store.factories[addr] = *updatedFactory
	return nil
}
