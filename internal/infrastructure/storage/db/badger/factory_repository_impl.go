package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type factoryRepositoryImpl struct {
	store *badgerhold.Store
}

// NewFactoryRepositoryImpl returns a badger implementation of
// domain.FactoryRepository.
func NewFactoryRepositoryImpl(store *badgerhold.Store) domain.FactoryRepository {
	return &factoryRepositoryImpl{store}
}

func (r *factoryRepositoryImpl) AddFactory(
	_ context.Context, factory *domain.Factory,
) error {
	return insert(r.store, factory.Address.String(), *factory)
}

func (r *factoryRepositoryImpl) GetFactory(
	_ context.Context, addr domain.Address,
) (*domain.Factory, error) {
	var factory domain.Factory
	if err := get(
		r.store, addr.String(), &factory, domain.ErrFactoryNotFound,
	); err != nil {
		return nil, err
	}
	return &factory, nil
}

func (r *factoryRepositoryImpl) UpdateFactory(
	_ context.Context,
	addr domain.Address,
	updateFn func(f *domain.Factory) (*domain.Factory, error),
) error {
	var factory domain.Factory
	return update(
		r.store, addr.String(), &factory, domain.ErrFactoryNotFound,
		func() (interface{}, error) {
			updatedFactory, err := updateFn(&factory)
			if err != nil {
				return nil, err
			}
			return *updatedFactory, nil
		},
	)
}
