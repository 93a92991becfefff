package dbbadger

import (
	"context"
	"sort"

	"github.com/timshannon/badgerhold/v4"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type contractRepositoryImpl struct {
	store *badgerhold.Store
}

// NewContractRepositoryImpl returns a badger implementation of
// domain.ContractRepository.
func NewContractRepositoryImpl(store *badgerhold.Store) domain.ContractRepository {
	return &contractRepositoryImpl{store}
}

func (r *contractRepositoryImpl) AddContract(
	_ context.Context, contract domain.Contract,
) error {
	return insert(r.store, contract.Address.String(), contract)
}

func (r *contractRepositoryImpl) GetContract(
	_ context.Context, addr domain.Address,
) (*domain.Contract, error) {
	var contract domain.Contract
	if err := get(
		r.store, addr.String(), &contract, domain.ErrContractNotFound,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepositoryImpl) GetContractsByKind(
	_ context.Context, kind domain.ContractKind,
) ([]domain.Contract, error) {
	var contracts []domain.Contract
	query := badgerhold.Where("Kind").Eq(kind)
	if err := r.store.Find(&contracts, query); err != nil {
		return nil, err
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Address < contracts[j].Address
	})
	return contracts, nil
}
