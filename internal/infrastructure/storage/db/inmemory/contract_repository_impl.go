package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type contractInmemoryStore struct {
	contracts map[domain.Address]domain.Contract
	locker    *sync.RWMutex
}

type contractRepositoryImpl struct {
	store *contractInmemoryStore
}

// NewContractRepositoryImpl returns a new inmemory ContractRepository
// implementation.
func NewContractRepositoryImpl() domain.ContractRepository {
	return &contractRepositoryImpl{&contractInmemoryStore{
		contracts: make(map[domain.Address]domain.Contract),
		locker:    &sync.RWMutex{},
	}}
}

func (r *contractRepositoryImpl) AddContract(
	_ context.Context, contract domain.Contract,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.contracts[contract.Address]; ok {
		return domain.ErrContractAlreadyExists
	}
	r.store.contracts[contract.Address] = contract
	return nil
}

func (r *contractRepositoryImpl) GetContract(
	_ context.Context, addr domain.Address,
) (*domain.Contract, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	contract, ok := r.store.contracts[addr]
	if !ok {
		return nil, domain.ErrContractNotFound
	}
	return &contract, nil
}

func (r *contractRepositoryImpl) GetContractsByKind(
	_ context.Context, kind domain.ContractKind,
) ([]domain.Contract, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	contracts := make([]domain.Contract, 0)
	for _, c := range r.store.contracts {
		if c.Kind == kind {
			contracts = append(contracts, c)
		}
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Address < contracts[j].Address
	})
	return contracts, nil
}
