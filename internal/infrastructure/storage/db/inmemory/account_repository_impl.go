package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type accountInmemoryStore struct {
	accounts map[domain.Address]domain.VestingAccount
	locker   *sync.RWMutex
}

type accountRepositoryImpl struct {
	store *accountInmemoryStore
}

// NewVestingAccountRepositoryImpl returns a new inmemory
// VestingAccountRepository implementation.
func NewVestingAccountRepositoryImpl() domain.VestingAccountRepository {
	return &accountRepositoryImpl{&accountInmemoryStore{
		accounts: make(map[domain.Address]domain.VestingAccount),
		locker:   &sync.RWMutex{},
	}}
}

func (r *accountRepositoryImpl) AddVestingAccount(
	_ context.Context, account *domain.VestingAccount,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.accounts[account.Address]; ok {
		return domain.ErrContractAlreadyExists
	}
	r.store.accounts[account.Address] = *account
	return nil
}

func (r *accountRepositoryImpl) GetVestingAccount(
	_ context.Context, addr domain.Address,
) (*domain.VestingAccount, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	account, ok := r.store.accounts[addr]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *accountRepositoryImpl) GetVestingAccountsByOwner(
	_ context.Context, owner domain.Address,
) ([]domain.VestingAccount, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	accounts := make([]domain.VestingAccount, 0)
	for _, a := range r.sorted() {
		if a.Owner == owner {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (r *accountRepositoryImpl) GetAllVestingAccounts(
	_ context.Context, page *domain.Page,
) ([]domain.VestingAccount, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	accounts := r.sorted()
	if page == nil {
		return accounts, nil
	}
	start, end := page.Bounds(len(accounts))
	return accounts[start:end], nil
}

func (r *accountRepositoryImpl) UpdateVestingAccount(
	_ context.Context,
	addr domain.Address,
	updateFn func(a *domain.VestingAccount) (*domain.VestingAccount, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	account, ok := r.store.accounts[addr]
	if !ok {
		return domain.ErrAccountNotFound
	}
	updatedAccount, err := updateFn(&account)
	if err != nil {
		return err
	}
	r.store.accounts[addr] = *updatedAccount
	return nil
}

func (r *accountRepositoryImpl) sorted() []domain.VestingAccount {
	accounts := make([]domain.VestingAccount, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt == accounts[j].CreatedAt {
			return accounts[i].Address < accounts[j].Address
		}
		return accounts[i].CreatedAt < accounts[j].CreatedAt
	})
	return accounts
}
