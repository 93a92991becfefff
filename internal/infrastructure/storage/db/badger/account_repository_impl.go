package dbbadger

import (
	"context"
	"sort"

	"github.com/timshannon/badgerhold/v4"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewVestingAccountRepositoryImpl returns a badger implementation of
// domain.VestingAccountRepository.
func NewVestingAccountRepositoryImpl(
	store *badgerhold.Store,
) domain.VestingAccountRepository {
	return &accountRepositoryImpl{store}
}

func (r *accountRepositoryImpl) AddVestingAccount(
	_ context.Context, account *domain.VestingAccount,
) error {
	return insert(r.store, account.Address.String(), *account)
}

func (r *accountRepositoryImpl) GetVestingAccount(
	_ context.Context, addr domain.Address,
) (*domain.VestingAccount, error) {
	var account domain.VestingAccount
	if err := get(
		r.store, addr.String(), &account, domain.ErrAccountNotFound,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepositoryImpl) GetVestingAccountsByOwner(
	_ context.Context, owner domain.Address,
) ([]domain.VestingAccount, error) {
	return r.findAccounts(badgerhold.Where("Owner").Eq(owner), nil)
}

func (r *accountRepositoryImpl) GetAllVestingAccounts(
	_ context.Context, page *domain.Page,
) ([]domain.VestingAccount, error) {
	return r.findAccounts(nil, page)
}

func (r *accountRepositoryImpl) UpdateVestingAccount(
	_ context.Context,
	addr domain.Address,
	updateFn func(a *domain.VestingAccount) (*domain.VestingAccount, error),
) error {
	var account domain.VestingAccount
	return update(
		r.store, addr.String(), &account, domain.ErrAccountNotFound,
		func() (interface{}, error) {
			updatedAccount, err := updateFn(&account)
			if err != nil {
				return nil, err
			}
			return *updatedAccount, nil
		},
	)
}

func (r *accountRepositoryImpl) findAccounts(
	query *badgerhold.Query, page *domain.Page,
) ([]domain.VestingAccount, error) {
	var accounts []domain.VestingAccount
	if err := r.store.Find(&accounts, query); err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt == accounts[j].CreatedAt {
			return accounts[i].Address < accounts[j].Address
		}
		return accounts[i].CreatedAt < accounts[j].CreatedAt
	})
	if page == nil {
		return accounts, nil
	}
	start, end := page.Bounds(len(accounts))
	return accounts[start:end], nil
}
