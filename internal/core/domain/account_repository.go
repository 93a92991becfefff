package domain

import "context"

// VestingAccountRepository is the abstraction for any kind of database
// intended to persist vesting accounts.
type VestingAccountRepository interface {
	// AddVestingAccount adds a new account to the repository.
	AddVestingAccount(ctx context.Context, account *VestingAccount) error
	// GetVestingAccount returns the account deployed at addr.
	GetVestingAccount(ctx context.Context, addr Address) (*VestingAccount, error)
	// GetVestingAccountsByOwner returns all accounts currently owned by owner.
	GetVestingAccountsByOwner(
		ctx context.Context, owner Address,
	) ([]VestingAccount, error)
	// GetAllVestingAccounts returns all accounts.
	GetAllVestingAccounts(ctx context.Context, page *Page) ([]VestingAccount, error)
	// UpdateVestingAccount updates the state of an account. The closure
	// function let's commit multiple changes to a certain account in a
	// transactional way. Nothing is persisted if the closure errors.
	UpdateVestingAccount(
		ctx context.Context,
		addr Address, updateFn func(a *VestingAccount) (*VestingAccount, error),
	) error
}
