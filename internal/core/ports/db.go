package ports

import "github.com/vesting-network/vesting-daemon/internal/core/domain"

// RepoManager gives access to all repositories of the daemon.
type RepoManager interface {
	ContractRepository() domain.ContractRepository
	VestingAccountRepository() domain.VestingAccountRepository
	FactoryRepository() domain.FactoryRepository
	RegistryRepository() domain.RegistryRepository
	AssetWalletRepository() domain.AssetWalletRepository
	TransactionRepository() domain.TransactionRepository

	Close()
}
