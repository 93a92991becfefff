package inmemory

import (
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
)

type RepoManager struct {
	contractRepository    domain.ContractRepository
	accountRepository     domain.VestingAccountRepository
	factoryRepository     domain.FactoryRepository
	registryRepository    domain.RegistryRepository
	assetWalletRepository domain.AssetWalletRepository
	transactionRepository domain.TransactionRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		contractRepository:    NewContractRepositoryImpl(),
		accountRepository:     NewVestingAccountRepositoryImpl(),
		factoryRepository:     NewFactoryRepositoryImpl(),
		registryRepository:    NewRegistryRepositoryImpl(),
		assetWalletRepository: NewAssetWalletRepositoryImpl(),
		transactionRepository: NewTransactionRepositoryImpl(),
	}
}

func (d *RepoManager) ContractRepository() domain.ContractRepository {
	return d.contractRepository
}

func (d *RepoManager) VestingAccountRepository() domain.VestingAccountRepository {
	return d.accountRepository
}

func (d *RepoManager) FactoryRepository() domain.FactoryRepository {
	return d.factoryRepository
}

func (d *RepoManager) RegistryRepository() domain.RegistryRepository {
	return d.registryRepository
}

func (d *RepoManager) AssetWalletRepository() domain.AssetWalletRepository {
	return d.assetWalletRepository
}

func (d *RepoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *RepoManager) Close() {}
