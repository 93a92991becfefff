package inmemory

import (
	"context"
	"sync"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type assetWalletInmemoryStore struct {
	wallets map[domain.Address]domain.AssetWallet
	locker  *sync.RWMutex
}

type assetWalletRepositoryImpl struct {
	store *assetWalletInmemoryStore
}

// NewAssetWalletRepositoryImpl returns a new inmemory AssetWalletRepository
// implementation.
func NewAssetWalletRepositoryImpl() domain.AssetWalletRepository {
	return &assetWalletRepositoryImpl{&assetWalletInmemoryStore{
		wallets: make(map[domain.Address]domain.AssetWallet),
		locker:  &sync.RWMutex{},
	}}
}

func (r *assetWalletRepositoryImpl) AddAssetWallet(
	_ context.Context, wallet *domain.AssetWallet,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.wallets[wallet.Address]; ok {
		return domain.ErrContractAlreadyExists
	}
	r.store.wallets[wallet.Address] = *wallet
	return nil
}

func (r *assetWalletRepositoryImpl) GetAssetWallet(
	_ context.Context, addr domain.Address,
) (*domain.AssetWallet, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	wallet, ok := r.store.wallets[addr]
	if !ok {
		return nil, domain.ErrAssetWalletNotFound
	}
	return &wallet, nil
}

func (r *assetWalletRepositoryImpl) UpdateAssetWallet(
	_ context.Context,
	addr domain.Address,
	updateFn func(w *domain.AssetWallet) (*domain.AssetWallet, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	wallet, ok := r.store.wallets[addr]
	if !ok {
		return domain.ErrAssetWalletNotFound
	}
	updatedWallet, err := updateFn(&wallet)
	if err != nil {
		return err
	}
	r.store.wallets[addr] = *updatedWallet
	return nil
}
