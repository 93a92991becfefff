package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type assetWalletRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAssetWalletRepositoryImpl returns a badger implementation of
// domain.AssetWalletRepository.
func NewAssetWalletRepositoryImpl(store *badgerhold.Store) domain.AssetWalletRepository {
	return &assetWalletRepositoryImpl{store}
}

func (r *assetWalletRepositoryImpl) AddAssetWallet(
	_ context.Context, wallet *domain.AssetWallet,
) error {
	return insert(r.store, wallet.Address.String(), *wallet)
}

func (r *assetWalletRepositoryImpl) GetAssetWallet(
	_ context.Context, addr domain.Address,
) (*domain.AssetWallet, error) {
	var wallet domain.AssetWallet
	if err := get(
		r.store, addr.String(), &wallet, domain.ErrAssetWalletNotFound,
	); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *assetWalletRepositoryImpl) UpdateAssetWallet(
	_ context.Context,
	addr domain.Address,
	updateFn func(w *domain.AssetWallet) (*domain.AssetWallet, error),
) error {
	var wallet domain.AssetWallet
	return update(
		r.store, addr.String(), &wallet, domain.ErrAssetWalletNotFound,
		func() (interface{}, error) {
			updatedWallet, err := updateFn(&wallet)
			if err != nil {
				return nil, err
			}
			return *updatedWallet, nil
		},
	)
}
