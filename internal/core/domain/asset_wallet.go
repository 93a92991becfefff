package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// AssetWalletInit is the initial data of the wallet holding the asset of
// Issuer on behalf of Holder.
type AssetWalletInit struct {
	Issuer Address
	Holder Address
}

func (i AssetWalletInit) Serialize() ([]byte, error) {
	return vestingmsg.EncodeAssetWalletState(vestingmsg.AssetWalletState{
		Issuer: i.Issuer.String(),
		Holder: i.Holder.String(),
	})
}

func DeserializeAssetWalletInit(data []byte) (*AssetWalletInit, error) {
	s, err := vestingmsg.DecodeAssetWalletState(data)
	if err != nil {
		return nil, err
	}
	return &AssetWalletInit{Address(s.Issuer), Address(s.Holder)}, nil
}

func (i AssetWalletInit) StateInit() (*StateInit, error) {
	data, err := i.Serialize()
	if err != nil {
		return nil, err
	}
	return &StateInit{Code: AssetWalletCode, Data: data}, nil
}

// AssetWalletAddress returns the address of holder's wallet for the asset
// of issuer.
func AssetWalletAddress(issuer, holder Address) (Address, error) {
	init, err := AssetWalletInit{issuer, holder}.StateInit()
	if err != nil {
		return "", err
	}
	return init.Address(), nil
}

// AssetWallet is the balance of one holder for one asset.
type AssetWallet struct {
	Address   Address
	Issuer    Address
	Holder    Address
	Balance   decimal.Decimal
	CreatedAt int64
}

func NewAssetWallet(addr Address, init AssetWalletInit, createdAt int64) (*AssetWallet, error) {
	if err := init.Issuer.Validate(); err != nil {
		return nil, err
	}
	if err := init.Holder.Validate(); err != nil {
		return nil, err
	}
	return &AssetWallet{
		Address:   addr,
		Issuer:    init.Issuer,
		Holder:    init.Holder,
		Balance:   decimal.Zero,
		CreatedAt: createdAt,
	}, nil
}

// Credit adds amount to the balance.
func (w *AssetWallet) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	balance := w.Balance.Add(amount)
	if !mathutil.IsUint128(balance) {
		return ErrInvalidAmount
	}
	w.Balance = balance
	return nil
}

// Debit removes amount from the balance on request of sender, who must be
// the holder.
func (w *AssetWallet) Debit(sender Address, amount decimal.Decimal) error {
	if sender != w.Holder {
		return ErrAccessDenied
	}
	if !amount.IsPositive() || amount.GreaterThan(w.Balance) {
		return ErrInvalidAmount
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// AssetWalletRepository is the abstraction for any kind of database intended
// to persist asset wallets.
type AssetWalletRepository interface {
	AddAssetWallet(ctx context.Context, wallet *AssetWallet) error
	GetAssetWallet(ctx context.Context, addr Address) (*AssetWallet, error)
	UpdateAssetWallet(
		ctx context.Context,
		addr Address, updateFn func(w *AssetWallet) (*AssetWallet, error),
	) error
}
