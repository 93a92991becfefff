package domain

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shopspring/decimal"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// GrantParams are the parameters of a grant requested to the factory.
type GrantParams struct {
	Owner                     Address
	Recipient                 Address
	AssetIssuer               Address
	TotalAmount               decimal.Decimal
	Schedule                  Schedule
	AutoClaim                 bool
	CancelPermission          Permission
	ChangeRecipientPermission Permission
}

// FactoryInit is the initial data of a factory.
type FactoryInit struct {
	Owner         Address
	Registry      Address
	RoyaltyFee    uint64
	MinCreateCost uint64
	DeployTime    uint32
	Template      []byte
}

func (i FactoryInit) Validate() error {
	if err := i.Owner.Validate(); err != nil {
		return err
	}
	if !i.Registry.IsValid() {
		return ErrInvalidAddress
	}
	if len(i.Template) <= 0 {
		return ErrEmptyTemplate
	}
	if isBuiltinCode(i.Template) {
		return ErrInvalidTemplate
	}
	return nil
}

func (i FactoryInit) Serialize() ([]byte, error) {
	return vestingmsg.EncodeFactoryState(vestingmsg.FactoryState{
		Owner:         i.Owner.String(),
		Registry:      i.Registry.String(),
		RoyaltyFee:    i.RoyaltyFee,
		MinCreateCost: i.MinCreateCost,
		DeployTime:    i.DeployTime,
		Template:      i.Template,
	})
}

func DeserializeFactoryInit(data []byte) (*FactoryInit, error) {
	s, err := vestingmsg.DecodeFactoryState(data)
	if err != nil {
		return nil, err
	}
	return &FactoryInit{
		Owner:         Address(s.Owner),
		Registry:      addressOrNull(s.Registry),
		RoyaltyFee:    s.RoyaltyFee,
		MinCreateCost: s.MinCreateCost,
		DeployTime:    s.DeployTime,
		Template:      s.Template,
	}, nil
}

func (i FactoryInit) StateInit() (*StateInit, error) {
	data, err := i.Serialize()
	if err != nil {
		return nil, err
	}
	return &StateInit{Code: FactoryCode, Data: data}, nil
}

// Factory deploys vesting accounts and collects a flat royalty per grant.
type Factory struct {
	Address          Address
	Owner            Address
	Registry         Address
	Template         []byte
	RoyaltyFee       uint64
	MinCreateCost    uint64
	WalletsCreated   uint64
	RoyaltyCollected uint64
	RoyaltyWithdrawn uint64
	DeployTime       uint32
	CreatedAt        int64
}

func NewFactory(addr Address, init FactoryInit, createdAt int64) (*Factory, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if err := init.Validate(); err != nil {
		return nil, err
	}
	return &Factory{
		Address:       addr,
		Owner:         init.Owner,
		Registry:      init.Registry,
		Template:      init.Template,
		RoyaltyFee:    init.RoyaltyFee,
		MinCreateCost: init.MinCreateCost,
		DeployTime:    init.DeployTime,
		CreatedAt:     createdAt,
	}, nil
}

// AccountInit returns the initial data of the account the factory deploys
// for the given grant.
func (f *Factory) AccountInit(params GrantParams) AccountInit {
	return AccountInit{
		Owner:                     params.Owner,
		Recipient:                 params.Recipient,
		AssetIssuer:               params.AssetIssuer,
		TotalAmount:               params.TotalAmount,
		Schedule:                  params.Schedule,
		AutoClaim:                 params.AutoClaim,
		CancelPermission:          params.CancelPermission,
		ChangeRecipientPermission: params.ChangeRecipientPermission,
		RegistryAddress:           f.Registry,
		FactoryAddress:            f.Address,
		ParentAddress:             NullAddress,
		MaxSplits:                 DefaultMaxSplits,
	}
}

// WalletAddress derives the address of the account for the given grant with
// the current template. Identical params always give the same address.
func (f *Factory) WalletAddress(params GrantParams) (Address, error) {
	init := f.AccountInit(params)
	if err := init.Validate(); err != nil {
		return "", err
	}
	return init.Address(f.Template)
}

// Create accounts for a new grant paid with value native units. The
// returned init data is what the new account must be deployed with.
func (f *Factory) Create(params GrantParams, value uint64) (*AccountInit, error) {
	init := f.AccountInit(params)
	if err := init.Validate(); err != nil {
		return nil, err
	}
	cost, ok := mathutil.PlusFee(f.MinCreateCost, f.RoyaltyFee)
	if !ok || value < cost {
		return nil, ErrInvalidAmount
	}
	collected, ok := mathutil.PlusFee(f.RoyaltyCollected, f.RoyaltyFee)
	if !ok {
		return nil, ErrInvalidAmount
	}
	f.WalletsCreated++
	f.RoyaltyCollected = collected
	return &init, nil
}

// RoyaltyBalance is the royalty collected and not yet withdrawn.
func (f *Factory) RoyaltyBalance() uint64 {
	return f.RoyaltyCollected - f.RoyaltyWithdrawn
}

// TemplateHash identifies the current account template.
func (f *Factory) TemplateHash() string {
	return hex.EncodeToString(chainhash.HashB(f.Template))
}

// NotifiesRegistry returns whether created accounts are registered.
func (f *Factory) NotifiesRegistry() bool {
	return !f.Registry.IsNull()
}

// CheckOwner fails with ErrAccessDenied unless sender is the owner.
func (f *Factory) CheckOwner(sender Address) error {
	if sender != f.Owner {
		return ErrAccessDenied
	}
	return nil
}

func (f *Factory) ChangeOwner(sender, newOwner Address) error {
	if err := f.CheckOwner(sender); err != nil {
		return err
	}
	if newOwner.Validate() != nil {
		return ErrInvalidAmount
	}
	f.Owner = newOwner
	return nil
}

func (f *Factory) ChangeRoyaltyFee(sender Address, fee uint64) error {
	if err := f.CheckOwner(sender); err != nil {
		return err
	}
	f.RoyaltyFee = fee
	return nil
}

// SetRegistry changes the registry new accounts are bound to. The null
// address disables registration.
func (f *Factory) SetRegistry(sender, registry Address) error {
	if err := f.CheckOwner(sender); err != nil {
		return err
	}
	if !registry.IsValid() {
		return ErrInvalidAmount
	}
	f.Registry = registry
	return nil
}

// UpdateTemplate replaces the code of accounts deployed from now on.
// Existing accounts keep theirs.
func (f *Factory) UpdateTemplate(sender Address, code []byte) error {
	if err := f.CheckOwner(sender); err != nil {
		return err
	}
	if len(code) <= 0 || isBuiltinCode(code) {
		return ErrInvalidAmount
	}
	f.Template = append([]byte{}, code...)
	return nil
}

// WithdrawRoyalty takes amount out of the royalty balance, or all of it if
// amount is zero.
func (f *Factory) WithdrawRoyalty(sender Address, amount uint64) (uint64, error) {
	if err := f.CheckOwner(sender); err != nil {
		return 0, err
	}
	balance := f.RoyaltyBalance()
	if amount == 0 {
		amount = balance
	}
	if amount == 0 || amount > balance {
		return 0, ErrInvalidAmount
	}
	f.RoyaltyWithdrawn += amount
	return amount, nil
}

// FactoryRepository is the abstraction for any kind of database intended to
// persist factories.
type FactoryRepository interface {
	// AddFactory adds a new factory to the repository.
	AddFactory(ctx context.Context, factory *Factory) error
	// GetFactory returns the factory deployed at addr.
	GetFactory(ctx context.Context, addr Address) (*Factory, error)
	// UpdateFactory updates the state of a factory in a transactional way.
	UpdateFactory(
		ctx context.Context,
		addr Address, updateFn func(f *Factory) (*Factory, error),
	) error
}

// isBuiltinCode returns whether code is the one of a non-account contract.
func isBuiltinCode(code []byte) bool {
	for _, c := range [][]byte{FactoryCode, RegistryCode, AssetWalletCode} {
		if bytes.Equal(code, c) {
			return true
		}
	}
	return false
}
