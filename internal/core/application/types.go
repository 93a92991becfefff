package application

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

// DeployFactoryReq are the initial settings of a factory. Nil fees are
// replaced by the daemon defaults.
type DeployFactoryReq struct {
	Owner         domain.Address
	Registry      domain.Address
	RoyaltyFee    *uint64
	MinCreateCost *uint64
	Template      []byte
}

func (r DeployFactoryReq) Validate() error {
	return validation.ValidateStruct(
		&r,
		validation.Field(&r.Owner, validation.Required, validation.By(validateAddress)),
		validation.Field(&r.Registry, validation.By(validateOptionalAddress)),
	)
}

type DeployRegistryReq struct {
	Owner domain.Address
}

func (r DeployRegistryReq) Validate() error {
	return validation.ValidateStruct(
		&r,
		validation.Field(&r.Owner, validation.Required, validation.By(validateAddress)),
	)
}

type MintReq struct {
	Issuer domain.Address
	Holder domain.Address
	Amount decimal.Decimal
}

func (r MintReq) Validate() error {
	if err := validation.ValidateStruct(
		&r,
		validation.Field(&r.Issuer, validation.Required, validation.By(validateAddress)),
		validation.Field(&r.Holder, validation.Required, validation.By(validateAddress)),
	); err != nil {
		return err
	}
	if !r.Amount.IsPositive() || !r.Amount.Equal(r.Amount.Truncate(0)) {
		return fmt.Errorf("amount must be a positive integer")
	}
	return nil
}

// DeployResult tells where a contract has been deployed and the id of the
// message that triggered the deployment.
type DeployResult struct {
	Address   domain.Address
	MessageID string
}

// FactoryInfo is the state of a factory along with its derived stats.
type FactoryInfo struct {
	domain.Factory
	RoyaltyBalance uint64
	TemplateHash   string
}

// AccountInfo is the state of a vesting account along with the values of
// its getters at a given time.
type AccountInfo struct {
	domain.VestingAccount
	At             int64
	Locked         decimal.Decimal
	Unlocked       decimal.Decimal
	Claimable      decimal.Decimal
	CanSplitMore   bool
	MinSplitAmount decimal.Decimal
	// Only set if a sender is given.
	CanCancel          *bool
	CanChangeRecipient *bool
}

// RegistryInfo is the summary of a registry, without its indexes.
type RegistryInfo struct {
	Address      domain.Address
	Owner        domain.Address
	DeployTime   uint32
	TotalWallets uint32
	MaxWallets   uint32
	CreatedAt    int64
}

func validateAddress(v interface{}) error {
	addr, ok := v.(domain.Address)
	if !ok {
		return fmt.Errorf("must be an address")
	}
	return addr.Validate()
}

func validateOptionalAddress(v interface{}) error {
	addr, ok := v.(domain.Address)
	if !ok {
		return fmt.Errorf("must be an address")
	}
	if addr == "" || addr.IsValid() {
		return nil
	}
	return domain.ErrInvalidAddress
}
