package domain

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// AccountInit is the initial data of a vesting account. Along with the
// account code it determines the account address, so every field here is
// part of the deterministic derivation.
type AccountInit struct {
	Owner                     Address
	Recipient                 Address
	AssetIssuer               Address
	TotalAmount               decimal.Decimal
	Schedule                  Schedule
	AutoClaim                 bool
	CancelPermission          Permission
	ChangeRecipientPermission Permission
	RegistryAddress           Address
	FactoryAddress            Address
	// ParentAddress is the account this one was split from, NullAddress for
	// accounts created by the factory.
	ParentAddress Address
	SplitIndex    uint8
	MaxSplits     uint8
}

func (i AccountInit) Validate() error {
	for _, addr := range []Address{
		i.Owner, i.Recipient, i.AssetIssuer, i.FactoryAddress,
	} {
		if err := addr.Validate(); err != nil {
			return err
		}
	}
	if !i.RegistryAddress.IsValid() || !i.ParentAddress.IsValid() {
		return ErrInvalidAddress
	}
	if !i.TotalAmount.IsPositive() || !mathutil.IsUint128(i.TotalAmount) {
		return ErrInvalidTotalAmount
	}
	if err := i.Schedule.Validate(); err != nil {
		return err
	}
	if err := i.CancelPermission.Validate(); err != nil {
		return err
	}
	if err := i.ChangeRecipientPermission.Validate(); err != nil {
		return err
	}
	if i.MaxSplits > MaxSplitsCeiling {
		return ErrInvalidAmount
	}
	return nil
}

// Serialize returns the binary initial data used for address derivation.
func (i AccountInit) Serialize() ([]byte, error) {
	return vestingmsg.EncodeAccountState(vestingmsg.AccountState{
		Owner:                     i.Owner.String(),
		Recipient:                 i.Recipient.String(),
		AssetIssuer:               i.AssetIssuer.String(),
		TotalAmount:               mathutil.ToBigInt(i.TotalAmount),
		StartTime:                 i.Schedule.StartTime,
		TotalDuration:             i.Schedule.TotalDuration,
		UnlockPeriod:              i.Schedule.UnlockPeriod,
		CliffDuration:             i.Schedule.CliffDuration,
		AutoClaim:                 i.AutoClaim,
		CancelPermission:          uint8(i.CancelPermission),
		ChangeRecipientPermission: uint8(i.ChangeRecipientPermission),
		Registry:                  i.RegistryAddress.String(),
		Factory:                   i.FactoryAddress.String(),
		Parent:                    i.ParentAddress.String(),
		SplitIndex:                i.SplitIndex,
		MaxSplits:                 i.MaxSplits,
	})
}

// DeserializeAccountInit is the inverse of AccountInit.Serialize.
func DeserializeAccountInit(data []byte) (*AccountInit, error) {
	s, err := vestingmsg.DecodeAccountState(data)
	if err != nil {
		return nil, err
	}
	return &AccountInit{
		Owner:       Address(s.Owner),
		Recipient:   Address(s.Recipient),
		AssetIssuer: Address(s.AssetIssuer),
		TotalAmount: mathutil.FromBigInt(s.TotalAmount),
		Schedule: Schedule{
			StartTime:     s.StartTime,
			TotalDuration: s.TotalDuration,
			UnlockPeriod:  s.UnlockPeriod,
			CliffDuration: s.CliffDuration,
		},
		AutoClaim:                 s.AutoClaim,
		CancelPermission:          Permission(s.CancelPermission),
		ChangeRecipientPermission: Permission(s.ChangeRecipientPermission),
		RegistryAddress:           addressOrNull(s.Registry),
		FactoryAddress:            Address(s.Factory),
		ParentAddress:             addressOrNull(s.Parent),
		SplitIndex:                s.SplitIndex,
		MaxSplits:                 s.MaxSplits,
	}, nil
}

// StateInit returns the deployment data of the account for the given code.
func (i AccountInit) StateInit(code []byte) (*StateInit, error) {
	data, err := i.Serialize()
	if err != nil {
		return nil, err
	}
	return &StateInit{Code: code, Data: data}, nil
}

// Address derives the account address for the given code.
func (i AccountInit) Address(code []byte) (Address, error) {
	init, err := i.StateInit(code)
	if err != nil {
		return "", err
	}
	return init.Address(), nil
}

// VestingAccount holds the state of a single grant.
type VestingAccount struct {
	Address                   Address
	Owner                     Address
	Recipient                 Address
	AssetIssuer               Address
	TotalAmount               decimal.Decimal
	ClaimedAmount             decimal.Decimal
	Schedule                  Schedule
	AutoClaim                 bool
	CancelPermission          Permission
	ChangeRecipientPermission Permission
	Seqno                     uint32
	RegistryAddress           Address
	FactoryAddress            Address
	ParentAddress             Address
	SplitIndex                uint8
	SplitsIssued              uint8
	MaxSplits                 uint8
	// Funded is set once the initial funding forwarded by the factory, or by
	// the parent for a split, has been received.
	Funded bool
	// Code the account was deployed with. Siblings created by a split run
	// the same code.
	Code      []byte
	CreatedAt int64
}

// NewVestingAccount returns the state of a freshly deployed account.
func NewVestingAccount(
	addr Address, init AccountInit, createdAt int64,
) (*VestingAccount, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if err := init.Validate(); err != nil {
		return nil, err
	}
	return &VestingAccount{
		Address:                   addr,
		Owner:                     init.Owner,
		Recipient:                 init.Recipient,
		AssetIssuer:               init.AssetIssuer,
		TotalAmount:               init.TotalAmount,
		ClaimedAmount:             decimal.Zero,
		Schedule:                  init.Schedule,
		AutoClaim:                 init.AutoClaim,
		CancelPermission:          init.CancelPermission,
		ChangeRecipientPermission: init.ChangeRecipientPermission,
		RegistryAddress:           init.RegistryAddress,
		FactoryAddress:            init.FactoryAddress,
		ParentAddress:             init.ParentAddress,
		SplitIndex:                init.SplitIndex,
		MaxSplits:                 init.MaxSplits,
		CreatedAt:                 createdAt,
	}, nil
}

// Unlocked returns the amount unlocked at t.
func (a *VestingAccount) Unlocked(t int64) decimal.Decimal {
	return a.Schedule.Unlocked(t, a.TotalAmount)
}

// Locked returns the amount still locked at t.
func (a *VestingAccount) Locked(t int64) decimal.Decimal {
	return a.Schedule.Locked(t, a.TotalAmount)
}

// Claimable returns the unlocked amount not yet claimed at t.
func (a *VestingAccount) Claimable(t int64) decimal.Decimal {
	return mathutil.SubFloorZero(a.Unlocked(t), a.ClaimedAmount)
}

// Remaining is the balance not yet released to anybody.
func (a *VestingAccount) Remaining() decimal.Decimal {
	return mathutil.SubFloorZero(a.TotalAmount, a.ClaimedAmount)
}

// IsCancelled returns whether the whole amount has been released.
func (a *VestingAccount) IsCancelled() bool {
	return a.ClaimedAmount.GreaterThanOrEqual(a.TotalAmount)
}

func (a *VestingAccount) CanCancel(sender Address) bool {
	return a.CancelPermission.Allows(sender, a.Owner, a.Recipient)
}

func (a *VestingAccount) CanChangeRecipient(sender Address) bool {
	return a.ChangeRecipientPermission.Allows(sender, a.Owner, a.Recipient)
}

func (a *VestingAccount) CanSplitMore() bool {
	return a.SplitsIssued < a.MaxSplits
}

// NotifiesRegistry returns whether owner and recipient changes are
// reported to a registry.
func (a *VestingAccount) NotifiesRegistry() bool {
	return !a.RegistryAddress.IsNull()
}

// Deposit tops up the grant. The first funding forwarded by the factory at
// creation, or by the parent at split time, is already accounted in the
// initial total and only marks the account as funded. Any later deposit,
// including a factory forward for a grant created twice, is credited. It
// returns whether the total changed.
func (a *VestingAccount) Deposit(
	source Address, amount decimal.Decimal,
) (bool, error) {
	if !amount.IsPositive() {
		return false, nil
	}
	if !a.Funded && a.isFunder(source) {
		a.Funded = true
		return false, nil
	}
	total := a.TotalAmount.Add(amount)
	if !mathutil.IsUint128(total) {
		return false, ErrInvalidAmount
	}
	a.TotalAmount = total
	return true, nil
}

func (a *VestingAccount) isFunder(source Address) bool {
	if source == a.FactoryAddress {
		return true
	}
	return !a.ParentAddress.IsNull() && source == a.ParentAddress
}

// Claim releases the whole claimable amount to the recipient.
func (a *VestingAccount) Claim(
	sender Address, now int64,
) (decimal.Decimal, error) {
	if sender != a.Recipient {
		return decimal.Zero, ErrAccessDenied
	}
	return a.claim(now)
}

// ClaimExternal is the replay protected variant of Claim. The message is
// accepted only if seqno matches and validUntil has not elapsed, in which
// case the sequence number is incremented.
func (a *VestingAccount) ClaimExternal(
	seqno, validUntil uint32, now int64,
) (decimal.Decimal, error) {
	if seqno != a.Seqno {
		return decimal.Zero, ErrInvalidSeqno
	}
	if int64(validUntil) < now {
		return decimal.Zero, ErrExpired
	}
	amount, err := a.claim(now)
	if err != nil {
		return decimal.Zero, err
	}
	a.Seqno++
	return amount, nil
}

func (a *VestingAccount) claim(now int64) (decimal.Decimal, error) {
	amount := a.Claimable(now)
	if !amount.IsPositive() {
		return decimal.Zero, ErrNoClaimable
	}
	a.ClaimedAmount = a.ClaimedAmount.Add(amount)
	return amount, nil
}

// Cancel stops the vesting and returns what is left to be sent to the owner.
func (a *VestingAccount) Cancel(sender Address) (decimal.Decimal, error) {
	if !a.CanCancel(sender) {
		return decimal.Zero, ErrAccessDenied
	}
	return a.releaseRemaining()
}

// WithdrawJettons lets the owner take back everything not yet released.
// The destination must be the owner itself.
func (a *VestingAccount) WithdrawJettons(
	sender, to Address,
) (decimal.Decimal, error) {
	if sender != a.Owner || to != a.Owner {
		return decimal.Zero, ErrAccessDenied
	}
	return a.releaseRemaining()
}

func (a *VestingAccount) releaseRemaining() (decimal.Decimal, error) {
	remaining := a.Remaining()
	if !remaining.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	a.ClaimedAmount = a.TotalAmount
	return remaining, nil
}

// ChangeRecipient sets a new recipient and returns the previous one.
func (a *VestingAccount) ChangeRecipient(
	sender, newRecipient Address,
) (Address, error) {
	if !a.CanChangeRecipient(sender) {
		return "", ErrAccessDenied
	}
	if err := newRecipient.Validate(); err != nil {
		return "", ErrInvalidAmount
	}
	old := a.Recipient
	a.Recipient = newRecipient
	return old, nil
}

// UpdateOwner sets a new owner and returns the previous one.
func (a *VestingAccount) UpdateOwner(
	sender, newOwner Address,
) (Address, error) {
	if sender != a.Owner {
		return "", ErrAccessDenied
	}
	if err := newOwner.Validate(); err != nil {
		return "", ErrInvalidAmount
	}
	old := a.Owner
	a.Owner = newOwner
	return old, nil
}

// Relock extends the schedule by extra seconds.
func (a *VestingAccount) Relock(sender Address, extra uint32) error {
	if sender != a.Owner {
		return ErrAccessDenied
	}
	if extra == 0 {
		return ErrInvalidAmount
	}
	duration := uint64(a.Schedule.TotalDuration) + uint64(extra)
	if duration > math.MaxUint32 {
		return ErrInvalidAmount
	}
	a.Schedule.TotalDuration = uint32(duration)
	return nil
}

// Split carves amount out of the grant and returns the initial data of the
// sibling account that must receive it.
func (a *VestingAccount) Split(
	sender Address, amount decimal.Decimal, newOwner, newRecipient Address,
) (*AccountInit, error) {
	if sender != a.Owner {
		return nil, ErrAccessDenied
	}
	if amount.LessThan(MinSplitAmount) ||
		amount.GreaterThanOrEqual(a.TotalAmount) ||
		amount.GreaterThan(a.Remaining()) {
		return nil, ErrInvalidAmount
	}
	if newOwner.Validate() != nil || newRecipient.Validate() != nil {
		return nil, ErrInvalidAmount
	}
	if !a.CanSplitMore() {
		return nil, ErrMaxSplitsReached
	}

	a.TotalAmount = a.TotalAmount.Sub(amount)
	a.SplitsIssued++

	return &AccountInit{
		Owner:                     newOwner,
		Recipient:                 newRecipient,
		AssetIssuer:               a.AssetIssuer,
		TotalAmount:               amount,
		Schedule:                  a.Schedule,
		AutoClaim:                 a.AutoClaim,
		CancelPermission:          a.CancelPermission,
		ChangeRecipientPermission: a.ChangeRecipientPermission,
		RegistryAddress:           a.RegistryAddress,
		FactoryAddress:            a.FactoryAddress,
		ParentAddress:             a.Address,
		SplitIndex:                a.SplitsIssued,
		MaxSplits:                 DefaultMaxSplits,
	}, nil
}

// UpdateMaxSplits raises the split allowance. Values not greater than the
// current one are accepted and ignored, values above the ceiling rejected.
func (a *VestingAccount) UpdateMaxSplits(sender Address, newMax uint32) error {
	if sender != a.Owner {
		return ErrAccessDenied
	}
	if newMax > MaxSplitsCeiling {
		return ErrInvalidAmount
	}
	if newMax <= uint32(a.MaxSplits) {
		return nil
	}
	a.MaxSplits = uint8(newMax)
	return nil
}
