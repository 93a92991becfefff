package vestingmsg

import (
	"fmt"
	"math/big"
)

// Permission flag width in the grant payload.
const permissionBits = 3

// GrantPayload is the forward payload a creator attaches to an asset
// transfer addressed to the factory.
type GrantPayload struct {
	Owner                     string
	Recipient                 string
	AssetIssuer               string
	SourceAssetWallet         string
	StartTime                 uint32
	TotalDuration             uint32
	UnlockPeriod              uint32
	CliffDuration             uint32
	AutoClaim                 bool
	CancelPermission          uint8
	ChangeRecipientPermission uint8
}

// EncodeGrantPayload serializes p. Permissions must fit in 3 bits.
func EncodeGrantPayload(p GrantPayload) ([]byte, error) {
	w := &writer{}
	w.address(p.Owner)
	w.address(p.Recipient)
	w.address(p.AssetIssuer)
	w.address(p.SourceAssetWallet)
	w.uint32(p.StartTime)
	w.uint32(p.TotalDuration)
	w.uint32(p.UnlockPeriod)
	w.uint32(p.CliffDuration)
	flags, err := packFlags(p.AutoClaim, p.CancelPermission, p.ChangeRecipientPermission)
	if err != nil {
		return nil, err
	}
	w.uint8(flags)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// DecodeGrantPayload parses a grant payload. Any deviation from the exact
// layout is an error.
func DecodeGrantPayload(raw []byte) (*GrantPayload, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyBody
	}
	r := newReader(raw)
	p := &GrantPayload{
		Owner:             r.address(),
		Recipient:         r.address(),
		AssetIssuer:       r.address(),
		SourceAssetWallet: r.address(),
		StartTime:         r.uint32(),
		TotalDuration:     r.uint32(),
		UnlockPeriod:      r.uint32(),
		CliffDuration:     r.uint32(),
	}
	p.AutoClaim, p.CancelPermission, p.ChangeRecipientPermission = unpackFlags(r.uint8())
	if err := r.finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// AccountState is the initial data of a vesting account. Together with the
// account code it determines the account address.
type AccountState struct {
	Owner                     string
	Recipient                 string
	AssetIssuer               string
	TotalAmount               *big.Int
	StartTime                 uint32
	TotalDuration             uint32
	UnlockPeriod              uint32
	CliffDuration             uint32
	AutoClaim                 bool
	CancelPermission          uint8
	ChangeRecipientPermission uint8
	Registry                  string
	Factory                   string
	Parent                    string
	SplitIndex                uint8
	MaxSplits                 uint8
}

func EncodeAccountState(s AccountState) ([]byte, error) {
	w := &writer{}
	w.address(s.Owner)
	w.address(s.Recipient)
	w.address(s.AssetIssuer)
	w.coins(s.TotalAmount)
	w.uint32(s.StartTime)
	w.uint32(s.TotalDuration)
	w.uint32(s.UnlockPeriod)
	w.uint32(s.CliffDuration)
	flags, err := packFlags(s.AutoClaim, s.CancelPermission, s.ChangeRecipientPermission)
	if err != nil {
		return nil, err
	}
	w.uint8(flags)
	w.address(s.Registry)
	w.address(s.Factory)
	w.address(s.Parent)
	w.uint8(s.SplitIndex)
	w.uint8(s.MaxSplits)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

func DecodeAccountState(raw []byte) (*AccountState, error) {
	r := newReader(raw)
	s := &AccountState{
		Owner:         r.address(),
		Recipient:     r.address(),
		AssetIssuer:   r.address(),
		TotalAmount:   r.coins(),
		StartTime:     r.uint32(),
		TotalDuration: r.uint32(),
		UnlockPeriod:  r.uint32(),
		CliffDuration: r.uint32(),
	}
	s.AutoClaim, s.CancelPermission, s.ChangeRecipientPermission = unpackFlags(r.uint8())
	s.Registry = r.address()
	s.Factory = r.address()
	s.Parent = r.address()
	s.SplitIndex = r.uint8()
	s.MaxSplits = r.uint8()
	if err := r.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

// RegistryState is the initial data of a registry. DeployTime salts the
// address so that registries with the same owner do not collide.
type RegistryState struct {
	Owner      string
	DeployTime uint32
}

func EncodeRegistryState(s RegistryState) ([]byte, error) {
	w := &writer{}
	w.address(s.Owner)
	w.uint32(s.DeployTime)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

func DecodeRegistryState(raw []byte) (*RegistryState, error) {
	r := newReader(raw)
	s := &RegistryState{
		Owner:      r.address(),
		DeployTime: r.uint32(),
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

// FactoryState is the initial data of a factory.
type FactoryState struct {
	Owner         string
	Registry      string
	RoyaltyFee    uint64
	MinCreateCost uint64
	DeployTime    uint32
	Template      []byte
}

func EncodeFactoryState(s FactoryState) ([]byte, error) {
	w := &writer{}
	w.address(s.Owner)
	w.address(s.Registry)
	w.uint64(s.RoyaltyFee)
	w.uint64(s.MinCreateCost)
	w.uint32(s.DeployTime)
	w.bytes(s.Template)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

func DecodeFactoryState(raw []byte) (*FactoryState, error) {
	r := newReader(raw)
	s := &FactoryState{
		Owner:         r.address(),
		Registry:      r.address(),
		RoyaltyFee:    r.uint64(),
		MinCreateCost: r.uint64(),
		DeployTime:    r.uint32(),
		Template:      r.bytes(),
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

// AssetWalletState is the initial data of the wallet holding Issuer's asset
// on behalf of Holder.
type AssetWalletState struct {
	Issuer string
	Holder string
}

func EncodeAssetWalletState(s AssetWalletState) ([]byte, error) {
	w := &writer{}
	w.address(s.Issuer)
	w.address(s.Holder)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

func DecodeAssetWalletState(raw []byte) (*AssetWalletState, error) {
	r := newReader(raw)
	s := &AssetWalletState{
		Issuer: r.address(),
		Holder: r.address(),
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

// packFlags lays out auto-claim:1 cancel:3 change-recipient:3.
func packFlags(autoClaim bool, cancel, change uint8) (uint8, error) {
	limit := uint8(1<<permissionBits - 1)
	if cancel > limit || change > limit {
		return 0, fmt.Errorf("permission flags must fit in %d bits", permissionBits)
	}
	var flags uint8
	if autoClaim {
		flags = 1 << (2 * permissionBits)
	}
	return flags | cancel<<permissionBits | change, nil
}

func unpackFlags(flags uint8) (bool, uint8, uint8) {
	mask := uint8(1<<permissionBits - 1)
	autoClaim := flags>>(2*permissionBits)&1 == 1
	return autoClaim, flags >> permissionBits & mask, flags & mask
}
