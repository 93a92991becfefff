package vestingmsg

import "math/big"

var accountOps = opTable{
	OpTransferNotification: func() Body { return &TransferNotification{} },
	OpWithdrawJettons:      func() Body { return &WithdrawJettons{} },
	OpClaimUnlocked:        func() Body { return &ClaimUnlocked{} },
	OpCancelVesting:        func() Body { return &CancelVesting{} },
	OpChangeRecipient:      func() Body { return &ChangeRecipient{} },
	OpUpdateOwner:          func() Body { return &UpdateOwner{} },
	OpRelock:               func() Body { return &Relock{} },
	OpSplitVesting:         func() Body { return &SplitVesting{} },
	OpUpdateMaxSplits:      func() Body { return &UpdateMaxSplits{} },
}

// DecodeAccountBody decodes a body addressed to a vesting account.
func DecodeAccountBody(raw []byte) (Header, Body, error) {
	return decodeWith(raw, accountOps)
}

// DecodeAccountExternal decodes a sequence-number gated external message
// addressed to a vesting account.
func DecodeAccountExternal(raw []byte) (ExternalHeader, Header, Body, error) {
	ext, inner, err := ReadExternalHeader(raw)
	if err != nil {
		return ExternalHeader{}, Header{}, nil, err
	}
	header, body, err := decodeWith(inner, accountOps)
	return ext, header, body, err
}

// TransferNotification is sent by an asset wallet to its holder when
// incoming funds carry a forward amount.
type TransferNotification struct {
	Amount  *big.Int
	From    string
	Payload []byte
}

func (*TransferNotification) Op() uint32 { return OpTransferNotification }

func (m *TransferNotification) encode(w *writer) {
	w.coins(m.Amount)
	w.address(m.From)
	w.bytes(m.Payload)
}

func (m *TransferNotification) decode(r *reader) {
	m.Amount = r.coins()
	m.From = r.address()
	m.Payload = r.bytes()
}

// WithdrawJettons moves the whole remaining balance to the owner.
type WithdrawJettons struct {
	To          string
	Amount      *big.Int
	ForwardFee  *big.Int
	AssetWallet string
}

func (*WithdrawJettons) Op() uint32 { return OpWithdrawJettons }

func (m *WithdrawJettons) encode(w *writer) {
	w.address(m.To)
	w.coins(m.Amount)
	w.coins(m.ForwardFee)
	w.address(m.AssetWallet)
}

func (m *WithdrawJettons) decode(r *reader) {
	m.To = r.address()
	m.Amount = r.coins()
	m.ForwardFee = r.coins()
	m.AssetWallet = r.address()
}

// ClaimUnlocked releases the claimable balance to the recipient.
type ClaimUnlocked struct {
	ForwardFee  *big.Int
	AssetWallet string
}

func (*ClaimUnlocked) Op() uint32 { return OpClaimUnlocked }

func (m *ClaimUnlocked) encode(w *writer) {
	w.coins(m.ForwardFee)
	w.address(m.AssetWallet)
}

func (m *ClaimUnlocked) decode(r *reader) {
	m.ForwardFee = r.coins()
	m.AssetWallet = r.address()
}

// CancelVesting returns the unclaimed balance to the owner.
type CancelVesting struct {
	ForwardFee  *big.Int
	AssetWallet string
}

func (*CancelVesting) Op() uint32 { return OpCancelVesting }

func (m *CancelVesting) encode(w *writer) {
	w.coins(m.ForwardFee)
	w.address(m.AssetWallet)
}

func (m *CancelVesting) decode(r *reader) {
	m.ForwardFee = r.coins()
	m.AssetWallet = r.address()
}

type ChangeRecipient struct {
	NewRecipient string
}

func (*ChangeRecipient) Op() uint32 { return OpChangeRecipient }

func (m *ChangeRecipient) encode(w *writer) {
	w.address(m.NewRecipient)
}

func (m *ChangeRecipient) decode(r *reader) {
	m.NewRecipient = r.address()
}

type UpdateOwner struct {
	NewOwner string
}

func (*UpdateOwner) Op() uint32 { return OpUpdateOwner }

func (m *UpdateOwner) encode(w *writer) {
	w.address(m.NewOwner)
}

func (m *UpdateOwner) decode(r *reader) {
	m.NewOwner = r.address()
}

// Relock extends the vesting duration by ExtraDuration seconds.
type Relock struct {
	ExtraDuration uint32
}

func (*Relock) Op() uint32 { return OpRelock }

func (m *Relock) encode(w *writer) {
	w.uint32(m.ExtraDuration)
}

func (m *Relock) decode(r *reader) {
	m.ExtraDuration = r.uint32()
}

// SplitVesting carves a sibling grant out of the remaining balance.
type SplitVesting struct {
	Amount       *big.Int
	NewOwner     string
	NewRecipient string
	ForwardFee   *big.Int
	AssetWallet  string
}

func (*SplitVesting) Op() uint32 { return OpSplitVesting }

func (m *SplitVesting) encode(w *writer) {
	w.coins(m.Amount)
	w.address(m.NewOwner)
	w.address(m.NewRecipient)
	w.coins(m.ForwardFee)
	w.address(m.AssetWallet)
}

func (m *SplitVesting) decode(r *reader) {
	m.Amount = r.coins()
	m.NewOwner = r.address()
	m.NewRecipient = r.address()
	m.ForwardFee = r.coins()
	m.AssetWallet = r.address()
}

type UpdateMaxSplits struct {
	NewMaxSplits uint32
}

func (*UpdateMaxSplits) Op() uint32 { return OpUpdateMaxSplits }

func (m *UpdateMaxSplits) encode(w *writer) {
	w.uint32(m.NewMaxSplits)
}

func (m *UpdateMaxSplits) decode(r *reader) {
	m.NewMaxSplits = r.uint32()
}
