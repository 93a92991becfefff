package vestingmsg

var factoryOps = opTable{
	OpTransferNotification: func() Body { return &TransferNotification{} },
	OpChangeFactoryOwner:   func() Body { return &ChangeFactoryOwner{} },
	OpChangeRoyaltyFee:     func() Body { return &ChangeRoyaltyFee{} },
	OpSetRegistry:          func() Body { return &SetRegistry{} },
	OpUpdateTemplate:       func() Body { return &UpdateTemplate{} },
	OpWithdrawRoyalty:      func() Body { return &WithdrawRoyalty{} },
	OpWithdrawJettons:      func() Body { return &WithdrawJettons{} },
}

// DecodeFactoryBody decodes a body addressed to the factory.
func DecodeFactoryBody(raw []byte) (Header, Body, error) {
	return decodeWith(raw, factoryOps)
}

type ChangeFactoryOwner struct {
	NewOwner string
}

func (*ChangeFactoryOwner) Op() uint32 { return OpChangeFactoryOwner }

func (m *ChangeFactoryOwner) encode(w *writer) {
	w.address(m.NewOwner)
}

func (m *ChangeFactoryOwner) decode(r *reader) {
	m.NewOwner = r.address()
}

// ChangeRoyaltyFee sets the flat fee, in native units, charged per creation.
type ChangeRoyaltyFee struct {
	RoyaltyFee uint64
}

func (*ChangeRoyaltyFee) Op() uint32 { return OpChangeRoyaltyFee }

func (m *ChangeRoyaltyFee) encode(w *writer) {
	w.uint64(m.RoyaltyFee)
}

func (m *ChangeRoyaltyFee) decode(r *reader) {
	m.RoyaltyFee = r.uint64()
}

type SetRegistry struct {
	Registry string
}

func (*SetRegistry) Op() uint32 { return OpSetRegistry }

func (m *SetRegistry) encode(w *writer) {
	w.address(m.Registry)
}

func (m *SetRegistry) decode(r *reader) {
	m.Registry = r.address()
}

// UpdateTemplate replaces the code used to derive future vesting accounts.
type UpdateTemplate struct {
	Code []byte
}

func (*UpdateTemplate) Op() uint32 { return OpUpdateTemplate }

func (m *UpdateTemplate) encode(w *writer) {
	w.bytes(m.Code)
}

func (m *UpdateTemplate) decode(r *reader) {
	m.Code = r.bytes()
}

// WithdrawRoyalty sends Amount native units of collected royalty to the
// owner. A zero amount withdraws everything available.
type WithdrawRoyalty struct {
	Amount uint64
}

func (*WithdrawRoyalty) Op() uint32 { return OpWithdrawRoyalty }

func (m *WithdrawRoyalty) encode(w *writer) {
	w.uint64(m.Amount)
}

func (m *WithdrawRoyalty) decode(r *reader) {
	m.Amount = r.uint64()
}
