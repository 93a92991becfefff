package vestingmsg

var registryOps = opTable{
	OpRegisterWallet:  func() Body { return &RegisterWallet{} },
	OpUpdateRecipient: func() Body { return &UpdateRecipient{} },
	OpUpdateOwner:     func() Body { return &UpdateWalletOwner{} },
	OpSetMaxWallets:   func() Body { return &SetMaxWallets{} },
}

// DecodeRegistryBody decodes a body addressed to the registry.
func DecodeRegistryBody(raw []byte) (Header, Body, error) {
	return decodeWith(raw, registryOps)
}

// RegisterWallet indexes a freshly created vesting account.
type RegisterWallet struct {
	Wallet      string
	AssetIssuer string
	Owner       string
	Recipient   string
	AutoClaim   bool
}

func (*RegisterWallet) Op() uint32 { return OpRegisterWallet }

func (m *RegisterWallet) encode(w *writer) {
	w.address(m.Wallet)
	w.address(m.AssetIssuer)
	w.address(m.Owner)
	w.address(m.Recipient)
	autoClaim := uint32(0)
	if m.AutoClaim {
		autoClaim = 1
	}
	w.uint32(autoClaim)
}

func (m *RegisterWallet) decode(r *reader) {
	m.Wallet = r.address()
	m.AssetIssuer = r.address()
	m.Owner = r.address()
	m.Recipient = r.address()
	m.AutoClaim = r.uint32() != 0
}

// UpdateRecipient moves a wallet between recipient index slots.
type UpdateRecipient struct {
	Wallet       string
	OldRecipient string
	NewRecipient string
}

func (*UpdateRecipient) Op() uint32 { return OpUpdateRecipient }

func (m *UpdateRecipient) encode(w *writer) {
	w.address(m.Wallet)
	w.address(m.OldRecipient)
	w.address(m.NewRecipient)
}

func (m *UpdateRecipient) decode(r *reader) {
	m.Wallet = r.address()
	m.OldRecipient = r.address()
	m.NewRecipient = r.address()
}

// UpdateWalletOwner moves a wallet between owner index slots.
type UpdateWalletOwner struct {
	Wallet   string
	OldOwner string
	NewOwner string
}

func (*UpdateWalletOwner) Op() uint32 { return OpUpdateOwner }

func (m *UpdateWalletOwner) encode(w *writer) {
	w.address(m.Wallet)
	w.address(m.OldOwner)
	w.address(m.NewOwner)
}

func (m *UpdateWalletOwner) decode(r *reader) {
	m.Wallet = r.address()
	m.OldOwner = r.address()
	m.NewOwner = r.address()
}

type SetMaxWallets struct {
	MaxWallets uint32
}

func (*SetMaxWallets) Op() uint32 { return OpSetMaxWallets }

func (m *SetMaxWallets) encode(w *writer) {
	w.uint32(m.MaxWallets)
}

func (m *SetMaxWallets) decode(r *reader) {
	m.MaxWallets = r.uint32()
}
