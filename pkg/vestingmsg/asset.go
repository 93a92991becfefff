package vestingmsg

import "math/big"

var assetOps = opTable{
	OpTransfer:         func() Body { return &Transfer{} },
	OpInternalTransfer: func() Body { return &InternalTransfer{} },
}

// DecodeAssetBody decodes a body addressed to an asset wallet.
func DecodeAssetBody(raw []byte) (Header, Body, error) {
	return decodeWith(raw, assetOps)
}

// Transfer instructs an asset wallet to move Amount to the wallet of
// Destination. When ForwardAmount is positive the destination holder gets a
// TransferNotification carrying ForwardPayload.
type Transfer struct {
	Amount              *big.Int
	Destination         string
	ResponseDestination string
	ForwardAmount       uint64
	ForwardPayload      []byte
}

func (*Transfer) Op() uint32 { return OpTransfer }

func (m *Transfer) encode(w *writer) {
	w.coins(m.Amount)
	w.address(m.Destination)
	w.address(m.ResponseDestination)
	w.uint64(m.ForwardAmount)
	w.bytes(m.ForwardPayload)
}

func (m *Transfer) decode(r *reader) {
	m.Amount = r.coins()
	m.Destination = r.address()
	m.ResponseDestination = r.address()
	m.ForwardAmount = r.uint64()
	m.ForwardPayload = r.bytes()
}

// InternalTransfer moves funds between two wallets of the same asset.
type InternalTransfer struct {
	Amount              *big.Int
	From                string
	ResponseDestination string
	ForwardAmount       uint64
	ForwardPayload      []byte
}

func (*InternalTransfer) Op() uint32 { return OpInternalTransfer }

func (m *InternalTransfer) encode(w *writer) {
	w.coins(m.Amount)
	w.address(m.From)
	w.address(m.ResponseDestination)
	w.uint64(m.ForwardAmount)
	w.bytes(m.ForwardPayload)
}

func (m *InternalTransfer) decode(r *reader) {
	m.Amount = r.coins()
	m.From = r.address()
	m.ResponseDestination = r.address()
	m.ForwardAmount = r.uint64()
	m.ForwardPayload = r.bytes()
}
