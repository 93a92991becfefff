package domain

import (
	"bytes"

	"github.com/google/uuid"
)

// StateInit carries what is needed to deploy a contract at
// ContractAddress(Code, Data).
type StateInit struct {
	Code []byte
	Data []byte
}

// Address returns the address the state init deploys to.
func (s StateInit) Address() Address {
	return ContractAddress(s.Code, s.Data)
}

// Kind tells which logic the code runs. Any code other than the built-in
// ones is a vesting account template.
func (s StateInit) Kind() ContractKind {
	switch {
	case bytes.Equal(s.Code, FactoryCode):
		return KindFactory
	case bytes.Equal(s.Code, RegistryCode):
		return KindRegistry
	case bytes.Equal(s.Code, AssetWalletCode):
		return KindAssetWallet
	default:
		return KindVestingAccount
	}
}

// Message is the envelope of every one-way message exchanged between
// contracts. External messages have no sender and are only accepted by
// entry points guarded by a sequence number.
type Message struct {
	ID          string
	Sender      Address
	Destination Address
	// Value is the native amount attached, in nano units.
	Value     uint64
	Body      []byte
	External  bool
	StateInit *StateInit
	CreatedAt int64
}

// NewInternalMessage returns a message from sender to destination.
func NewInternalMessage(
	sender, destination Address, value uint64, body []byte,
) Message {
	return Message{
		ID:          uuid.New().String(),
		Sender:      sender,
		Destination: destination,
		Value:       value,
		Body:        body,
	}
}

// NewExternalMessage returns a message coming from outside the network.
func NewExternalMessage(destination Address, body []byte) Message {
	return Message{
		ID:          uuid.New().String(),
		Sender:      NullAddress,
		Destination: destination,
		Body:        body,
		External:    true,
	}
}

// WithStateInit attaches the deployment data of the destination.
func (m Message) WithStateInit(init StateInit) Message {
	m.StateInit = &init
	return m
}
