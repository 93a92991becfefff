package domain

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// Address identifies a contract or an external wallet in the form
// <workchain>:<hex account id>.
type Address string

// NullAddress stands for "no address", ie. a vesting account without
// registry or a grant that is not the result of a split.
const NullAddress Address = "0:0000000000000000000000000000000000000000000000000000000000000000"

// ParseAddress validates s and returns it in canonical form.
func ParseAddress(s string) (Address, error) {
	addr, err := vestingmsg.ParseAddress(s)
	if err != nil {
		return "", ErrInvalidAddress
	}
	return Address(addr), nil
}

// ContractAddress derives the address of a contract from its code and
// initial data. Address queries and deployments both go through here so that
// the two can never diverge.
func ContractAddress(code, data []byte) Address {
	buf := make([]byte, 0, 2*chainhash.HashSize)
	buf = append(buf, chainhash.HashB(code)...)
	buf = append(buf, chainhash.HashB(data)...)
	id := chainhash.HashB(buf)
	return Address("0:" + hex.EncodeToString(id))
}

func (a Address) String() string {
	return string(a)
}

func (a Address) IsNull() bool {
	return a == NullAddress
}

func (a Address) IsValid() bool {
	_, err := ParseAddress(string(a))
	return err == nil
}

// IndexKey is the 256-bit digest under which the address is indexed by the
// registry.
func (a Address) IndexKey() string {
	h := chainhash.HashH([]byte(a))
	return hex.EncodeToString(h[:])
}

// Validate returns an error if a is malformed or is the null sentinel.
func (a Address) Validate() error {
	if !a.IsValid() {
		return ErrInvalidAddress
	}
	if a.IsNull() {
		return ErrNullAddress
	}
	return nil
}

// addressOrNull maps the empty string to the null sentinel.
func addressOrNull(s string) Address {
	if s == "" {
		return NullAddress
	}
	return Address(s)
}
