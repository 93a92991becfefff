package domain

import (
	"sort"

	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// RegistryIndex names one of the lookup dimensions of a registry.
type RegistryIndex string

const (
	IndexAssetIssuer RegistryIndex = "issuer"
	IndexOwner       RegistryIndex = "owner"
	IndexRecipient   RegistryIndex = "recipient"
	IndexAutoClaim   RegistryIndex = "auto-claim"
)

var registryIndexes = []RegistryIndex{
	IndexAssetIssuer, IndexOwner, IndexRecipient, IndexAutoClaim,
}

func ParseRegistryIndex(s string) (RegistryIndex, error) {
	for _, i := range registryIndexes {
		if string(i) == s {
			return i, nil
		}
	}
	return "", ErrInvalidRegistryIndex
}

// RegistryInit is the initial data of a registry.
type RegistryInit struct {
	Owner      Address
	DeployTime uint32
}

func (i RegistryInit) Validate() error {
	return i.Owner.Validate()
}

func (i RegistryInit) Serialize() ([]byte, error) {
	return vestingmsg.EncodeRegistryState(vestingmsg.RegistryState{
		Owner:      i.Owner.String(),
		DeployTime: i.DeployTime,
	})
}

func DeserializeRegistryInit(data []byte) (*RegistryInit, error) {
	s, err := vestingmsg.DecodeRegistryState(data)
	if err != nil {
		return nil, err
	}
	return &RegistryInit{Address(s.Owner), s.DeployTime}, nil
}

func (i RegistryInit) StateInit() (*StateInit, error) {
	data, err := i.Serialize()
	if err != nil {
		return nil, err
	}
	return &StateInit{Code: RegistryCode, Data: data}, nil
}

// RegistryEntry is what the registry knows about a vesting account.
type RegistryEntry struct {
	Wallet      Address
	AssetIssuer Address
	Owner       Address
	Recipient   Address
	AutoClaim   bool
}

// Registry indexes vesting accounts by asset issuer, owner, recipient and
// auto-claim flag. Every index maps the IndexKey of an address to the list
// of accounts under it. The auto-claim index is keyed by the account itself.
type Registry struct {
	Address      Address
	Owner        Address
	DeployTime   uint32
	TotalWallets uint32
	MaxWallets   uint32
	Entries      map[Address]RegistryEntry
	Indexes      map[RegistryIndex]map[string][]Address
	CreatedAt    int64
}

func NewRegistry(
	addr Address, init RegistryInit, maxWallets uint32, createdAt int64,
) (*Registry, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if err := init.Validate(); err != nil {
		return nil, err
	}
	if maxWallets == 0 {
		maxWallets = DefaultMaxWallets
	}
	r := &Registry{
		Address:    addr,
		Owner:      init.Owner,
		DeployTime: init.DeployTime,
		MaxWallets: maxWallets,
		CreatedAt:  createdAt,
	}
	r.init()
	return r, nil
}

func (r *Registry) init() {
	if r.Entries == nil {
		r.Entries = make(map[Address]RegistryEntry)
	}
	if r.Indexes == nil {
		r.Indexes = make(map[RegistryIndex]map[string][]Address)
	}
	for _, i := range registryIndexes {
		if r.Indexes[i] == nil {
			r.Indexes[i] = make(map[string][]Address)
		}
	}
}

// IsFull returns whether no more accounts can be registered.
func (r *Registry) IsFull() bool {
	return r.TotalWallets >= r.MaxWallets
}

// CanRegister returns whether a contract of the given kind may register
// accounts: factories for the grants they create, and vesting accounts for
// the siblings of their splits.
func CanRegister(kind ContractKind) bool {
	return kind == KindFactory || kind == KindVestingAccount
}

// Register adds the account to all indexes. Registering an already known
// account is a no-op and returns false.
func (r *Registry) Register(entry RegistryEntry) (bool, error) {
	r.init()
	for _, addr := range []Address{
		entry.Wallet, entry.AssetIssuer, entry.Owner, entry.Recipient,
	} {
		if addr.Validate() != nil {
			return false, ErrInvalidAmount
		}
	}
	if _, ok := r.Entries[entry.Wallet]; ok {
		return false, nil
	}
	if r.IsFull() {
		return false, ErrMaxWalletsReached
	}

	r.Entries[entry.Wallet] = entry
	r.add(IndexAssetIssuer, entry.AssetIssuer, entry.Wallet)
	r.add(IndexOwner, entry.Owner, entry.Wallet)
	r.add(IndexRecipient, entry.Recipient, entry.Wallet)
	if entry.AutoClaim {
		r.add(IndexAutoClaim, entry.Wallet, entry.Wallet)
	}
	r.TotalWallets++
	return true, nil
}

// UpdateRecipient moves wallet from the old to the new recipient slot. Only
// the wallet itself may report its own changes.
func (r *Registry) UpdateRecipient(sender, wallet, oldRecipient, newRecipient Address) error {
	return r.move(IndexRecipient, sender, wallet, oldRecipient, newRecipient)
}

// UpdateOwner moves wallet from the old to the new owner slot.
func (r *Registry) UpdateOwner(sender, wallet, oldOwner, newOwner Address) error {
	return r.move(IndexOwner, sender, wallet, oldOwner, newOwner)
}

// SetMaxWallets raises the capacity. Smaller values are ignored.
func (r *Registry) SetMaxWallets(sender Address, maxWallets uint32) error {
	if sender != r.Owner {
		return ErrAccessDenied
	}
	if maxWallets > r.MaxWallets {
		r.MaxWallets = maxWallets
	}
	return nil
}

// Wallets returns the accounts listed under key in the given index, sorted.
// Key is ignored for the auto-claim index, which is listed as a whole.
func (r *Registry) Wallets(index RegistryIndex, key Address) []Address {
	r.init()
	slots := r.Indexes[index]
	wallets := make([]Address, 0)
	if index == IndexAutoClaim {
		for _, list := range slots {
			wallets = append(wallets, list...)
		}
	} else {
		wallets = append(wallets, slots[key.IndexKey()]...)
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i] < wallets[j] })
	return wallets
}

func (r *Registry) move(
	index RegistryIndex, sender, wallet, oldAddr, newAddr Address,
) error {
	r.init()
	if sender != wallet {
		return ErrAccessDenied
	}
	if newAddr.Validate() != nil {
		return ErrInvalidAmount
	}
	entry, ok := r.Entries[wallet]
	if !ok {
		return ErrInvalidAmount
	}

	current := entry.Owner
	if index == IndexRecipient {
		current = entry.Recipient
	}
	r.remove(index, oldAddr, wallet)
	if current != oldAddr {
		r.remove(index, current, wallet)
	}
	r.add(index, newAddr, wallet)
	if index == IndexOwner {
		entry.Owner = newAddr
	} else {
		entry.Recipient = newAddr
	}
	r.Entries[wallet] = entry
	return nil
}

func (r *Registry) add(index RegistryIndex, key, wallet Address) {
	k := key.IndexKey()
	for _, w := range r.Indexes[index][k] {
		if w == wallet {
			return
		}
	}
	r.Indexes[index][k] = append(r.Indexes[index][k], wallet)
}

func (r *Registry) remove(index RegistryIndex, key, wallet Address) {
	k := key.IndexKey()
	list := r.Indexes[index][k]
	for i, w := range list {
		if w == wallet {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) <= 0 {
		delete(r.Indexes[index], k)
		return
	}
	r.Indexes[index][k] = list
}

// Clone returns a deep copy of the registry.
func (r Registry) Clone() Registry {
	c := r
	c.Entries = make(map[Address]RegistryEntry, len(r.Entries))
	for k, v := range r.Entries {
		c.Entries[k] = v
	}
	c.Indexes = make(map[RegistryIndex]map[string][]Address, len(r.Indexes))
	for i, slots := range r.Indexes {
		c.Indexes[i] = make(map[string][]Address, len(slots))
		for k, list := range slots {
			c.Indexes[i][k] = append([]Address{}, list...)
		}
	}
	return c
}
