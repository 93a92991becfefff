package domain

import "github.com/shopspring/decimal"

const (
	// DefaultMaxSplits is the split allowance of a new vesting account.
	DefaultMaxSplits = 5
	// MaxSplitsCeiling bounds update-max-splits.
	MaxSplitsCeiling = 15

	// DefaultRoyaltyFee is 0.1 of the native asset, in nano units.
	DefaultRoyaltyFee uint64 = 100_000_000
	// DefaultMinCreateCost is what a creation must attach on top of the
	// royalty to pay for deployment and forwarding.
	DefaultMinCreateCost uint64 = 200_000_000
	// DefaultMaxWallets is the capacity of a new registry.
	DefaultMaxWallets uint32 = 1_000_000

	// AssetForwardAmount is the native amount attached to asset transfers
	// sent by contracts so that the receiver gets notified.
	AssetForwardAmount uint64 = 1
)

// MinSplitAmount is the smallest amount that can be carved out of a grant:
// one whole token at 9 decimals.
var MinSplitAmount = decimal.New(1, 9)

// ContractKind tells the runtime which handler processes messages for a
// deployed address.
type ContractKind string

const (
	KindVestingAccount ContractKind = "vesting-account"
	KindFactory        ContractKind = "factory"
	KindRegistry       ContractKind = "registry"
	KindAssetWallet    ContractKind = "asset-wallet"
)

// Code of the contracts whose logic is not replaceable at runtime. Vesting
// accounts take their code from the factory template.
var (
	DefaultAccountCode = []byte("vesting-account/v1")
	FactoryCode        = []byte("vesting-factory/v1")
	RegistryCode       = []byte("vesting-registry/v1")
	AssetWalletCode    = []byte("asset-wallet/v1")
)
