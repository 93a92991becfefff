package domain

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Contract is an entry of the directory of deployed addresses.
type Contract struct {
	Address    Address
	Kind       ContractKind
	CodeHash   string
	DeployedAt int64
}

func NewContract(init StateInit, deployedAt int64) Contract {
	return Contract{
		Address:    init.Address(),
		Kind:       init.Kind(),
		CodeHash:   hex.EncodeToString(chainhash.HashB(init.Code)),
		DeployedAt: deployedAt,
	}
}

// ContractRepository keeps track of what is deployed where.
type ContractRepository interface {
	// AddContract records a deployment. It fails if the address is taken.
	AddContract(ctx context.Context, contract Contract) error
	// GetContract returns the contract deployed at addr or
	// ErrContractNotFound.
	GetContract(ctx context.Context, addr Address) (*Contract, error)
	// GetContractsByKind returns all contracts of the given kind.
	GetContractsByKind(ctx context.Context, kind ContractKind) ([]Contract, error)
}
