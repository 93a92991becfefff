package db_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	dbbadger "github.com/vesting-network/vesting-daemon/internal/infrastructure/storage/db/badger"
	"github.com/vesting-network/vesting-daemon/internal/infrastructure/storage/db/inmemory"
)

type repoManager struct {
	name string
	ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	badgerRepoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	return []repoManager{
		{"inmemory", inmemory.NewRepoManager()},
		{"badger", badgerRepoManager},
	}
}

func randomAddress() domain.Address {
	return domain.Address("0:" + randstr.Hex(32))
}

func makeRandomAccount(owner domain.Address, createdAt int64) *domain.VestingAccount {
	return &domain.VestingAccount{
		Address:         randomAddress(),
		Owner:           owner,
		Recipient:       randomAddress(),
		AssetIssuer:     randomAddress(),
		TotalAmount:     decimal.NewFromInt(1000),
		ClaimedAmount:   decimal.Zero,
		Schedule:        domain.Schedule{StartTime: 1000, TotalDuration: 100, UnlockPeriod: 10},
		RegistryAddress: domain.NullAddress,
		FactoryAddress:  randomAddress(),
		ParentAddress:   domain.NullAddress,
		Code:            domain.DefaultAccountCode,
		CreatedAt:       createdAt,
	}
}

func makeRandomTransaction(sender, destination domain.Address) domain.Transaction {
	return domain.Transaction{
		ID:          randstr.Hex(16),
		MessageID:   randstr.Hex(16),
		Sender:      sender,
		Destination: destination,
		Timestamp:   1000,
	}
}
