package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

func TestFactoryWalletAddress(t *testing.T) {
	t.Parallel()

	f := newTestFactory(t)
	params := newGrantParams()

	addr1, err := f.WalletAddress(params)
	require.NoError(t, err)
	addr2, err := f.WalletAddress(params)
	require.NoError(t, err)
	require.Equal(t, addr1, addr2)

	init := f.AccountInit(params)
	addr3, err := init.Address(f.Template)
	require.NoError(t, err)
	require.Equal(t, addr1, addr3)

	params.AutoClaim = true
	addr4, err := f.WalletAddress(params)
	require.NoError(t, err)
	require.NotEqual(t, addr1, addr4)

	// A new template only affects future derivations.
	require.NoError(t, f.UpdateTemplate(owner, []byte("vesting-account/v2")))
	addr5, err := f.WalletAddress(newGrantParams())
	require.NoError(t, err)
	require.NotEqual(t, addr1, addr5)
}

func TestFactoryCreate(t *testing.T) {
	t.Parallel()

	f := newTestFactory(t)
	cost := f.RoyaltyFee + f.MinCreateCost

	init, err := f.Create(newGrantParams(), cost-1)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	require.Nil(t, init)
	require.Zero(t, f.WalletsCreated)
	require.Zero(t, f.RoyaltyCollected)

	params := newGrantParams()
	params.Schedule.UnlockPeriod = 0
	_, err = f.Create(params, cost)
	require.ErrorIs(t, err, domain.ErrInvalidSchedule)
	require.Zero(t, f.WalletsCreated)

	init, err = f.Create(newGrantParams(), cost)
	require.NoError(t, err)
	require.Equal(t, f.Address, init.FactoryAddress)
	require.Equal(t, f.Registry, init.RegistryAddress)
	require.Equal(t, domain.NullAddress, init.ParentAddress)
	require.Equal(t, uint64(1), f.WalletsCreated)
	require.Equal(t, f.RoyaltyFee, f.RoyaltyCollected)
	require.Equal(t, f.RoyaltyFee, f.RoyaltyBalance())
}

func TestFactoryAdmin(t *testing.T) {
	t.Parallel()

	f := newTestFactory(t)
	newOwner := randomAddress()

	require.ErrorIs(t, f.ChangeOwner(stranger, newOwner), domain.ErrAccessDenied)
	require.ErrorIs(t, f.ChangeRoyaltyFee(stranger, 1), domain.ErrAccessDenied)
	require.ErrorIs(t, f.SetRegistry(stranger, randomAddress()), domain.ErrAccessDenied)
	require.ErrorIs(t, f.UpdateTemplate(stranger, []byte("x")), domain.ErrAccessDenied)
	_, err := f.WithdrawRoyalty(stranger, 0)
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	require.ErrorIs(t, f.UpdateTemplate(owner, nil), domain.ErrInvalidAmount)

	require.NoError(t, f.ChangeRoyaltyFee(owner, 5))
	require.Equal(t, uint64(5), f.RoyaltyFee)

	require.NoError(t, f.SetRegistry(owner, domain.NullAddress))
	require.False(t, f.NotifiesRegistry())

	_, err = f.Create(newGrantParams(), f.MinCreateCost+5)
	require.NoError(t, err)
	_, err = f.Create(newGrantParams(), f.MinCreateCost+5)
	require.NoError(t, err)

	_, err = f.WithdrawRoyalty(owner, 11)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	amount, err := f.WithdrawRoyalty(owner, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), amount)
	amount, err = f.WithdrawRoyalty(owner, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(6), amount)
	require.Zero(t, f.RoyaltyBalance())
	_, err = f.WithdrawRoyalty(owner, 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	require.NoError(t, f.ChangeOwner(owner, newOwner))
	require.ErrorIs(t, f.CheckOwner(owner), domain.ErrAccessDenied)
	require.NoError(t, f.CheckOwner(newOwner))
}

func newTestFactory(t *testing.T) *domain.Factory {
	init := domain.FactoryInit{
		Owner:         owner,
		Registry:      registry,
		RoyaltyFee:    domain.DefaultRoyaltyFee,
		MinCreateCost: domain.DefaultMinCreateCost,
		DeployTime:    uint32(startTime),
		Template:      domain.DefaultAccountCode,
	}
	stateInit, err := init.StateInit()
	require.NoError(t, err)
	f, err := domain.NewFactory(stateInit.Address(), init, startTime)
	require.NoError(t, err)
	return f
}

func newGrantParams() domain.GrantParams {
	init := newAccountInit()
	return domain.GrantParams{
		Owner:                     init.Owner,
		Recipient:                 init.Recipient,
		AssetIssuer:               init.AssetIssuer,
		TotalAmount:               init.TotalAmount,
		Schedule:                  init.Schedule,
		CancelPermission:          init.CancelPermission,
		ChangeRecipientPermission: init.ChangeRecipientPermission,
	}
}

func TestFactoryBuiltinTemplate(t *testing.T) {
	t.Parallel()

	f := newTestFactory(t)
	for _, code := range [][]byte{
		domain.FactoryCode, domain.RegistryCode, domain.AssetWalletCode,
	} {
		require.ErrorIs(t, f.UpdateTemplate(owner, code), domain.ErrInvalidAmount)

		init := domain.FactoryInit{Owner: owner, Registry: registry, Template: code}
		require.ErrorIs(t, init.Validate(), domain.ErrInvalidTemplate)
	}
	require.Equal(t, domain.DefaultAccountCode, f.Template)
}
