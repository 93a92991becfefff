package application_test

import (
	"context"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

const (
	startTime     = 1000
	totalDuration = 1000
	unlockPeriod  = 100
	cliffDuration = 200
	createValue   = 300_000_000
)

var (
	ctx      = context.Background()
	nullAddr = domain.NullAddress.String()
	schedule = domain.Schedule{
		StartTime:     startTime,
		TotalDuration: totalDuration,
		UnlockPeriod:  unlockPeriod,
		CliffDuration: cliffDuration,
	}
)

type testClock struct {
	now int64
}

func (c *testClock) Now() int64 {
	return atomic.LoadInt64(&c.now)
}

func (c *testClock) set(t int64) {
	atomic.StoreInt64(&c.now, t)
}

// testEnv is a network with a registry and a factory deployed, and an
// issuer whose creator holds some funds.
type testEnv struct {
	svc      application.VestingService
	clock    *testClock
	admin    domain.Address
	issuer   domain.Address
	creator  domain.Address
	registry domain.Address
	factory  domain.Address
}

func newTestEnv(t *testing.T, opts ...func(*application.Config)) *testEnv {
	clock := &testClock{now: startTime}
	cfg := &application.Config{
		DBType: application.DBInMemory,
		Clock:  clock,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, cfg.Validate())
	t.Cleanup(cfg.Close)

	env := &testEnv{
		svc:     cfg.VestingService(),
		clock:   clock,
		admin:   randomAddress(),
		issuer:  randomAddress(),
		creator: randomAddress(),
	}

	registry, err := env.svc.DeployRegistry(
		ctx, application.DeployRegistryReq{Owner: env.admin}, true,
	)
	require.NoError(t, err)
	env.registry = registry.Address

	factory, err := env.svc.DeployFactory(ctx, application.DeployFactoryReq{
		Owner:    env.admin,
		Registry: env.registry,
	}, true)
	require.NoError(t, err)
	env.factory = factory.Address

	_, err = env.svc.MintAsset(ctx, application.MintReq{
		Issuer: env.issuer,
		Holder: env.creator,
		Amount: coins(5000),
	}, true)
	require.NoError(t, err)
	return env
}

func (e *testEnv) grantParams(owner, recipient domain.Address) domain.GrantParams {
	return domain.GrantParams{
		Owner:                     owner,
		Recipient:                 recipient,
		AssetIssuer:               e.issuer,
		TotalAmount:               coins(1000),
		Schedule:                  schedule,
		CancelPermission:          domain.PermissionOwner,
		ChangeRecipientPermission: domain.PermissionOwner,
	}
}

// createGrant has the creator send the grant amount to the factory along
// with the grant payload.
func (e *testEnv) createGrant(
	t *testing.T, params domain.GrantParams, value uint64,
) string {
	factoryWallet, err := domain.AssetWalletAddress(e.issuer, e.factory)
	require.NoError(t, err)
	payload, err := vestingmsg.EncodeGrantPayload(vestingmsg.GrantPayload{
		Owner:                     params.Owner.String(),
		Recipient:                 params.Recipient.String(),
		AssetIssuer:               params.AssetIssuer.String(),
		SourceAssetWallet:         factoryWallet.String(),
		StartTime:                 params.Schedule.StartTime,
		TotalDuration:             params.Schedule.TotalDuration,
		UnlockPeriod:              params.Schedule.UnlockPeriod,
		CliffDuration:             params.Schedule.CliffDuration,
		AutoClaim:                 params.AutoClaim,
		CancelPermission:          uint8(params.CancelPermission),
		ChangeRecipientPermission: uint8(params.ChangeRecipientPermission),
	})
	require.NoError(t, err)

	creatorWallet, err := domain.AssetWalletAddress(e.issuer, e.creator)
	require.NoError(t, err)
	return e.send(t, e.creator, creatorWallet, value+50_000_000, &vestingmsg.Transfer{
		Amount:              mathutil.ToBigInt(params.TotalAmount),
		Destination:         e.factory.String(),
		ResponseDestination: e.creator.String(),
		ForwardAmount:       value,
		ForwardPayload:      payload,
	})
}

func (e *testEnv) send(
	t *testing.T, sender, destination domain.Address, value uint64,
	body vestingmsg.Body,
) string {
	raw, err := vestingmsg.Encode(uint64(time.Now().UnixNano()), body)
	require.NoError(t, err)
	id, err := e.svc.SendMessage(
		ctx, domain.NewInternalMessage(sender, destination, value, raw), true,
	)
	require.NoError(t, err)
	return id
}

func (e *testEnv) balance(t *testing.T, holder domain.Address) decimal.Decimal {
	balance, err := e.svc.GetAssetBalance(ctx, e.issuer, holder)
	if err != nil {
		require.ErrorIs(t, err, domain.ErrAssetWalletNotFound)
		return decimal.Zero
	}
	return balance
}

func (e *testEnv) exitCode(t *testing.T, messageID string) uint32 {
	txs, err := e.svc.ListTransactions(ctx, nil)
	require.NoError(t, err)
	for _, tx := range txs {
		if tx.MessageID == messageID {
			return tx.ExitCode
		}
	}
	t.Fatalf("no transaction for message %s", messageID)
	return 0
}

// lastTransaction returns the latest delivery of a message with the given
// op to dest.
func (e *testEnv) lastTransaction(
	t *testing.T, dest domain.Address, op uint32,
) domain.Transaction {
	txs, err := e.svc.ListTransactionsForAddress(ctx, dest, nil)
	require.NoError(t, err)
	for i := len(txs) - 1; i >= 0; i-- {
		if txs[i].Destination == dest && txs[i].Op == op {
			return txs[i]
		}
	}
	t.Fatalf("no %s delivered to %s", vestingmsg.OpName(op), dest)
	return domain.Transaction{}
}

func (e *testEnv) account(t *testing.T, addr domain.Address) *application.AccountInfo {
	info, err := e.svc.GetVestingAccount(ctx, addr, 0, "")
	require.NoError(t, err)
	return info
}

func TestGrantLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner, recipient := randomAddress(), randomAddress()
	params := env.grantParams(owner, recipient)

	expected, err := env.svc.GetWalletAddress(ctx, env.factory, params)
	require.NoError(t, err)

	id := env.createGrant(t, params, createValue)
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

	t.Run("create", func(t *testing.T) {
		info, err := env.svc.GetVestingAccount(ctx, expected, 1500, owner)
		require.NoError(t, err)
		require.True(t, coins(1000).Equal(info.TotalAmount))
		require.True(t, coins(500).Equal(info.Unlocked))
		require.True(t, coins(500).Equal(info.Locked))
		require.True(t, coins(500).Equal(info.Claimable))
		require.True(t, info.CanSplitMore)
		require.True(t, *info.CanCancel)
		require.Equal(t, env.factory, info.FactoryAddress)
		require.Equal(t, env.registry, info.RegistryAddress)
		require.Equal(t, domain.DefaultAccountCode, info.Code)

		require.True(t, coins(1000).Equal(env.balance(t, expected)))
		require.True(t, coins(4000).Equal(env.balance(t, env.creator)))
		require.True(t, env.balance(t, env.factory).IsZero())

		factory, err := env.svc.GetFactory(ctx, env.factory)
		require.NoError(t, err)
		require.Equal(t, uint64(1), factory.WalletsCreated)
		require.Equal(t, domain.DefaultRoyaltyFee, factory.RoyaltyBalance)

		for _, tt := range []struct {
			index domain.RegistryIndex
			key   domain.Address
		}{
			{domain.IndexOwner, owner},
			{domain.IndexRecipient, recipient},
			{domain.IndexAssetIssuer, env.issuer},
		} {
			wallets, err := env.svc.GetRegistryWallets(ctx, env.registry, tt.index, tt.key)
			require.NoError(t, err)
			require.Equal(t, []domain.Address{expected}, wallets)
		}
	})

	t.Run("claim", func(t *testing.T) {
		env.clock.set(1500)
		claim := &vestingmsg.ClaimUnlocked{AssetWallet: nullAddr}

		id := env.send(t, randomAddress(), expected, 0, claim)
		require.Equal(t, domain.ErrAccessDenied.Code, env.exitCode(t, id))

		id = env.send(t, recipient, expected, 0, claim)
		require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))
		require.True(t, coins(500).Equal(env.balance(t, recipient)))
		require.True(t, coins(500).Equal(env.account(t, expected).ClaimedAmount))

		id = env.send(t, recipient, expected, 0, claim)
		require.Equal(t, domain.ErrNoClaimable.Code, env.exitCode(t, id))
	})

	var sibling domain.Address
	newOwner, newRecipient := randomAddress(), randomAddress()
	t.Run("split", func(t *testing.T) {
		id := env.send(t, owner, expected, 0, &vestingmsg.SplitVesting{
			Amount:       mathutil.ToBigInt(coins(100)),
			NewOwner:     newOwner.String(),
			NewRecipient: newRecipient.String(),
			AssetWallet:  nullAddr,
		})
		require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

		wallets, err := env.svc.GetRegistryWallets(ctx, env.registry, domain.IndexOwner, newOwner)
		require.NoError(t, err)
		require.Len(t, wallets, 1)
		sibling = wallets[0]

		parent := env.account(t, expected)
		require.True(t, coins(900).Equal(parent.TotalAmount))
		require.Equal(t, uint8(1), parent.SplitsIssued)

		child := env.account(t, sibling)
		require.True(t, coins(100).Equal(child.TotalAmount))
		require.Equal(t, expected, child.ParentAddress)
		require.Equal(t, uint8(1), child.SplitIndex)
		require.Equal(t, parent.Schedule, child.Schedule)

		require.True(t, coins(400).Equal(env.balance(t, expected)))
		require.True(t, coins(100).Equal(env.balance(t, sibling)))

		id = env.send(t, owner, expected, 0, &vestingmsg.SplitVesting{
			Amount:       big.NewInt(1),
			NewOwner:     newOwner.String(),
			NewRecipient: newRecipient.String(),
			AssetWallet:  nullAddr,
		})
		require.Equal(t, domain.ErrInvalidAmount.Code, env.exitCode(t, id))
	})

	t.Run("external claim", func(t *testing.T) {
		env.clock.set(startTime + totalDuration)
		raw, err := vestingmsg.EncodeExternal(
			vestingmsg.ExternalHeader{Seqno: 0, ValidUntil: 5000}, 0,
			&vestingmsg.ClaimUnlocked{AssetWallet: nullAddr},
		)
		require.NoError(t, err)

		id, err := env.svc.SendMessage(ctx, domain.NewExternalMessage(sibling, raw), true)
		require.NoError(t, err)
		require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))
		require.True(t, coins(100).Equal(env.balance(t, newRecipient)))
		require.Equal(t, uint32(1), env.account(t, sibling).Seqno)

		id, err = env.svc.SendMessage(ctx, domain.NewExternalMessage(sibling, raw), true)
		require.NoError(t, err)
		require.Equal(t, domain.ErrInvalidSeqno.Code, env.exitCode(t, id))
	})

	t.Run("change recipient", func(t *testing.T) {
		other := randomAddress()
		id := env.send(t, recipient, expected, 0, &vestingmsg.ChangeRecipient{
			NewRecipient: other.String(),
		})
		require.Equal(t, domain.ErrAccessDenied.Code, env.exitCode(t, id))

		id = env.send(t, owner, expected, 0, &vestingmsg.ChangeRecipient{
			NewRecipient: other.String(),
		})
		require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))
		require.Equal(t, other, env.account(t, expected).Recipient)

		wallets, err := env.svc.GetRegistryWallets(ctx, env.registry, domain.IndexRecipient, other)
		require.NoError(t, err)
		require.Equal(t, []domain.Address{expected}, wallets)
		wallets, err = env.svc.GetRegistryWallets(ctx, env.registry, domain.IndexRecipient, recipient)
		require.NoError(t, err)
		require.Empty(t, wallets)
	})

	t.Run("cancel", func(t *testing.T) {
		id := env.send(t, owner, expected, 0, &vestingmsg.CancelVesting{
			AssetWallet: nullAddr,
		})
		require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

		info := env.account(t, expected)
		require.True(t, info.TotalAmount.Equal(info.ClaimedAmount))
		require.True(t, coins(400).Equal(env.balance(t, owner)))
		require.True(t, env.balance(t, expected).IsZero())

		id = env.send(t, owner, expected, 0, &vestingmsg.CancelVesting{
			AssetWallet: nullAddr,
		})
		require.Equal(t, domain.ErrInvalidAmount.Code, env.exitCode(t, id))
	})
}

func TestGrantUnderpaid(t *testing.T) {
	env := newTestEnv(t)
	params := env.grantParams(randomAddress(), randomAddress())

	id := env.createGrant(t, params, createValue-1)
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

	expected, err := env.svc.GetWalletAddress(ctx, env.factory, params)
	require.NoError(t, err)
	_, err = env.svc.GetVestingAccount(ctx, expected, 0, "")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	// Funds are stuck in the factory wallet until the owner withdraws them.
	require.True(t, coins(1000).Equal(env.balance(t, env.factory)))

	factoryWallet, err := domain.AssetWalletAddress(env.issuer, env.factory)
	require.NoError(t, err)
	withdraw := &vestingmsg.WithdrawJettons{
		To:          env.admin.String(),
		Amount:      mathutil.ToBigInt(coins(1000)),
		AssetWallet: factoryWallet.String(),
	}
	id = env.send(t, randomAddress(), env.factory, 0, withdraw)
	require.Equal(t, domain.ErrAccessDenied.Code, env.exitCode(t, id))

	id = env.send(t, env.admin, env.factory, 0, withdraw)
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))
	require.True(t, coins(1000).Equal(env.balance(t, env.admin)))
	require.True(t, env.balance(t, env.factory).IsZero())
}

func TestGrantMalformedPayload(t *testing.T) {
	env := newTestEnv(t)
	creatorWallet, err := domain.AssetWalletAddress(env.issuer, env.creator)
	require.NoError(t, err)

	env.send(t, env.creator, creatorWallet, createValue+50_000_000, &vestingmsg.Transfer{
		Amount:              mathutil.ToBigInt(coins(1000)),
		Destination:         env.factory.String(),
		ResponseDestination: env.creator.String(),
		ForwardAmount:       createValue,
		ForwardPayload:      []byte{0xff},
	})

	notification := env.lastTransaction(t, env.factory, vestingmsg.OpTransferNotification)
	require.Equal(t, domain.ExitCodeSuccess, notification.ExitCode)
	require.Zero(t, notification.Outbound)

	factory, err := env.svc.GetFactory(ctx, env.factory)
	require.NoError(t, err)
	require.Zero(t, factory.WalletsCreated)
	require.Zero(t, factory.RoyaltyCollected)

	registry, err := env.svc.GetRegistry(ctx, env.registry)
	require.NoError(t, err)
	require.Zero(t, registry.TotalWallets)
	require.True(t, coins(1000).Equal(env.balance(t, env.factory)))
}

func TestGrantWithoutRegistry(t *testing.T) {
	env := newTestEnv(t)
	id := env.send(t, env.admin, env.factory, 0, &vestingmsg.SetRegistry{
		Registry: nullAddr,
	})
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

	params := env.grantParams(randomAddress(), randomAddress())
	env.createGrant(t, params, createValue)

	addr, err := env.svc.GetWalletAddress(ctx, env.factory, params)
	require.NoError(t, err)
	account := env.account(t, addr)
	require.True(t, coins(1000).Equal(account.TotalAmount))
	require.Equal(t, domain.NullAddress, account.RegistryAddress)

	notification := env.lastTransaction(t, env.factory, vestingmsg.OpTransferNotification)
	require.Equal(t, domain.ExitCodeSuccess, notification.ExitCode)
	require.Equal(t, 2, notification.Outbound)

	registry, err := env.svc.GetRegistry(ctx, env.registry)
	require.NoError(t, err)
	require.Zero(t, registry.TotalWallets)

	// Changes of an unregistered account notify nobody.
	id = env.send(t, params.Owner, addr, 0, &vestingmsg.ChangeRecipient{
		NewRecipient: randomAddress().String(),
	})
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))
	tx := env.lastTransaction(t, addr, vestingmsg.OpChangeRecipient)
	require.Zero(t, tx.Outbound)
}

func TestGrantCreatedTwice(t *testing.T) {
	env := newTestEnv(t)
	recipient := randomAddress()
	params := env.grantParams(randomAddress(), recipient)
	addr, err := env.svc.GetWalletAddress(ctx, env.factory, params)
	require.NoError(t, err)

	env.createGrant(t, params, createValue)
	env.createGrant(t, params, createValue)

	account := env.account(t, addr)
	require.True(t, account.Funded)
	require.True(t, coins(2000).Equal(account.TotalAmount))
	require.True(t, coins(2000).Equal(env.balance(t, addr)))

	factory, err := env.svc.GetFactory(ctx, env.factory)
	require.NoError(t, err)
	require.Equal(t, uint64(2), factory.WalletsCreated)

	registry, err := env.svc.GetRegistry(ctx, env.registry)
	require.NoError(t, err)
	require.Equal(t, uint32(1), registry.TotalWallets)

	env.clock.set(startTime + totalDuration)
	id := env.send(t, recipient, addr, 0, &vestingmsg.ClaimUnlocked{
		AssetWallet: nullAddr,
	})
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))
	require.True(t, coins(2000).Equal(env.balance(t, recipient)))
	require.True(t, env.balance(t, addr).IsZero())
}

func TestGrantWithRegistryFull(t *testing.T) {
	env := newTestEnv(t, func(cfg *application.Config) {
		cfg.MaxWallets = 1
	})

	first := env.grantParams(randomAddress(), randomAddress())
	env.createGrant(t, first, createValue)
	register := env.lastTransaction(t, env.registry, vestingmsg.OpRegisterWallet)
	require.Equal(t, domain.ExitCodeSuccess, register.ExitCode)

	second := env.grantParams(randomAddress(), randomAddress())
	env.createGrant(t, second, createValue)
	register = env.lastTransaction(t, env.registry, vestingmsg.OpRegisterWallet)
	require.Equal(t, domain.ErrMaxWalletsReached.Code, register.ExitCode)

	// The registry rejection does not affect the grant.
	addr, err := env.svc.GetWalletAddress(ctx, env.factory, second)
	require.NoError(t, err)
	require.Equal(t, env.factory, register.Sender)
	account := env.account(t, addr)
	require.True(t, coins(1000).Equal(account.TotalAmount))
	require.True(t, coins(1000).Equal(env.balance(t, addr)))

	registry, err := env.svc.GetRegistry(ctx, env.registry)
	require.NoError(t, err)
	require.Equal(t, uint32(1), registry.TotalWallets)
	require.Equal(t, uint32(1), registry.MaxWallets)
}

func TestRegisterFromUnknownSender(t *testing.T) {
	env := newTestEnv(t)
	register := &vestingmsg.RegisterWallet{
		Wallet:      randomAddress().String(),
		AssetIssuer: env.issuer.String(),
		Owner:       randomAddress().String(),
		Recipient:   randomAddress().String(),
	}

	for _, sender := range []domain.Address{
		randomAddress(), env.admin, env.registry,
	} {
		id := env.send(t, sender, env.registry, 0, register)
		require.Equal(t, domain.ErrAccessDenied.Code, env.exitCode(t, id))
	}

	registry, err := env.svc.GetRegistry(ctx, env.registry)
	require.NoError(t, err)
	require.Zero(t, registry.TotalWallets)
}

func TestListVestingAccounts(t *testing.T) {
	env := newTestEnv(t)
	owner := randomAddress()
	env.createGrant(t, env.grantParams(owner, randomAddress()), createValue)
	env.createGrant(t, env.grantParams(owner, randomAddress()), createValue)
	env.createGrant(t, env.grantParams(randomAddress(), randomAddress()), createValue)

	infos, err := env.svc.ListVestingAccounts(ctx, owner, startTime+totalDuration, nil)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		require.Equal(t, owner, info.Owner)
		require.Equal(t, int64(startTime+totalDuration), info.At)
		require.True(t, coins(1000).Equal(info.Unlocked))
		require.True(t, info.Locked.IsZero())
		require.NotNil(t, info.CanCancel)
		require.True(t, *info.CanCancel)
	}

	infos, err = env.svc.ListVestingAccounts(ctx, randomAddress(), 0, nil)
	require.NoError(t, err)
	require.Empty(t, infos)

	page := domain.NewPage(1, 2)
	infos, err = env.svc.ListVestingAccounts(ctx, "", 0, &page)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Nil(t, infos[0].CanCancel)

	page = domain.NewPage(2, 2)
	infos, err = env.svc.ListVestingAccounts(ctx, "", 0, &page)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	infos, err = env.svc.ListVestingAccounts(ctx, "", 0, nil)
	require.NoError(t, err)
	require.Len(t, infos, 3)

	_, err = env.svc.ListVestingAccounts(ctx, "0:zz", 0, nil)
	require.Error(t, err)
}

func TestFactoryAdmin(t *testing.T) {
	env := newTestEnv(t)
	id := env.createGrant(t, env.grantParams(randomAddress(), randomAddress()), createValue)
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

	stranger := randomAddress()
	id = env.send(t, stranger, env.factory, 0, &vestingmsg.ChangeRoyaltyFee{RoyaltyFee: 1})
	require.Equal(t, domain.ErrAccessDenied.Code, env.exitCode(t, id))

	id = env.send(t, env.admin, env.factory, 0, &vestingmsg.ChangeRoyaltyFee{RoyaltyFee: 1})
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

	id = env.send(t, env.admin, env.factory, 0, &vestingmsg.UpdateTemplate{
		Code: domain.FactoryCode,
	})
	require.Equal(t, domain.ErrInvalidAmount.Code, env.exitCode(t, id))

	id = env.send(t, env.admin, env.factory, 0, &vestingmsg.WithdrawRoyalty{})
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))

	factory, err := env.svc.GetFactory(ctx, env.factory)
	require.NoError(t, err)
	require.Equal(t, uint64(1), factory.RoyaltyFee)
	require.Zero(t, factory.RoyaltyBalance)
	require.Equal(t, domain.DefaultRoyaltyFee, factory.RoyaltyWithdrawn)

	id = env.send(t, env.admin, env.factory, 0, &vestingmsg.WithdrawRoyalty{})
	require.Equal(t, domain.ErrInvalidAmount.Code, env.exitCode(t, id))

	newOwner := randomAddress()
	id = env.send(t, env.admin, env.factory, 0, &vestingmsg.ChangeFactoryOwner{
		NewOwner: newOwner.String(),
	})
	require.Equal(t, domain.ExitCodeSuccess, env.exitCode(t, id))
	factory, err = env.svc.GetFactory(ctx, env.factory)
	require.NoError(t, err)
	require.Equal(t, newOwner, factory.Owner)
}

func TestDeployTwice(t *testing.T) {
	env := newTestEnv(t)
	env.clock.set(startTime)

	_, err := env.svc.DeployRegistry(
		ctx, application.DeployRegistryReq{Owner: env.admin}, true,
	)
	require.ErrorIs(t, err, application.ErrAlreadyDeployed)

	_, err = env.svc.DeployRegistry(
		ctx, application.DeployRegistryReq{Owner: "invalid"}, true,
	)
	require.Error(t, err)
}

func TestMessageToUndeployedAddress(t *testing.T) {
	env := newTestEnv(t)
	id := env.send(t, randomAddress(), randomAddress(), 0, &vestingmsg.ClaimUnlocked{
		AssetWallet: nullAddr,
	})

	txs, err := env.svc.ListTransactions(ctx, nil)
	require.NoError(t, err)
	tx := txs[len(txs)-1]
	require.Equal(t, id, tx.MessageID)
	require.True(t, tx.Skipped)
	require.Equal(t, domain.ExitCodeSuccess, tx.ExitCode)
}

func coins(n int64) decimal.Decimal {
	return decimal.New(n, 9)
}

func randomAddress() domain.Address {
	return domain.Address("0:" + randstr.Hex(32))
}
