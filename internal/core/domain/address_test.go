package domain_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	id := strings.Repeat("ab", 32)
	addr, err := domain.ParseAddress("0:" + strings.ToUpper(id))
	require.NoError(t, err)
	require.Equal(t, domain.Address("0:"+id), addr)
	require.NoError(t, addr.Validate())

	require.ErrorIs(t, domain.NullAddress.Validate(), domain.ErrNullAddress)
	require.True(t, domain.NullAddress.IsValid())

	for _, s := range []string{"", "0", "0:abcd", "x:" + id, "0:" + id + "00"} {
		_, err := domain.ParseAddress(s)
		require.ErrorIs(t, err, domain.ErrInvalidAddress, s)
	}
}

func TestContractAddress(t *testing.T) {
	t.Parallel()

	a := domain.ContractAddress([]byte("code"), []byte("data"))
	require.Equal(t, a, domain.ContractAddress([]byte("code"), []byte("data")))
	require.NotEqual(t, a, domain.ContractAddress([]byte("code"), []byte("data2")))
	require.NotEqual(t, a, domain.ContractAddress([]byte("code2"), []byte("data")))
	require.NoError(t, a.Validate())

	require.Len(t, a.IndexKey(), 64)
	require.NotEqual(t, a.IndexKey(), domain.NullAddress.IndexKey())
}

func TestAssetWallet(t *testing.T) {
	t.Parallel()

	addr1, err := domain.AssetWalletAddress(issuer, owner)
	require.NoError(t, err)
	addr2, err := domain.AssetWalletAddress(issuer, owner)
	require.NoError(t, err)
	require.Equal(t, addr1, addr2)
	other, err := domain.AssetWalletAddress(issuer, recipient)
	require.NoError(t, err)
	require.NotEqual(t, addr1, other)

	w, err := domain.NewAssetWallet(addr1, domain.AssetWalletInit{Issuer: issuer, Holder: owner}, startTime)
	require.NoError(t, err)

	require.NoError(t, w.Credit(decimal.NewFromInt(10)))
	require.ErrorIs(t, w.Debit(stranger, decimal.NewFromInt(1)), domain.ErrAccessDenied)
	require.ErrorIs(t, w.Debit(owner, decimal.NewFromInt(11)), domain.ErrInvalidAmount)
	require.NoError(t, w.Debit(owner, decimal.NewFromInt(4)))
	require.Equal(t, "6", w.Balance.String())
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.ExitCodeSuccess, domain.ExitCodeOf(nil))
	require.Equal(t, uint32(0xffa0), domain.ExitCodeOf(domain.ErrAccessDenied))
	require.Equal(t, uint32(0xffa5), domain.ExitCodeOf(domain.ErrMaxSplitsReached))
	require.Equal(t, domain.ExitCodeFailure, domain.ExitCodeOf(domain.ErrAccountNotFound))
}
