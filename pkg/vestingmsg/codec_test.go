package vestingmsg_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

var (
	owner     = "0:" + strings.Repeat("11", 32)
	recipient = "0:" + strings.Repeat("22", 32)
	issuer    = "0:" + strings.Repeat("33", 32)
	wallet    = "0:" + strings.Repeat("44", 32)
)

func TestSplitVesting(t *testing.T) {
	body := &vestingmsg.SplitVesting{
		Amount:       big.NewInt(5_000_000_000),
		NewOwner:     owner,
		NewRecipient: recipient,
		ForwardFee:   big.NewInt(50_000_000),
		AssetWallet:  wallet,
	}
	raw, err := vestingmsg.Encode(42, body)
	require.NoError(t, err)

	header, decoded, err := vestingmsg.DecodeAccountBody(raw)
	require.NoError(t, err)
	require.Equal(t, vestingmsg.OpSplitVesting, header.Op)
	require.Equal(t, uint64(42), header.QueryID)

	split, ok := decoded.(*vestingmsg.SplitVesting)
	require.True(t, ok)
	require.Zero(t, body.Amount.Cmp(split.Amount))
	require.Equal(t, owner, split.NewOwner)
	require.Equal(t, recipient, split.NewRecipient)
	require.Equal(t, wallet, split.AssetWallet)
}

func TestSharedOpcodeDecodesPerTarget(t *testing.T) {
	raw, err := vestingmsg.Encode(1, &vestingmsg.UpdateWalletOwner{
		Wallet: wallet, OldOwner: owner, NewOwner: recipient,
	})
	require.NoError(t, err)

	_, body, err := vestingmsg.DecodeRegistryBody(raw)
	require.NoError(t, err)
	require.IsType(t, &vestingmsg.UpdateWalletOwner{}, body)

	// The account layout of the same opcode only carries the new owner.
	_, _, err = vestingmsg.DecodeAccountBody(raw)
	require.ErrorIs(t, err, vestingmsg.ErrTrailingBytes)
}

func TestFailingDecode(t *testing.T) {
	unknown, err := vestingmsg.Encode(0, &vestingmsg.SetMaxWallets{MaxWallets: 3})
	require.NoError(t, err)

	relock, err := vestingmsg.Encode(0, &vestingmsg.Relock{ExtraDuration: 60})
	require.NoError(t, err)

	tests := []struct {
		name          string
		raw           []byte
		expectedError error
	}{
		{
			name:          "empty_body",
			raw:           nil,
			expectedError: vestingmsg.ErrEmptyBody,
		},
		{
			name:          "short_body",
			raw:           []byte{0x00, 0x00, 0x88, 0x88},
			expectedError: vestingmsg.ErrShortBody,
		},
		{
			name:          "unknown_op",
			raw:           unknown,
			expectedError: vestingmsg.ErrUnknownOp,
		},
		{
			name:          "trailing_bytes",
			raw:           append(relock, 0x01),
			expectedError: vestingmsg.ErrTrailingBytes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := vestingmsg.DecodeAccountBody(tt.raw)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestExternalClaim(t *testing.T) {
	ext := vestingmsg.ExternalHeader{Seqno: 7, ValidUntil: 1700000000}
	raw, err := vestingmsg.EncodeExternal(ext, 9, &vestingmsg.ClaimUnlocked{
		ForwardFee:  big.NewInt(1),
		AssetWallet: wallet,
	})
	require.NoError(t, err)

	gotExt, header, body, err := vestingmsg.DecodeAccountExternal(raw)
	require.NoError(t, err)
	require.Equal(t, ext, gotExt)
	require.Equal(t, vestingmsg.OpClaimUnlocked, header.Op)
	require.Equal(t, uint64(9), header.QueryID)
	require.IsType(t, &vestingmsg.ClaimUnlocked{}, body)
}

func TestGrantPayload(t *testing.T) {
	payload := vestingmsg.GrantPayload{
		Owner:                     owner,
		Recipient:                 recipient,
		AssetIssuer:               issuer,
		SourceAssetWallet:         wallet,
		StartTime:                 1700003600,
		TotalDuration:             30 * 86400,
		UnlockPeriod:              86400,
		CliffDuration:             7 * 86400,
		AutoClaim:                 true,
		CancelPermission:          2,
		ChangeRecipientPermission: 3,
	}
	raw, err := vestingmsg.EncodeGrantPayload(payload)
	require.NoError(t, err)

	decoded, err := vestingmsg.DecodeGrantPayload(raw)
	require.NoError(t, err)
	require.Equal(t, payload, *decoded)

	_, err = vestingmsg.DecodeGrantPayload(raw[:len(raw)-1])
	require.Error(t, err)

	_, err = vestingmsg.DecodeGrantPayload(nil)
	require.ErrorIs(t, err, vestingmsg.ErrEmptyBody)

	payload.CancelPermission = 8
	_, err = vestingmsg.EncodeGrantPayload(payload)
	require.Error(t, err)
}

func TestCoinsBounds(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := vestingmsg.Encode(0, &vestingmsg.Transfer{
		Amount:              tooBig,
		Destination:         owner,
		ResponseDestination: owner,
	})
	require.ErrorIs(t, err, vestingmsg.ErrInvalidCoins)

	_, err = vestingmsg.Encode(0, &vestingmsg.Transfer{
		Amount:              big.NewInt(-1),
		Destination:         owner,
		ResponseDestination: owner,
	})
	require.ErrorIs(t, err, vestingmsg.ErrInvalidCoins)
}

func TestParseAddress(t *testing.T) {
	addr, err := vestingmsg.ParseAddress(" 0:" + strings.Repeat("AB", 32))
	require.NoError(t, err)
	require.Equal(t, "0:"+strings.Repeat("ab", 32), addr)

	for _, s := range []string{"", "0:zz", "0:abcd", "x:" + strings.Repeat("ab", 32)} {
		_, err := vestingmsg.ParseAddress(s)
		require.ErrorIs(t, err, vestingmsg.ErrInvalidAddress)
	}

	require.Equal(t, "claim_unlocked", vestingmsg.OpName(vestingmsg.OpClaimUnlocked))
	require.Equal(t, "0x12345678", vestingmsg.OpName(0x12345678))
}
