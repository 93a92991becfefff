package application

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// newMessage encodes body and wraps it into a message from sender.
func newMessage(
	sender, destination domain.Address, value, queryID uint64,
	body vestingmsg.Body,
) (domain.Message, error) {
	raw, err := vestingmsg.Encode(queryID, body)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.NewInternalMessage(sender, destination, value, raw), nil
}

// transferArgs describe an asset transfer requested by a contract to the
// asset wallet it holds.
type transferArgs struct {
	queryID       uint64
	holder        domain.Address
	assetWallet   domain.Address
	amount        decimal.Decimal
	destination   domain.Address
	forwardFee    uint64
	forwardAmount uint64
	payload       []byte
}

func newTransferMessage(args transferArgs) (domain.Message, error) {
	return newMessage(
		args.holder, args.assetWallet, args.forwardFee, args.queryID,
		&vestingmsg.Transfer{
			Amount:              mathutil.ToBigInt(args.amount),
			Destination:         args.destination.String(),
			ResponseDestination: args.holder.String(),
			ForwardAmount:       args.forwardAmount,
			ForwardPayload:      args.payload,
		},
	)
}

// newDeployMessage returns an empty message carrying the state init of
// destination, so that it gets deployed when the message is delivered.
func newDeployMessage(
	sender domain.Address, init domain.StateInit,
) domain.Message {
	return domain.NewInternalMessage(sender, init.Address(), 0, nil).
		WithStateInit(init)
}

// holderAssetWallet returns the asset wallet given in a message, or the one
// derived for holder if none was given.
func holderAssetWallet(
	given string, issuer, holder domain.Address,
) (domain.Address, error) {
	if given != "" && !domain.Address(given).IsNull() {
		return domain.Address(given), nil
	}
	return domain.AssetWalletAddress(issuer, holder)
}

// forwardFee converts the fee of a message body into native units.
func forwardFee(fee *big.Int) (uint64, error) {
	if fee == nil {
		return 0, nil
	}
	if fee.Sign() < 0 || !fee.IsUint64() {
		return 0, domain.ErrInvalidAmount
	}
	return fee.Uint64(), nil
}
