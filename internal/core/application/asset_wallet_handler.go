package application

import (
	"context"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

type assetWalletHandler struct {
	repo ports.RepoManager
}

func newAssetWalletHandler(repo ports.RepoManager) contractHandler {
	return &assetWalletHandler{repo}
}

func (h *assetWalletHandler) Deploy(
	ctx context.Context, addr domain.Address, init domain.StateInit, now int64,
) error {
	data, err := domain.DeserializeAssetWalletInit(init.Data)
	if err != nil {
		return err
	}
	wallet, err := domain.NewAssetWallet(addr, *data, now)
	if err != nil {
		return err
	}
	return h.repo.AssetWalletRepository().AddAssetWallet(ctx, wallet)
}

func (h *assetWalletHandler) Handle(
	ctx context.Context, msg domain.Message, _ int64,
) ([]domain.Message, error) {
	if len(msg.Body) <= 0 {
		return nil, nil
	}
	if msg.External {
		return nil, domain.ErrInvalidOp
	}

	header, body, err := vestingmsg.DecodeAssetBody(msg.Body)
	if err != nil {
		return nil, domain.ErrInvalidOp
	}

	var outbound []domain.Message
	if err := h.repo.AssetWalletRepository().UpdateAssetWallet(
		ctx, msg.Destination, func(w *domain.AssetWallet) (*domain.AssetWallet, error) {
			var err error
			switch m := body.(type) {
			case *vestingmsg.Transfer:
				outbound, err = h.transfer(w, msg, header.QueryID, m)
			case *vestingmsg.InternalTransfer:
				outbound, err = h.receive(w, msg.Sender, header.QueryID, m)
			default:
				err = domain.ErrInvalidOp
			}
			if err != nil {
				return nil, err
			}
			return w, nil
		},
	); err != nil {
		return nil, err
	}
	return outbound, nil
}

// transfer debits the wallet and moves the funds to the wallet of the
// destination, deploying it if needed.
func (h *assetWalletHandler) transfer(
	w *domain.AssetWallet, msg domain.Message, queryID uint64,
	m *vestingmsg.Transfer,
) ([]domain.Message, error) {
	amount := mathutil.FromBigInt(m.Amount)
	if err := w.Debit(msg.Sender, amount); err != nil {
		return nil, err
	}
	destination := domain.Address(m.Destination)
	if destination.Validate() != nil {
		return nil, domain.ErrInvalidAmount
	}
	stateInit, err := domain.AssetWalletInit{
		Issuer: w.Issuer, Holder: destination,
	}.StateInit()
	if err != nil {
		return nil, err
	}

	internal, err := newMessage(
		w.Address, stateInit.Address(), msg.Value, queryID,
		&vestingmsg.InternalTransfer{
			Amount:              m.Amount,
			From:                w.Holder.String(),
			ResponseDestination: m.ResponseDestination,
			ForwardAmount:       m.ForwardAmount,
			ForwardPayload:      m.ForwardPayload,
		},
	)
	if err != nil {
		return nil, err
	}
	return []domain.Message{internal.WithStateInit(*stateInit)}, nil
}

// receive credits the wallet with funds minted by the issuer or sent by
// another wallet of the same asset, and notifies the holder if requested.
func (h *assetWalletHandler) receive(
	w *domain.AssetWallet, sender domain.Address, queryID uint64,
	m *vestingmsg.InternalTransfer,
) ([]domain.Message, error) {
	if sender != w.Issuer {
		source, err := domain.AssetWalletAddress(w.Issuer, domain.Address(m.From))
		if err != nil {
			return nil, err
		}
		if sender != source {
			return nil, domain.ErrAccessDenied
		}
	}
	if err := w.Credit(mathutil.FromBigInt(m.Amount)); err != nil {
		return nil, err
	}
	if m.ForwardAmount == 0 {
		return nil, nil
	}

	notification, err := newMessage(
		w.Address, w.Holder, m.ForwardAmount, queryID,
		&vestingmsg.TransferNotification{
			Amount:  m.Amount,
			From:    m.From,
			Payload: m.ForwardPayload,
		},
	)
	if err != nil {
		return nil, err
	}
	return []domain.Message{notification}, nil
}
