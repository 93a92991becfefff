package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

type factoryHandler struct {
	repo ports.RepoManager
}

func newFactoryHandler(repo ports.RepoManager) contractHandler {
	return &factoryHandler{repo}
}

func (h *factoryHandler) Deploy(
	ctx context.Context, addr domain.Address, init domain.StateInit, now int64,
) error {
	data, err := domain.DeserializeFactoryInit(init.Data)
	if err != nil {
		return err
	}
	factory, err := domain.NewFactory(addr, *data, now)
	if err != nil {
		return err
	}
	return h.repo.FactoryRepository().AddFactory(ctx, factory)
}

func (h *factoryHandler) Handle(
	ctx context.Context, msg domain.Message, now int64,
) ([]domain.Message, error) {
	if len(msg.Body) <= 0 {
		return nil, nil
	}
	if msg.External {
		return nil, domain.ErrInvalidOp
	}

	header, body, err := vestingmsg.DecodeFactoryBody(msg.Body)
	if err != nil {
		return nil, domain.ErrInvalidOp
	}
	sender := msg.Sender

	var outbound []domain.Message
	if err := h.repo.FactoryRepository().UpdateFactory(
		ctx, msg.Destination, func(f *domain.Factory) (*domain.Factory, error) {
			var err error
			switch m := body.(type) {
			case *vestingmsg.TransferNotification:
				outbound, err = h.createGrant(f, msg, header.QueryID, m)
			case *vestingmsg.ChangeFactoryOwner:
				err = f.ChangeOwner(sender, domain.Address(m.NewOwner))
			case *vestingmsg.ChangeRoyaltyFee:
				err = f.ChangeRoyaltyFee(sender, m.RoyaltyFee)
			case *vestingmsg.SetRegistry:
				err = f.SetRegistry(sender, domain.Address(m.Registry))
			case *vestingmsg.UpdateTemplate:
				err = f.UpdateTemplate(sender, m.Code)
			case *vestingmsg.WithdrawRoyalty:
				outbound, err = h.withdrawRoyalty(f, sender, m)
			case *vestingmsg.WithdrawJettons:
				outbound, err = h.withdrawJettons(f, sender, header.QueryID, m)
			default:
				err = domain.ErrInvalidOp
			}
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	); err != nil {
		return nil, err
	}
	return outbound, nil
}

// createGrant handles an asset deposit carrying a grant request. Requests
// that cannot be honored because their payload is malformed or does not
// match the deposit are accepted without effects.
func (h *factoryHandler) createGrant(
	f *domain.Factory, msg domain.Message, queryID uint64,
	m *vestingmsg.TransferNotification,
) ([]domain.Message, error) {
	logger := log.WithFields(log.Fields{
		"factory": f.Address,
		"sender":  msg.Sender,
	})

	payload, err := vestingmsg.DecodeGrantPayload(m.Payload)
	if err != nil {
		logger.WithError(err).Warn("ignoring deposit with malformed grant payload")
		return nil, nil
	}
	sourceWallet := domain.Address(payload.SourceAssetWallet)
	factoryWallet, err := domain.AssetWalletAddress(
		domain.Address(payload.AssetIssuer), f.Address,
	)
	if err != nil {
		return nil, err
	}
	if sourceWallet != msg.Sender || sourceWallet != factoryWallet {
		logger.Warn("ignoring deposit notified by unexpected asset wallet")
		return nil, nil
	}

	params := domain.GrantParams{
		Owner:       domain.Address(payload.Owner),
		Recipient:   domain.Address(payload.Recipient),
		AssetIssuer: domain.Address(payload.AssetIssuer),
		TotalAmount: mathutil.FromBigInt(m.Amount),
		Schedule: domain.Schedule{
			StartTime:     payload.StartTime,
			TotalDuration: payload.TotalDuration,
			UnlockPeriod:  payload.UnlockPeriod,
			CliffDuration: payload.CliffDuration,
		},
		AutoClaim:                 payload.AutoClaim,
		CancelPermission:          domain.Permission(payload.CancelPermission),
		ChangeRecipientPermission: domain.Permission(payload.ChangeRecipientPermission),
	}
	init, err := f.Create(params, msg.Value)
	if err != nil {
		if isExitError(err) {
			return nil, err
		}
		logger.WithError(err).Warn("ignoring invalid grant request")
		return nil, nil
	}

	stateInit, err := init.StateInit(f.Template)
	if err != nil {
		return nil, err
	}
	account := stateInit.Address()

	transfer, err := newTransferMessage(transferArgs{
		queryID:       queryID,
		holder:        f.Address,
		assetWallet:   sourceWallet,
		amount:        params.TotalAmount,
		destination:   account,
		forwardAmount: domain.AssetForwardAmount,
	})
	if err != nil {
		return nil, err
	}
	outbound := []domain.Message{newDeployMessage(f.Address, *stateInit), transfer}

	if f.NotifiesRegistry() {
		register, err := newRegisterMessage(f.Address, f.Registry, queryID, account, *init)
		if err != nil {
			return nil, err
		}
		outbound = append(outbound, register)
	}

	logger.WithFields(log.Fields{
		"account": account,
		"amount":  params.TotalAmount.String(),
	}).Info("grant created")
	return outbound, nil
}

func (h *factoryHandler) withdrawRoyalty(
	f *domain.Factory, sender domain.Address, m *vestingmsg.WithdrawRoyalty,
) ([]domain.Message, error) {
	amount, err := f.WithdrawRoyalty(sender, m.Amount)
	if err != nil {
		return nil, err
	}
	return []domain.Message{
		domain.NewInternalMessage(f.Address, f.Owner, amount, nil),
	}, nil
}

// withdrawJettons sends a stray asset balance of the factory to its owner.
func (h *factoryHandler) withdrawJettons(
	f *domain.Factory, sender domain.Address, queryID uint64,
	m *vestingmsg.WithdrawJettons,
) ([]domain.Message, error) {
	if err := f.CheckOwner(sender); err != nil {
		return nil, err
	}
	wallet := domain.Address(m.AssetWallet)
	amount := mathutil.FromBigInt(m.Amount)
	if wallet.Validate() != nil || !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	value, err := forwardFee(m.ForwardFee)
	if err != nil {
		return nil, err
	}
	transfer, err := newTransferMessage(transferArgs{
		queryID:     queryID,
		holder:      f.Address,
		assetWallet: wallet,
		amount:      amount,
		destination: f.Owner,
		forwardFee:  value,
	})
	if err != nil {
		return nil, err
	}
	return []domain.Message{transfer}, nil
}
