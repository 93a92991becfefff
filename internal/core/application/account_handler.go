package application

import (
	"context"
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

type accountHandler struct {
	repo ports.RepoManager
}

func newAccountHandler(repo ports.RepoManager) contractHandler {
	return &accountHandler{repo}
}

func (h *accountHandler) Deploy(
	ctx context.Context, addr domain.Address, init domain.StateInit, now int64,
) error {
	data, err := domain.DeserializeAccountInit(init.Data)
	if err != nil {
		return err
	}
	account, err := domain.NewVestingAccount(addr, *data, now)
	if err != nil {
		return err
	}
	account.Code = append([]byte{}, init.Code...)
	return h.repo.VestingAccountRepository().AddVestingAccount(ctx, account)
}

func (h *accountHandler) Handle(
	ctx context.Context, msg domain.Message, now int64,
) ([]domain.Message, error) {
	if len(msg.Body) <= 0 {
		return nil, nil
	}

	if msg.External {
		ext, header, body, err := vestingmsg.DecodeAccountExternal(msg.Body)
		if err != nil {
			return nil, domain.ErrInvalidOp
		}
		claim, ok := body.(*vestingmsg.ClaimUnlocked)
		if !ok {
			return nil, domain.ErrInvalidOp
		}
		return h.update(ctx, msg.Destination, func(
			a *domain.VestingAccount,
		) ([]domain.Message, error) {
			amount, err := a.ClaimExternal(ext.Seqno, ext.ValidUntil, now)
			if err != nil {
				return nil, err
			}
			return h.release(
				a, header.QueryID, amount, a.Recipient,
				claim.ForwardFee, claim.AssetWallet,
			)
		})
	}

	header, body, err := vestingmsg.DecodeAccountBody(msg.Body)
	if err != nil {
		return nil, domain.ErrInvalidOp
	}
	sender := msg.Sender

	return h.update(ctx, msg.Destination, func(
		a *domain.VestingAccount,
	) ([]domain.Message, error) {
		switch m := body.(type) {
		case *vestingmsg.TransferNotification:
			return nil, h.deposit(a, sender, m)

		case *vestingmsg.ClaimUnlocked:
			amount, err := a.Claim(sender, now)
			if err != nil {
				return nil, err
			}
			return h.release(
				a, header.QueryID, amount, a.Recipient, m.ForwardFee, m.AssetWallet,
			)

		case *vestingmsg.CancelVesting:
			amount, err := a.Cancel(sender)
			if err != nil {
				return nil, err
			}
			return h.release(
				a, header.QueryID, amount, a.Owner, m.ForwardFee, m.AssetWallet,
			)

		case *vestingmsg.WithdrawJettons:
			amount, err := a.WithdrawJettons(sender, domain.Address(m.To))
			if err != nil {
				return nil, err
			}
			return h.release(
				a, header.QueryID, amount, a.Owner, m.ForwardFee, m.AssetWallet,
			)

		case *vestingmsg.ChangeRecipient:
			newRecipient := domain.Address(m.NewRecipient)
			old, err := a.ChangeRecipient(sender, newRecipient)
			if err != nil {
				return nil, err
			}
			if !a.NotifiesRegistry() {
				return nil, nil
			}
			notification, err := newMessage(
				a.Address, a.RegistryAddress, 0, header.QueryID,
				&vestingmsg.UpdateRecipient{
					Wallet:       a.Address.String(),
					OldRecipient: old.String(),
					NewRecipient: newRecipient.String(),
				},
			)
			if err != nil {
				return nil, err
			}
			return []domain.Message{notification}, nil

		case *vestingmsg.UpdateOwner:
			newOwner := domain.Address(m.NewOwner)
			old, err := a.UpdateOwner(sender, newOwner)
			if err != nil {
				return nil, err
			}
			if !a.NotifiesRegistry() {
				return nil, nil
			}
			notification, err := newMessage(
				a.Address, a.RegistryAddress, 0, header.QueryID,
				&vestingmsg.UpdateWalletOwner{
					Wallet:   a.Address.String(),
					OldOwner: old.String(),
					NewOwner: newOwner.String(),
				},
			)
			if err != nil {
				return nil, err
			}
			return []domain.Message{notification}, nil

		case *vestingmsg.Relock:
			return nil, a.Relock(sender, m.ExtraDuration)

		case *vestingmsg.SplitVesting:
			return h.split(a, sender, header.QueryID, m)

		case *vestingmsg.UpdateMaxSplits:
			return nil, a.UpdateMaxSplits(sender, m.NewMaxSplits)

		default:
			return nil, domain.ErrInvalidOp
		}
	})
}

// update runs fn against the account at addr and persists the resulting
// state only if fn succeeds.
func (h *accountHandler) update(
	ctx context.Context, addr domain.Address,
	fn func(a *domain.VestingAccount) ([]domain.Message, error),
) ([]domain.Message, error) {
	var outbound []domain.Message
	if err := h.repo.VestingAccountRepository().UpdateVestingAccount(
		ctx, addr, func(a *domain.VestingAccount) (*domain.VestingAccount, error) {
			msgs, err := fn(a)
			if err != nil {
				return nil, err
			}
			outbound = msgs
			return a, nil
		},
	); err != nil {
		return nil, err
	}
	return outbound, nil
}

// deposit tops up the grant with the funds notified by the account's own
// asset wallet. Notifications from anybody else are ignored.
func (h *accountHandler) deposit(
	a *domain.VestingAccount, sender domain.Address,
	m *vestingmsg.TransferNotification,
) error {
	wallet, err := domain.AssetWalletAddress(a.AssetIssuer, a.Address)
	if err != nil {
		return err
	}
	if sender != wallet {
		log.WithFields(log.Fields{
			"account": a.Address,
			"sender":  sender,
		}).Warn("ignoring transfer notification from unknown asset wallet")
		return nil
	}
	_, err = a.Deposit(domain.Address(m.From), mathutil.FromBigInt(m.Amount))
	return err
}

// release returns the transfer of amount to destination through the asset
// wallet of the account.
func (h *accountHandler) release(
	a *domain.VestingAccount, queryID uint64, amount decimal.Decimal,
	destination domain.Address, fee *big.Int, assetWallet string,
) ([]domain.Message, error) {
	value, err := forwardFee(fee)
	if err != nil {
		return nil, err
	}
	wallet, err := holderAssetWallet(assetWallet, a.AssetIssuer, a.Address)
	if err != nil {
		return nil, err
	}
	transfer, err := newTransferMessage(transferArgs{
		queryID:     queryID,
		holder:      a.Address,
		assetWallet: wallet,
		amount:      amount,
		destination: destination,
		forwardFee:  value,
	})
	if err != nil {
		return nil, err
	}
	return []domain.Message{transfer}, nil
}

// split carves the requested amount out of the account, deploys the
// sibling with the same code and moves the funds to it.
func (h *accountHandler) split(
	a *domain.VestingAccount, sender domain.Address, queryID uint64,
	m *vestingmsg.SplitVesting,
) ([]domain.Message, error) {
	value, err := forwardFee(m.ForwardFee)
	if err != nil {
		return nil, err
	}
	amount := mathutil.FromBigInt(m.Amount)
	init, err := a.Split(
		sender, amount, domain.Address(m.NewOwner), domain.Address(m.NewRecipient),
	)
	if err != nil {
		return nil, err
	}
	code := a.Code
	if len(code) <= 0 {
		code = domain.DefaultAccountCode
	}
	stateInit, err := init.StateInit(code)
	if err != nil {
		return nil, err
	}
	sibling := stateInit.Address()

	wallet, err := holderAssetWallet(m.AssetWallet, a.AssetIssuer, a.Address)
	if err != nil {
		return nil, err
	}
	transfer, err := newTransferMessage(transferArgs{
		queryID:       queryID,
		holder:        a.Address,
		assetWallet:   wallet,
		amount:        amount,
		destination:   sibling,
		forwardFee:    value,
		forwardAmount: domain.AssetForwardAmount,
	})
	if err != nil {
		return nil, err
	}
	outbound := []domain.Message{newDeployMessage(a.Address, *stateInit), transfer}

	if a.NotifiesRegistry() {
		register, err := newRegisterMessage(a.Address, a.RegistryAddress, queryID, sibling, *init)
		if err != nil {
			return nil, err
		}
		outbound = append(outbound, register)
	}
	return outbound, nil
}

// newRegisterMessage returns the registration of a freshly deployed account.
func newRegisterMessage(
	sender, registry domain.Address, queryID uint64,
	wallet domain.Address, init domain.AccountInit,
) (domain.Message, error) {
	return newMessage(
		sender, registry, 0, queryID,
		&vestingmsg.RegisterWallet{
			Wallet:      wallet.String(),
			AssetIssuer: init.AssetIssuer.String(),
			Owner:       init.Owner.String(),
			Recipient:   init.Recipient.String(),
			AutoClaim:   init.AutoClaim,
		},
	)
}

func isExitError(err error) bool {
	var exitErr *domain.ExitError
	return errors.As(err, &exitErr)
}
