package application

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

type registryHandler struct {
	repo       ports.RepoManager
	maxWallets uint32
}

func newRegistryHandler(repo ports.RepoManager, maxWallets uint32) contractHandler {
	return &registryHandler{repo, maxWallets}
}

func (h *registryHandler) Deploy(
	ctx context.Context, addr domain.Address, init domain.StateInit, now int64,
) error {
	data, err := domain.DeserializeRegistryInit(init.Data)
	if err != nil {
		return err
	}
	registry, err := domain.NewRegistry(addr, *data, h.maxWallets, now)
	if err != nil {
		return err
	}
	return h.repo.RegistryRepository().AddRegistry(ctx, registry)
}

func (h *registryHandler) Handle(
	ctx context.Context, msg domain.Message, _ int64,
) ([]domain.Message, error) {
	if len(msg.Body) <= 0 {
		return nil, nil
	}
	if msg.External {
		return nil, domain.ErrInvalidOp
	}

	_, body, err := vestingmsg.DecodeRegistryBody(msg.Body)
	if err != nil {
		return nil, domain.ErrInvalidOp
	}
	sender := msg.Sender

	var registrar domain.ContractKind
	if _, ok := body.(*vestingmsg.RegisterWallet); ok {
		if registrar, err = h.contractKind(ctx, sender); err != nil {
			return nil, err
		}
	}

	return nil, h.repo.RegistryRepository().UpdateRegistry(
		ctx, msg.Destination, func(r *domain.Registry) (*domain.Registry, error) {
			var err error
			switch m := body.(type) {
			case *vestingmsg.RegisterWallet:
				if !domain.CanRegister(registrar) {
					log.WithFields(log.Fields{
						"registry": r.Address,
						"sender":   sender,
					}).Warn("rejecting registration from unknown contract")
					err = domain.ErrAccessDenied
					break
				}
				var added bool
				added, err = r.Register(domain.RegistryEntry{
					Wallet:      domain.Address(m.Wallet),
					AssetIssuer: domain.Address(m.AssetIssuer),
					Owner:       domain.Address(m.Owner),
					Recipient:   domain.Address(m.Recipient),
					AutoClaim:   m.AutoClaim,
				})
				if err == nil && !added {
					log.WithFields(log.Fields{
						"registry": r.Address,
						"wallet":   m.Wallet,
					}).Debug("wallet already registered")
				}
			case *vestingmsg.UpdateRecipient:
				err = r.UpdateRecipient(
					sender, domain.Address(m.Wallet),
					domain.Address(m.OldRecipient), domain.Address(m.NewRecipient),
				)
			case *vestingmsg.UpdateWalletOwner:
				err = r.UpdateOwner(
					sender, domain.Address(m.Wallet),
					domain.Address(m.OldOwner), domain.Address(m.NewOwner),
				)
			case *vestingmsg.SetMaxWallets:
				err = r.SetMaxWallets(sender, m.MaxWallets)
			default:
				err = domain.ErrInvalidOp
			}
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	)
}

// contractKind returns the kind of the contract deployed at addr, or an
// empty kind if addr is not a contract.
func (h *registryHandler) contractKind(
	ctx context.Context, addr domain.Address,
) (domain.ContractKind, error) {
	contract, err := h.repo.ContractRepository().GetContract(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrContractNotFound) {
			return "", nil
		}
		return "", err
	}
	return contract.Kind, nil
}
