package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// VestingService defines the methods of the application layer to operate
// the network of vesting contracts.
type VestingService interface {
	// SendMessage queues msg for delivery and returns its id. If wait is
	// set, it returns only once the network has settled.
	SendMessage(ctx context.Context, msg domain.Message, wait bool) (string, error)
	DeployFactory(
		ctx context.Context, req DeployFactoryReq, wait bool,
	) (*DeployResult, error)
	DeployRegistry(
		ctx context.Context, req DeployRegistryReq, wait bool,
	) (*DeployResult, error)
	GetFactory(ctx context.Context, addr domain.Address) (*FactoryInfo, error)
	GetWalletAddress(
		ctx context.Context, factory domain.Address, params domain.GrantParams,
	) (domain.Address, error)
	GetVestingAccount(
		ctx context.Context, addr domain.Address, at int64, sender domain.Address,
	) (*AccountInfo, error)
	// ListVestingAccounts returns the accounts currently owned by owner, or a
	// page of all accounts if owner is empty, with their getters evaluated
	// at the given time.
	ListVestingAccounts(
		ctx context.Context, owner domain.Address, at int64, page *domain.Page,
	) ([]AccountInfo, error)
	GetRegistry(ctx context.Context, addr domain.Address) (*RegistryInfo, error)
	// ListContracts returns the deployed contracts of the given kind, or all
	// of them if kind is empty.
	ListContracts(
		ctx context.Context, kind domain.ContractKind,
	) ([]domain.Contract, error)
	GetRegistryWallets(
		ctx context.Context, addr domain.Address,
		index domain.RegistryIndex, key domain.Address,
	) ([]domain.Address, error)
	MintAsset(ctx context.Context, req MintReq, wait bool) (*DeployResult, error)
	GetAssetBalance(
		ctx context.Context, issuer, holder domain.Address,
	) (decimal.Decimal, error)
	ListTransactions(
		ctx context.Context, page *domain.Page,
	) ([]domain.Transaction, error)
	ListTransactionsForAddress(
		ctx context.Context, addr domain.Address, page *domain.Page,
	) ([]domain.Transaction, error)
	// Settle blocks until every queued message has been processed.
	Settle(ctx context.Context) error
}

type vestingService struct {
	repo                 ports.RepoManager
	network              ports.Network
	clock                ports.Clock
	defaultRoyaltyFee    uint64
	defaultMinCreateCost uint64
}

// NewVestingService is a constructor function for VestingService.
func NewVestingService(
	repo ports.RepoManager, network ports.Network, clock ports.Clock,
	royaltyFee, minCreateCost uint64,
) (VestingService, error) {
	if repo == nil {
		return nil, ErrMissingRepoManager
	}
	if network == nil {
		return nil, ErrMissingNetwork
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &vestingService{
		repo, network, clock, royaltyFee, minCreateCost,
	}, nil
}

func (s *vestingService) SendMessage(
	ctx context.Context, msg domain.Message, wait bool,
) (string, error) {
	if err := msg.Destination.Validate(); err != nil {
		return "", err
	}
	if msg.External {
		msg.Sender = domain.NullAddress
	} else if err := msg.Sender.Validate(); err != nil {
		return "", err
	}
	if msg.ID == "" {
		msg.ID = domain.NewInternalMessage(msg.Sender, msg.Destination, 0, nil).ID
	}
	msg.CreatedAt = s.clock.Now()

	if err := s.network.Send(ctx, msg); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{
		"id":          msg.ID,
		"destination": msg.Destination,
		"external":    msg.External,
	}).Debug("message submitted")

	if wait {
		if err := s.network.Settle(ctx); err != nil {
			return "", err
		}
	}
	return msg.ID, nil
}

func (s *vestingService) DeployFactory(
	ctx context.Context, req DeployFactoryReq, wait bool,
) (*DeployResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	init := domain.FactoryInit{
		Owner:         req.Owner,
		Registry:      req.Registry,
		RoyaltyFee:    s.defaultRoyaltyFee,
		MinCreateCost: s.defaultMinCreateCost,
		DeployTime:    uint32(s.clock.Now()),
		Template:      req.Template,
	}
	if init.Registry == "" {
		init.Registry = domain.NullAddress
	}
	if req.RoyaltyFee != nil {
		init.RoyaltyFee = *req.RoyaltyFee
	}
	if req.MinCreateCost != nil {
		init.MinCreateCost = *req.MinCreateCost
	}
	if len(init.Template) <= 0 {
		init.Template = domain.DefaultAccountCode
	}
	if err := init.Validate(); err != nil {
		return nil, err
	}
	stateInit, err := init.StateInit()
	if err != nil {
		return nil, err
	}
	return s.deploy(ctx, *stateInit, wait)
}

func (s *vestingService) DeployRegistry(
	ctx context.Context, req DeployRegistryReq, wait bool,
) (*DeployResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	init := domain.RegistryInit{
		Owner:      req.Owner,
		DeployTime: uint32(s.clock.Now()),
	}
	stateInit, err := init.StateInit()
	if err != nil {
		return nil, err
	}
	return s.deploy(ctx, *stateInit, wait)
}

// deploy sends an empty external message carrying the state init of the
// contract to its address.
func (s *vestingService) deploy(
	ctx context.Context, init domain.StateInit, wait bool,
) (*DeployResult, error) {
	addr := init.Address()
	if _, err := s.repo.ContractRepository().GetContract(ctx, addr); err == nil {
		return nil, fmt.Errorf("%w at %s", ErrAlreadyDeployed, addr)
	}
	msg := domain.NewExternalMessage(addr, nil).WithStateInit(init)
	id, err := s.SendMessage(ctx, msg, wait)
	if err != nil {
		return nil, err
	}
	return &DeployResult{Address: addr, MessageID: id}, nil
}

func (s *vestingService) GetFactory(
	ctx context.Context, addr domain.Address,
) (*FactoryInfo, error) {
	f, err := s.repo.FactoryRepository().GetFactory(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &FactoryInfo{
		Factory:        *f,
		RoyaltyBalance: f.RoyaltyBalance(),
		TemplateHash:   f.TemplateHash(),
	}, nil
}

func (s *vestingService) GetWalletAddress(
	ctx context.Context, factory domain.Address, params domain.GrantParams,
) (domain.Address, error) {
	f, err := s.repo.FactoryRepository().GetFactory(ctx, factory)
	if err != nil {
		return "", err
	}
	return f.WalletAddress(params)
}

func (s *vestingService) GetVestingAccount(
	ctx context.Context, addr domain.Address, at int64, sender domain.Address,
) (*AccountInfo, error) {
	a, err := s.repo.VestingAccountRepository().GetVestingAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if at <= 0 {
		at = s.clock.Now()
	}
	return newAccountInfo(a, at, sender), nil
}

func (s *vestingService) ListVestingAccounts(
	ctx context.Context, owner domain.Address, at int64, page *domain.Page,
) ([]AccountInfo, error) {
	repo := s.repo.VestingAccountRepository()
	var accounts []domain.VestingAccount
	var err error
	if owner == "" {
		accounts, err = repo.GetAllVestingAccounts(ctx, page)
	} else {
		if err := owner.Validate(); err != nil {
			return nil, err
		}
		accounts, err = repo.GetVestingAccountsByOwner(ctx, owner)
	}
	if err != nil {
		return nil, err
	}
	if at <= 0 {
		at = s.clock.Now()
	}
	infos := make([]AccountInfo, 0, len(accounts))
	for i := range accounts {
		infos = append(infos, *newAccountInfo(&accounts[i], at, owner))
	}
	return infos, nil
}

func newAccountInfo(
	a *domain.VestingAccount, at int64, sender domain.Address,
) *AccountInfo {
	info := &AccountInfo{
		VestingAccount: *a,
		At:             at,
		Locked:         a.Locked(at),
		Unlocked:       a.Unlocked(at),
		Claimable:      a.Claimable(at),
		CanSplitMore:   a.CanSplitMore(),
		MinSplitAmount: domain.MinSplitAmount,
	}
	if sender != "" {
		canCancel := a.CanCancel(sender)
		canChangeRecipient := a.CanChangeRecipient(sender)
		info.CanCancel = &canCancel
		info.CanChangeRecipient = &canChangeRecipient
	}
	return info
}

func (s *vestingService) GetRegistry(
	ctx context.Context, addr domain.Address,
) (*RegistryInfo, error) {
	r, err := s.repo.RegistryRepository().GetRegistry(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &RegistryInfo{
		Address:      r.Address,
		Owner:        r.Owner,
		DeployTime:   r.DeployTime,
		TotalWallets: r.TotalWallets,
		MaxWallets:   r.MaxWallets,
		CreatedAt:    r.CreatedAt,
	}, nil
}

func (s *vestingService) ListContracts(
	ctx context.Context, kind domain.ContractKind,
) ([]domain.Contract, error) {
	if kind != "" {
		return s.repo.ContractRepository().GetContractsByKind(ctx, kind)
	}
	contracts := make([]domain.Contract, 0)
	for _, k := range []domain.ContractKind{
		domain.KindFactory, domain.KindRegistry,
		domain.KindVestingAccount, domain.KindAssetWallet,
	} {
		list, err := s.repo.ContractRepository().GetContractsByKind(ctx, k)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, list...)
	}
	return contracts, nil
}

func (s *vestingService) GetRegistryWallets(
	ctx context.Context, addr domain.Address,
	index domain.RegistryIndex, key domain.Address,
) ([]domain.Address, error) {
	if _, err := domain.ParseRegistryIndex(string(index)); err != nil {
		return nil, err
	}
	r, err := s.repo.RegistryRepository().GetRegistry(ctx, addr)
	if err != nil {
		return nil, err
	}
	return r.Wallets(index, key), nil
}

// MintAsset credits holder's wallet with newly issued funds. The wallet is
// deployed if needed.
func (s *vestingService) MintAsset(
	ctx context.Context, req MintReq, wait bool,
) (*DeployResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stateInit, err := domain.AssetWalletInit{
		Issuer: req.Issuer, Holder: req.Holder,
	}.StateInit()
	if err != nil {
		return nil, err
	}
	wallet := stateInit.Address()
	body, err := vestingmsg.Encode(0, &vestingmsg.InternalTransfer{
		Amount:              mathutil.ToBigInt(req.Amount),
		From:                req.Issuer.String(),
		ResponseDestination: req.Issuer.String(),
	})
	if err != nil {
		return nil, err
	}
	msg := domain.NewInternalMessage(req.Issuer, wallet, 0, body).
		WithStateInit(*stateInit)
	id, err := s.SendMessage(ctx, msg, wait)
	if err != nil {
		return nil, err
	}
	return &DeployResult{Address: wallet, MessageID: id}, nil
}

func (s *vestingService) GetAssetBalance(
	ctx context.Context, issuer, holder domain.Address,
) (decimal.Decimal, error) {
	addr, err := domain.AssetWalletAddress(issuer, holder)
	if err != nil {
		return decimal.Zero, err
	}
	w, err := s.repo.AssetWalletRepository().GetAssetWallet(ctx, addr)
	if err != nil {
		return decimal.Zero, err
	}
	return w.Balance, nil
}

func (s *vestingService) ListTransactions(
	ctx context.Context, page *domain.Page,
) ([]domain.Transaction, error) {
	return s.repo.TransactionRepository().GetAllTransactions(ctx, page)
}

func (s *vestingService) ListTransactionsForAddress(
	ctx context.Context, addr domain.Address, page *domain.Page,
) ([]domain.Transaction, error) {
	return s.repo.TransactionRepository().GetTransactionsForAddress(ctx, addr, page)
}

func (s *vestingService) Settle(ctx context.Context) error {
	return s.network.Settle(ctx)
}
