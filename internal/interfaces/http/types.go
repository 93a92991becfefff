package httpinterface

import (
	"github.com/shopspring/decimal"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
)

type stateInitJSON struct {
	Code string `json:"code"`
	Data string `json:"data"`
}

type sendMessageRequest struct {
	Sender      string         `json:"sender"`
	Destination string         `json:"destination"`
	Value       uint64         `json:"value"`
	Body        string         `json:"body"`
	External    bool           `json:"external"`
	StateInit   *stateInitJSON `json:"state_init,omitempty"`
}

type sendMessageResponse struct {
	MessageID   string           `json:"message_id"`
	Transaction *transactionView `json:"transaction,omitempty"`
}

type deployFactoryRequest struct {
	Owner         string  `json:"owner"`
	Registry      string  `json:"registry"`
	RoyaltyFee    *uint64 `json:"royalty_fee"`
	MinCreateCost *uint64 `json:"min_create_cost"`
	Template      string  `json:"template"`
}

type deployRegistryRequest struct {
	Owner string `json:"owner"`
}

type mintRequest struct {
	Issuer string `json:"issuer"`
	Holder string `json:"holder"`
	Amount string `json:"amount"`
}

type deployResponse struct {
	Address   string `json:"address"`
	MessageID string `json:"message_id"`
}

type addWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

// grantQuery are the query params identifying a grant.
type grantQuery struct {
	Owner           string `form:"owner"`
	Recipient       string `form:"recipient"`
	Issuer          string `form:"issuer"`
	Total           string `form:"total"`
	Start           uint32 `form:"start"`
	Duration        uint32 `form:"duration"`
	Period          uint32 `form:"period"`
	Cliff           uint32 `form:"cliff"`
	AutoClaim       bool   `form:"auto_claim"`
	Cancel          uint8  `form:"cancel"`
	ChangeRecipient uint8  `form:"change_recipient"`
}

type pageQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

func (q pageQuery) toDomain() *domain.Page {
	if q.Page <= 0 && q.Size <= 0 {
		return nil
	}
	page := domain.NewPage(q.Page, q.Size)
	return &page
}

type scheduleView struct {
	StartTime     uint32 `json:"start_time"`
	TotalDuration uint32 `json:"total_duration"`
	UnlockPeriod  uint32 `json:"unlock_period"`
	CliffDuration uint32 `json:"cliff_duration"`
}

type accountView struct {
	Address                   string          `json:"address"`
	Owner                     string          `json:"owner"`
	Recipient                 string          `json:"recipient"`
	AssetIssuer               string          `json:"asset_issuer"`
	TotalAmount               decimal.Decimal `json:"total_amount"`
	ClaimedAmount             decimal.Decimal `json:"claimed_amount"`
	Schedule                  scheduleView    `json:"schedule"`
	AutoClaim                 bool            `json:"auto_claim"`
	CancelPermission          uint8           `json:"cancel_permission"`
	ChangeRecipientPermission uint8           `json:"change_recipient_permission"`
	Seqno                     uint32          `json:"seqno"`
	Registry                  string          `json:"registry"`
	Factory                   string          `json:"factory"`
	Parent                    string          `json:"parent"`
	SplitIndex                uint8           `json:"split_index"`
	SplitsIssued              uint8           `json:"splits_issued"`
	MaxSplits                 uint8           `json:"max_splits"`
	Funded                    bool            `json:"funded"`
	CreatedAt                 int64           `json:"created_at"`

	At                 int64           `json:"at"`
	Locked             decimal.Decimal `json:"locked"`
	Unlocked           decimal.Decimal `json:"unlocked"`
	Claimable          decimal.Decimal `json:"claimable"`
	CanSplitMore       bool            `json:"can_split_more"`
	MinSplitAmount     decimal.Decimal `json:"min_split_amount"`
	CanCancel          *bool           `json:"can_cancel,omitempty"`
	CanChangeRecipient *bool           `json:"can_change_recipient,omitempty"`
}

func newAccountView(info *application.AccountInfo) accountView {
	a := info.VestingAccount
	return accountView{
		Address:       a.Address.String(),
		Owner:         a.Owner.String(),
		Recipient:     a.Recipient.String(),
		AssetIssuer:   a.AssetIssuer.String(),
		TotalAmount:   a.TotalAmount,
		ClaimedAmount: a.ClaimedAmount,
		Schedule: scheduleView{
			StartTime:     a.Schedule.StartTime,
			TotalDuration: a.Schedule.TotalDuration,
			UnlockPeriod:  a.Schedule.UnlockPeriod,
			CliffDuration: a.Schedule.CliffDuration,
		},
		AutoClaim:                 a.AutoClaim,
		CancelPermission:          uint8(a.CancelPermission),
		ChangeRecipientPermission: uint8(a.ChangeRecipientPermission),
		Seqno:                     a.Seqno,
		Registry:                  a.RegistryAddress.String(),
		Factory:                   a.FactoryAddress.String(),
		Parent:                    a.ParentAddress.String(),
		SplitIndex:                a.SplitIndex,
		SplitsIssued:              a.SplitsIssued,
		MaxSplits:                 a.MaxSplits,
		Funded:                    a.Funded,
		CreatedAt:                 a.CreatedAt,
		At:                        info.At,
		Locked:                    info.Locked,
		Unlocked:                  info.Unlocked,
		Claimable:                 info.Claimable,
		CanSplitMore:              info.CanSplitMore,
		MinSplitAmount:            info.MinSplitAmount,
		CanCancel:                 info.CanCancel,
		CanChangeRecipient:        info.CanChangeRecipient,
	}
}

type contractView struct {
	Address    string `json:"address"`
	Kind       string `json:"kind"`
	CodeHash   string `json:"code_hash"`
	DeployedAt int64  `json:"deployed_at"`
}

type factoryView struct {
	Address          string `json:"address"`
	Owner            string `json:"owner"`
	Registry         string `json:"registry"`
	RoyaltyFee       uint64 `json:"royalty_fee"`
	MinCreateCost    uint64 `json:"min_create_cost"`
	WalletsCreated   uint64 `json:"wallets_created"`
	RoyaltyCollected uint64 `json:"royalty_collected"`
	RoyaltyBalance   uint64 `json:"royalty_balance"`
	TemplateHash     string `json:"template_hash"`
	DeployTime       uint32 `json:"deploy_time"`
	CreatedAt        int64  `json:"created_at"`
}

func newFactoryView(info *application.FactoryInfo) factoryView {
	return factoryView{
		Address:          info.Address.String(),
		Owner:            info.Owner.String(),
		Registry:         info.Registry.String(),
		RoyaltyFee:       info.RoyaltyFee,
		MinCreateCost:    info.MinCreateCost,
		WalletsCreated:   info.WalletsCreated,
		RoyaltyCollected: info.RoyaltyCollected,
		RoyaltyBalance:   info.RoyaltyBalance,
		TemplateHash:     info.TemplateHash,
		DeployTime:       info.DeployTime,
		CreatedAt:        info.CreatedAt,
	}
}

type registryView struct {
	Address      string `json:"address"`
	Owner        string `json:"owner"`
	DeployTime   uint32 `json:"deploy_time"`
	TotalWallets uint32 `json:"total_wallets"`
	MaxWallets   uint32 `json:"max_wallets"`
	CreatedAt    int64  `json:"created_at"`
}

func newRegistryView(info *application.RegistryInfo) registryView {
	return registryView{
		Address:      info.Address.String(),
		Owner:        info.Owner.String(),
		DeployTime:   info.DeployTime,
		TotalWallets: info.TotalWallets,
		MaxWallets:   info.MaxWallets,
		CreatedAt:    info.CreatedAt,
	}
}

type transactionView struct {
	ID          string `json:"id"`
	Seq         uint64 `json:"seq"`
	MessageID   string `json:"message_id"`
	Sender      string `json:"sender"`
	Destination string `json:"destination"`
	Kind        string `json:"kind,omitempty"`
	External    bool   `json:"external"`
	Op          uint32 `json:"op"`
	OpName      string `json:"op_name,omitempty"`
	QueryID     uint64 `json:"query_id"`
	Value       uint64 `json:"value"`
	ExitCode    uint32 `json:"exit_code"`
	Error       string `json:"error,omitempty"`
	Deployed    bool   `json:"deployed"`
	Skipped     bool   `json:"skipped"`
	Outbound    int    `json:"outbound"`
	Timestamp   int64  `json:"timestamp"`
}

func newTransactionView(tx domain.Transaction) transactionView {
	return transactionView{
		ID:          tx.ID,
		Seq:         tx.Seq,
		MessageID:   tx.MessageID,
		Sender:      tx.Sender.String(),
		Destination: tx.Destination.String(),
		Kind:        string(tx.Kind),
		External:    tx.External,
		Op:          tx.Op,
		OpName:      tx.OpName,
		QueryID:     tx.QueryID,
		Value:       tx.Value,
		ExitCode:    tx.ExitCode,
		Error:       tx.Error,
		Deployed:    tx.Deployed,
		Skipped:     tx.Skipped,
		Outbound:    tx.Outbound,
		Timestamp:   tx.Timestamp,
	}
}

type transactionsView []domain.Transaction

func (txs transactionsView) toJSON() []transactionView {
	list := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		list = append(list, newTransactionView(tx))
	}
	return list
}

type webhookView struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

type webhooksView []ports.WebhookInfo

func (hooks webhooksView) toJSON() []webhookView {
	list := make([]webhookView, 0, len(hooks))
	for _, h := range hooks {
		list = append(list, webhookView{
			ID:        h.GetId(),
			Event:     eventName(h.GetEvent()),
			Endpoint:  h.GetEndpoint(),
			IsSecured: h.IsSecured(),
		})
	}
	return list
}
