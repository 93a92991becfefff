package httpinterface

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/application/pubsub"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	pubsubinfra "github.com/vesting-network/vesting-daemon/internal/infrastructure/pubsub"
)

const anyEvent = "ANY"

var (
	notFoundErrors = []error{
		domain.ErrContractNotFound,
		domain.ErrAccountNotFound,
		domain.ErrFactoryNotFound,
		domain.ErrRegistryNotFound,
		domain.ErrAssetWalletNotFound,
		domain.ErrTransactionNotFound,
		pubsubinfra.ErrSubscriptionNotFound,
	}
	conflictErrors = []error{
		application.ErrAlreadyDeployed,
		domain.ErrContractAlreadyExists,
	}
	badRequestErrors = []error{
		application.ErrInvalidBody,
		domain.ErrInvalidAddress,
		domain.ErrNullAddress,
		domain.ErrInvalidSchedule,
		domain.ErrInvalidPermission,
		domain.ErrInvalidTotalAmount,
		domain.ErrEmptyTemplate,
		domain.ErrInvalidTemplate,
		domain.ErrInvalidRegistryIndex,
	}
)

// statusCode maps the errors returned by the application layer to the
// status of the response.
func statusCode(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, application.ErrWebhookManagerNotInitialized) {
		return http.StatusNotImplemented
	}
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}
	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return http.StatusBadRequest
	}
	for _, e := range notFoundErrors {
		if errors.Is(err, e) {
			return http.StatusNotFound
		}
	}
	for _, e := range conflictErrors {
		if errors.Is(err, e) {
			return http.StatusConflict
		}
	}
	for _, e := range badRequestErrors {
		if errors.Is(err, e) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := statusCode(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Warnf("%s %s", c.Request.Method, c.FullPath())
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func parseAddress(name, s string) (domain.Address, error) {
	if len(s) <= 0 {
		return "", fmt.Errorf("missing %s", name)
	}
	addr, err := domain.ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return addr, nil
}

func parseOptionalAddress(name, s string) (domain.Address, error) {
	if len(s) <= 0 {
		return "", nil
	}
	return parseAddress(name, s)
}

func parseHex(name, s string) ([]byte, error) {
	buf, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, application.ErrInvalidBody)
	}
	return buf, nil
}

// parseAmount parses a positive integer amount in nano units.
func parseAmount(name, s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid number", name)
	}
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("%s must be a positive integer", name)
	}
	return amount, nil
}

func parseMessage(req sendMessageRequest) (domain.Message, error) {
	dest, err := parseAddress("destination", req.Destination)
	if err != nil {
		return domain.Message{}, err
	}
	body, err := parseHex("body", req.Body)
	if err != nil {
		return domain.Message{}, err
	}

	var msg domain.Message
	if req.External {
		msg = domain.NewExternalMessage(dest, body)
	} else {
		sender, err := parseAddress("sender", req.Sender)
		if err != nil {
			return domain.Message{}, err
		}
		msg = domain.NewInternalMessage(sender, dest, req.Value, body)
	}

	if req.StateInit != nil {
		code, err := parseHex("state_init.code", req.StateInit.Code)
		if err != nil {
			return domain.Message{}, err
		}
		data, err := parseHex("state_init.data", req.StateInit.Data)
		if err != nil {
			return domain.Message{}, err
		}
		init := domain.StateInit{Code: code, Data: data}
		if init.Address() != dest {
			return domain.Message{}, fmt.Errorf(
				"state init deploys to %s, not to destination", init.Address(),
			)
		}
		msg = msg.WithStateInit(init)
	}
	return msg, nil
}

func parseGrantParams(q grantQuery) (domain.GrantParams, error) {
	owner, err := parseAddress("owner", q.Owner)
	if err != nil {
		return domain.GrantParams{}, err
	}
	recipient, err := parseAddress("recipient", q.Recipient)
	if err != nil {
		return domain.GrantParams{}, err
	}
	issuer, err := parseAddress("issuer", q.Issuer)
	if err != nil {
		return domain.GrantParams{}, err
	}
	total, err := parseAmount("total", q.Total)
	if err != nil {
		return domain.GrantParams{}, err
	}
	return domain.GrantParams{
		Owner:       owner,
		Recipient:   recipient,
		AssetIssuer: issuer,
		TotalAmount: total,
		Schedule: domain.Schedule{
			StartTime:     q.Start,
			TotalDuration: q.Duration,
			UnlockPeriod:  q.Period,
			CliffDuration: q.Cliff,
		},
		AutoClaim:                 q.AutoClaim,
		CancelPermission:          domain.Permission(q.Cancel),
		ChangeRecipientPermission: domain.Permission(q.ChangeRecipient),
	}, nil
}

type webhook struct {
	event    pubsub.WebhookEvent
	endpoint string
	secret   string
}

func (w webhook) GetEvent() ports.WebhookEvent {
	return w.event
}
func (w webhook) GetEndpoint() string {
	return w.endpoint
}
func (w webhook) GetSecret() string {
	return w.secret
}

func parseWebhookEvent(s string) (pubsub.WebhookEvent, error) {
	switch strings.ToUpper(s) {
	case "":
		return pubsub.WebhookEvent(ports.UnspecifiedTopic), nil
	case pubsub.EventTransaction:
		return pubsub.EventTransaction, nil
	case pubsub.EventTransactionFailed:
		return pubsub.EventTransactionFailed, nil
	case anyEvent, ports.AnyTopic:
		return pubsub.WebhookEvent(ports.AnyTopic), nil
	default:
		return "", fmt.Errorf("unknown webhook event %s", s)
	}
}

func eventName(event ports.WebhookEvent) string {
	switch {
	case event.IsTransaction():
		return pubsub.EventTransaction
	case event.IsTransactionFailed():
		return pubsub.EventTransactionFailed
	case event.IsAny():
		return anyEvent
	default:
		return ""
	}
}
