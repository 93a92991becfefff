package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
)

const (
	EventTransaction       = "TRANSACTION"
	EventTransactionFailed = "TRANSACTION_FAILED"
)

type Service struct {
	pubsub ports.PubSub
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{pubsub}
}

func (s *Service) PubSub() ports.PubSub {
	return s.pubsub
}

func (s *Service) AddWebhook(
	_ context.Context, webhook ports.Webhook,
) (string, error) {
	if webhook.GetEvent().IsUnspecified() {
		return "", fmt.Errorf("invalid webhook event type")
	}
	topic := topicForEvent(webhook.GetEvent())
	return s.pubsub.Subscribe(topic, webhook.GetEndpoint(), webhook.GetSecret())
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *Service) ListWebhooks(
	_ context.Context, event ports.WebhookEvent,
) ([]ports.WebhookInfo, error) {
	topic := topicForEvent(event)
	subs := s.pubsub.ListSubscriptionsForTopic(topic)
	webhooks := make([]ports.WebhookInfo, 0, len(subs))
	for _, s := range subs {
		webhooks = append(webhooks, webhookInfo{s})
	}
	return webhooks, nil
}

// PublishTransactionEvent notifies subscribers of a processed message.
// Rejected messages are published under a dedicated topic as well.
func (s *Service) PublishTransactionEvent(tx domain.Transaction) error {
	event := EventTransaction
	payload := getTransactionPayload(event, tx)
	message, _ := json.Marshal(payload)
	if err := s.pubsub.Publish(event, string(message)); err != nil {
		return err
	}

	if tx.IsSuccess() {
		return nil
	}
	event = EventTransactionFailed
	payload["event"] = event
	message, _ = json.Marshal(payload)
	return s.pubsub.Publish(event, string(message))
}

func (s *Service) Close() {
	//nolint
	s.pubsub.Close()
}

type webhookInfo struct {
	ports.Subscription
}

func (i webhookInfo) GetId() string {
	return i.Subscription.Id()
}
func (i webhookInfo) GetEvent() ports.WebhookEvent {
	return WebhookEvent(i.Subscription.Topic())
}
func (i webhookInfo) GetEndpoint() string {
	return i.Subscription.NotifyAt()
}
func (i webhookInfo) IsSecured() bool {
	return i.Subscription.IsSecured()
}

// WebhookEvent is the topic label of a webhook.
type WebhookEvent string

func (i WebhookEvent) IsUnspecified() bool {
	return i == ports.UnspecifiedTopic
}
func (i WebhookEvent) IsTransaction() bool {
	return i == EventTransaction
}
func (i WebhookEvent) IsTransactionFailed() bool {
	return i == EventTransactionFailed
}
func (i WebhookEvent) IsAny() bool {
	return i == ports.AnyTopic
}
