package pubsub

import (
	"time"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
)

func topicForEvent(event ports.WebhookEvent) string {
	switch {
	case event.IsTransaction():
		return EventTransaction
	case event.IsTransactionFailed():
		return EventTransactionFailed
	case event.IsAny():
		return ports.AnyTopic
	default:
		return ports.UnspecifiedTopic
	}
}

func getTransactionPayload(event string, tx domain.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"event":       event,
		"id":          tx.ID,
		"message_id":  tx.MessageID,
		"sender":      tx.Sender.String(),
		"destination": tx.Destination.String(),
		"external":    tx.External,
		"op":          tx.Op,
		"op_name":     tx.OpName,
		"query_id":    tx.QueryID,
		"value":       tx.Value,
		"exit_code":   tx.ExitCode,
		"error":       tx.Error,
		"deployed":    tx.Deployed,
		"skipped":     tx.Skipped,
		"outbound":    tx.Outbound,
		"timestamp":   tx.Timestamp,
		"date":        time.Unix(tx.Timestamp, 0).UTC().Format(time.RFC3339),
	}
}
