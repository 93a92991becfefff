package ports

import (
	"context"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

// Network delivers messages between contracts. Delivery is asynchronous:
// Send returns as soon as the message is queued for its destination.
type Network interface {
	// Send queues msg for delivery.
	Send(ctx context.Context, msg domain.Message) error
	// Settle blocks until no message is in flight or ctx is done.
	Settle(ctx context.Context) error
	// Stop stops delivering messages.
	Stop()
}

// MessageProcessor executes a message against the state of its
// destination. Implementations must be safe to call concurrently for
// different destinations; the network serializes calls for the same one.
type MessageProcessor interface {
	// Process returns the audit record of the delivery and the messages
	// to send as a consequence.
	Process(ctx context.Context, msg domain.Message) (domain.Transaction, []domain.Message)
}

// Clock returns the current unix time.
type Clock interface {
	Now() int64
}
