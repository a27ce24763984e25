// Package messaging provides the in-process message bus used to fan out
// domain events to interested subscribers.
package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/ports/outbound"
)

// InProcessBus is an in-memory implementation of the message bus. Delivery
// is synchronous and in subscription order; a failing handler is logged
// and does not stop delivery to the remaining handlers. Publishing an
// event is best effort from the caller's point of view: Publish only
// returns an error when the context is already cancelled.
type InProcessBus struct {
	mu          sync.RWMutex
	subscribers map[string][]outbound.MessageHandler
	logger      *zap.Logger
}

// NewInProcessBus creates a new in-process message bus
func NewInProcessBus(logger *zap.Logger) *InProcessBus {
	return &InProcessBus{
		subscribers: make(map[string][]outbound.MessageHandler),
		logger:      logger.Named("message-bus"),
	}
}

// Publish delivers the message to every handler subscribed to the topic
func (b *InProcessBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	handlers := make([]outbound.MessageHandler, len(b.subscribers[topic]))
	copy(handlers, b.subscribers[topic])
	b.mu.RUnlock()

	b.logger.Debug("Publishing message",
		zap.String("topic", topic),
		zap.String("message_id", message.ID),
		zap.String("message_type", message.Type),
		zap.Int("subscribers", len(handlers)))

	for _, handler := range handlers {
		if err := handler(ctx, message); err != nil {
			b.logger.Warn("Message handler failed",
				zap.String("topic", topic),
				zap.String("message_id", message.ID),
				zap.String("message_type", message.Type),
				zap.Error(err))
		}
	}
	return nil
}

// Subscribe registers a handler for a topic. Handlers registered for the
// same topic are invoked in registration order.
func (b *InProcessBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.logger.Debug("Handler subscribed",
		zap.String("topic", topic),
		zap.Int("subscribers", len(b.subscribers[topic])))
	return nil
}
