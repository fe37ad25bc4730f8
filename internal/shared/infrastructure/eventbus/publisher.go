// Package eventbus publishes domain events to a message broker so external
// collaborators (persistence sync, notification surfaces) can react to
// schedule changes.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sharedDomain "github.com/torvane/gantry/internal/shared/domain"
)

// Publisher sends raw payloads to the broker keyed by routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// EventPublisher serializes buffered domain events and hands them to a
// Publisher. A publish failure is logged and does not fail the operation
// that produced the events.
type EventPublisher struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewEventPublisher creates an EventPublisher.
func NewEventPublisher(publisher Publisher, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{publisher: publisher, logger: logger}
}

// PublishAll drains the aggregate's event buffer to the broker.
func (p *EventPublisher) PublishAll(ctx context.Context, aggregate sharedDomain.AggregateRoot) {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return
	}

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("marshal domain event",
				"routing_key", event.RoutingKey(),
				"error", err,
			)
			continue
		}
		if err := p.publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
			p.logger.Warn("publish domain event",
				"routing_key", event.RoutingKey(),
				"error", err,
			)
		}
	}
	aggregate.ClearDomainEvents()
}

// Close releases the underlying publisher.
func (p *EventPublisher) Close() error {
	if err := p.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
