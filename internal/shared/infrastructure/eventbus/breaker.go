package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitPublisher wraps a Publisher with a circuit breaker so a down broker
// sheds publish attempts fast instead of blocking every mutation on
// connection timeouts.
type CircuitPublisher struct {
	inner   Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewCircuitPublisher wraps the given publisher. The circuit opens after
// five consecutive failures and probes again after 30 seconds.
func NewCircuitPublisher(inner Publisher, logger *slog.Logger) *CircuitPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:    "event-publisher",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("publisher circuit state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &CircuitPublisher{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Publish forwards through the breaker.
func (p *CircuitPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.inner.Publish(ctx, routingKey, payload)
	})
	return err
}

// Close closes the wrapped publisher.
func (p *CircuitPublisher) Close() error {
	return p.inner.Close()
}
