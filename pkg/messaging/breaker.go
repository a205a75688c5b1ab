package messaging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sony/gobreaker/v2"
	"github.com/xiillii/MassRoverApi/pkg/config"
)

// BreakerPublisher stops calling the wrapped Publisher while the broker keeps failing,
// so request handlers don't wait on publish timeouts during an outage.
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher wraps next in a circuit breaker configured by cfg.
func NewBreakerPublisher(next Publisher, cfg config.CircuitBreakerConfig, logger *slog.Logger) *BreakerPublisher {
	st := gobreaker.Settings{
		Name:        "event-publisher-cb",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a broker failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerPublisher{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[struct{}](st),
	}
}

// Publish forwards event unless the breaker is open, in which case gobreaker.ErrOpenState is returned.
func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, event)
	})
	return err
}
