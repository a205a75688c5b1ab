package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/xiillii/MassRoverApi/pkg/config"
	"github.com/xiillii/MassRoverApi/pkg/messaging"
)

type NatsPublisher struct {
	js    jetstream.JetStream
	retry config.RetryConfig
}

var _ messaging.Publisher = (*NatsPublisher)(nil)

func NewNatsPublisher(js jetstream.JetStream, retry config.RetryConfig) *NatsPublisher {
	return &NatsPublisher{js: js, retry: retry}
}

// Publish sends the event to JetStream. The event id is used as Nats-Msg-Id,
// so a retried publish is de-duplicated by the stream.
func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	opts := []jetstream.PublishOpt{jetstream.WithMsgID(event.ID())}
	if p.retry.MaxAttempts > 0 {
		opts = append(opts,
			jetstream.WithRetryAttempts(p.retry.MaxAttempts),
			jetstream.WithRetryWait(p.retry.InitialBackoff),
		)
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data, opts...); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}
