// Package events holds the payloads published on product lifecycle subjects.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/xiillii/MassRoverApi/pkg/messaging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ProductEvent describes a change to a product. The subject tells which change.
type ProductEvent struct {
	EventID      uuid.UUID              `json:"event_id"`
	Carrier      propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID    int                    `json:"product_id"`
	Name         string                 `json:"name,omitempty"`
	ModifiedDate *time.Time             `json:"modified_date,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`

	subject string
}

var _ messaging.Event = ProductEvent{}

// NewProductCreated builds the event published after a product is stored.
func NewProductCreated(ctx context.Context, id int, name string, modifiedDate *time.Time, at time.Time) ProductEvent {
	return newProductEvent(ctx, messaging.ProductCreatedSubject, id, name, modifiedDate, at)
}

// NewProductReplaced builds the event published after a product's fields are replaced.
func NewProductReplaced(ctx context.Context, id int, name string, modifiedDate *time.Time, at time.Time) ProductEvent {
	return newProductEvent(ctx, messaging.ProductReplacedSubject, id, name, modifiedDate, at)
}

// NewProductDeleted builds the event published after a product is removed.
func NewProductDeleted(ctx context.Context, id int, at time.Time) ProductEvent {
	return newProductEvent(ctx, messaging.ProductDeletedSubject, id, "", nil, at)
}

func newProductEvent(ctx context.Context, subject string, id int, name string, modifiedDate *time.Time, at time.Time) ProductEvent {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return ProductEvent{
		EventID:      uuid.New(),
		Carrier:      carrier,
		ProductID:    id,
		Name:         name,
		ModifiedDate: modifiedDate,
		OccurredAt:   at,
		subject:      subject,
	}
}

func (e ProductEvent) ID() string {
	return e.EventID.String()
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
