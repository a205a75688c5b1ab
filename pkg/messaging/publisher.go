// Package messaging defines the event contracts published by the services.
package messaging

import (
	"context"
)

const (
	ProductsSubjectPrefix  = "products."
	ProductsAllSubjects    = ProductsSubjectPrefix + ">"
	ProductCreatedSubject  = ProductsSubjectPrefix + "created"
	ProductReplacedSubject = ProductsSubjectPrefix + "replaced"
	ProductDeletedSubject  = ProductsSubjectPrefix + "deleted"
)

type Event interface {
	// ID uniquely identifies the event; brokers use it for de-duplication.
	ID() string
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
