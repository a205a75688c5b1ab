// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrRequestMismatch = errors.New("request content mismatch")
)

// NotFoundError reports the entity and id that a lookup missed.
// It matches ErrProductNotFound with errors.Is.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrProductNotFound
}
