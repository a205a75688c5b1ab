// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"
)

// ProductStore is an interface for product storage operations.
// Implementations return copies; callers never hold references into the store.
type ProductStore interface {
	// FindAll returns all products in insertion order.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int) (*Product, error)

	// Create appends a new product with id = current count + 1.
	Create(ctx context.Context, name string, modifiedDate *time.Time) (*Product, error)

	// Replace copies the fields of product into the stored product with the same id.
	// Returns ErrProductNotFound if no product exists with that id.
	Replace(ctx context.Context, product Product) (*Product, error)

	// DeleteByID removes a product by its ID, keeping the order of the rest.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}
