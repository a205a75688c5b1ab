package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/xiillii/MassRoverApi/internal/errors"
)

// inMemory implements ProductStore using an ordered slice.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
}

var _ ProductStore = (*inMemory)(nil)

// NewInMemoryStore creates a new instance of ProductStore holding seed in the given order.
func NewInMemoryStore(seed ...Product) ProductStore {
	products := make([]Product, 0, len(seed))
	for _, p := range seed {
		products = append(products, p.clone())
	}
	return &inMemory{products: products}
}

// FindAll retrieves all products.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	for i, p := range s.products {
		list[i] = p.clone()
	}
	return list, nil
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id int) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	found := s.products[i].clone()
	return &found, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, name string, modifiedDate *time.Time) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:           len(s.products) + 1,
		Name:         name,
		ModifiedDate: modifiedDate,
	}.clone()
	s.products = append(s.products, product)

	created := product.clone()
	return &created, nil
}

// Replace overwrites the fields of the first product with a matching id.
func (s *inMemory) Replace(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(product.ID)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	s.products[i] = product.clone()

	replaced := s.products[i].clone()
	return &replaced, nil
}

// DeleteByID deletes the first product with a matching id.
func (s *inMemory) DeleteByID(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errors.ErrProductNotFound
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

func (s *inMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

// indexOf must be called with the lock held.
func (s *inMemory) indexOf(id int) int {
	return slices.IndexFunc(s.products, func(p Product) bool {
		return p.ID == id
	})
}
