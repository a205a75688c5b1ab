// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	producterrors "github.com/xiillii/MassRoverApi/internal/errors"
	"github.com/xiillii/MassRoverApi/internal/store"
	"github.com/xiillii/MassRoverApi/pkg/messaging"
	"github.com/xiillii/MassRoverApi/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const productEntity = "Product"

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its identifier.
	// Returns a NotFoundError if no product exists with the given ID.
	FindByID(ctx context.Context, id int) (*ProductDto, error)

	// Create adds a new product. The id of product is ignored and assigned by the store.
	Create(ctx context.Context, product ProductDto) (*ProductDto, error)

	// Replace overwrites the product identified by pathID with product and stamps its modified date.
	// Returns ErrRequestMismatch if pathID differs from product.ID,
	// or a NotFoundError if no product exists with that id.
	Replace(ctx context.Context, pathID int, product ProductDto) error

	// DeleteByID removes a product by its ID.
	// Returns a NotFoundError if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int) error
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	ModifiedDate *time.Time `json:"modifiedDate"`
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	logger     *slog.Logger
	now        func() time.Time

	createdCounter  metric.Int64Counter
	replacedCounter metric.Int64Counter
	deletedCounter  metric.Int64Counter
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the time source used to stamp modified dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new instance of ProductService with the provided repository and publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger, opts ...Option) *Service {
	meter := otel.Meter("product-service")
	s := &Service{
		repository:      repo,
		publisher:       publisher,
		logger:          logger.With("component", "service"),
		now:             time.Now,
		createdCounter:  mustCounter(meter, "products_created", "Total number of created products"),
		replacedCounter: mustCounter(meter, "products_replaced", "Total number of replaced products"),
		deletedCounter:  mustCounter(meter, "products_deleted", "Total number of deleted products"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id int) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, id)
	}

	return toDto(product), nil
}

// Create creates a new product and returns it as a ProductDto.
// The modified date sent by the client is stored as given.
func (s *Service) Create(ctx context.Context, product ProductDto) (*ProductDto, error) {
	created, err := s.repository.Create(ctx, product.Name, product.ModifiedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, events.NewProductCreated(ctx, created.ID, created.Name, created.ModifiedDate, s.now().UTC()))
	s.createdCounter.Add(ctx, 1)

	return toDto(created), nil
}

// Replace checks that the path and body ids agree, then overwrites the stored product.
func (s *Service) Replace(ctx context.Context, pathID int, product ProductDto) error {
	if pathID != product.ID {
		return fmt.Errorf("path id %d, body id %d: %w", pathID, product.ID, producterrors.ErrRequestMismatch)
	}

	modified := s.now().UTC()
	replaced, err := s.repository.Replace(ctx, store.Product{
		ID:           product.ID,
		Name:         product.Name,
		ModifiedDate: &modified,
	})
	if err != nil {
		return wrapLookupError(err, product.ID)
	}

	s.publish(ctx, events.NewProductReplaced(ctx, replaced.ID, replaced.Name, replaced.ModifiedDate, modified))
	s.replacedCounter.Add(ctx, 1)

	return nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id int) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return wrapLookupError(err, id)
	}

	s.publish(ctx, events.NewProductDeleted(ctx, id, s.now().UTC()))
	s.deletedCounter.Add(ctx, 1)

	return nil
}

// publish never fails the caller; the change is already stored.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "event_id", event.ID(), "error", err)
	}
}

func wrapLookupError(err error, id int) error {
	if errors.Is(err, producterrors.ErrProductNotFound) {
		return &producterrors.NotFoundError{Entity: productEntity, ID: id}
	}
	return fmt.Errorf("failed to access product with ID %d: %w", id, err)
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:           product.ID,
		Name:         product.Name,
		ModifiedDate: product.ModifiedDate,
	}
}
