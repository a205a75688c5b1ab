// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	producterrors "github.com/xiillii/MassRoverApi/internal/errors"
	"github.com/xiillii/MassRoverApi/internal/service"
	"github.com/xiillii/MassRoverApi/pkg/web"
)

const (
	productsPath  = "/api/products"
	productEntity = "Product"
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(productsPath, func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Replace)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondInternalError(w, r, "Failed to fetch products", err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, id, fmt.Sprintf("Failed to retrieve product with ID %d", id), err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	productDto, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "Name", productDto.Name)

	created, err := h.service.Create(r.Context(), productDto)
	if err != nil {
		h.respondInternalError(w, r, "Failed to create product", err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	w.Header().Set("Location", fmt.Sprintf("%s/%d", productsPath, created.ID))
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Replace overwrites every field of an existing product.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	productDto, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to replace product", "ID", id, "bodyID", productDto.ID)

	if err := h.service.Replace(r.Context(), id, productDto); err != nil {
		h.respondServiceError(w, r, id, fmt.Sprintf("Failed to replace product with ID %d", id), err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product replaced successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, id, fmt.Sprintf("Failed to delete product with ID %d", id), err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := web.ParseIntParam(r, "id")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid product ID", "error", err)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, producterrors.InvalidRequestMessage(err.Error()))
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (service.ProductDto, bool) {
	var productDto service.ProductDto
	if err := json.NewDecoder(r.Body).Decode(&productDto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, producterrors.InvalidRequestMessage("Invalid request body"))
		return productDto, false
	}
	return productDto, true
}

// respondServiceError maps the errors returned by the service to status codes.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, id int, detail string, err error) {
	var notFound *producterrors.NotFoundError
	switch {
	case errors.Is(err, producterrors.ErrRequestMismatch):
		h.logger.WarnContext(r.Context(), "Request content mismatch", "ID", id, "error", err)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, producterrors.RequestContentMismatchMessage())
	case errors.As(err, &notFound):
		h.logger.WarnContext(r.Context(), "Product not found", "ID", notFound.ID)
		web.RespondJSON(w, h.logger, http.StatusNotFound, producterrors.EntityNotFoundMessage(notFound.Entity, notFound.ID))
	case errors.Is(err, producterrors.ErrProductNotFound):
		h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondJSON(w, h.logger, http.StatusNotFound, producterrors.EntityNotFoundMessage(productEntity, id))
	default:
		h.respondInternalError(w, r, detail, err)
	}
}

func (h *Handler) respondInternalError(w http.ResponseWriter, r *http.Request, detail string, err error) {
	h.logger.ErrorContext(r.Context(), detail, "error", err)
	web.RespondJSON(w, h.logger, http.StatusInternalServerError, producterrors.InternalErrorMessage(detail))
}
