package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"catalog/internal/catalog/models"
	"catalog/internal/platform/observability"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/httputil"
	"catalog/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the catalog operations exposed over HTTP.
type Service interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	ListSuppliers(ctx context.Context) ([]*models.Supplier, error)
	GetSupplier(ctx context.Context, id uint) (*models.Supplier, error)
}

// Handler serves the product, category and supplier endpoints.
type Handler struct {
	logger  *slog.Logger
	catalog Service
}

// New creates a new catalog Handler.
func New(catalog Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		catalog: catalog,
	}
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.handleListProducts)
		r.Post("/", h.handleCreateProduct)
		r.Get("/{id}", h.handleGetProduct)
		r.Put("/{id}", h.handleUpdateProduct)
		r.Delete("/{id}", h.handleDeleteProduct)
	})
	r.Get("/categories", h.handleListCategories)
	r.Get("/categories/{id}", h.handleGetCategory)
	r.Get("/suppliers", h.handleListSuppliers)
	r.Get("/suppliers/{id}", h.handleGetSupplier)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, "failed to list products", err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "product")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "failed to get product", err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, product)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "failed to create product", err)
		return
	}
	w.Header().Set("Location", "/products/"+strconv.FormatUint(uint64(product.ID), 10))
	httputil.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "product")
	if !ok {
		return
	}
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, "failed to update product", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "product")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, "failed to delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, "failed to list categories", err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, categories)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "category")
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "failed to get category", err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, category)
}

func (h *Handler) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.catalog.ListSuppliers(r.Context())
	if err != nil {
		h.writeError(w, r, "failed to list suppliers", err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, suppliers)
}

func (h *Handler) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "supplier")
	if !ok {
		return
	}
	supplier, err := h.catalog.GetSupplier(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "failed to get supplier", err)
		return
	}
	httputil.WriteJSONWithETag(w, r, http.StatusOK, supplier)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, entity string) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		h.logger.WarnContext(r.Context(), "invalid "+entity+" id",
			"request_id", requestcontext.RequestID(r.Context()),
			"id", raw,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid "+entity+" id"))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (models.ProductRequest, bool) {
	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid product request",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	return req, true
}

// writeError logs client errors at warn and everything else at error.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	args := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	}
	logger := observability.LoggerWithTrace(ctx, h.logger)
	if httputil.StatusFor(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		logger.WarnContext(ctx, msg, args...)
	} else {
		logger.ErrorContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}
