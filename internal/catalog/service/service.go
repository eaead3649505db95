package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/store"
	"catalog/internal/platform/metrics"
	"catalog/internal/platform/observability"
	"catalog/internal/storage"
	"catalog/internal/validation"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/platform/tx"
)

// Service runs catalog use cases. Each call opens its own repositories, so
// staged changes never leak between requests.
type Service struct {
	db      *gorm.DB
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  *observability.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t *observability.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(db *gorm.DB, opts ...Option) (*Service, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	s := &Service{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) repoOpts() []storage.Option {
	opts := []storage.Option{storage.WithMetrics(s.metrics)}
	if s.tracer != nil {
		opts = append(opts, storage.WithTracer(s.tracer))
	}
	return opts
}

// =============================================================================
// Products
// =============================================================================

func (s *Service) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := store.NewProducts(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open products")
	}
	all, err := products.GetAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return all, nil
}

func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	products, err := store.NewProducts(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open products")
	}
	return s.loadProduct(ctx, products, id)
}

// CreateProduct inserts a product after checking that its category and
// supplier exist. The stored product is returned with its relations.
func (s *Service) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	products, err := store.NewProducts(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open products")
	}

	p := &models.Product{}
	req.Apply(p)
	err = tx.Run(ctx, s.db, func(ctx context.Context, _ *gorm.DB) error {
		if err := s.checkReferences(ctx, p); err != nil {
			return err
		}
		if err := products.Add(p); err != nil {
			return err
		}
		return products.Save(ctx)
	})
	if err != nil {
		return nil, s.writeError(err, "failed to create product")
	}

	s.logInfo(ctx, "product created", "product_id", p.ID)
	return s.loadProduct(ctx, products, p.ID)
}

// UpdateProduct replaces the writable fields of product id.
func (s *Service) UpdateProduct(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, error) {
	products, err := store.NewProducts(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open products")
	}

	err = tx.Run(ctx, s.db, func(ctx context.Context, _ *gorm.DB) error {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		req.Apply(p)
		// loaded relations may no longer match the new foreign keys
		p.Category, p.Supplier = nil, nil
		if err := s.checkReferences(ctx, p); err != nil {
			return err
		}
		if err := products.Update(p); err != nil {
			return err
		}
		return products.Save(ctx)
	})
	if err != nil {
		return nil, s.writeError(err, "failed to update product")
	}

	s.logInfo(ctx, "product updated", "product_id", id)
	return s.loadProduct(ctx, products, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	products, err := store.NewProducts(s.db, s.repoOpts()...)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to open products")
	}

	err = tx.Run(ctx, s.db, func(ctx context.Context, _ *gorm.DB) error {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := products.Delete(p); err != nil {
			return err
		}
		return products.Save(ctx)
	})
	if err != nil {
		return s.writeError(err, "failed to delete product")
	}

	s.logInfo(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *Service) loadProduct(ctx context.Context, products *store.Products, id uint) (*models.Product, error) {
	p, err := products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load product")
	}
	return p, nil
}

func (s *Service) checkReferences(ctx context.Context, p *models.Product) error {
	if p.CategoryID != nil {
		categories, err := store.NewCategories(s.db, s.repoOpts()...)
		if err != nil {
			return err
		}
		if _, err := categories.GetByID(ctx, *p.CategoryID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("category %d does not exist", *p.CategoryID))
			}
			return err
		}
	}
	if p.SupplierID != nil {
		suppliers, err := store.NewSuppliers(s.db, s.repoOpts()...)
		if err != nil {
			return err
		}
		if _, err := suppliers.GetByID(ctx, *p.SupplierID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("supplier %d does not exist", *p.SupplierID))
			}
			return err
		}
	}
	return nil
}

// writeError maps a failed unit of work to a client facing error.
func (s *Service) writeError(err error, msg string) error {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return dErrors.Wrap(err, dErrors.CodeValidation, verr.Error())
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "product not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// =============================================================================
// Categories and suppliers
// =============================================================================

func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := store.NewCategories(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open categories")
	}
	all, err := categories.GetAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}
	return all, nil
}

func (s *Service) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	categories, err := store.NewCategories(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open categories")
	}
	c, err := categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "category not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load category")
	}
	return c, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*models.Supplier, error) {
	suppliers, err := store.NewSuppliers(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open suppliers")
	}
	all, err := suppliers.GetAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list suppliers")
	}
	return all, nil
}

func (s *Service) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	suppliers, err := store.NewSuppliers(s.db, s.repoOpts()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open suppliers")
	}
	sup, err := suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "supplier not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier")
	}
	return sup, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.InfoContext(ctx, msg, args...)
}
