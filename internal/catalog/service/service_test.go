package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/store"
	"catalog/internal/platform/metrics"
	dErrors "catalog/pkg/domain-errors"
)

// =============================================================================
// Catalog Service Test Suite
// =============================================================================
// Justification for unit tests: the service owns the unit-of-work boundary
// and the mapping from storage failures to client error codes. Real
// repositories on in-memory SQLite are used instead of mocks.

type ServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	ctx     context.Context
	svc     *Service
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(store.Migrate(db))
	s.ctx = context.Background()
	s.Require().NoError(store.Seed(s.ctx, db))

	s.db = db
	s.logs = &bytes.Buffer{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.svc, err = New(db,
		WithLogger(slog.New(slog.NewJSONHandler(s.logs, nil))),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *ServiceSuite) TestNewRequiresDB() {
	_, err := New(nil)
	s.ErrorContains(err, "db is required")
}

func (s *ServiceSuite) TestReads() {
	s.Run("products with relations", func() {
		all, err := s.svc.ListProducts(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 4)
		s.NotNil(all[0].Category)
		s.NotNil(all[0].Supplier)
	})

	s.Run("missing product is not_found", func() {
		_, err := s.svc.GetProduct(s.ctx, 404)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("categories and suppliers", func() {
		cats, err := s.svc.ListCategories(s.ctx)
		s.Require().NoError(err)
		s.Len(cats, 2)

		cat, err := s.svc.GetCategory(s.ctx, cats[0].ID)
		s.Require().NoError(err)
		s.Equal("Beverages", cat.Name)

		sups, err := s.svc.ListSuppliers(s.ctx)
		s.Require().NoError(err)
		s.Len(sups, 2)
		s.Len(sups[0].Products, 3)

		_, err = s.svc.GetSupplier(s.ctx, 99)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.svc.GetCategory(s.ctx, 99)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Equal(float64(1), testutil.ToFloat64(
		s.metrics.RepositoryOps.WithLabelValues("product", "get_by_id", metrics.OutcomeNotFound)))
}

func (s *ServiceSuite) TestCreateProduct() {
	cat, sup := uint(2), uint(2)

	s.Run("stores and returns relations", func() {
		p, err := s.svc.CreateProduct(s.ctx, models.ProductRequest{
			Name: "Louisiana Hot Spiced Okra", CategoryID: &cat, SupplierID: &sup,
			UnitPrice: decimal.NewFromInt(17), UnitsOnOrder: 100, ReorderLevel: 20,
		})
		s.Require().NoError(err)
		s.NotZero(p.ID)
		s.Require().NotNil(p.Category)
		s.Equal("Condiments", p.Category.Name)
		s.Require().NotNil(p.Supplier)
		s.Equal("New Orleans Cajun Delights", p.Supplier.CompanyName)
		s.Contains(s.logs.String(), "product created")
	})

	s.Run("rule violation is a validation error", func() {
		_, err := s.svc.CreateProduct(s.ctx, models.ProductRequest{Name: "", UnitPrice: decimal.NewFromInt(1)})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "name")
	})

	s.Run("unknown category is a validation error", func() {
		missing := uint(42)
		_, err := s.svc.CreateProduct(s.ctx, models.ProductRequest{Name: "Ghost", CategoryID: &missing})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "category 42 does not exist")
	})

	all, err := s.svc.ListProducts(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 5, "only the valid product was stored")
}

func (s *ServiceSuite) TestUpdateProduct() {
	s.Run("replaces fields and relations", func() {
		cond := uint(2)
		p, err := s.svc.UpdateProduct(s.ctx, 1, models.ProductRequest{
			Name: "Chai Latte", CategoryID: &cond, UnitPrice: decimal.RequireFromString("4.50"),
		})
		s.Require().NoError(err)
		s.Equal("Chai Latte", p.Name)
		s.Require().NotNil(p.Category)
		s.Equal("Condiments", p.Category.Name)
		s.Nil(p.Supplier, "supplier cleared")
		s.Zero(p.UnitsInStock, "zero values are written")
	})

	s.Run("missing product", func() {
		_, err := s.svc.UpdateProduct(s.ctx, 404, models.ProductRequest{Name: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid update leaves the row unchanged", func() {
		_, err := s.svc.UpdateProduct(s.ctx, 2, models.ProductRequest{Name: "Chang", UnitsInStock: -5})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		p, err := s.svc.GetProduct(s.ctx, 2)
		s.Require().NoError(err)
		s.Equal(int16(17), p.UnitsInStock)
	})
}

func (s *ServiceSuite) TestDeleteProduct() {
	s.Require().NoError(s.svc.DeleteProduct(s.ctx, 3))

	_, err := s.svc.GetProduct(s.ctx, 3)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.svc.DeleteProduct(s.ctx, 3)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
