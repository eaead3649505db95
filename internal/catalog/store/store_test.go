package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog/internal/catalog/models"
	"catalog/internal/validation"
	"catalog/pkg/platform/sentinel"
)

// =============================================================================
// Catalog Store Test Suite
// =============================================================================
// Justification for unit tests: the per-entity relation sets and the model
// hooks only show their effect against a real schema, so these run on
// in-memory SQLite.

type StoreSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(Migrate(db))
	s.db = db
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *StoreSuite) TestRelationSets() {
	products, err := NewProducts(s.db)
	s.Require().NoError(err)
	s.Equal([]string{"Category", "Supplier"}, products.Relations())

	suppliers, err := NewSuppliers(s.db)
	s.Require().NoError(err)
	s.Equal([]string{"Products"}, suppliers.Relations())

	categories, err := NewCategories(s.db)
	s.Require().NoError(err)
	s.Empty(categories.Relations())
}

func (s *StoreSuite) TestSeed() {
	s.Run("loads demo rows with relations", func() {
		s.Require().NoError(Seed(s.ctx, s.db))

		products, err := NewProducts(s.db)
		s.Require().NoError(err)
		all, err := products.GetAll(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 4)
		s.Equal("Chai", all[0].Name)
		s.Require().NotNil(all[0].Category)
		s.Equal("Beverages", all[0].Category.Name)
		s.Require().NotNil(all[0].Supplier)
		s.Equal("Exotic Liquids", all[0].Supplier.CompanyName)
		s.True(all[0].UnitPrice.Equal(decimal.NewFromInt(18)))

		suppliers, err := NewSuppliers(s.db)
		s.Require().NoError(err)
		exotic, err := suppliers.GetByID(s.ctx, *all[0].SupplierID)
		s.Require().NoError(err)
		s.Len(exotic.Products, 3)
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(Seed(s.ctx, s.db))
		var count int64
		s.Require().NoError(s.db.Model(&models.Category{}).Count(&count).Error)
		s.Equal(int64(2), count)
	})
}

func (s *StoreSuite) TestSeedFailureLeavesCatalogEmpty() {
	const hook = "test:fail_product_insert"
	s.Require().NoError(s.db.Callback().Create().Before("gorm:create").Register(hook, func(db *gorm.DB) {
		if db.Statement.Table == "products" {
			_ = db.AddError(errors.New("disk full"))
		}
	}))

	err := Seed(s.ctx, s.db)
	s.Require().Error(err)
	s.Contains(err.Error(), "seed products")

	for _, model := range []any{&models.Category{}, &models.Supplier{}, &models.Product{}} {
		var count int64
		s.Require().NoError(s.db.Model(model).Count(&count).Error)
		s.Zero(count, "%T rows left behind", model)
	}

	s.Require().NoError(s.db.Callback().Create().Remove(hook))
	s.Require().NoError(Seed(s.ctx, s.db))
	var count int64
	s.Require().NoError(s.db.Model(&models.Product{}).Count(&count).Error)
	s.Equal(int64(4), count)
}

func (s *StoreSuite) TestHooksRejectInvalidRows() {
	products, err := NewProducts(s.db)
	s.Require().NoError(err)

	ok := &models.Product{Name: "Tofu", UnitPrice: decimal.RequireFromString("23.25")}
	bad := &models.Product{Name: "Konbu", UnitsInStock: -1}
	s.Require().NoError(products.Add(ok))
	s.Require().NoError(products.Add(bad))

	err = products.Save(s.ctx)
	var verr *validation.Error
	s.Require().ErrorAs(err, &verr)
	s.Equal("units_in_stock", verr.Field)
	s.Zero(ok.ID, "batch rolled back")
	s.Equal(2, products.Pending())

	_, err = products.GetByID(s.ctx, 1)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestUpdateKeepsRelationsIntact() {
	s.Require().NoError(Seed(s.ctx, s.db))
	products, err := NewProducts(s.db)
	s.Require().NoError(err)

	chai, err := products.GetByID(s.ctx, 1)
	s.Require().NoError(err)
	chai.UnitsInStock = 0
	chai.Discontinued = true
	s.Require().NoError(products.Update(chai))
	s.Require().NoError(products.Save(s.ctx))

	reloaded, err := products.GetByID(s.ctx, 1)
	s.Require().NoError(err)
	s.Zero(reloaded.UnitsInStock)
	s.True(reloaded.Discontinued)
	s.Require().NotNil(reloaded.Category)
	s.Equal("Beverages", reloaded.Category.Name)
}
