package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catalog/internal/catalog/models"
	"catalog/pkg/platform/tx"
)

// Seed loads a handful of demo rows when the catalog is empty. The whole load
// is one transaction, so a failure leaves the catalog empty and the next
// start tries again. Categories and suppliers are saved first so products can
// reference their IDs.
func Seed(ctx context.Context, db *gorm.DB) error {
	return tx.Run(ctx, db, func(ctx context.Context, db *gorm.DB) error {
		categories, err := NewCategories(db)
		if err != nil {
			return err
		}
		existing, err := categories.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		beverages := &models.Category{Name: "Beverages", Description: "Soft drinks, coffees, teas, beers, and ales"}
		condiments := &models.Category{Name: "Condiments", Description: "Sweet and savory sauces, relishes, spreads, and seasonings"}
		for _, c := range []*models.Category{beverages, condiments} {
			if err := categories.Add(c); err != nil {
				return err
			}
		}
		if err := categories.Save(ctx); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}

		suppliers, err := NewSuppliers(db)
		if err != nil {
			return err
		}
		exotic := &models.Supplier{CompanyName: "Exotic Liquids", ContactName: "Charlotte Cooper", City: "London", Country: "UK"}
		cajun := &models.Supplier{CompanyName: "New Orleans Cajun Delights", ContactName: "Shelley Burke", City: "New Orleans", Country: "USA"}
		for _, s := range []*models.Supplier{exotic, cajun} {
			if err := suppliers.Add(s); err != nil {
				return err
			}
		}
		if err := suppliers.Save(ctx); err != nil {
			return fmt.Errorf("seed suppliers: %w", err)
		}

		products, err := NewProducts(db)
		if err != nil {
			return err
		}
		seed := []*models.Product{
			{Name: "Chai", SupplierID: &exotic.ID, CategoryID: &beverages.ID, QuantityPerUnit: "10 boxes x 20 bags",
				UnitPrice: decimal.NewFromInt(18), UnitsInStock: 39, ReorderLevel: 10},
			{Name: "Chang", SupplierID: &exotic.ID, CategoryID: &beverages.ID, QuantityPerUnit: "24 - 12 oz bottles",
				UnitPrice: decimal.NewFromInt(19), UnitsInStock: 17, UnitsOnOrder: 40, ReorderLevel: 25},
			{Name: "Aniseed Syrup", SupplierID: &exotic.ID, CategoryID: &condiments.ID, QuantityPerUnit: "12 - 550 ml bottles",
				UnitPrice: decimal.NewFromInt(10), UnitsInStock: 13, UnitsOnOrder: 70, ReorderLevel: 25},
			{Name: "Chef Anton's Cajun Seasoning", SupplierID: &cajun.ID, CategoryID: &condiments.ID, QuantityPerUnit: "48 - 6 oz jars",
				UnitPrice: decimal.RequireFromString("22.00"), UnitsInStock: 53},
		}
		for _, p := range seed {
			if err := products.Add(p); err != nil {
				return err
			}
		}
		if err := products.Save(ctx); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		return nil
	})
}
