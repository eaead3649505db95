// Package store wires the catalog entities to the generic repository and
// owns their schema.
package store

import (
	"gorm.io/gorm"

	"catalog/internal/catalog/models"
	"catalog/internal/storage"
)

type (
	Products   = storage.Repository[*models.Product, uint]
	Categories = storage.Repository[*models.Category, uint]
	Suppliers  = storage.Repository[*models.Supplier, uint]
)

// Relation sets eager-loaded on every read of each entity.
var (
	ProductConfig  = storage.Config{Name: "product", Relations: []string{"Category", "Supplier"}}
	SupplierConfig = storage.Config{Name: "supplier", Relations: []string{"Products"}}
	CategoryConfig = storage.Config{Name: "category"}
)

func NewProducts(db *gorm.DB, opts ...storage.Option) (*Products, error) {
	return storage.New[*models.Product, uint](db, ProductConfig, opts...)
}

func NewCategories(db *gorm.DB, opts ...storage.Option) (*Categories, error) {
	return storage.New[*models.Category, uint](db, CategoryConfig, opts...)
}

func NewSuppliers(db *gorm.DB, opts ...storage.Option) (*Suppliers, error) {
	return storage.New[*models.Supplier, uint](db, SupplierConfig, opts...)
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Supplier{}, &models.Product{})
}
