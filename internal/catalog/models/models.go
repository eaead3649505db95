// Package models holds the catalog records persisted through the generic
// repository.
package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catalog/internal/validation"
)

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:15;not null"`
	Description string `json:"description,omitempty"`
}

func (c *Category) GetID() uint   { return c.ID }
func (c *Category) SetID(id uint) { c.ID = id }

// Validate applies the category field rules.
func (c *Category) Validate() error {
	return validation.Run(
		validation.Check{Field: "name", Rule: validation.RuleStringNotEmpty, Value: c.Name},
	)
}

// BeforeSave rejects invalid categories on insert and update.
func (c *Category) BeforeSave(*gorm.DB) error { return c.Validate() }

type Supplier struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CompanyName  string    `json:"company_name" gorm:"size:40;not null"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactTitle string    `json:"contact_title,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Region       string    `json:"region,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      string    `json:"country,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Fax          string    `json:"fax,omitempty"`
	HomePage     string    `json:"home_page,omitempty"`
	Products     []Product `json:"products,omitempty" gorm:"foreignKey:SupplierID"`
}

func (s *Supplier) GetID() uint   { return s.ID }
func (s *Supplier) SetID(id uint) { s.ID = id }

// Validate applies the supplier field rules.
func (s *Supplier) Validate() error {
	return validation.Run(
		validation.Check{Field: "company_name", Rule: validation.RuleStringNotEmpty, Value: s.CompanyName},
	)
}

// BeforeSave rejects invalid suppliers on insert and update.
func (s *Supplier) BeforeSave(*gorm.DB) error { return s.Validate() }

type Product struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"size:40;not null"`
	SupplierID      *uint           `json:"supplier_id,omitempty"`
	CategoryID      *uint           `json:"category_id,omitempty"`
	QuantityPerUnit string          `json:"quantity_per_unit,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null;default:0"`
	UnitsInStock    int16           `json:"units_in_stock"`
	UnitsOnOrder    int16           `json:"units_on_order"`
	ReorderLevel    int16           `json:"reorder_level"`
	Discontinued    bool            `json:"discontinued"`
	Category        *Category       `json:"category,omitempty"`
	Supplier        *Supplier       `json:"supplier,omitempty"`
}

func (p *Product) GetID() uint   { return p.ID }
func (p *Product) SetID(id uint) { p.ID = id }

// Validate applies the product field rules. The price goes through the
// nullable double rule, so a missing price is never the reason for rejection.
func (p *Product) Validate() error {
	price := p.UnitPrice.InexactFloat64()
	return validation.Run(
		validation.Check{Field: "name", Rule: validation.RuleStringNotEmpty, Value: p.Name},
		validation.Check{Field: "unit_price", Rule: validation.RuleNullableDoubleNotNegative, Value: &price},
		validation.Check{Field: "units_in_stock", Rule: validation.RuleIntNotNegative, Value: int32(p.UnitsInStock)},
		validation.Check{Field: "units_on_order", Rule: validation.RuleIntNotNegative, Value: int32(p.UnitsOnOrder)},
		validation.Check{Field: "reorder_level", Rule: validation.RuleIntNotNegative, Value: int32(p.ReorderLevel)},
	)
}

// BeforeSave rejects invalid products on insert and update.
func (p *Product) BeforeSave(*gorm.DB) error { return p.Validate() }
