package models

import (
	"github.com/shopspring/decimal"
)

// ProductRequest is the body accepted by product create and replace.
type ProductRequest struct {
	Name            string          `json:"name"`
	SupplierID      *uint           `json:"supplier_id"`
	CategoryID      *uint           `json:"category_id"`
	QuantityPerUnit string          `json:"quantity_per_unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitsInStock    int16           `json:"units_in_stock"`
	UnitsOnOrder    int16           `json:"units_on_order"`
	ReorderLevel    int16           `json:"reorder_level"`
	Discontinued    bool            `json:"discontinued"`
}

// Apply copies the request fields onto p, leaving ID and relations alone.
func (r ProductRequest) Apply(p *Product) {
	p.Name = r.Name
	p.SupplierID = r.SupplierID
	p.CategoryID = r.CategoryID
	p.QuantityPerUnit = r.QuantityPerUnit
	p.UnitPrice = r.UnitPrice
	p.UnitsInStock = r.UnitsInStock
	p.UnitsOnOrder = r.UnitsOnOrder
	p.ReorderLevel = r.ReorderLevel
	p.Discontinued = r.Discontinued
}
