package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item artículo del catálogo de una tienda. SKU es único por tienda.
type Item struct {
	ID          string
	StoreID     string
	SKU         string
	Name        string
	Category    string
	Brand       string
	CostPrice   decimal.Decimal
	RetailPrice decimal.Decimal
	IsActive    bool
	POSItemID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
