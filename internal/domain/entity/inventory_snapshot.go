package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySnapshot foto del inventario de un artículo en una fecha.
// Los valores se calculan con el precio vigente del Item al momento de la ingesta y no se recalculan.
type InventorySnapshot struct {
	ID             string
	StoreID        string
	ItemID         string
	SnapshotDate   time.Time // solo fecha (UTC, 00:00)
	QuantityOnHand decimal.Decimal
	ValueAtCost    decimal.Decimal
	ValueAtRetail  decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
