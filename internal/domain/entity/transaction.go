package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction venta (u otro movimiento de caja) exportada por el POS.
// (POSTransactionID, StoreID) es la clave natural; los duplicados se ignoran.
type Transaction struct {
	ID               string
	StoreID          string
	POSTransactionID string
	EmployeeID       *string // resuelto por código al momento de la ingesta; nil si no existe
	TransactionType  string
	TransactionDate  time.Time
	TotalAmount      decimal.Decimal
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	PaymentMethod    string
	CustomerPhone    string
	Notes            string
	CreatedAt        time.Time
}

// TransactionItem línea de una transacción. Pertenece a su Transaction y solo se escribe junto a ella.
type TransactionItem struct {
	ID            string
	TransactionID string
	ItemID        string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
}
