package posrecord

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTransactionType tipo asumido cuando la exportación no lo trae.
const DefaultTransactionType = "sale"

// TransactionRecord vista tipada de un registro de transacción.
type TransactionRecord struct {
	TransactionID  string
	EmployeeCode   string
	Type           string
	Date           *time.Time
	TotalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	PaymentMethod  string
	CustomerPhone  string
	Notes          string
	LineItems      []LineItemRecord
}

// LineItemRecord línea anidada en line_items.
type LineItemRecord struct {
	SKU        string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// EmployeeRecord vista tipada de un registro de empleado.
type EmployeeRecord struct {
	Code          string
	Name          string
	Role          string
	HireDate      *time.Time
	IsActive      bool
	POSEmployeeID string
}

// ItemRecord vista tipada de un registro de artículo.
type ItemRecord struct {
	SKU         string
	Name        string
	Category    string
	Brand       string
	CostPrice   decimal.Decimal
	RetailPrice decimal.Decimal
	IsActive    bool
	POSItemID   string
}

// SnapshotRecord vista tipada de un registro de inventario.
// El artículo se identifica con item_sku: un registro con sku se clasifica como Item.
type SnapshotRecord struct {
	ItemSKU      string
	Quantity     decimal.Decimal
	SnapshotDate *time.Time
}

// DecodeTransaction arma la vista tipada; montos ausentes valen 0.
func DecodeTransaction(rec Record) (TransactionRecord, error) {
	out := TransactionRecord{
		TransactionID: rec.String(FieldTransactionID),
		EmployeeCode:  rec.String(FieldEmployeeCode),
		Type:          rec.FirstString("transaction_type", "type"),
		PaymentMethod: rec.String("payment_method"),
		CustomerPhone: rec.String("customer_phone"),
		Notes:         rec.String("notes"),
	}
	if out.Type == "" {
		out.Type = DefaultTransactionType
	}
	var err error
	if out.Date, err = rec.Time("transaction_date"); err != nil {
		return out, err
	}
	if out.TotalAmount, err = rec.Decimal("total_amount", decimal.Zero); err != nil {
		return out, err
	}
	if out.TaxAmount, err = rec.Decimal("tax_amount", decimal.Zero); err != nil {
		return out, err
	}
	if out.DiscountAmount, err = rec.Decimal("discount_amount", decimal.Zero); err != nil {
		return out, err
	}
	for _, li := range rec.Records(FieldLineItems) {
		line, err := decodeLineItem(li)
		if err != nil {
			return out, err
		}
		out.LineItems = append(out.LineItems, line)
	}
	return out, nil
}

func decodeLineItem(rec Record) (LineItemRecord, error) {
	line := LineItemRecord{SKU: rec.String(FieldSKU)}
	var err error
	if line.Quantity, err = rec.Decimal("quantity", decimal.NewFromInt(1)); err != nil {
		return line, err
	}
	if line.UnitPrice, err = rec.Decimal("unit_price", decimal.Zero); err != nil {
		return line, err
	}
	if line.TotalPrice, err = rec.Decimal("total_price", decimal.Zero); err != nil {
		return line, err
	}
	return line, nil
}

// DecodeEmployee arma la vista tipada de un empleado.
func DecodeEmployee(rec Record) (EmployeeRecord, error) {
	out := EmployeeRecord{
		Code:          rec.String(FieldEmployeeCode),
		Name:          rec.FirstString("name", "employee_name"),
		Role:          rec.String("role"),
		IsActive:      rec.BoolDefaultTrue("is_active"),
		POSEmployeeID: rec.String("pos_employee_id"),
	}
	var err error
	out.HireDate, err = rec.Time("hire_date")
	return out, err
}

// DecodeItem arma la vista tipada de un artículo; precios ausentes valen 0.
func DecodeItem(rec Record) (ItemRecord, error) {
	out := ItemRecord{
		SKU:       rec.String(FieldSKU),
		Name:      rec.FirstString("name", "item_name"),
		Category:  rec.String("category"),
		Brand:     rec.String("brand"),
		IsActive:  rec.BoolDefaultTrue("is_active"),
		POSItemID: rec.String("pos_item_id"),
	}
	var err error
	if out.CostPrice, err = rec.Decimal("cost_price", decimal.Zero); err != nil {
		return out, err
	}
	if out.RetailPrice, err = rec.Decimal("retail_price", decimal.Zero); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeSnapshot arma la vista tipada de un snapshot de inventario.
func DecodeSnapshot(rec Record) (SnapshotRecord, error) {
	out := SnapshotRecord{ItemSKU: rec.String("item_sku")}
	var err error
	if out.Quantity, err = rec.Decimal(FieldInventoryCount, decimal.Zero); err != nil {
		return out, err
	}
	out.SnapshotDate, err = rec.Time("snapshot_date")
	return out, err
}
