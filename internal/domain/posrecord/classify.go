package posrecord

// Kind tipo de registro decidido por presencia de campos.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransaction
	KindEmployee
	KindItem
	KindInventorySnapshot
)

func (k Kind) String() string {
	switch k {
	case KindTransaction:
		return "transaction"
	case KindEmployee:
		return "employee"
	case KindItem:
		return "item"
	case KindInventorySnapshot:
		return "inventory_snapshot"
	}
	return "unknown"
}

// Campos que distinguen cada tipo de registro.
const (
	FieldTransactionID  = "transaction_id"
	FieldEmployeeCode   = "employee_code"
	FieldSKU            = "sku"
	FieldInventoryCount = "inventory_count"
)

// FieldLineItems arreglo de líneas dentro de una transacción.
const FieldLineItems = "line_items"

// Classify decide el tipo del registro. Gana la primera coincidencia:
// transaction_id > employee_code > sku > inventory_count (cero incluido).
func Classify(rec Record) Kind {
	switch {
	case rec.Has(FieldTransactionID):
		return KindTransaction
	case rec.Has(FieldEmployeeCode):
		return KindEmployee
	case rec.Has(FieldSKU):
		return KindItem
	case rec.Defined(FieldInventoryCount):
		return KindInventorySnapshot
	}
	return KindUnknown
}
