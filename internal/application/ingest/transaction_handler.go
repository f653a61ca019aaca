package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
)

// upsertTransaction inserta la transacción ignorando duplicados y, solo si es nueva,
// escribe sus líneas cuyo SKU exista en la tienda.
func upsertTransaction(ctx context.Context, repos Repositories, sc scope, rec posrecord.Record) (outcome, error) {
	in, err := posrecord.DecodeTransaction(rec)
	if err != nil {
		return outcomeApplied, err
	}

	// Referencia al empleado: si el código no existe queda en nil, no es error.
	var employeeID *string
	if in.EmployeeCode != "" {
		emp, err := repos.Employees.GetByStoreAndCode(ctx, sc.storeID, in.EmployeeCode)
		if err != nil {
			return outcomeApplied, err
		}
		if emp != nil {
			id := emp.ID
			employeeID = &id
		}
	}

	date := sc.now
	if in.Date != nil {
		date = *in.Date
	}
	tx := &entity.Transaction{
		ID:               uuid.New().String(),
		StoreID:          sc.storeID,
		POSTransactionID: in.TransactionID,
		EmployeeID:       employeeID,
		TransactionType:  in.Type,
		TransactionDate:  date,
		TotalAmount:      in.TotalAmount,
		TaxAmount:        in.TaxAmount,
		DiscountAmount:   in.DiscountAmount,
		PaymentMethod:    in.PaymentMethod,
		CustomerPhone:    in.CustomerPhone,
		Notes:            in.Notes,
		CreatedAt:        sc.now,
	}
	inserted, err := repos.Transactions.InsertIgnore(ctx, tx)
	if err != nil {
		return outcomeApplied, err
	}
	if !inserted {
		return outcomeApplied, nil
	}

	for _, line := range in.LineItems {
		if line.SKU == "" {
			continue
		}
		item, err := repos.Items.GetByStoreAndSKU(ctx, sc.storeID, line.SKU)
		if err != nil {
			return outcomeApplied, err
		}
		if item == nil {
			continue
		}
		if _, err := repos.Transactions.InsertItemIgnore(ctx, &entity.TransactionItem{
			ID:            uuid.New().String(),
			TransactionID: tx.ID,
			ItemID:        item.ID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			TotalPrice:    line.TotalPrice,
		}); err != nil {
			return outcomeApplied, err
		}
	}
	return outcomeApplied, nil
}
