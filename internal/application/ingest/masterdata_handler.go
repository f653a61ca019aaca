package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
)

// upsertEmployee sobrescribe el empleado existente con el mismo código (merge).
func upsertEmployee(ctx context.Context, repos Repositories, sc scope, rec posrecord.Record) (outcome, error) {
	in, err := posrecord.DecodeEmployee(rec)
	if err != nil {
		return outcomeApplied, err
	}
	emp := &entity.Employee{
		ID:            uuid.New().String(),
		StoreID:       sc.storeID,
		EmployeeCode:  in.Code,
		Name:          in.Name,
		Role:          in.Role,
		HireDate:      in.HireDate,
		IsActive:      in.IsActive,
		POSEmployeeID: in.POSEmployeeID,
		CreatedAt:     sc.now,
		UpdatedAt:     sc.now,
	}
	return outcomeApplied, repos.Employees.Upsert(ctx, emp)
}

// upsertItem sobrescribe el artículo existente con el mismo SKU (merge).
func upsertItem(ctx context.Context, repos Repositories, sc scope, rec posrecord.Record) (outcome, error) {
	in, err := posrecord.DecodeItem(rec)
	if err != nil {
		return outcomeApplied, err
	}
	item := &entity.Item{
		ID:          uuid.New().String(),
		StoreID:     sc.storeID,
		SKU:         in.SKU,
		Name:        in.Name,
		Category:    in.Category,
		Brand:       in.Brand,
		CostPrice:   in.CostPrice,
		RetailPrice: in.RetailPrice,
		IsActive:    in.IsActive,
		POSItemID:   in.POSItemID,
		CreatedAt:   sc.now,
		UpdatedAt:   sc.now,
	}
	return outcomeApplied, repos.Items.Upsert(ctx, item)
}
