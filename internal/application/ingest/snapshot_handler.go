package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
)

// upsertInventorySnapshot valoriza la cantidad con los precios vigentes del artículo
// y sobrescribe el snapshot del mismo día. SKU inexistente = registro omitido.
func upsertInventorySnapshot(ctx context.Context, repos Repositories, sc scope, rec posrecord.Record) (outcome, error) {
	in, err := posrecord.DecodeSnapshot(rec)
	if err != nil {
		return outcomeApplied, err
	}
	if in.ItemSKU == "" {
		return outcomeSkipped, nil
	}
	item, err := repos.Items.GetByStoreAndSKU(ctx, sc.storeID, in.ItemSKU)
	if err != nil {
		return outcomeApplied, err
	}
	if item == nil {
		return outcomeSkipped, nil
	}

	date := dateOnly(sc.now)
	if in.SnapshotDate != nil {
		date = dateOnly(*in.SnapshotDate)
	}
	snap := &entity.InventorySnapshot{
		ID:             uuid.New().String(),
		StoreID:        sc.storeID,
		ItemID:         item.ID,
		SnapshotDate:   date,
		QuantityOnHand: in.Quantity,
		ValueAtCost:    in.Quantity.Mul(item.CostPrice),
		ValueAtRetail:  in.Quantity.Mul(item.RetailPrice),
		CreatedAt:      sc.now,
		UpdatedAt:      sc.now,
	}
	return outcomeApplied, repos.Snapshots.Upsert(ctx, snap)
}
