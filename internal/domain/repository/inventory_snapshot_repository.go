package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
)

// InventorySnapshotRepository define el puerto para snapshots de inventario.
type InventorySnapshotRepository interface {
	// Upsert inserta o sobrescribe cantidad y valores por (store_id, item_id, snapshot_date).
	Upsert(ctx context.Context, snapshot *entity.InventorySnapshot) error
	Get(ctx context.Context, storeID, itemID string, date time.Time) (*entity.InventorySnapshot, error)
}
