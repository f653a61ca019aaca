package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
)

var _ repository.InventorySnapshotRepository = (*InventorySnapshotRepo)(nil)

// InventorySnapshotRepo implementación de InventorySnapshotRepository (usable con pool o tx).
type InventorySnapshotRepo struct {
	q Querier
}

// NewInventorySnapshotRepository construye el adaptador de snapshots.
func NewInventorySnapshotRepository(q Querier) *InventorySnapshotRepo {
	return &InventorySnapshotRepo{q: q}
}

// Upsert: misma tienda, artículo y fecha sobrescribe cantidad y valuación.
func (r *InventorySnapshotRepo) Upsert(ctx context.Context, s *entity.InventorySnapshot) error {
	query := `
		INSERT INTO inventory_snapshots (id, store_id, item_id, snapshot_date, quantity_on_hand, value_at_cost, value_at_retail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (store_id, item_id, snapshot_date) DO UPDATE SET
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			value_at_cost = EXCLUDED.value_at_cost,
			value_at_retail = EXCLUDED.value_at_retail,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.StoreID, s.ItemID, s.SnapshotDate, s.QuantityOnHand, s.ValueAtCost, s.ValueAtRetail,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory snapshot: %w", err)
	}
	return nil
}

func (r *InventorySnapshotRepo) Get(ctx context.Context, storeID, itemID string, date time.Time) (*entity.InventorySnapshot, error) {
	query := `
		SELECT id, store_id, item_id, snapshot_date, quantity_on_hand, value_at_cost, value_at_retail, created_at, updated_at
		FROM inventory_snapshots WHERE store_id = $1 AND item_id = $2 AND snapshot_date = $3`
	var s entity.InventorySnapshot
	err := r.q.QueryRow(ctx, query, storeID, itemID, date.UTC().Format("2006-01-02")).Scan(
		&s.ID, &s.StoreID, &s.ItemID, &s.SnapshotDate, &s.QuantityOnHand, &s.ValueAtCost, &s.ValueAtRetail,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory snapshot: %w", err)
	}
	return &s, nil
}
