package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func (r *ItemRepo) GetByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Item, error) {
	query := `
		SELECT id, store_id, sku, COALESCE(name, ''), COALESCE(category, ''), COALESCE(brand, ''),
		       cost_price, retail_price, is_active, COALESCE(pos_item_id, ''), created_at, updated_at
		FROM items WHERE store_id = $1 AND sku = $2`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, storeID, sku).Scan(
		&it.ID, &it.StoreID, &it.SKU, &it.Name, &it.Category, &it.Brand,
		&it.CostPrice, &it.RetailPrice, &it.IsActive, &it.POSItemID, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by sku: %w", err)
	}
	return &it, nil
}

func (r *ItemRepo) Upsert(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, store_id, sku, name, category, brand, cost_price, retail_price, is_active, pos_item_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (store_id, sku) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand,
			cost_price = EXCLUDED.cost_price,
			retail_price = EXCLUDED.retail_price,
			is_active = EXCLUDED.is_active,
			pos_item_id = EXCLUDED.pos_item_id,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.StoreID, it.SKU, nullIfEmpty(it.Name), nullIfEmpty(it.Category), nullIfEmpty(it.Brand),
		it.CostPrice, it.RetailPrice, it.IsActive, nullIfEmpty(it.POSItemID), it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}
