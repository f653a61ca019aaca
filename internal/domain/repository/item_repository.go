package repository

import (
	"context"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
)

// ItemRepository define el puerto para artículos.
type ItemRepository interface {
	// GetByStoreAndSKU devuelve nil, nil si el SKU no existe en la tienda.
	GetByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Item, error)
	// Upsert inserta o sobrescribe (merge) por (store_id, sku).
	Upsert(ctx context.Context, item *entity.Item) error
}
