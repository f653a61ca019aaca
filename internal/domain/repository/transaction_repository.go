package repository

import (
	"context"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
)

// TransactionRepository define el puerto para transacciones y sus líneas.
// Ambas escrituras ignoran duplicados (ON CONFLICT DO NOTHING).
type TransactionRepository interface {
	// InsertIgnore devuelve true si la fila se insertó; false si ya existía (no se toca).
	InsertIgnore(ctx context.Context, tx *entity.Transaction) (bool, error)
	// InsertItemIgnore devuelve true si la línea se insertó.
	InsertItemIgnore(ctx context.Context, item *entity.TransactionItem) (bool, error)
	CountByStore(ctx context.Context, storeID string) (int, error)
	ListItems(ctx context.Context, transactionID string) ([]*entity.TransactionItem, error)
	GetByPOSID(ctx context.Context, storeID, posTransactionID string) (*entity.Transaction, error)
}
