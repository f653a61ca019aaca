package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de transacciones.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// InsertIgnore usa ON CONFLICT DO NOTHING RETURNING id: sin fila devuelta es un duplicado.
func (r *TransactionRepo) InsertIgnore(ctx context.Context, t *entity.Transaction) (bool, error) {
	query := `
		INSERT INTO transactions (id, store_id, pos_transaction_id, employee_id, transaction_type, transaction_date,
			total_amount, tax_amount, discount_amount, payment_method, customer_phone, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (pos_transaction_id, store_id) DO NOTHING
		RETURNING id`
	var id string
	err := r.q.QueryRow(ctx, query,
		t.ID, t.StoreID, t.POSTransactionID, t.EmployeeID, t.TransactionType, t.TransactionDate,
		t.TotalAmount, t.TaxAmount, t.DiscountAmount,
		nullIfEmpty(t.PaymentMethod), nullIfEmpty(t.CustomerPhone), nullIfEmpty(t.Notes), t.CreatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	return true, nil
}

func (r *TransactionRepo) InsertItemIgnore(ctx context.Context, it *entity.TransactionItem) (bool, error) {
	query := `
		INSERT INTO transaction_items (id, transaction_id, item_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (transaction_id, item_id) DO NOTHING
		RETURNING id`
	var id string
	err := r.q.QueryRow(ctx, query,
		it.ID, it.TransactionID, it.ItemID, it.Quantity, it.UnitPrice, it.TotalPrice,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert transaction item: %w", err)
	}
	return true, nil
}

func (r *TransactionRepo) CountByStore(ctx context.Context, storeID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE store_id = $1`, storeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *TransactionRepo) ListItems(ctx context.Context, transactionID string) ([]*entity.TransactionItem, error) {
	query := `
		SELECT id, transaction_id, item_id, quantity, unit_price, total_price
		FROM transaction_items WHERE transaction_id = $1
		ORDER BY item_id`
	rows, err := r.q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransactionItem
	for rows.Next() {
		var it entity.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ItemID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *TransactionRepo) GetByPOSID(ctx context.Context, storeID, posTransactionID string) (*entity.Transaction, error) {
	query := `
		SELECT id, store_id, pos_transaction_id, employee_id::TEXT, transaction_type, transaction_date,
		       total_amount, tax_amount, discount_amount, COALESCE(payment_method, ''),
		       COALESCE(customer_phone, ''), COALESCE(notes, ''), created_at
		FROM transactions WHERE store_id = $1 AND pos_transaction_id = $2`
	var t entity.Transaction
	err := r.q.QueryRow(ctx, query, storeID, posTransactionID).Scan(
		&t.ID, &t.StoreID, &t.POSTransactionID, &t.EmployeeID, &t.TransactionType, &t.TransactionDate,
		&t.TotalAmount, &t.TaxAmount, &t.DiscountAmount, &t.PaymentMethod,
		&t.CustomerPhone, &t.Notes, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}
