package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación de EmployeeRepository (usable con pool o tx).
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador de empleados.
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

func (r *EmployeeRepo) GetByStoreAndCode(ctx context.Context, storeID, code string) (*entity.Employee, error) {
	query := `
		SELECT id, store_id, employee_code, COALESCE(name, ''), COALESCE(role, ''), hire_date, is_active,
		       COALESCE(pos_employee_id, ''), created_at, updated_at
		FROM employees WHERE store_id = $1 AND employee_code = $2`
	var e entity.Employee
	err := r.q.QueryRow(ctx, query, storeID, code).Scan(
		&e.ID, &e.StoreID, &e.EmployeeCode, &e.Name, &e.Role, &e.HireDate, &e.IsActive,
		&e.POSEmployeeID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by code: %w", err)
	}
	return &e, nil
}

// Upsert sobrescribe todos los atributos salvo id y created_at.
func (r *EmployeeRepo) Upsert(ctx context.Context, e *entity.Employee) error {
	query := `
		INSERT INTO employees (id, store_id, employee_code, name, role, hire_date, is_active, pos_employee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (store_id, employee_code) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			hire_date = EXCLUDED.hire_date,
			is_active = EXCLUDED.is_active,
			pos_employee_id = EXCLUDED.pos_employee_id,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.StoreID, e.EmployeeCode, nullIfEmpty(e.Name), nullIfEmpty(e.Role), e.HireDate, e.IsActive,
		nullIfEmpty(e.POSEmployeeID), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}
