package repository

import (
	"context"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
)

// EmployeeRepository define el puerto para empleados.
type EmployeeRepository interface {
	// GetByStoreAndCode devuelve nil, nil si el código no existe en la tienda.
	GetByStoreAndCode(ctx context.Context, storeID, code string) (*entity.Employee, error)
	// Upsert inserta o sobrescribe (merge) por (store_id, employee_code).
	Upsert(ctx context.Context, employee *entity.Employee) error
}
