package repository

import (
	"context"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
)

// ImportJobRepository define el puerto de persistencia para los jobs de importación (tabla append-only).
type ImportJobRepository interface {
	Create(ctx context.Context, job *entity.ImportJob) error
	// Complete actualiza estado, contadores, errores y fecha de cierre.
	Complete(ctx context.Context, job *entity.ImportJob) error
	GetByID(ctx context.Context, id string) (*entity.ImportJob, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.ImportJob, error)
}
