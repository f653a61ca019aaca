package ingest

import (
	"context"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
)

// Repositories es el handle de almacenamiento que reciben los handlers de registro.
// Se pasa explícitamente en cada llamada (sin cliente global) para poder usar dobles de prueba.
type Repositories struct {
	Employees    repository.EmployeeRepository
	Items        repository.ItemRepository
	Transactions repository.TransactionRepository
	Snapshots    repository.InventorySnapshotRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Un registro = una transacción: si fn falla no queda ninguna fila parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// JobCache caché de resúmenes de jobs cerrados (Redis o noop).
type JobCache interface {
	Get(ctx context.Context, jobID string) (*entity.ImportJob, bool, error)
	Set(ctx context.Context, job *entity.ImportJob) error
}

// JobReportGenerator genera la representación PDF de un job.
type JobReportGenerator interface {
	GenerateJobReport(ctx context.Context, job *entity.ImportJob) ([]byte, error)
}
