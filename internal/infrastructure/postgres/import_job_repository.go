package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ingest-api/internal/domain"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
)

var _ repository.ImportJobRepository = (*ImportJobRepo)(nil)

// ImportJobRepo implementación de ImportJobRepository sobre PostgreSQL.
// Se usa siempre con el pool: el job no participa de la transacción de cada registro.
type ImportJobRepo struct {
	q Querier
}

// NewImportJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImportJobRepository(q Querier) *ImportJobRepo {
	return &ImportJobRepo{q: q}
}

const importJobColumns = `id, store_id, job_type, source_file, status, records_processed, records_failed,
	records_skipped, COALESCE(error_details, ''), started_at, completed_at`

func (r *ImportJobRepo) Create(ctx context.Context, job *entity.ImportJob) error {
	query := `
		INSERT INTO import_jobs (id, store_id, job_type, source_file, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, job.ID, job.StoreID, string(job.JobType), job.SourceFile, string(job.Status), job.StartedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepo) Complete(ctx context.Context, job *entity.ImportJob) error {
	query := `
		UPDATE import_jobs
		SET status = $2, records_processed = $3, records_failed = $4, records_skipped = $5,
		    error_details = $6, completed_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		job.ID, string(job.Status), job.RecordsProcessed, job.RecordsFailed, job.RecordsSkipped,
		nullIfEmpty(job.ErrorDetails), job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("complete import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ImportJobRepo) GetByID(ctx context.Context, id string) (*entity.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE id = $1`
	job, err := scanImportJob(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}
	return job, nil
}

func (r *ImportJobRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.ImportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + importJobColumns + `
		FROM import_jobs WHERE store_id = $1
		ORDER BY started_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	var list []*entity.ImportJob
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import job: %w", err)
		}
		list = append(list, job)
	}
	return list, rows.Err()
}

func scanImportJob(row pgx.Row) (*entity.ImportJob, error) {
	var (
		j       entity.ImportJob
		jobType string
		status  string
	)
	err := row.Scan(&j.ID, &j.StoreID, &jobType, &j.SourceFile, &status, &j.RecordsProcessed,
		&j.RecordsFailed, &j.RecordsSkipped, &j.ErrorDetails, &j.StartedAt, &j.CompletedAt)
	if err != nil {
		return nil, err
	}
	j.JobType = entity.JobType(jobType)
	j.Status = entity.JobStatus(status)
	return &j, nil
}
