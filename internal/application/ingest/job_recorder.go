package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// JobRecorder es dueño del ciclo de vida del job: lo abre en running y lo cierra en completed.
type JobRecorder struct {
	repo  repository.ImportJobRepository
	cache JobCache
	log   *logger.Logger
	now   func() time.Time
}

// NewJobRecorder construye el recorder.
func NewJobRecorder(repo repository.ImportJobRepository, cache JobCache, log *logger.Logger) *JobRecorder {
	return &JobRecorder{repo: repo, cache: cache, log: log, now: time.Now}
}

// JobHandle referencia al job abierto.
type JobHandle struct {
	job *entity.ImportJob
}

// ID del job abierto.
func (h *JobHandle) ID() string { return h.job.ID }

// Tally conteo final de un lote.
type Tally struct {
	Processed int
	Failed    int
	Skipped   int
	Errors    []string
}

// Open inserta el job en running. Un error aquí aborta el lote completo.
func (r *JobRecorder) Open(ctx context.Context, storeID string, jobType entity.JobType, sourceFile *string) (*JobHandle, error) {
	job := &entity.ImportJob{
		ID:         uuid.New().String(),
		StoreID:    storeID,
		JobType:    jobType,
		SourceFile: sourceFile,
		Status:     entity.JobStatusRunning,
		StartedAt:  r.now().UTC(),
	}
	if err := r.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("abrir job de importación: %w", err)
	}
	r.log.Info().
		Str("job_id", job.ID).
		Str("store_id", storeID).
		Str("job_type", string(jobType)).
		Msg("job de importación abierto")
	return &JobHandle{job: job}, nil
}

// Close marca el job completed aunque haya fallidos, guarda contadores y la lista completa de errores.
func (r *JobRecorder) Close(ctx context.Context, h *JobHandle, t Tally) (*entity.ImportJob, error) {
	completedAt := r.now().UTC()
	job := *h.job
	job.Status = entity.JobStatusCompleted
	job.RecordsProcessed = t.Processed
	job.RecordsFailed = t.Failed
	job.RecordsSkipped = t.Skipped
	job.ErrorDetails = strings.Join(t.Errors, "\n")
	job.CompletedAt = &completedAt

	if err := r.repo.Complete(ctx, &job); err != nil {
		return nil, fmt.Errorf("cerrar job de importación: %w", err)
	}
	if err := r.cache.Set(ctx, &job); err != nil {
		r.log.Warn().Err(err).Str("job_id", job.ID).Msg("no se pudo cachear el job")
	}
	r.log.Info().
		Str("job_id", job.ID).
		Int("processed", t.Processed).
		Int("failed", t.Failed).
		Int("skipped", t.Skipped).
		Msg("job de importación completado")
	return &job, nil
}
