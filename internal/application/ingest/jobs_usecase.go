package ingest

import (
	"context"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/domain"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// JobQueryUseCase consultas de solo lectura sobre los jobs de importación.
type JobQueryUseCase struct {
	repo   repository.ImportJobRepository
	cache  JobCache
	report JobReportGenerator
	log    *logger.Logger
}

// NewJobQueryUseCase construye el caso de uso.
func NewJobQueryUseCase(repo repository.ImportJobRepository, cache JobCache, report JobReportGenerator, log *logger.Logger) *JobQueryUseCase {
	return &JobQueryUseCase{repo: repo, cache: cache, report: report, log: log}
}

// GetByID busca primero en caché; un job completed leído de la BD se cachea.
func (uc *JobQueryUseCase) GetByID(ctx context.Context, id string) (*dto.ImportJobResponse, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toImportJobResponse(job), nil
}

// List lista los jobs de una tienda, más recientes primero.
func (uc *JobQueryUseCase) List(ctx context.Context, storeID string, limit, offset int) (*dto.ImportJobListResponse, error) {
	if storeID == "" {
		return nil, domain.ErrMissingStoreID
	}
	list, err := uc.repo.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ImportJobResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *toImportJobResponse(j))
	}
	return &dto.ImportJobListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Report genera el PDF de resumen del job.
func (uc *JobQueryUseCase) Report(ctx context.Context, id string) ([]byte, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateJobReport(ctx, job)
}

func (uc *JobQueryUseCase) load(ctx context.Context, id string) (*entity.ImportJob, error) {
	if job, ok, err := uc.cache.Get(ctx, id); err != nil {
		uc.log.Warn().Err(err).Str("job_id", id).Msg("lectura de caché fallida, se consulta la BD")
	} else if ok {
		return job, nil
	}

	job, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if job.Status == entity.JobStatusCompleted {
		if err := uc.cache.Set(ctx, job); err != nil {
			uc.log.Warn().Err(err).Str("job_id", id).Msg("no se pudo cachear el job")
		}
	}
	return job, nil
}

func toImportJobResponse(j *entity.ImportJob) *dto.ImportJobResponse {
	if j == nil {
		return nil
	}
	return &dto.ImportJobResponse{
		ID:               j.ID,
		StoreID:          j.StoreID,
		JobType:          string(j.JobType),
		SourceFile:       j.SourceFile,
		Status:           string(j.Status),
		RecordsProcessed: j.RecordsProcessed,
		RecordsFailed:    j.RecordsFailed,
		RecordsSkipped:   j.RecordsSkipped,
		ErrorDetails:     j.ErrorDetails,
		StartedAt:        j.StartedAt,
		CompletedAt:      j.CompletedAt,
	}
}
