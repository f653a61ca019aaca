package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/domain"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// IngestUseCase reconcilia un lote de exportación POS contra el esquema normalizado de la tienda.
// Los registros se procesan en orden y de a uno; el fallo de uno no aborta el lote.
type IngestUseCase struct {
	recorder *JobRecorder
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewIngestUseCase construye el caso de uso.
func NewIngestUseCase(recorder *JobRecorder, txRunner TxRunner, log *logger.Logger) *IngestUseCase {
	return &IngestUseCase{recorder: recorder, txRunner: txRunner, log: log, now: time.Now}
}

// ValidateRequest normaliza jobType (vacío = api_import) y exige storeId.
func ValidateRequest(in *dto.IngestRequest) error {
	in.StoreID = strings.TrimSpace(in.StoreID)
	if in.StoreID == "" {
		return domain.ErrMissingStoreID
	}
	if in.JobType == "" {
		in.JobType = string(entity.JobTypeAPIImport)
	}
	if !entity.JobType(in.JobType).Valid() {
		return domain.ErrInvalidJobType
	}
	if in.SourceFile != nil && strings.TrimSpace(*in.SourceFile) == "" {
		in.SourceFile = nil
	}
	return nil
}

// Ingest abre el job, despacha cada registro y cierra el job con el conteo.
// Solo devuelve error si no se pudo validar la entrada o abrir/cerrar el job.
func (uc *IngestUseCase) Ingest(ctx context.Context, in dto.IngestRequest) (*dto.IngestResponse, error) {
	if err := ValidateRequest(&in); err != nil {
		return nil, err
	}

	handle, err := uc.recorder.Open(ctx, in.StoreID, entity.JobType(in.JobType), in.SourceFile)
	if err != nil {
		return nil, err
	}

	var tally Tally
	fail := func(i int, err error) {
		tally.Failed++
		msg := fmt.Sprintf("Record %d: %s", tally.Processed+tally.Failed+1, err.Error())
		tally.Errors = append(tally.Errors, msg)
		uc.log.Warn().Err(err).Str("job_id", handle.ID()).Int("index", i).Msg("registro fallido")
	}
	for i, rec := range in.Data {
		if reason, bad := in.Invalid[i]; bad {
			fail(i, errors.New(reason))
			continue
		}
		handler, ok := recordHandlers[posrecord.Classify(rec)]
		if !ok {
			tally.Skipped++
			uc.log.Debug().Str("job_id", handle.ID()).Int("index", i).Msg("registro sin forma reconocida, omitido")
			continue
		}

		sc := scope{storeID: in.StoreID, now: uc.now().UTC()}
		out, err := uc.dispatch(ctx, handler, sc, rec)
		if err != nil {
			fail(i, err)
			continue
		}
		if out == outcomeSkipped {
			tally.Skipped++
			continue
		}
		tally.Processed++
	}

	job, err := uc.recorder.Close(ctx, handle, tally)
	if err != nil {
		return nil, err
	}

	errs := tally.Errors
	if len(errs) > dto.MaxResponseErrors {
		errs = errs[:dto.MaxResponseErrors]
	}
	if errs == nil {
		errs = []string{}
	}
	return &dto.IngestResponse{
		Success:          true,
		JobID:            job.ID,
		RecordsProcessed: job.RecordsProcessed,
		RecordsFailed:    job.RecordsFailed,
		RecordsSkipped:   job.RecordsSkipped,
		Errors:           errs,
	}, nil
}

// dispatch corre el handler en su propia transacción; un panic se convierte en error del registro.
func (uc *IngestUseCase) dispatch(ctx context.Context, handler recordHandler, sc scope, rec posrecord.Record) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	err = uc.txRunner.Run(ctx, func(repos Repositories) error {
		var herr error
		out, herr = handler(ctx, repos, sc, rec)
		return herr
	})
	return out, err
}
