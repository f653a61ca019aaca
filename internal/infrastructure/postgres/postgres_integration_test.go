package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ingest-api/pkg/config"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// Requiere una base descartable: POS_INGEST_TEST_DATABASE_URL=postgres://...
func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POS_INGEST_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("POS_INGEST_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	return pool
}

func TestImportJobRepo_CicloDeVida(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	repo := postgres.NewImportJobRepository(pool)
	storeID := "test-" + uuid.NewString()
	src := "ventas.json"

	job := &entity.ImportJob{
		ID:         uuid.NewString(),
		StoreID:    storeID,
		JobType:    entity.JobTypeManualImport,
		SourceFile: &src,
		Status:     entity.JobStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, job))

	done := time.Now().UTC()
	job.Status = entity.JobStatusCompleted
	job.RecordsProcessed = 3
	job.RecordsFailed = 1
	job.RecordsSkipped = 2
	job.ErrorDetails = "Record 2: boom"
	job.CompletedAt = &done
	require.NoError(t, repo.Complete(ctx, job))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.JobStatusCompleted, got.Status)
	assert.Equal(t, 2, got.RecordsSkipped)
	assert.Equal(t, "Record 2: boom", got.ErrorDetails)
	require.NotNil(t, got.SourceFile)
	assert.Equal(t, src, *got.SourceFile)

	list, err := repo.ListByStore(ctx, storeID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	missing, err := repo.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIngest_ContraPostgres(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	storeID := "test-" + uuid.NewString()

	log := logger.Nop()
	jobs := postgres.NewImportJobRepository(pool)
	uc := ingest.NewIngestUseCase(ingest.NewJobRecorder(jobs, cache.NoopJobCache{}, log), postgres.NewTxRunner(pool), log)

	req := dto.IngestRequest{
		StoreID: storeID,
		Data: []posrecord.Record{
			{"employee_code": "E1", "employee_name": "Ana"},
			{"sku": "A1", "name": "Cola", "cost_price": "5", "retail_price": "9"},
			{"transaction_id": "T1", "employee_code": "E1", "total_amount": "18.00",
				"line_items": []any{map[string]any{"sku": "A1", "quantity": "2"}, map[string]any{"sku": "ZZ"}}},
			{"item_sku": "A1", "inventory_count": "10", "snapshot_date": "2024-01-31"},
		},
	}
	for i := 0; i < 2; i++ {
		resp, err := uc.Ingest(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 4, resp.RecordsProcessed)
		assert.Zero(t, resp.RecordsFailed)
	}

	repos := postgres.NewRepositories(pool)
	n, err := repos.Transactions.CountByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "el reenvío no duplica")

	tx, err := repos.Transactions.GetByPOSID(ctx, storeID, "T1")
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.NotNil(t, tx.EmployeeID)

	lines, err := repos.Transactions.ListItems(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Quantity.Equal(decimal.NewFromInt(2)))

	item, err := repos.Items.GetByStoreAndSKU(ctx, storeID, "A1")
	require.NoError(t, err)
	require.NotNil(t, item)
	snap, err := repos.Snapshots.Get(ctx, storeID, item.ID, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.ValueAtCost.Equal(decimal.NewFromInt(50)))
	assert.True(t, snap.ValueAtRetail.Equal(decimal.NewFromInt(90)))
}
