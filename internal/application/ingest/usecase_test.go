package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/domain"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
	"github.com/jhoicas/pos-ingest-api/internal/domain/repository"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/posexport"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

const storeID = "store-1"

func newUseCase(store *memory.Store, runner ingest.TxRunner) *ingest.IngestUseCase {
	log := logger.Nop()
	recorder := ingest.NewJobRecorder(store.Jobs(), cache.NoopJobCache{}, log)
	return ingest.NewIngestUseCase(recorder, runner, log)
}

func run(t *testing.T, uc *ingest.IngestUseCase, data ...posrecord.Record) *dto.IngestResponse {
	t.Helper()
	resp, err := uc.Ingest(context.Background(), dto.IngestRequest{StoreID: storeID, Data: data})
	require.NoError(t, err)
	return resp
}

func item(sku string, cost, retail string) posrecord.Record {
	return posrecord.Record{"sku": sku, "name": "Artículo " + sku, "cost_price": cost, "retail_price": retail}
}

func TestIngest_TransaccionIdempotente(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()
	run(t, uc, item("A1", "1", "2"), item("B2", "1", "2"))

	tx := posrecord.Record{
		"transaction_id": "T1", "total_amount": "4",
		"line_items": []any{map[string]any{"sku": "A1"}, map[string]any{"sku": "B2"}},
	}
	first := run(t, uc, tx)
	second := run(t, uc, tx)

	assert.Equal(t, 1, first.RecordsProcessed)
	assert.Equal(t, 1, second.RecordsProcessed, "el duplicado cuenta como procesado")
	n, err := store.Repositories().Transactions.CountByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	saved, err := store.Repositories().Transactions.GetByPOSID(ctx, storeID, "T1")
	require.NoError(t, err)
	lines, err := store.Repositories().Transactions.ListItems(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestIngest_EmpleadoSeSobrescribe(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()

	run(t, uc, posrecord.Record{"employee_code": "E1", "name": "Ana", "role": "cashier"})
	before, err := store.Repositories().Employees.GetByStoreAndCode(ctx, storeID, "E1")
	require.NoError(t, err)

	run(t, uc, posrecord.Record{"employee_code": "E1", "name": "Ana María", "role": "manager", "is_active": false})
	after, err := store.Repositories().Employees.GetByStoreAndCode(ctx, storeID, "E1")
	require.NoError(t, err)

	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "Ana María", after.Name)
	assert.Equal(t, "manager", after.Role)
	assert.False(t, after.IsActive)
}

func TestIngest_LineaConSKUInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()
	run(t, uc, item("A1", "1", "2"))

	resp := run(t, uc, posrecord.Record{
		"transaction_id": "T1",
		"line_items":     []any{map[string]any{"sku": "A1", "quantity": "3"}, map[string]any{"sku": "ZZ"}},
	})
	assert.Equal(t, 1, resp.RecordsProcessed)
	assert.Zero(t, resp.RecordsFailed)

	saved, err := store.Repositories().Transactions.GetByPOSID(ctx, storeID, "T1")
	require.NoError(t, err)
	lines, err := store.Repositories().Transactions.ListItems(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestIngest_EmpleadoDesconocido(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()
	run(t, uc, posrecord.Record{"employee_code": "E1", "name": "Ana"})

	resp := run(t, uc,
		posrecord.Record{"transaction_id": "T1", "employee_code": "E404"},
		posrecord.Record{"transaction_id": "T2", "employee_code": "E1", "transaction_date": "2024-03-01T09:00:00Z"},
	)
	assert.Equal(t, 2, resp.RecordsProcessed)

	t1, err := store.Repositories().Transactions.GetByPOSID(ctx, storeID, "T1")
	require.NoError(t, err)
	assert.Nil(t, t1.EmployeeID)
	assert.Equal(t, posrecord.DefaultTransactionType, t1.TransactionType)

	t2, err := store.Repositories().Transactions.GetByPOSID(ctx, storeID, "T2")
	require.NoError(t, err)
	require.NotNil(t, t2.EmployeeID)
	emp, err := store.Repositories().Employees.GetByStoreAndCode(ctx, storeID, "E1")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, *t2.EmployeeID)
	assert.Equal(t, 2024, t2.TransactionDate.Year())
}

func TestIngest_AislamientoPorRegistro(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)

	resp := run(t, uc,
		item("A1", "1", "2"),
		item("A2", "1", "2"),
		posrecord.Record{"transaction_id": "T1", "total_amount": "no-es-número"},
		item("A3", "1", "2"),
		item("A4", "1", "2"),
	)
	assert.Equal(t, 4, resp.RecordsProcessed)
	assert.Equal(t, 1, resp.RecordsFailed)
	require.Len(t, resp.Errors, 1)
	assert.True(t, strings.HasPrefix(resp.Errors[0], "Record 4: "), resp.Errors[0])
	assert.Contains(t, resp.Errors[0], "total_amount")

	job, err := store.Jobs().GetByID(context.Background(), resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.Equal(t, resp.Errors[0], job.ErrorDetails)
}

func TestIngest_AislamientoPorRegistro_FalloDeAlmacenamiento(t *testing.T) {
	store := memory.NewStore()
	run(t, newUseCase(store, store), item("A1", "1", "2"))
	ctx := context.Background()

	// El registro 3 decodifica bien y falla al escribir su primera línea.
	uc := newUseCase(store, flakyRunner{store: store, failOn: 1})
	resp := run(t, uc,
		item("B1", "1", "2"),
		item("B2", "1", "2"),
		posrecord.Record{"transaction_id": "T9", "line_items": []any{map[string]any{"sku": "A1"}}},
		item("B3", "1", "2"),
		item("B4", "1", "2"),
	)
	assert.Equal(t, 4, resp.RecordsProcessed)
	assert.Equal(t, 1, resp.RecordsFailed)
	require.Len(t, resp.Errors, 1)
	assert.True(t, strings.HasPrefix(resp.Errors[0], "Record 4: "), resp.Errors[0])
	assert.Contains(t, resp.Errors[0], "conexión perdida")

	tx, err := store.Repositories().Transactions.GetByPOSID(ctx, storeID, "T9")
	require.NoError(t, err)
	assert.Nil(t, tx, "la cabecera se revierte con la línea")

	b4, err := store.Repositories().Items.GetByStoreAndSKU(ctx, storeID, "B4")
	require.NoError(t, err)
	assert.NotNil(t, b4, "el lote sigue después del fallo")
}

func TestIngest_ElementoNoObjetoFallaSoloEseRegistro(t *testing.T) {
	store := memory.NewStore()
	req, err := posexport.DecodeJSON(strings.NewReader(
		`{"storeId":"store-1","data":[{"sku":"A1"},"basura",{"sku":"A2"},null]}`), "")
	require.NoError(t, err)

	resp, err := newUseCase(store, store).Ingest(context.Background(), *req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.RecordsProcessed)
	assert.Equal(t, 1, resp.RecordsFailed)
	assert.Equal(t, 1, resp.RecordsSkipped, "null se omite como forma desconocida")
	require.Len(t, resp.Errors, 1)
	assert.True(t, strings.HasPrefix(resp.Errors[0], "Record 3: "), resp.Errors[0])
	assert.Contains(t, resp.Errors[0], "no es un objeto")

	a2, err := store.Repositories().Items.GetByStoreAndSKU(context.Background(), storeID, "A2")
	require.NoError(t, err)
	assert.NotNil(t, a2)
}

func TestIngest_FormaDesconocidaSeOmite(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)

	batch := []posrecord.Record{
		{"foo": "bar"},
		item("A1", "1", "2"),
		{"inventory_count": nil},
		{},
	}
	resp := run(t, uc, batch...)
	assert.Equal(t, 1, resp.RecordsProcessed)
	assert.Zero(t, resp.RecordsFailed)
	assert.Equal(t, 3, resp.RecordsSkipped)
	assert.Less(t, resp.RecordsProcessed+resp.RecordsFailed, len(batch))
}

func TestIngest_ValuacionSnapshot(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()
	run(t, uc, item("A1", "5", "9"))

	resp := run(t, uc,
		posrecord.Record{"item_sku": "A1", "inventory_count": "10", "snapshot_date": "2024-02-01"},
		posrecord.Record{"item_sku": "NOPE", "inventory_count": 3},
	)
	assert.Equal(t, 1, resp.RecordsProcessed)
	assert.Equal(t, 1, resp.RecordsSkipped, "SKU inexistente se omite sin error")
	assert.Zero(t, resp.RecordsFailed)

	it, err := store.Repositories().Items.GetByStoreAndSKU(ctx, storeID, "A1")
	require.NoError(t, err)
	snap, err := store.Repositories().Snapshots.Get(ctx, storeID, it.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.ValueAtCost.Equal(decimal.NewFromInt(50)), snap.ValueAtCost.String())
	assert.True(t, snap.ValueAtRetail.Equal(decimal.NewFromInt(90)), snap.ValueAtRetail.String())
}

func TestIngest_SnapshotConOffsetConservaElDiaEscrito(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()
	run(t, uc, item("A1", "1", "1"))

	resp := run(t, uc, posrecord.Record{"item_sku": "A1", "inventory_count": 4, "snapshot_date": "2024-02-01T23:30:00-05:00"})
	assert.Equal(t, 1, resp.RecordsProcessed)

	it, err := store.Repositories().Items.GetByStoreAndSKU(ctx, storeID, "A1")
	require.NoError(t, err)
	feb1, err := store.Repositories().Snapshots.Get(ctx, storeID, it.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotNil(t, feb1)
	feb2, err := store.Repositories().Snapshots.Get(ctx, storeID, it.ID, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, feb2)
}

func TestIngest_SnapshotSinFechaUsaHoy(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()
	run(t, uc, item("A1", "1", "1"))

	resp := run(t, uc, posrecord.Record{"item_sku": "A1", "inventory_count": 0})
	assert.Equal(t, 1, resp.RecordsProcessed, "cantidad cero es un snapshot válido")

	it, err := store.Repositories().Items.GetByStoreAndSKU(ctx, storeID, "A1")
	require.NoError(t, err)
	snap, err := store.Repositories().Snapshots.Get(ctx, storeID, it.ID, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.QuantityOnHand.IsZero())
}

// flakyTransactions falla en la línea número failOn.
type flakyTransactions struct {
	repository.TransactionRepository
	failOn int
	calls  int
}

func (f *flakyTransactions) InsertItemIgnore(ctx context.Context, it *entity.TransactionItem) (bool, error) {
	f.calls++
	if f.calls == f.failOn {
		return false, errors.New("conexión perdida")
	}
	return f.TransactionRepository.InsertItemIgnore(ctx, it)
}

type flakyRunner struct {
	store  *memory.Store
	failOn int
}

func (r flakyRunner) Run(ctx context.Context, fn func(repos ingest.Repositories) error) error {
	return r.store.Run(ctx, func(repos ingest.Repositories) error {
		repos.Transactions = &flakyTransactions{TransactionRepository: repos.Transactions, failOn: r.failOn}
		return fn(repos)
	})
}

func TestIngest_RegistroFallidoNoDejaFilasParciales(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	run(t, newUseCase(store, store), item("A1", "1", "2"), item("B2", "1", "2"))

	tx := posrecord.Record{
		"transaction_id": "T1",
		"line_items":     []any{map[string]any{"sku": "A1"}, map[string]any{"sku": "B2"}},
	}
	resp := run(t, newUseCase(store, flakyRunner{store: store, failOn: 2}), tx)
	assert.Equal(t, 1, resp.RecordsFailed)
	assert.Contains(t, resp.Errors[0], "conexión perdida")

	n, err := store.Repositories().Transactions.CountByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Zero(t, n, "la transacción se revierte con sus líneas")

	// Reenviar el mismo registro completa la transacción.
	resp = run(t, newUseCase(store, store), tx)
	assert.Equal(t, 1, resp.RecordsProcessed)
	saved, err := store.Repositories().Transactions.GetByPOSID(ctx, storeID, "T1")
	require.NoError(t, err)
	lines, err := store.Repositories().Transactions.ListItems(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestIngest_ParidadXMLyJSON(t *testing.T) {
	jsonBody := `{"storeId":"store-1","data":[
		{"sku":"A1","cost_price":5,"retail_price":9},
		{"employee_code":"E1","name":"Ana"},
		{"transaction_id":"T1","employee_code":"E1","total_amount":18,"line_items":[{"sku":"A1","quantity":2}]},
		{"item_sku":"A1","inventory_count":10},
		{"transaction_id":"T2","tax_amount":"x"},
		{"otra":"cosa"}]}`
	xmlBody := `<PosExport storeId="store-1">
		<Record><sku>A1</sku><cost_price>5</cost_price><retail_price>9</retail_price></Record>
		<Record><employee_code>E1</employee_code><name>Ana</name></Record>
		<Record><transaction_id>T1</transaction_id><employee_code>E1</employee_code><total_amount>18</total_amount>
			<line_items><line_item><sku>A1</sku><quantity>2</quantity></line_item></line_items></Record>
		<Record><item_sku>A1</item_sku><inventory_count>10</inventory_count></Record>
		<Record><transaction_id>T2</transaction_id><tax_amount>x</tax_amount></Record>
		<Record><otra>cosa</otra></Record>
	</PosExport>`

	tally := func(format posexport.Format, body string) *dto.IngestResponse {
		req, err := posexport.Decode(strings.NewReader(body), format, "")
		require.NoError(t, err)
		store := memory.NewStore()
		resp, err := newUseCase(store, store).Ingest(context.Background(), *req)
		require.NoError(t, err)
		return resp
	}
	fromJSON := tally(posexport.FormatJSON, jsonBody)
	fromXML := tally(posexport.FormatXML, xmlBody)

	assert.Equal(t, 4, fromJSON.RecordsProcessed)
	assert.Equal(t, 1, fromJSON.RecordsFailed)
	assert.Equal(t, 1, fromJSON.RecordsSkipped)
	assert.Equal(t, fromJSON.RecordsProcessed, fromXML.RecordsProcessed)
	assert.Equal(t, fromJSON.RecordsFailed, fromXML.RecordsFailed)
	assert.Equal(t, fromJSON.RecordsSkipped, fromXML.RecordsSkipped)
	assert.Equal(t, fromJSON.Errors, fromXML.Errors)
}

func TestIngest_ErroresRecortadosEnRespuesta(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)

	var batch []posrecord.Record
	for i := 0; i < 12; i++ {
		batch = append(batch, posrecord.Record{"sku": fmt.Sprintf("S%d", i), "cost_price": "caro"})
	}
	resp := run(t, uc, batch...)
	assert.Equal(t, 12, resp.RecordsFailed)
	assert.Len(t, resp.Errors, dto.MaxResponseErrors)
	assert.True(t, strings.HasPrefix(resp.Errors[0], "Record 2: "))

	job, err := store.Jobs().GetByID(context.Background(), resp.JobID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(job.ErrorDetails, "\n"), 12, "el job guarda todos los errores")
	assert.Equal(t, entity.JobStatusCompleted, job.Status, "completed aunque todo falle")
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, func(repos ingest.Repositories) error) error {
	panic("driver roto")
}

func TestIngest_PanicEsFalloDelRegistro(t *testing.T) {
	store := memory.NewStore()
	resp := run(t, newUseCase(store, panicRunner{}), item("A1", "1", "1"), item("A2", "1", "1"))
	assert.Equal(t, 2, resp.RecordsFailed)
	assert.Contains(t, resp.Errors[0], "driver roto")
}

type failingJobs struct {
	repository.ImportJobRepository
}

func (failingJobs) Create(context.Context, *entity.ImportJob) error {
	return errors.New("sin conexión")
}

func TestIngest_FalloAlAbrirJob(t *testing.T) {
	store := memory.NewStore()
	log := logger.Nop()
	uc := ingest.NewIngestUseCase(ingest.NewJobRecorder(failingJobs{store.Jobs()}, cache.NoopJobCache{}, log), store, log)

	_, err := uc.Ingest(context.Background(), dto.IngestRequest{StoreID: storeID, Data: []posrecord.Record{item("A1", "1", "1")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin conexión")

	it, err := store.Repositories().Items.GetByStoreAndSKU(context.Background(), storeID, "A1")
	require.NoError(t, err)
	assert.Nil(t, it, "sin job no se procesa ningún registro")
}

func TestValidateRequest(t *testing.T) {
	src := "  "
	in := dto.IngestRequest{StoreID: " s1 ", SourceFile: &src}
	require.NoError(t, ingest.ValidateRequest(&in))
	assert.Equal(t, "s1", in.StoreID)
	assert.Equal(t, string(entity.JobTypeAPIImport), in.JobType)
	assert.Nil(t, in.SourceFile)

	assert.ErrorIs(t, ingest.ValidateRequest(&dto.IngestRequest{}), domain.ErrMissingStoreID)
	assert.ErrorIs(t, ingest.ValidateRequest(&dto.IngestRequest{StoreID: "s1", JobType: "otro"}), domain.ErrInvalidJobType)
}
