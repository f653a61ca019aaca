package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// memoryFactory comparte un store entre ejecuciones y registra si se pidió dry-run.
func memoryFactory(store *memory.Store, dryRuns *int) ServiceFactory {
	return func(_ context.Context, dryRun bool, log *logger.Logger) (*Services, error) {
		if dryRun {
			*dryRuns++
		}
		return NewMemoryServices(store, log), nil
	}
}

func run(t *testing.T, factory ServiceFactory, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(factory)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommand_Subcomandos(t *testing.T) {
	cmd := NewRootCommand(memoryFactory(memory.NewStore(), new(int)))

	for _, name := range []string{"import", "jobs"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	list, _, err := cmd.Find([]string{"jobs", "list"})
	require.NoError(t, err)
	assert.Equal(t, "list", list.Name())

	assert.NotNil(t, cmd.PersistentFlags().Lookup("output"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))

	imp, _, _ := cmd.Find([]string{"import"})
	for _, f := range []string{"store", "job-type", "format", "charset", "dry-run"} {
		assert.NotNil(t, imp.Flags().Lookup(f), f)
	}
	assert.Equal(t, "manual_import", imp.Flags().Lookup("job-type").DefValue)
}

func TestRootCommand_OutputInvalido(t *testing.T) {
	path := writeFile(t, "x.json", `{"storeId":"s1","data":[]}`)
	_, err := run(t, memoryFactory(memory.NewStore(), new(int)), "import", "-o", "yaml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}

func TestImport_JSONComoManualImport(t *testing.T) {
	store := memory.NewStore()
	dryRuns := 0
	path := writeFile(t, "ventas.json", `{
		"storeId": "s1",
		"jobType": "api_import",
		"data": [
			{"employee_code": "E1", "employee_name": "Ana"},
			{"sku": "A1", "name": "Cola"},
			{"foo": "bar"}
		]
	}`)

	out, err := run(t, memoryFactory(store, &dryRuns), "import", "--dry-run", "-o", "json", path)
	require.NoError(t, err)
	assert.Equal(t, 1, dryRuns)

	var resp dto.IngestResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.RecordsProcessed)
	assert.Equal(t, 1, resp.RecordsSkipped)

	job, err := store.Jobs().GetByID(context.Background(), resp.JobID)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "api_import", string(job.JobType), "sin --job-type manda el sobre")
	require.NotNil(t, job.SourceFile)
	assert.Equal(t, "ventas.json", *job.SourceFile)
}

func TestImport_FlagsPisanElSobre(t *testing.T) {
	store := memory.NewStore()
	path := writeFile(t, "export.xml", `<?xml version="1.0" encoding="UTF-8"?>
<PosExport storeId="original" sourceFile="pos.xml">
  <Record><sku>A1</sku><name>Cola</name></Record>
</PosExport>`)

	out, err := run(t, memoryFactory(store, new(int)),
		"import", "--store", "s9", "--job-type", "email_import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "procesados=1")

	list, err := store.Jobs().ListByStore(context.Background(), "s9", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "email_import", string(list[0].JobType))
	require.NotNil(t, list[0].SourceFile)
	assert.Equal(t, "pos.xml", *list[0].SourceFile, "el sourceFile del sobre se respeta")
}

func TestImport_TextoMuestraErrores(t *testing.T) {
	path := writeFile(t, "malo.json", `{"storeId":"s1","data":[{"transaction_id":"T1","total_amount":"diez"}]}`)

	out, err := run(t, memoryFactory(memory.NewStore(), new(int)), "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "fallidos=1")
	assert.Contains(t, out, "Record 1: ")
}

func TestImport_Errores(t *testing.T) {
	factory := memoryFactory(memory.NewStore(), new(int))

	_, err := run(t, factory, "import", filepath.Join(t.TempDir(), "no-existe.json"))
	assert.Error(t, err)

	path := writeFile(t, "sin-tienda.json", `{"data":[]}`)
	_, err = run(t, factory, "import", path)
	assert.Error(t, err)

	_, err = run(t, factory, "import", "--format", "csv", path)
	assert.Error(t, err)

	_, err = run(t, factory, "import")
	assert.Error(t, err, "falta el archivo")
}

func TestJobsList(t *testing.T) {
	store := memory.NewStore()
	factory := memoryFactory(store, new(int))
	path := writeFile(t, "a.json", `{"storeId":"s1","data":[{"sku":"A1"}]}`)
	_, err := run(t, factory, "import", path)
	require.NoError(t, err)

	out, err := run(t, factory, "jobs", "list", "--store", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "ESTADO")
	assert.Contains(t, out, "manual_import")
	assert.Contains(t, out, "completed")

	out, err = run(t, factory, "jobs", "list", "--store", "s1", "-o", "json")
	require.NoError(t, err)
	var resp dto.ImportJobListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 20, resp.Page.Limit)

	_, err = run(t, factory, "jobs", "list")
	assert.Error(t, err, "--store es obligatorio")
}

func TestInputFormat(t *testing.T) {
	f, err := inputFormat("", "x.XML")
	require.NoError(t, err)
	assert.Equal(t, "xml", string(f))

	f, err = inputFormat("", "x.txt")
	require.NoError(t, err)
	assert.Equal(t, "json", string(f))

	f, err = inputFormat("xml", "x.json")
	require.NoError(t, err)
	assert.Equal(t, "xml", string(f))
}
