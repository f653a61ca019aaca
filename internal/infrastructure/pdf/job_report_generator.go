// Package pdf genera el reporte de un job de importación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + tipo de job │ Estado + fechas             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTADORES: Procesados | Fallidos | Omitidos | QR job id   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ERRORES: una fila por "Record n: ..."                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
)

var _ ingest.JobReportGenerator = (*JobReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// Las filas de error se cortan a este ancho para que no desborden la columna.
const errorLineWidth = 110

// JobReportGenerator arma el PDF de resumen con Maroto v2.
type JobReportGenerator struct{}

// NewJobReportGenerator construye el generador.
func NewJobReportGenerator() *JobReportGenerator { return &JobReportGenerator{} }

// GenerateJobReport devuelve los bytes del PDF.
func (g *JobReportGenerator) GenerateJobReport(_ context.Context, job *entity.ImportJob) ([]byte, error) {
	if job == nil {
		return nil, fmt.Errorf("pdf: job nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de importación POS", true).
		WithAuthor("pos-ingest", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(job))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(countersRow(job))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(errorRows(job.ErrorDetails)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(job *entity.ImportJob) core.Row {
	completed := "-"
	if job.CompletedAt != nil {
		completed = job.CompletedAt.UTC().Format("02/01/2006 15:04:05")
	}
	source := "-"
	if job.SourceFile != nil && *job.SourceFile != "" {
		source = *job.SourceFile
	}

	return row.New(22).Add(
		col.New(7).Add(
			text.New("Tienda "+job.StoreID, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Tipo: %s   |   Archivo: %s", job.JobType, source), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New("Job: "+job.ID, props.Text{Size: 7, Top: 15, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(string(job.Status)), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Inicio: "+job.StartedAt.UTC().Format("02/01/2006 15:04:05"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("Fin: "+completed, props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

func countersRow(job *entity.ImportJob) core.Row {
	counter := func(label string, n int, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 4}),
			text.New(strconv.Itoa(n), props.Text{
				Style: fontstyle.Bold, Size: 16, Align: align.Center, Top: 10, Color: c,
			}),
		)
	}
	return row.New(30).Add(
		counter("Procesados", job.RecordsProcessed, colorPrimary),
		counter("Fallidos", job.RecordsFailed, colorDanger),
		counter("Omitidos", job.RecordsSkipped, colorGray),
		col.New(3).Add(code.NewQr(job.ID, props.Rect{Percent: 90, Center: true})),
	)
}

func errorRows(details string) []core.Row {
	if strings.TrimSpace(details) == "" {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin errores.", props.Text{Size: 9, Top: 2, Color: colorGray}),
		))}
	}

	rows := []core.Row{row.New(7).Add(col.New(12).Add(
		text.New("ERRORES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorDanger, Top: 2}),
	))}
	for _, msg := range strings.Split(details, "\n") {
		for i, chunk := range splitEvery(msg, errorLineWidth) {
			left := 1.0
			if i > 0 {
				left = 4
			}
			rows = append(rows, row.New(5).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 7.5, Top: 1, Left: left}),
			)))
		}
	}
	return rows
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	r := []rune(s)
	var parts []string
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
