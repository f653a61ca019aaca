// Package cli implementa el comando posingest para importar exportaciones POS desde disco.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// RootOptions flags globales.
type RootOptions struct {
	Verbose bool
	Output  string // "text" | "json"
}

// ValidOutputs formatos de salida permitidos.
var ValidOutputs = []string{"text", "json"}

// Services casos de uso que necesitan los comandos. Close libera pool y caché.
type Services struct {
	Ingest *ingest.IngestUseCase
	Jobs   *ingest.JobQueryUseCase
	Close  func()
}

// ServiceFactory arma los servicios. Con dryRun se usa el store en memoria.
type ServiceFactory func(ctx context.Context, dryRun bool, log *logger.Logger) (*Services, error)

// NewMemoryServices arma los casos de uso sobre un store en memoria (--dry-run y tests).
func NewMemoryServices(store *memory.Store, log *logger.Logger) *Services {
	jobCache := cache.NoopJobCache{}
	recorder := ingest.NewJobRecorder(store.Jobs(), jobCache, log)
	return &Services{
		Ingest: ingest.NewIngestUseCase(recorder, store, log),
		Jobs:   ingest.NewJobQueryUseCase(store.Jobs(), jobCache, pdf.NewJobReportGenerator(), log),
		Close:  func() {},
	}
}

// NewRootCommand crea el comando raíz.
func NewRootCommand(factory ServiceFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "posingest",
		Short: "Importa exportaciones POS al esquema del dashboard",
		Long: `posingest carga archivos de exportación del POS (JSON o XML) como job manual_import,
con la misma reconciliación que el endpoint HTTP de ingesta.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidOutput(opts.Output) {
				return fmt.Errorf("output %q inválido: use uno de %v", opts.Output, ValidOutputs)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "logs de depuración en stderr")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "formato de salida (text|json)")

	cmd.AddCommand(NewImportCommand(opts, factory))
	cmd.AddCommand(NewJobsCommand(opts, factory))
	return cmd
}

func isValidOutput(s string) bool {
	for _, v := range ValidOutputs {
		if v == s {
			return true
		}
	}
	return false
}

// commandLogger escribe a stderr para no mezclar logs con la salida JSON.
func commandLogger(cmd *cobra.Command, opts *RootOptions) *logger.Logger {
	if !opts.Verbose {
		return logger.Nop()
	}
	return logger.New(logger.Config{Env: "development", Level: "debug", Output: cmd.ErrOrStderr()})
}
