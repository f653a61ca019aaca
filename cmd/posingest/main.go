package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ingest-api/internal/interfaces/cli"
	"github.com/jhoicas/pos-ingest-api/pkg/config"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

func main() {
	cmd := cli.NewRootCommand(newServices)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newServices conecta contra PostgreSQL salvo en dry-run, donde todo queda en memoria.
func newServices(ctx context.Context, dryRun bool, log *logger.Logger) (*cli.Services, error) {
	if dryRun {
		return cli.NewMemoryServices(memory.NewStore(), log), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	jobCache, closeCache := cache.Connect(ctx, cfg.Redis, cache.PingTimeout, log)
	closers := []func(){pool.Close, closeCache}

	jobs := postgres.NewImportJobRepository(pool)
	recorder := ingest.NewJobRecorder(jobs, jobCache, log)
	return &cli.Services{
		Ingest: ingest.NewIngestUseCase(recorder, postgres.NewTxRunner(pool), log),
		Jobs:   ingest.NewJobQueryUseCase(jobs, jobCache, pdf.NewJobReportGenerator(), log),
		Close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}
