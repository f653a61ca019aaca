package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/pos-ingest-api/docs"
	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/pos-ingest-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-ingest-api/internal/interfaces/http"
	"github.com/jhoicas/pos-ingest-api/pkg/config"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// @title						POS Ingest API
// @version					1.0
// @description				Ingesta de exportaciones POS (JSON o XML) hacia el esquema del dashboard.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("jwt", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	// Caché de jobs: Redis si está configurado y responde; si no, noop.
	jobCache, closeCache := cache.Connect(ctx, cfg.Redis, cache.PingTimeout, log.Component("cache"))
	defer closeCache()

	jobRepo := postgres.NewImportJobRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	recorder := ingest.NewJobRecorder(jobRepo, jobCache, log.Component("jobs"))
	ingestUC := ingest.NewIngestUseCase(recorder, txRunner, log.Component("ingest"))
	jobQueryUC := ingest.NewJobQueryUseCase(jobRepo, jobCache, infrapdf.NewJobReportGenerator(), log.Component("jobs"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    20 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.CORS())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Ingest API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		IngestUC:   ingestUC,
		JobQueryUC: jobQueryUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
