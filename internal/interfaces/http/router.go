package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	IngestUC   *ingest.IngestUseCase
	JobQueryUC *ingest.JobQueryUseCase
	// JWTSecret vacío deja las rutas abiertas.
	JWTSecret string
}

// Router registra las rutas de la API. CORS debe ir antes, en app.Use.
func Router(app *fiber.App, deps RouterDeps) {
	guard := []fiber.Handler{}
	if deps.JWTSecret != "" {
		guard = append(guard, AuthMiddleware(deps.JWTSecret), RequireRole(RoleServiceRole, RoleAdmin))
	}
	with := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), h)
	}

	ingestHandler := NewIngestHandler(deps.IngestUC)
	app.Post("/api/ingest", with(ingestHandler.Ingest)...)
	// Ruta que usan los exportadores configurados contra la edge function.
	app.Post("/functions/v1/pos-ingest", with(ingestHandler.Ingest)...)

	jobs := app.Group("/api/import-jobs")
	jobHandler := NewImportJobHandler(deps.JobQueryUC)
	jobs.Get("/", with(jobHandler.List)...)
	jobs.Get("/:id", with(jobHandler.GetByID)...)
	jobs.Get("/:id/report.pdf", with(jobHandler.Report)...)
}
