package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/domain"
)

const (
	defaultJobsLimit = 20
	maxJobsLimit     = 100
)

// ImportJobHandler consultas sobre jobs de importación.
type ImportJobHandler struct {
	uc *ingest.JobQueryUseCase
}

// NewImportJobHandler construye el handler.
func NewImportJobHandler(uc *ingest.JobQueryUseCase) *ImportJobHandler {
	return &ImportJobHandler{uc: uc}
}

// List godoc
// @Summary      Listar jobs de una tienda
// @Tags         import-jobs
// @Security     Bearer
// @Produce      json
// @Param        store_id  query     string  true   "Tienda"
// @Param        limit     query     int     false  "Máximo 100"
// @Param        offset    query     int     false  "Desplazamiento"
// @Success      200       {object}  dto.ImportJobListResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /api/import-jobs [get]
func (h *ImportJobHandler) List(c *fiber.Ctx) error {
	storeID := c.Query("store_id")
	if !storeAllowed(c, storeID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado a la tienda"})
	}
	limit := c.QueryInt("limit", defaultJobsLimit)
	if limit <= 0 || limit > maxJobsLimit {
		limit = defaultJobsLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	out, err := h.uc.List(c.Context(), storeID, limit, offset)
	if err != nil {
		return jobError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un job
// @Tags         import-jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del job"
// @Success      200  {object}  dto.ImportJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/import-jobs/{id} [get]
func (h *ImportJobHandler) GetByID(c *fiber.Ctx) error {
	job, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return jobError(c, err)
	}
	if !storeAllowed(c, job.StoreID) {
		return jobError(c, domain.ErrNotFound)
	}
	return c.JSON(job)
}

// Report godoc
// @Summary      Reporte PDF de un job
// @Tags         import-jobs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID del job"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/import-jobs/{id}/report.pdf [get]
func (h *ImportJobHandler) Report(c *fiber.Ctx) error {
	id := c.Params("id")
	job, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return jobError(c, err)
	}
	if !storeAllowed(c, job.StoreID) {
		return jobError(c, domain.ErrNotFound)
	}
	pdf, err := h.uc.Report(c.Context(), id)
	if err != nil {
		return jobError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="import-job-%s.pdf"`, id))
	return c.Send(pdf)
}

func jobError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "job no encontrado"})
	case errors.Is(err, domain.ErrMissingStoreID):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id requerido"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
