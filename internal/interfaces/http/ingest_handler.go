package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/posexport"
)

// IngestHandler recibe los lotes exportados por el POS.
type IngestHandler struct {
	uc *ingest.IngestUseCase
}

// NewIngestHandler construye el handler.
func NewIngestHandler(uc *ingest.IngestUseCase) *IngestHandler {
	return &IngestHandler{uc: uc}
}

// Ingest godoc
// @Summary      Ingerir lote de exportación POS
// @Description  Acepta JSON {storeId, jobType, sourceFile, data} o XML <PosExport>. El charset se toma del Content-Type.
// @Tags         ingest
// @Security     Bearer
// @Accept       json
// @Accept       xml
// @Produce      json
// @Param        body  body      dto.IngestRequest  true  "storeId, jobType (api_import|email_import|manual_import), sourceFile, data"
// @Success      200   {object}  dto.IngestResponse
// @Failure      400   {object}  dto.IngestErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/ingest [post]
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	format, charset := posexport.FromContentType(c.Get(fiber.HeaderContentType))
	req, err := posexport.Decode(bytes.NewReader(c.Body()), format, charset)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.IngestErrorResponse{Error: err.Error()})
	}
	if err := ingest.ValidateRequest(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.IngestErrorResponse{Error: err.Error()})
	}
	if !storeAllowed(c, req.StoreID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el token no puede importar para esta tienda"})
	}

	resp, err := h.uc.Ingest(c.Context(), *req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.IngestErrorResponse{Error: err.Error()})
	}
	return c.JSON(resp)
}
