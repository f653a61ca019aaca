package dto

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP de las rutas de consulta.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
