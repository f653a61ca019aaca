package dto

import "github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"

// MaxResponseErrors cantidad de mensajes de error devueltos al caller; el job guarda todos.
const MaxResponseErrors = 10

// IngestRequest cuerpo de la llamada de ingesta.
type IngestRequest struct {
	StoreID    string             `json:"storeId"`
	JobType    string             `json:"jobType"`
	SourceFile *string            `json:"sourceFile,omitempty"`
	Data       []posrecord.Record `json:"data"`
	// Invalid motivo por índice de data de los elementos que no son objeto; su Data[i] queda nil.
	Invalid map[int]string `json:"-"`
}

// IngestResponse resumen del job devuelto con 200.
type IngestResponse struct {
	Success          bool     `json:"success"`
	JobID            string   `json:"jobId"`
	RecordsProcessed int      `json:"recordsProcessed"`
	RecordsFailed    int      `json:"recordsFailed"`
	RecordsSkipped   int      `json:"recordsSkipped"`
	Errors           []string `json:"errors"`
}

// IngestErrorResponse cuerpo del 400 de ingesta.
type IngestErrorResponse struct {
	Error string `json:"error"`
}
