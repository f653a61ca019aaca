package dto

import "time"

// ImportJobResponse salida de un job de importación.
type ImportJobResponse struct {
	ID               string     `json:"id"`
	StoreID          string     `json:"store_id"`
	JobType          string     `json:"job_type"`
	SourceFile       *string    `json:"source_file,omitempty"`
	Status           string     `json:"status"`
	RecordsProcessed int        `json:"records_processed"`
	RecordsFailed    int        `json:"records_failed"`
	RecordsSkipped   int        `json:"records_skipped"`
	ErrorDetails     string     `json:"error_details,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// ImportJobListResponse listado paginado de jobs.
type ImportJobListResponse struct {
	Items []ImportJobResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
