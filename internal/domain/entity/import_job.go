package entity

import "time"

// JobType origen del lote de importación.
type JobType string

const (
	JobTypeAPIImport    JobType = "api_import"
	JobTypeEmailImport  JobType = "email_import"
	JobTypeManualImport JobType = "manual_import"
)

// Valid indica si el tipo es uno de los tres reconocidos.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeAPIImport, JobTypeEmailImport, JobTypeManualImport:
		return true
	}
	return false
}

// JobStatus estado del job. Solo hay dos: se abre en running y se cierra en completed
// aunque haya registros fallidos.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
)

// ImportJob registro de una llamada de ingesta (un lote). Se crea al abrir y se actualiza
// una sola vez al cerrar; la ingesta nunca lo borra.
type ImportJob struct {
	ID               string
	StoreID          string
	JobType          JobType
	SourceFile       *string
	Status           JobStatus
	RecordsProcessed int
	RecordsFailed    int
	RecordsSkipped   int
	ErrorDetails     string // mensajes unidos con "\n"
	StartedAt        time.Time
	CompletedAt      *time.Time
}
