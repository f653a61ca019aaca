package ingest

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ingest-api/internal/domain/posrecord"
)

// outcome resultado de un handler que no falló.
type outcome int

const (
	// outcomeApplied cuenta como procesado (aunque el upsert haya sido un no-op por duplicado).
	outcomeApplied outcome = iota
	// outcomeSkipped no cuenta como procesado ni fallido (p.ej. snapshot de un SKU inexistente).
	outcomeSkipped
)

// scope datos del lote que viajan con cada registro.
type scope struct {
	storeID string
	now     time.Time
}

// recordHandler mapea un registro a filas normalizadas usando el handle recibido.
type recordHandler func(ctx context.Context, repos Repositories, sc scope, rec posrecord.Record) (outcome, error)

var recordHandlers = map[posrecord.Kind]recordHandler{
	posrecord.KindTransaction:       upsertTransaction,
	posrecord.KindEmployee:          upsertEmployee,
	posrecord.KindItem:              upsertItem,
	posrecord.KindInventorySnapshot: upsertInventorySnapshot,
}

// dateOnly toma el día calendario en la zona del propio valor (la fecha escrita por el POS)
// y lo fija a 00:00 UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
