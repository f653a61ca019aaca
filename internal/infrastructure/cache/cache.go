// Package cache guarda el resumen de jobs cerrados para las consultas de inspección.
package cache

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/pkg/config"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

// PingTimeout plazo del ping de arranque contra Redis.
const PingTimeout = 3 * time.Second

var _ ingest.JobCache = NoopJobCache{}

// NoopJobCache se usa cuando no hay Redis configurado o no responde al arrancar.
type NoopJobCache struct{}

func (NoopJobCache) Get(_ context.Context, _ string) (*entity.ImportJob, bool, error) {
	return nil, false, nil
}

func (NoopJobCache) Set(_ context.Context, _ *entity.ImportJob) error {
	return nil
}

// Connect devuelve la caché Redis si responde dentro de timeout y NoopJobCache si no hay
// dirección o el ping falla. La función de cierre siempre se puede llamar.
func Connect(ctx context.Context, cfg config.RedisConfig, timeout time.Duration, log *logger.Logger) (ingest.JobCache, func()) {
	if cfg.Addr == "" {
		return NoopJobCache{}, func() {}
	}
	rc := NewRedisJobCache(cfg.Addr, cfg.Password, cfg.DB, cfg.JobTTL())

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis no disponible, caché deshabilitada")
		_ = rc.Close()
		return NoopJobCache{}, func() {}
	}
	log.Info().Str("addr", cfg.Addr).Msg("caché de jobs en redis")
	return rc, func() { _ = rc.Close() }
}
