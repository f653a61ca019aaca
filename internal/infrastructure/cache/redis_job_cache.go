package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-ingest-api/internal/application/ingest"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
)

var _ ingest.JobCache = (*RedisJobCache)(nil)

const keyPrefix = "import_job:"

// RedisJobCache guarda cada job como JSON bajo import_job:<id> con TTL fijo.
type RedisJobCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisJobCache construye el cliente; no conecta hasta el primer comando (usar Ping).
func NewRedisJobCache(addr, password string, db int, ttl time.Duration) *RedisJobCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisJobCache{client: client, ttl: ttl}
}

func (c *RedisJobCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisJobCache) Close() error {
	return c.client.Close()
}

// Key devuelve la clave Redis de un job.
func Key(id string) string { return keyPrefix + id }

type cachedJob struct {
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

func (c *RedisJobCache) Get(ctx context.Context, id string) (*entity.ImportJob, bool, error) {
	val, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cj cachedJob
	if err := json.Unmarshal(val, &cj); err != nil {
		return nil, false, err
	}
	return &entity.ImportJob{
		ID:               cj.ID,
		StoreID:          cj.StoreID,
		JobType:          entity.JobType(cj.JobType),
		SourceFile:       cj.SourceFile,
		Status:           entity.JobStatus(cj.Status),
		RecordsProcessed: cj.RecordsProcessed,
		RecordsFailed:    cj.RecordsFailed,
		RecordsSkipped:   cj.RecordsSkipped,
		ErrorDetails:     cj.ErrorDetails,
		StartedAt:        cj.StartedAt,
		CompletedAt:      cj.CompletedAt,
	}, true, nil
}

func (c *RedisJobCache) Set(ctx context.Context, job *entity.ImportJob) error {
	if job == nil {
		return nil
	}
	payload, err := json.Marshal(cachedJob{
		ID:               job.ID,
		StoreID:          job.StoreID,
		JobType:          string(job.JobType),
		SourceFile:       job.SourceFile,
		Status:           string(job.Status),
		RecordsProcessed: job.RecordsProcessed,
		RecordsFailed:    job.RecordsFailed,
		RecordsSkipped:   job.RecordsSkipped,
		ErrorDetails:     job.ErrorDetails,
		StartedAt:        job.StartedAt,
		CompletedAt:      job.CompletedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(job.ID), payload, c.ttl).Err()
}
