package cache_test

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ingest-api/pkg/config"
	"github.com/jhoicas/pos-ingest-api/pkg/logger"
)

func TestNoopJobCache(t *testing.T) {
	c := cache.NoopJobCache{}
	require.NoError(t, c.Set(context.Background(), &entity.ImportJob{ID: "x"}))

	job, ok, err := c.Get(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, job)
}

func TestConnect_SinDireccionEsNoop(t *testing.T) {
	c, closeFn := cache.Connect(context.Background(), config.RedisConfig{}, time.Second, logger.Nop())
	defer closeFn()
	assert.IsType(t, cache.NoopJobCache{}, c)
}

// Un servidor que acepta y nunca responde: el ping tiene que cortar por el plazo.
func TestConnect_RedisMudoCortaPorPlazo(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		var held []net.Conn
		defer func() {
			for _, c := range held {
				_ = c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			held = append(held, conn)
		}
	}()

	start := time.Now()
	c, closeFn := cache.Connect(context.Background(),
		config.RedisConfig{Addr: ln.Addr().String(), JobTTLSecs: 60}, 200*time.Millisecond, logger.Nop())
	defer closeFn()

	assert.IsType(t, cache.NoopJobCache{}, c)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "import_job:abc", cache.Key("abc"))
}

func TestRedisJobCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("POS_INGEST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set POS_INGEST_TEST_REDIS_ADDR to run redis integration test")
	}
	ctx := context.Background()
	c := cache.NewRedisJobCache(addr, "", 0, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))

	done := time.Now().UTC().Truncate(time.Second)
	src := "ventas.json"
	job := &entity.ImportJob{
		ID:               uuid.New().String(),
		StoreID:          "store-1",
		JobType:          entity.JobTypeEmailImport,
		SourceFile:       &src,
		Status:           entity.JobStatusCompleted,
		RecordsProcessed: 3,
		RecordsFailed:    1,
		ErrorDetails:     "Record 2: monto inválido",
		StartedAt:        done.Add(-time.Second),
		CompletedAt:      &done,
	}
	require.NoError(t, c.Set(ctx, job))

	got, ok, err := c.Get(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, job.StoreID, got.StoreID)
	assert.Equal(t, job.RecordsFailed, got.RecordsFailed)
	assert.Equal(t, *job.SourceFile, *got.SourceFile)
	assert.True(t, job.CompletedAt.Equal(*got.CompletedAt))

	_, ok, err = c.Get(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.False(t, ok)
}
