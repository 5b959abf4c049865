package cache

import (
	"context"
	"testing"

	"spincat/internal/observability"

	"github.com/alicebob/miniredis/v2"
	dto "github.com/prometheus/client_model/go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	for _, addr := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		client, err := NewRedisClient(ctx, addr)
		require.NoError(t, err, addr)
		require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
		_ = client.Close()
	}
}

func TestNewRedisClient_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisClient(ctx, "redis://cache:notaport")
	assert.ErrorContains(t, err, "invalid REDIS_URL")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(ctx, addr)
	assert.ErrorContains(t, err, "redis ping")
}

func redisErrors(t *testing.T, op string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, observability.RedisErrorRate.WithLabelValues(op).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsHook_CountsFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	client, err := NewRedisClient(ctx, mr.Addr())
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	before := redisErrors(t, "get")
	require.ErrorIs(t, client.Get(ctx, "missing").Err(), redis.Nil)
	assert.Equal(t, before, redisErrors(t, "get"), "a miss is not a failure")

	mr.SetError("boom")
	assert.Error(t, client.Get(ctx, "missing").Err())
	assert.Equal(t, before+1, redisErrors(t, "get"))
}
