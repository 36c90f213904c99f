package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdpreview/internal/infra/logging"
)

func TestNewStore_MemoryWhenAddrEmpty(t *testing.T) {
	s := NewStore(RedisConfig{}, nil)
	require.NotNil(t, s)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set("k", []byte("v"), time.Minute))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNewStore_FallsBackWhenRedisUnreachable(t *testing.T) {
	sink := &logging.MemorySink{}
	s := NewStore(RedisConfig{Addr: "127.0.0.1:1"}, logging.New(sink, "info", "text"))
	require.NotNil(t, s)
	t.Cleanup(func() { _ = s.Close() })

	assert.Contains(t, sink.String(), "[WARN] Redis unavailable for rate limiting")
	require.NoError(t, s.Set("k", []byte("v"), time.Minute))
}

func TestNewStore_UsesRedisWhenReachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	sink := &logging.MemorySink{}
	s := NewStore(RedisConfig{Addr: mr.Addr()}, logging.New(sink, "info", "text"))
	require.NotNil(t, s)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set("limiter-key", []byte("3"), time.Minute))
	got, err := mr.Get("limiter-key")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.Contains(t, sink.String(), "[INFO] Using Redis for rate limiting")
}
