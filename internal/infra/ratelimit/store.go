// Package ratelimit provides the storage behind the per-client limiter.
package ratelimit

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"
	"github.com/redis/go-redis/v9"

	"mdpreview/internal/infra/logging"
)

// RedisConfig locates the shared limiter store.
type RedisConfig struct {
	Addr string
	DB   int
}

const probeTimeout = 500 * time.Millisecond

// NewStore returns Redis-backed storage when cfg.Addr answers a PING, and
// process-local memory storage otherwise.
func NewStore(cfg RedisConfig, log *logging.Logger) (store fiber.Storage) {
	if log == nil {
		log = logging.Nop()
	}
	if cfg.Addr == "" {
		return memoryStorage.New()
	}
	if err := probe(cfg); err != nil {
		log.Warn("Redis unavailable for rate limiting, falling back to memory", "addr", cfg.Addr, "error", err)
		return memoryStorage.New()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Redis limiter store init panicked, falling back to memory", "panic", r)
			store = memoryStorage.New()
		}
	}()
	store = redisStorage.New(redisStorage.Config{
		Addrs:    []string{cfg.Addr},
		Database: cfg.DB,
	})
	log.Info("Using Redis for rate limiting", "addr", cfg.Addr, "db", cfg.DB)
	return store
}

func probe(cfg RedisConfig) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: probeTimeout,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
