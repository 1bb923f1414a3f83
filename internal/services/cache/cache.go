package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/cinelist/internal/config"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache stores raw response bodies for a limited time
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Flush(ctx context.Context) error
}

// New returns the backend selected by CACHE_BACKEND
func New(cfg *config.Config, logger *logrus.Logger) (Cache, error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return NewMemory(cfg.TMDBCacheTTL), nil
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, logger)
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}

// Memory is an in-process cache
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates an in-process cache with the given default expiration
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{store: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.store.Set(key, value, ttl)
}

func (m *Memory) Flush(_ context.Context) error {
	m.store.Flush()
	return nil
}

const redisPrefix = "cinelist:tmdb:"

// Redis shares cached responses between instances
type Redis struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedis connects to a standalone Redis server
func NewRedis(addr, password string, logger *logrus.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("addr", addr).Info("Connected to Redis cache")
	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.WithError(err).WithField("key", key).Warn("Redis get failed")
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, redisPrefix+key, value, ttl).Err(); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("Redis set failed")
	}
}

// Flush removes only cinelist keys
func (r *Redis) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
