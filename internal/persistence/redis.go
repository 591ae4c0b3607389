package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/freight-console/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// RedisBackend stores session namespaces as prefixed Redis keys.
type RedisBackend struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisBackend builds a backend. A zero ttl keeps keys until they are removed.
func NewRedisBackend(client redis.Cmdable, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = "console"
	}
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

// Namespace returns the storage for one console session.
func (b *RedisBackend) Namespace(id string) Storage {
	return &redisStorage{backend: b, keyPrefix: b.prefix + ":" + id + ":"}
}

type redisStorage struct {
	backend   *RedisBackend
	keyPrefix string
}

func (s *redisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := s.backend.client.Get(ctx, s.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (s *redisStorage) SetItem(ctx context.Context, key, value string) error {
	return s.backend.client.Set(ctx, s.keyPrefix+key, value, s.backend.ttl).Err()
}

func (s *redisStorage) RemoveItem(ctx context.Context, key string) error {
	return s.backend.client.Del(ctx, s.keyPrefix+key).Err()
}
