package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
)

// Redis shares parsed sheets between machines and runs.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis cache. The connection is established lazily.
func NewRedis(settings *conf.RedisSettings, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     settings.Addr,
			Password: settings.Password,
			DB:       settings.DB,
		}),
		prefix: settings.KeyPrefix,
		ttl:    ttl,
	}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.wrap(err, "get", key)
	}
	return payload, true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, r.key(key), payload, r.ttl).Err(); err != nil {
		return r.wrap(err, "set", key)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) wrap(err error, op, key string) error {
	return errors.New(err).
		Component("sheet").
		Category(errors.CategoryCache).
		Context("operation", "redis_"+op).
		Context("key", r.key(key)).
		Build()
}
