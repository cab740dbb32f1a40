package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"partysense/domain/repository"
	"partysense/infrastructure/configuration"
	"partysense/infrastructure/logger"
)

// SearchCache stores serialized catalog responses in Redis. A cache miss is
// reported as (nil, nil) so callers fall through to the live catalog.
type SearchCache struct {
	client *redis.Client
}

func NewSearchCache(client *redis.Client) repository.ISearchCache {
	return &SearchCache{client: client}
}

// NewRedisClient dials Redis using the loaded configuration and verifies the
// connection with a ping.
func NewRedisClient(cfg configuration.RedisClient) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Redis ping failed")
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, nil
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *SearchCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}
