package scheduling

import (
	"context"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

// WorkloadCacheRedis caches workload summaries in redis
type WorkloadCacheRedis struct {
	Cache *cache.Cache
}

// NewWorkloadCacheRedis initializes a new WorkloadCacheRedis
func NewWorkloadCacheRedis(redisClient *redis.Client) (*WorkloadCacheRedis, error) {
	redisCache := cache.New(&cache.Options{
		Redis: redisClient,
	})

	return &WorkloadCacheRedis{
		Cache: redisCache,
	}, nil
}

// Add adds a WorkloadInfo
func (c *WorkloadCacheRedis) Add(ctx context.Context, key string, info *WorkloadInfo) error {
	err := c.Cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: info,
		TTL:   time.Minute * 10,
	})
	if err != nil {
		return err
	}

	return nil
}

// Invalidate invalidates a day
func (c *WorkloadCacheRedis) Invalidate(ctx context.Context, key string) error {
	err := c.Cache.Delete(ctx, key)
	if err != nil {
		return err
	}

	return nil
}

// Get retrieves a WorkloadInfo
func (c *WorkloadCacheRedis) Get(ctx context.Context, key string) (*WorkloadInfo, error) {
	result := WorkloadInfo{}
	err := c.Cache.Get(ctx, key, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
