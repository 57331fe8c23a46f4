package scheduling

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// WorkloadCacheInterface caches WorkloadInfo per day key. Mutation paths invalidate,
// reads recompute lazily.
type WorkloadCacheInterface interface {
	Add(ctx context.Context, key string, info *WorkloadInfo) error
	Invalidate(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*WorkloadInfo, error)
}

// WorkloadCacheMemory caches workload summaries in process memory
type WorkloadCacheMemory struct {
	Cache *lru.Cache
}

// NewWorkloadCacheMemory initializes a new WorkloadCacheMemory
func NewWorkloadCacheMemory() (*WorkloadCacheMemory, error) {
	cache, err := lru.New(64)
	if err != nil {
		return nil, err
	}

	return &WorkloadCacheMemory{
		Cache: cache,
	}, nil
}

// Add adds a WorkloadInfo to the cache
func (c *WorkloadCacheMemory) Add(_ context.Context, key string, info *WorkloadInfo) error {
	_ = c.Cache.Add(key, info)
	return nil
}

// Invalidate removes a day from the cache
func (c *WorkloadCacheMemory) Invalidate(_ context.Context, key string) error {
	c.Cache.Remove(key)
	return nil
}

// Get retrieves a WorkloadInfo from the cache
func (c *WorkloadCacheMemory) Get(_ context.Context, key string) (*WorkloadInfo, error) {
	result, ok := c.Cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("could not find key %s in workload cache", key)
	}

	info, ok := result.(*WorkloadInfo)
	if !ok {
		return nil, fmt.Errorf("cache entry was not a workload entry")
	}

	return info, nil
}
