package mocks

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type cacheEntry struct {
	data   []byte
	expiry time.Time
}

// MemoryCache is an in-process stand-in for the Redis cache. Values are
// stored as JSON like the real one and a miss is reported as redis.Nil.
type MemoryCache struct {
	mu          sync.Mutex
	data        map[string]cacheEntry
	GetCalls    int
	SetCalls    int
	DeleteCalls int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.GetCalls++
	entry, ok := c.data[key]
	if !ok || (!entry.expiry.IsZero() && time.Now().After(entry.expiry)) {
		return redis.Nil
	}
	return json.Unmarshal(entry.data, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.SetCalls++
	c.data[key] = cacheEntry{data: data, expiry: time.Now().Add(exp)}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.DeleteCalls++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// Incr keeps a non-expiring counter readable through Get.
func (c *MemoryCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	if entry, ok := c.data[key]; ok {
		if err := json.Unmarshal(entry.data, &n); err != nil {
			return 0, err
		}
	}
	n++
	c.data[key] = cacheEntry{data: []byte(strconv.FormatInt(n, 10))}
	return n, nil
}

// Len reports how many live cached reads are held. Counters are not counted.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.data {
		if !e.expiry.IsZero() && time.Now().Before(e.expiry) {
			n++
		}
	}
	return n
}

func (c *MemoryCache) Close() error {
	return nil
}
