package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ppclens/backend/internal/domain"
)

// cacheItem represents a single stored payload with expiration
type cacheItem struct {
	Value      []byte
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory result store with TTL support
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries
// every sweepInterval until Close is called
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	if sweepInterval <= 0 {
		sweepInterval = 10 * time.Minute
	}
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		done: make(chan struct{}),
	}

	go cache.cleanupExpired(sweepInterval)

	return cache
}

// Get retrieves a payload from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	out := make([]byte, len(item.Value))
	copy(out, item.Value)
	return out, nil
}

// Set stores a copy of value with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Value:      stored,
		Expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a payload from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}
	return !time.Now().After(item.Expiration), nil
}

// Close stops the sweeper goroutine
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// cleanupExpired removes expired entries periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
