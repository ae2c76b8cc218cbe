package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/predictsports-engine/internal/metrics"
)

// MemoryStore provides in-process caching backed by go-cache
type MemoryStore struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewMemoryStore creates a memory store. A maxSize of zero means unbounded.
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	return &MemoryStore{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Backend returns the backend name
func (m *MemoryStore) Backend() string {
	return BackendMemory
}

// Get decodes a cached value into dest
func (m *MemoryStore) Get(ctx context.Context, key string, dest any) error {
	raw, found := m.cache.Get(key)
	if !found {
		m.missCount.Add(1)
		m.updateMetrics(false)
		return ErrCacheMiss
	}

	m.hitCount.Add(1)
	m.updateMetrics(true)

	data, ok := raw.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cached type %T for key %s", raw, key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cached value: %w", err)
	}
	return nil
}

// Set encodes and stores a value with the store TTL
func (m *MemoryStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSize > 0 && m.cache.ItemCount() >= m.maxSize {
		m.cache.DeleteExpired()
		if m.cache.ItemCount() >= m.maxSize {
			return ErrCacheFull
		}
	}

	m.cache.Set(key, data, m.ttl)
	return nil
}

// Delete removes a key
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Ping always succeeds for the in-process store
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// DeleteExpired purges expired items and returns the remaining item count
func (m *MemoryStore) DeleteExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.DeleteExpired()
	count := m.cache.ItemCount()
	_, _, ratio := m.Stats()
	metrics.UpdateCacheStats(count, ratio)
	return count
}

// Clear flushes the entire cache and resets statistics
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Flush()
	m.hitCount.Store(0)
	m.missCount.Store(0)
}

// Stats returns cache statistics
func (m *MemoryStore) Stats() (hits, misses uint64, ratio float64) {
	hits = m.hitCount.Load()
	misses = m.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache, including expired ones not yet purged
func (m *MemoryStore) ItemCount() int {
	return m.cache.ItemCount()
}

func (m *MemoryStore) updateMetrics(hit bool) {
	metrics.RecordCacheLookup(BackendMemory, hit)
	_, _, ratio := m.Stats()
	metrics.CacheHitRatio.Set(ratio)
}
