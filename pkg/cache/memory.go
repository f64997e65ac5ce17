package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value      string
	expiration int64
}

func (i item) expired() bool {
	if i.expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > i.expiration
}

// MemoryStore is a thread-safe in-memory cache with expiration
type MemoryStore struct {
	items             map[string]item
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	maxItems          int
}

// NewMemoryStore creates a new in-memory cache with the given default
// expiration, cleanup interval, and maximum item count
func NewMemoryStore(defaultExpiration, cleanupInterval time.Duration, maxItems int) *MemoryStore {
	store := &MemoryStore{
		items:             make(map[string]item),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		maxItems:          maxItems,
	}

	if cleanupInterval > 0 {
		go store.startCleanupTimer()
	}

	return store
}

// Get retrieves an item from the cache
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, found := s.items[key]
	if !found || it.expired() {
		return "", false
	}
	return it.value, true
}

// Set adds an item to the cache with the default expiration
func (s *MemoryStore) Set(ctx context.Context, key, value string) {
	s.SetWithExpiration(ctx, key, value, s.defaultExpiration)
}

// SetWithExpiration adds an item to the cache with a specific expiration
func (s *MemoryStore) SetWithExpiration(_ context.Context, key, value string, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxItems > 0 && len(s.items) >= s.maxItems {
		if _, exists := s.items[key]; !exists {
			s.evictOldest()
		}
	}

	s.items[key] = item{
		value:      value,
		expiration: exp,
	}
}

// Delete removes an item from the cache
func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// evictOldest removes the entry closest to expiry. Caller must hold the lock.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestExp int64 = 1<<63 - 1

	for key, it := range s.items {
		if it.expiration != 0 && it.expiration < oldestExp {
			oldestKey = key
			oldestExp = it.expiration
		}
	}

	if oldestKey != "" {
		delete(s.items, oldestKey)
		return
	}

	// All entries are non-expiring; drop an arbitrary one
	for key := range s.items {
		delete(s.items, key)
		return
	}
}

func (s *MemoryStore) startCleanupTimer() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.deleteExpired()
	}
}

func (s *MemoryStore) deleteExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, it := range s.items {
		if it.expired() {
			delete(s.items, key)
		}
	}
}
