package cache

import (
	"context"
	"sync"
	"time"

	"github.com/okian/kundali/pkg/metrics"
)

// defaultMaxEntries bounds the in-process cache. Entries are serialized
// charts of a few kilobytes each, so the default keeps worst-case
// memory in the tens of megabytes.
const defaultMaxEntries = 4096

// Memory is an in-process TTL cache. Expired entries are dropped lazily
// on read and swept on write once the cache is full.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int // 0 or negative = unbounded
}

type entry struct {
	val []byte
	exp time.Time
}

// NewMemory creates an in-process cache.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		entries:    make(map[string]entry),
		maxEntries: defaultMaxEntries,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Get returns the value stored under key. An expired entry is deleted
// and reported as a miss.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	start := time.Now()
	defer func() {
		metrics.RecordCacheLatency(float64(time.Since(start).Milliseconds()))
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if !it.exp.IsZero() && time.Now().After(it.exp) {
		delete(m.entries, key)
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return it.val, true
}

// Set stores val under key. A ttl of zero or less stores the entry
// without expiry. When the cache is full, expired entries are swept
// first and an arbitrary victim is evicted only if the sweep freed
// nothing; every entry is recomputable, so any victim is acceptable.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.sweepLocked()
		for victim := range m.entries {
			if len(m.entries) < m.maxEntries {
				break
			}
			delete(m.entries, victim)
		}
	}

	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.entries[key] = entry{val: val, exp: exp}

	return nil
}

// Len reports the number of entries, counting expired ones that have
// not been swept yet.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweepLocked removes expired entries. Callers must hold mu.
func (m *Memory) sweepLocked() {
	now := time.Now()
	for key, it := range m.entries {
		if !it.exp.IsZero() && now.After(it.exp) {
			delete(m.entries, key)
		}
	}
}
