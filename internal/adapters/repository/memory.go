package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/pkg/metrics"
)

const (
	// defaultCapacity bounds the in-memory archive before eviction.
	defaultCapacity = 10_000
	// defaultMetricsInterval paces the background gauge updates.
	defaultMetricsInterval = 5 * time.Second
)

// MemoryStore is a process-local chart archive: a map for ID lookups
// plus a recency list serving the latest-N query. Saving past capacity
// evicts the oldest chart.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]model.BirthChart
	recency  []string // oldest first, appended on save
	capacity int

	metricsInterval time.Duration
	wg              sync.WaitGroup
	stopChan        chan struct{}
}

// NewMemoryStore constructs the archive and starts its background
// metrics updater. The context bounds the updater alongside Close.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:            make(map[string]model.BirthChart),
		capacity:        defaultCapacity,
		metricsInterval: defaultMetricsInterval,
		stopChan:        make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Save implements Store.Save. Re-saving an ID refreshes its recency.
func (s *MemoryStore) Save(ctx context.Context, chart model.BirthChart) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	if chart.ID == "" {
		metrics.RecordStoreError()
		metrics.RecordErrorByComponent("repository", "missing_id")
		return ErrMissingID
	}

	s.mu.Lock()
	if _, exists := s.byID[chart.ID]; exists {
		s.dropFromRecency(chart.ID)
	}
	s.byID[chart.ID] = chart
	s.recency = append(s.recency, chart.ID)
	if len(s.recency) > s.capacity {
		oldest := s.recency[0]
		s.recency = s.recency[1:]
		delete(s.byID, oldest)
	}
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateStoredCharts(count)
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.BirthChart, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	chart, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.BirthChart{}, ErrNotFound
	}
	return chart, nil
}

// Recent implements Store.Recent.
func (s *MemoryStore) Recent(ctx context.Context, n int) ([]model.BirthChart, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.recency) {
		n = len(s.recency)
	}
	out := make([]model.BirthChart, 0, n)
	for i := len(s.recency) - 1; i >= len(s.recency)-n; i-- {
		if chart, ok := s.byID[s.recency[i]]; ok {
			out = append(out, chart)
		}
	}
	return out, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// dropFromRecency removes id from the recency list. Caller holds the
// write lock.
func (s *MemoryStore) dropFromRecency(id string) {
	for i, existing := range s.recency {
		if existing == id {
			s.recency = append(s.recency[:i], s.recency[i+1:]...)
			return
		}
	}
}

// startMetricsUpdater publishes the archive size gauge at the
// configured interval until the context or Close stops it.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				count := len(s.byID)
				s.mu.RUnlock()
				metrics.UpdateStoredCharts(count)
			}
		}
	}()
}
