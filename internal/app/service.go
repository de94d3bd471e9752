// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI: chart
// computation, archival, and the derived-artifact queries.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	resultcache "github.com/okian/kundali/internal/adapters/cache"
	ephemeris "github.com/okian/kundali/internal/adapters/ephemeris"
	repository "github.com/okian/kundali/internal/adapters/repository"
	"github.com/okian/kundali/internal/domain/dasha"
	"github.com/okian/kundali/internal/domain/ephemtime"
	"github.com/okian/kundali/internal/domain/houses"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/panchanga"
	"github.com/okian/kundali/internal/domain/position"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/internal/domain/varga"
	"github.com/okian/kundali/pkg/logger"
	"github.com/okian/kundali/pkg/metrics"
)

// Service implements the API dependencies for the chart system.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider ephemeris.Provider
	pool     *ephemeris.Pool
	cusps    houses.CuspProvider
	engine   *houses.Engine
	store    repository.Store
	cache    resultcache.Cache

	// Configuration
	workerCount  int
	divisions    []types.Division
	dashaHorizon float64
	cacheTTL     time.Duration
	maxRecent    int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEphemerisWorkers sets the fan-out width for per-planet fetches.
func WithEphemerisWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithProvider sets the ephemeris provider. The default is the built-in
// approximate provider.
func WithProvider(p ephemeris.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithCuspProvider sets the house cusp provider.
func WithCuspProvider(cp houses.CuspProvider) Option {
	return func(s *Service) {
		if cp != nil {
			s.cusps = cp
		}
	}
}

// WithStore sets the chart archive. The default is the in-memory store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithCache sets the result cache. The default is the in-process cache.
func WithCache(c resultcache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithCacheTTL sets the result cache entry lifetime. Zero or negative
// keeps entries until evicted.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithDivisions sets the divisional charts computed eagerly with every
// chart. Others stay available through the lazy per-chart query.
func WithDivisions(divisions ...types.Division) Option {
	return func(s *Service) {
		s.divisions = append([]types.Division(nil), divisions...)
	}
}

// WithDashaHorizon sets the default horizon, in dasha years, for
// timeline queries that do not request one explicitly.
func WithDashaHorizon(years float64) Option {
	return func(s *Service) {
		if years > 0 {
			s.dashaHorizon = years
		}
	}
}

// WithMaxRecent caps how many charts a recent-charts query may return.
func WithMaxRecent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRecent = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  4,
		divisions:    nil, // eager varga set, off by default
		dashaHorizon: dasha.CycleYears,
		cacheTTL:     24 * time.Hour,
		maxRecent:    100,
		stopCh:       make(chan struct{}),
		logger:       nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Start initializes the service components that were not injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting chart service...")

	if s.provider == nil {
		s.provider = ephemeris.NewMeeus()
		s.logger.Info(ctx, "using built-in approximate ephemeris")
	}
	s.pool = ephemeris.NewPool(s.provider, ephemeris.WithWorkers(s.workerCount))
	if s.cusps == nil {
		s.cusps = ephemeris.NewCalculator()
	}
	s.engine = houses.New(s.cusps)
	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx)
		s.logger.Info(ctx, "using in-memory chart archive")
	}
	if s.cache == nil {
		s.cache = resultcache.NewMemory()
		s.logger.Info(ctx, "using in-process result cache")
	}

	s.started = true
	s.logger.Info(ctx, "chart service started",
		logger.Int("ephemerisWorkers", s.workerCount),
		logger.Int("eagerDivisions", len(s.divisions)),
		logger.Int("maxRecentLimit", s.maxRecent),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping chart service...")

	// Close chart archive
	if s.store != nil {
		_ = s.store.Close()
	}

	// Close cache backends that hold connections
	if closer, ok := s.cache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	// Signal background loops to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "chart service stopped")
}

// ready reports whether operations may run.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// ComputeChart computes the full birth chart for a validated input, or
// returns the cached result for an input already computed. Computed
// charts are archived and cached under the input's fingerprint.
func (s *Service) ComputeChart(ctx context.Context, in model.BirthInput) (model.BirthChart, error) {
	if err := s.ready(); err != nil {
		return model.BirthChart{}, err
	}

	start := time.Now()
	defer func() {
		metrics.RecordChartComputeLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := in.Validate(); err != nil {
		metrics.RecordChartError()
		return model.BirthChart{}, err
	}

	fingerprint := in.Fingerprint()
	if chart, ok := s.cachedChart(ctx, fingerprint); ok {
		s.logger.Debug(ctx, "serving cached chart",
			logger.String("id", chart.ID),
		)
		return chart, nil
	}

	chart, err := s.compute(ctx, in)
	if err != nil {
		metrics.RecordChartError()
		return model.BirthChart{}, err
	}

	s.persist(ctx, fingerprint, chart)
	metrics.RecordChartComputed()
	return chart, nil
}

// compute runs the pipeline: moment, fan-out fetch, sidereal reduction,
// houses, panchanga, and the configured eager vargas.
func (s *Service) compute(ctx context.Context, in model.BirthInput) (model.BirthChart, error) {
	moment, err := ephemtime.MomentOf(in)
	if err != nil {
		return model.BirthChart{}, err
	}

	raws, err := s.pool.FetchAll(ctx, moment.JulianDayTT, types.FetchedPlanets())
	if err != nil {
		return model.BirthChart{}, err
	}
	positions := position.ReduceAll(moment, raws)

	houseSet, placed, err := s.engine.Compute(ctx, moment, in.Latitude, in.Longitude, in.Houses, positions)
	if err != nil {
		return model.BirthChart{}, err
	}
	if houseSet.Degraded {
		metrics.RecordHouseFallback()
		s.logger.Warn(ctx, "house system degraded to equal houses",
			logger.String("system", in.Houses.String()),
			logger.Float64("latitude", in.Latitude),
		)
	}

	chart := model.BirthChart{
		ID:        uuid.NewString(),
		Input:     in,
		Moment:    moment,
		Positions: placed,
		Houses:    houseSet,
		// Round(0) drops the monotonic reading so archived, cached,
		// and served copies of the timestamp compare equal.
		CreatedAt: time.Now().UTC().Round(0),
	}

	// The fetch is all-or-nothing, so both luminaries are present.
	sun, _ := chart.Position(types.Sun)
	moon, _ := chart.Position(types.Moon)
	chart.Panchanga = panchanga.Snapshot(sun.SiderealLongitude, moon.SiderealLongitude)
	metrics.RecordPanchangaSnapshot()

	for _, d := range s.divisions {
		vc, err := varga.Transform(d, chart.Houses.Ascendant.SiderealLongitude, chart.Positions)
		if err != nil {
			return model.BirthChart{}, err
		}
		metrics.RecordVargaComputed(d.String())
		chart.Vargas = append(chart.Vargas, vc)
	}

	return chart, nil
}

// cachedChart returns the chart cached under the fingerprint, if any.
// A corrupt entry is treated as a miss.
func (s *Service) cachedChart(ctx context.Context, fingerprint string) (model.BirthChart, bool) {
	data, ok := s.cache.Get(ctx, fingerprint)
	if !ok {
		return model.BirthChart{}, false
	}
	var chart model.BirthChart
	if err := json.Unmarshal(data, &chart); err != nil {
		s.logger.Warn(ctx, "result cache entry corrupt, recomputing",
			logger.Error(err),
		)
		return model.BirthChart{}, false
	}
	return chart, true
}

// persist archives and caches a computed chart. Neither failure loses
// the response; the chart itself is the product.
func (s *Service) persist(ctx context.Context, fingerprint string, chart model.BirthChart) {
	if err := s.store.Save(ctx, chart); err != nil {
		metrics.RecordErrorByComponent("service", "archive_failed")
		s.logger.Error(ctx, "chart archive failed",
			logger.String("id", chart.ID),
			logger.Error(err),
		)
	}

	data, err := json.Marshal(chart)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, fingerprint, data, s.cacheTTL); err != nil {
		s.logger.Warn(ctx, "result cache set failed",
			logger.Error(err),
		)
	}
}

// GetChart returns an archived chart by ID.
func (s *Service) GetChart(ctx context.Context, id string) (model.BirthChart, error) {
	if err := s.ready(); err != nil {
		return model.BirthChart{}, err
	}
	return s.store.Get(ctx, id)
}

// RecentCharts returns up to n most recently archived charts, newest
// first. Requests above the configured cap are clamped.
func (s *Service) RecentCharts(ctx context.Context, n int) ([]model.BirthChart, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if n > s.maxRecent {
		n = s.maxRecent
	}
	return s.store.Recent(ctx, n)
}

// DivisionalChart derives one divisional chart from an archived chart.
func (s *Service) DivisionalChart(ctx context.Context, id string, division types.Division) (model.DivisionalChart, error) {
	if err := s.ready(); err != nil {
		return model.DivisionalChart{}, err
	}
	chart, err := s.store.Get(ctx, id)
	if err != nil {
		return model.DivisionalChart{}, err
	}
	out, err := varga.Transform(division, chart.Houses.Ascendant.SiderealLongitude, chart.Positions)
	if err != nil {
		return model.DivisionalChart{}, err
	}
	metrics.RecordVargaComputed(division.String())
	return out, nil
}

// DashaTimeline builds the vimshottari timeline for an archived chart.
// Options override the service's default horizon.
func (s *Service) DashaTimeline(ctx context.Context, id string, opts ...dasha.Option) (model.DashaTimeline, error) {
	if err := s.ready(); err != nil {
		return model.DashaTimeline{}, err
	}
	chart, err := s.store.Get(ctx, id)
	if err != nil {
		return model.DashaTimeline{}, err
	}
	return s.timelineFor(chart, opts...)
}

// timelineFor anchors the timeline to the chart's Moon. Caller options
// are applied after the service default so they win.
func (s *Service) timelineFor(chart model.BirthChart, opts ...dasha.Option) (model.DashaTimeline, error) {
	moon, ok := chart.Position(types.Moon)
	if !ok {
		return model.DashaTimeline{}, fmt.Errorf("%w: chart %s has no moon position", ErrIncompleteChart, chart.ID)
	}
	birth, err := chart.Input.UTC()
	if err != nil {
		return model.DashaTimeline{}, err
	}

	all := append([]dasha.Option{dasha.WithHorizonYears(s.dashaHorizon)}, opts...)
	tl, err := dasha.FromMoon(moon.SiderealLongitude, birth, all...)
	if err != nil {
		return model.DashaTimeline{}, err
	}
	metrics.RecordDashaTimeline()
	return tl, nil
}

// PanchangaAt computes the lunar-day attributes for a moment without
// archiving anything. Only the Sun and Moon are fetched.
func (s *Service) PanchangaAt(ctx context.Context, in model.BirthInput) (model.PanchangaSnapshot, error) {
	if err := s.ready(); err != nil {
		return model.PanchangaSnapshot{}, err
	}
	if err := in.Validate(); err != nil {
		return model.PanchangaSnapshot{}, err
	}

	moment, err := ephemtime.MomentOf(in)
	if err != nil {
		return model.PanchangaSnapshot{}, err
	}
	raws, err := s.pool.FetchAll(ctx, moment.JulianDayTT, []types.Planet{types.Sun, types.Moon})
	if err != nil {
		return model.PanchangaSnapshot{}, err
	}

	var sunLon, moonLon float64
	for _, pos := range position.ReduceAll(moment, raws) {
		switch pos.Planet {
		case types.Sun:
			sunLon = pos.SiderealLongitude
		case types.Moon:
			moonLon = pos.SiderealLongitude
		}
	}

	metrics.RecordPanchangaSnapshot()
	return panchanga.Snapshot(sunLon, moonLon), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"ephemerisWorkers": s.workerCount,
		"maxRecentLimit":   s.maxRecent,
		"dashaHorizon":     s.dashaHorizon,
		"eagerDivisions":   len(s.divisions),
	}

	if s.started {
		count := s.store.Count(context.Background())
		stats["storedCharts"] = count

		// Update metrics
		metrics.UpdateStoredCharts(count)
		metrics.UpdateEphemerisWorkers(s.workerCount)
	}

	return stats
}
