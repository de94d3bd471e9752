package ephemeris

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/pkg/logger"
	"github.com/okian/kundali/pkg/metrics"
)

// defaultWorkers bounds concurrent provider calls per request. Four is
// a comfortable spread for the eight-planet set of one chart.
const defaultWorkers = 4

// Pool fans the per-planet fetches of one request out to a bounded set
// of workers and joins the results. The first failure cancels the
// remaining fetches.
type Pool struct {
	provider Provider
	workers  int
	inFlight atomic.Int64
}

// NewPool wraps a provider with bounded fan-out. Nil options are
// ignored.
func NewPool(provider Provider, opts ...Option) *Pool {
	p := &Pool{
		provider: provider,
		workers:  defaultWorkers,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	metrics.UpdateEphemerisWorkers(p.workers)
	return p
}

type fetchResult struct {
	planet types.Planet
	raw    model.RawPosition
	err    error
}

// FetchAll returns the raw position of every requested planet, keyed by
// planet. The first provider failure cancels the outstanding fetches
// and comes back wrapped as ErrEphemerisUnavailable; a cancelled parent
// context comes back as the context's own error.
func (p *Pool) FetchAll(ctx context.Context, jde float64, planets []types.Planet) (map[types.Planet]model.RawPosition, error) {
	if len(planets) == 0 {
		return map[types.Planet]model.RawPosition{}, nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan types.Planet)
	// Buffered to the job count so workers never block on send and wind
	// down on their own after an early return.
	results := make(chan fetchResult, len(planets))

	workers := p.workers
	if workers > len(planets) {
		workers = len(planets)
	}
	for i := 0; i < workers; i++ {
		go func() {
			for planet := range jobs {
				results <- p.fetch(fetchCtx, planet, jde)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, planet := range planets {
			select {
			case jobs <- planet:
			case <-fetchCtx.Done():
				return
			}
		}
	}()

	out := make(map[types.Planet]model.RawPosition, len(planets))
	for range planets {
		select {
		case res := <-results:
			switch {
			case res.err == nil:
				out[res.planet] = res.raw
			case ctx.Err() != nil:
				// The failure is our own cancellation arriving through
				// the provider; report the context, not the planet.
				return nil, fmt.Errorf("ephemeris fetch: %w", ctx.Err())
			default:
				cancel()
				return nil, fmt.Errorf("%w: %s: %w", ErrEphemerisUnavailable, res.planet, res.err)
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("ephemeris fetch: %w", ctx.Err())
		}
	}
	return out, nil
}

func (p *Pool) fetch(ctx context.Context, planet types.Planet, jde float64) fetchResult {
	metrics.UpdateEphemerisInFlight(int(p.inFlight.Add(1)))
	defer func() {
		metrics.UpdateEphemerisInFlight(int(p.inFlight.Add(-1)))
	}()

	start := time.Now()
	raw, err := p.provider.Position(ctx, planet, jde)
	metrics.RecordEphemerisFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordEphemerisFetchError()
		metrics.RecordErrorByComponent("ephemeris", "fetch_failed")
		logger.Get().Named("ephemeris").Error(ctx, "position fetch failed",
			logger.String("planet", planet.String()),
			logger.Float64("jde", jde),
			logger.Error(err),
		)
		return fetchResult{planet: planet, err: err}
	}
	metrics.RecordEphemerisFetch()
	return fetchResult{planet: planet, raw: raw}
}
