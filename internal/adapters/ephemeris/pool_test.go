package ephemeris_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/kundali/internal/adapters/ephemeris"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubEphemeris counts concurrency and serves deterministic positions:
// ten degrees per planet index.
type stubEphemeris struct {
	delay    time.Duration
	failures map[types.Planet]error
	inFlight atomic.Int64
	maxSeen  atomic.Int64
	calls    atomic.Int64
}

func (s *stubEphemeris) Position(ctx context.Context, planet types.Planet, _ float64) (model.RawPosition, error) {
	if err := ctx.Err(); err != nil {
		return model.RawPosition{}, err
	}
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if n <= seen || s.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	s.calls.Add(1)
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return model.RawPosition{}, ctx.Err()
		}
	}
	if err, ok := s.failures[planet]; ok {
		return model.RawPosition{}, err
	}
	return model.RawPosition{Longitude: float64(10 * int(planet)), SpeedDegPerDay: 1}, nil
}

func TestPoolFetchAll(t *testing.T) {
	Convey("Given a pool over a healthy provider", t, func() {
		stub := &stubEphemeris{}
		pool := ephemeris.NewPool(stub)
		ctx := context.Background()

		Convey("When fetching the full fetchable set", func() {
			out, err := pool.FetchAll(ctx, jdeBirth, types.FetchedPlanets())

			Convey("Then every planet should come back with its position", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, len(types.FetchedPlanets()))
				So(out[types.Sun].Longitude, ShouldEqual, 0)
				So(out[types.Moon].Longitude, ShouldEqual, 10)
				So(out[types.Rahu].Longitude, ShouldEqual, 70)
				So(stub.calls.Load(), ShouldEqual, int64(len(types.FetchedPlanets())))
			})
		})

		Convey("When fetching an empty planet list", func() {
			out, err := pool.FetchAll(ctx, jdeBirth, nil)

			Convey("Then it should return an empty map without error", func() {
				So(err, ShouldBeNil)
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a pool bounded to two workers", t, func() {
		stub := &stubEphemeris{delay: 20 * time.Millisecond}
		pool := ephemeris.NewPool(stub, ephemeris.WithWorkers(2))

		Convey("When fetching eight planets", func() {
			out, err := pool.FetchAll(context.Background(), jdeBirth, types.FetchedPlanets())

			Convey("Then no more than two fetches should overlap", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 8)
				So(stub.maxSeen.Load(), ShouldBeLessThanOrEqualTo, 2)
			})
		})
	})
}

func TestPoolFailFast(t *testing.T) {
	Convey("Given a provider that cannot place Saturn", t, func() {
		cause := errors.New("theory out of range")
		stub := &stubEphemeris{
			delay:    5 * time.Millisecond,
			failures: map[types.Planet]error{types.Saturn: cause},
		}
		pool := ephemeris.NewPool(stub, ephemeris.WithWorkers(3))

		Convey("When fetching the full set", func() {
			out, err := pool.FetchAll(context.Background(), jdeBirth, types.FetchedPlanets())

			Convey("Then the failure should surface with both sentinels intact", func() {
				So(out, ShouldBeNil)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ephemeris.ErrEphemerisUnavailable), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
			})
		})
	})

	Convey("Given a slow provider and an impatient caller", t, func() {
		stub := &stubEphemeris{delay: 200 * time.Millisecond}
		pool := ephemeris.NewPool(stub, ephemeris.WithWorkers(2))

		Convey("When the context is cancelled mid-flight", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(10 * time.Millisecond)
				cancel()
			}()
			out, err := pool.FetchAll(ctx, jdeBirth, types.FetchedPlanets())

			Convey("Then the cancellation should win over the planet error", func() {
				So(out, ShouldBeNil)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(errors.Is(err, ephemeris.ErrEphemerisUnavailable), ShouldBeFalse)
			})
		})
	})
}
