package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/kundali/internal/adapters/repository"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// archivedChart builds a minimal but representative chart for store
// tests. Charts differ by ID and creation instant only.
func archivedChart(id string, createdAt time.Time) model.BirthChart {
	return model.BirthChart{
		ID: id,
		Input: model.BirthInput{
			Year: 1990, Month: 1, Day: 15,
			Hour: 13, Minute: 30,
			Latitude:  40.7128,
			Longitude: -74.0060,
			System:    types.Lahiri,
			Houses:    types.Placidus,
		},
		Moment: model.EphemerisMoment{
			JulianDayUT: 2447907.0625,
			Ayanamsa:    23.709143,
			System:      types.Lahiri,
		},
		Positions: []model.PlanetaryPosition{
			{Planet: types.Sun, SiderealLongitude: 271.239484, Sign: types.Capricorn, House: 1},
		},
		Panchanga: model.PanchangaSnapshot{TithiNumber: 18, Paksha: "waning"},
		CreatedAt: createdAt,
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	Convey("Given an in-memory chart archive", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx)
		defer store.Close()

		now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

		Convey("When saving and fetching a chart", func() {
			chart := archivedChart("chart-a", now)
			So(store.Save(ctx, chart), ShouldBeNil)
			got, err := store.Get(ctx, "chart-a")

			Convey("Then the chart should come back intact", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, chart)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When fetching an unknown ID", func() {
			_, err := store.Get(ctx, "nope")

			Convey("Then it should report not found", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When saving a chart without an ID", func() {
			err := store.Save(ctx, model.BirthChart{CreatedAt: now})

			Convey("Then the save should be rejected", func() {
				So(errors.Is(err, repository.ErrMissingID), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestMemoryStoreRecent(t *testing.T) {
	Convey("Given an archive with three charts saved in order", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx)
		defer store.Close()

		base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"first", "second", "third"} {
			So(store.Save(ctx, archivedChart(id, base.Add(time.Duration(i)*time.Minute))), ShouldBeNil)
		}

		Convey("When asking for the two most recent", func() {
			recent, err := store.Recent(ctx, 2)

			Convey("Then the newest should lead", func() {
				So(err, ShouldBeNil)
				So(recent, ShouldHaveLength, 2)
				So(recent[0].ID, ShouldEqual, "third")
				So(recent[1].ID, ShouldEqual, "second")
			})
		})

		Convey("When asking for more than exist", func() {
			recent, err := store.Recent(ctx, 10)

			Convey("Then every chart should come back, newest first", func() {
				So(err, ShouldBeNil)
				So(recent, ShouldHaveLength, 3)
				So(recent[2].ID, ShouldEqual, "first")
			})
		})

		Convey("When re-saving an old chart", func() {
			So(store.Save(ctx, archivedChart("first", base.Add(time.Hour))), ShouldBeNil)
			recent, err := store.Recent(ctx, 3)

			Convey("Then its recency should be refreshed without duplication", func() {
				So(err, ShouldBeNil)
				So(recent, ShouldHaveLength, 3)
				So(recent[0].ID, ShouldEqual, "first")
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})

		Convey("When asking for a non-positive count", func() {
			_, err := store.Recent(ctx, 0)

			Convey("Then the limit should be rejected", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStoreEviction(t *testing.T) {
	Convey("Given an archive capped at two charts", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, repository.WithCapacity(2))
		defer store.Close()

		base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"first", "second", "third"} {
			So(store.Save(ctx, archivedChart(id, base.Add(time.Duration(i)*time.Minute))), ShouldBeNil)
		}

		Convey("Then the oldest chart should have been evicted", func() {
			So(store.Count(ctx), ShouldEqual, 2)
			_, err := store.Get(ctx, "first")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			recent, rerr := store.Recent(ctx, 10)
			So(rerr, ShouldBeNil)
			So(recent, ShouldHaveLength, 2)
			So(recent[0].ID, ShouldEqual, "third")
			So(recent[1].ID, ShouldEqual, "second")
		})
	})
}

func TestMemoryStoreClose(t *testing.T) {
	Convey("Given a running archive", t, func() {
		store := repository.NewMemoryStore(context.Background())

		Convey("When closing it twice", func() {
			So(store.Close(), ShouldBeNil)
			So(store.Close(), ShouldBeNil)
		})
	})
}

func BenchmarkMemoryStoreSave(b *testing.B) {
	ctx := context.Background()
	store := repository.NewMemoryStore(ctx, repository.WithCapacity(b.N+1))
	defer store.Close()

	chart := archivedChart("bench", time.Now().UTC())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chart.ID = fmt.Sprintf("bench-%d", i)
		if err := store.Save(ctx, chart); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryStoreGet(b *testing.B) {
	ctx := context.Background()
	store := repository.NewMemoryStore(ctx)
	defer store.Close()

	if err := store.Save(ctx, archivedChart("bench", time.Now().UTC())); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := store.Get(ctx, "bench"); err != nil {
				b.Fatal(err)
			}
		}
	})
}
