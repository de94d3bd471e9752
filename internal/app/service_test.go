package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/kundali/internal/app"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/pkg/logger"
)

func init() {
	// Initialize logging for tests.
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given service construction", t, func() {
		Convey("When created with default options", func() {
			svc := service.New()
			So(svc, ShouldNotBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["ephemerisWorkers"], ShouldEqual, 4)
			So(stats["maxRecentLimit"], ShouldEqual, 100)
			So(stats["dashaHorizon"], ShouldEqual, 120.0)
			So(stats["eagerDivisions"], ShouldEqual, 0)
			So(stats, ShouldNotContainKey, "storedCharts")
		})

		Convey("When created with custom options", func() {
			svc := service.New(
				service.WithEphemerisWorkers(8),
				service.WithMaxRecent(25),
				service.WithDashaHorizon(60),
				service.WithDivisions(types.D9, types.D12),
				service.WithCacheTTL(time.Minute),
			)

			stats := svc.GetStats()
			So(stats["ephemerisWorkers"], ShouldEqual, 8)
			So(stats["maxRecentLimit"], ShouldEqual, 25)
			So(stats["dashaHorizon"], ShouldEqual, 60.0)
			So(stats["eagerDivisions"], ShouldEqual, 2)
		})

		Convey("When options are out of range", func() {
			svc := service.New(
				service.WithEphemerisWorkers(0),
				service.WithMaxRecent(-5),
				service.WithDashaHorizon(-1),
			)

			stats := svc.GetStats()
			So(stats["ephemerisWorkers"], ShouldEqual, 4)
			So(stats["maxRecentLimit"], ShouldEqual, 100)
			So(stats["dashaHorizon"], ShouldEqual, 120.0)
		})

		Convey("When a nil option is passed", func() {
			So(func() { service.New(nil) }, ShouldNotPanic)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given an unstarted service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		svc := service.New(service.WithEphemerisWorkers(2))

		Convey("When started", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			So(err, ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["storedCharts"], ShouldEqual, 0)

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When stopped", func() {
			svc.Stop()

			So(svc.GetStats()["started"], ShouldBeFalse)

			Convey("And stopping again is safe", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})

	Convey("Given a service that never started", t, func() {
		svc := service.New()

		Convey("Stopping it is safe", func() {
			So(svc.Stop, ShouldNotPanic)
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Every operation refuses to run", func() {
			_, err := svc.ComputeChart(ctx, model.BirthInput{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.GetChart(ctx, "some-id")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.RecentCharts(ctx, 10)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.DivisionalChart(ctx, "some-id", types.D9)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.DashaTimeline(ctx, "some-id")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.PanchangaAt(ctx, model.BirthInput{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}
