package commands

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/kundali/internal/app"
	"github.com/okian/kundali/internal/config"
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

func TestCommandTree(t *testing.T) {
	convey.Convey("Given the kundali command tree", t, func() {
		names := make(map[string]bool)
		for _, c := range rootCmd.Commands() {
			names[c.Name()] = true
		}

		convey.Convey("Then every subcommand should be registered", func() {
			for _, want := range []string{"serve", "chart", "panchanga", "verify", "version"} {
				convey.So(names[want], convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then the root should carry a version", func() {
			convey.So(rootCmd.Version, convey.ShouldNotBeEmpty)
		})
	})
}

func TestChartInput(t *testing.T) {
	convey.Convey("Given the chart flag values", t, func() {
		chartYear, chartMonth, chartDay = 1990, 1, 15
		chartHour, chartMinute, chartSecond = 13, 30, 0
		chartTimezone = "America/New_York"
		chartOffsetMinutes = 0
		chartLatitude, chartLongitude = 40.7128, -74.0060
		chartSystem, chartHouseSystem = "lahiri", "whole_sign"

		convey.Convey("When building the birth input", func() {
			in, err := chartInput()

			convey.Convey("Then the fields should carry over", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(in.Year, convey.ShouldEqual, 1990)
				convey.So(in.Timezone, convey.ShouldEqual, "America/New_York")
				convey.So(in.System, convey.ShouldEqual, types.Lahiri)
				convey.So(in.Houses, convey.ShouldEqual, types.WholeSign)
				convey.So(in.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the ayanamsa system is unknown", func() {
			chartSystem = "tropical"
			_, err := chartInput()

			convey.Convey("Then parsing should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the house system is unknown", func() {
			chartHouseSystem = "topocentric"
			_, err := chartInput()

			convey.Convey("Then parsing should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestBuildService(t *testing.T) {
	convey.Convey("Given service assembly from configuration", t, func() {
		ctx := context.Background()
		log := logger.Get()

		convey.Convey("When the config uses the memory store", func() {
			cfg := config.New()
			svc, err := buildService(ctx, cfg, log)

			convey.Convey("Then the service should assemble", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the config names eager divisions", func() {
			cfg := config.New()
			cfg.Divisions = []int{9, 60}
			svc, err := buildService(ctx, cfg, log)

			convey.Convey("Then the service should assemble", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the config names an unknown division factor", func() {
			cfg := config.New()
			cfg.Divisions = []int{9, 13}
			svc, err := buildService(ctx, cfg, log)

			convey.Convey("Then assembly should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(svc, convey.ShouldBeNil)
			})
		})
	})
}

func TestRenderChart(t *testing.T) {
	convey.Convey("Given a computed chart", t, func() {
		chart := sampleRenderChart()

		convey.Convey("When rendering for the terminal", func() {
			out := renderChart(chart)

			convey.Convey("Then every section should appear", func() {
				convey.So(out, convey.ShouldContainSubstring, "Birth Chart")
				convey.So(out, convey.ShouldContainSubstring, "Planetary Positions")
				convey.So(out, convey.ShouldContainSubstring, "Sun")
				convey.So(out, convey.ShouldContainSubstring, "Capricorn")
				convey.So(out, convey.ShouldContainSubstring, "Lagna")
				convey.So(out, convey.ShouldContainSubstring, "Panchanga")
				convey.So(out, convey.ShouldContainSubstring, "Dashami")
				convey.So(out, convey.ShouldContainSubstring, "Vimshottari Dasha")
				convey.So(out, convey.ShouldContainSubstring, "Ketu")
			})
		})

		convey.Convey("When the chart carries a retrograde planet", func() {
			chart.Positions[0].Retrograde = true
			out := renderPosition(chart.Positions[0])

			convey.Convey("Then the marker should appear", func() {
				convey.So(out, convey.ShouldContainSubstring, "R")
			})
		})

		convey.Convey("When the houses fell back to equal arcs", func() {
			chart.Houses.Degraded = true
			out := renderAscendant(chart.Houses)

			convey.Convey("Then the fallback should be visible", func() {
				convey.So(out, convey.ShouldContainSubstring, "equal fallback")
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		convey.Convey("When running the system updater briefly", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When running the service updater briefly", func() {
			svc := app.New()
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("When updating system metrics once", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("When updating service metrics on an unstarted service", func() {
			svc := app.New()
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}

// sampleRenderChart fabricates a chart with every rendered section
// populated.
func sampleRenderChart() model.BirthChart {
	start := time.Date(1990, 1, 15, 18, 30, 0, 0, time.UTC)
	return model.BirthChart{
		ID: "chart-render",
		Input: model.BirthInput{
			Year: 1990, Month: 1, Day: 15, Hour: 13, Minute: 30,
			Timezone: "America/New_York",
			Latitude: 40.7128, Longitude: -74.0060,
			System: types.Lahiri, Houses: types.Placidus,
		},
		Moment: model.EphemerisMoment{
			JulianDayUT: 2447907.2708333,
			Ayanamsa:    23.71,
			System:      types.Lahiri,
		},
		Positions: []model.PlanetaryPosition{{
			Planet:            types.Sun,
			SiderealLongitude: 271.2,
			Sign:              types.Capricorn,
			Degree:            1, Minute: 12, Second: 30,
			Nakshatra: types.NakshatraOf(271.2),
			Pada:      types.PadaOf(271.2),
			House:     10,
		}},
		Houses: model.HouseSet{
			System: types.Placidus,
			Ascendant: model.AscendantCusp{
				SiderealLongitude: 95.5,
				Sign:              types.SignOf(95.5),
				Degree:            5, Minute: 30, Second: 0,
				Nakshatra: types.NakshatraOf(95.5),
				Pada:      types.PadaOf(95.5),
			},
		},
		Panchanga: model.PanchangaSnapshot{
			TithiNumber: 10,
			TithiName:   "Dashami",
			Paksha:      "waxing",
			Karana:      "Balava",
			Yoga:        "Shubha",
		},
		Dashas: &model.DashaTimeline{
			Nakshatra:       types.NakshatraOf(5.0),
			ElapsedFraction: 0.375,
			HorizonYears:    120,
			Periods: []model.DashaPeriod{{
				Planet: types.Ketu,
				Start:  start,
				End:    start.AddDate(1, 0, 0),
				Years:  1.0,
				Order:  1,
			}},
		},
		CreatedAt: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
	}
}
