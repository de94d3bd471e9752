package position_test

import (
	"testing"

	model "github.com/okian/kundali/internal/domain/model"
	position "github.com/okian/kundali/internal/domain/position"
	types "github.com/okian/kundali/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func momentWithAyanamsa(a float64) model.EphemerisMoment {
	return model.EphemerisMoment{
		JulianDayUT: 2447907.0625,
		JulianDayTT: 2447907.063159,
		Ayanamsa:    a,
		System:      types.Lahiri,
	}
}

func TestReduce(t *testing.T) {
	Convey("Given the sidereal reduction pipeline", t, func() {
		m := momentWithAyanamsa(23.714073)

		Convey("When reducing a mid-January Sun position", func() {
			pos := position.Reduce(m, types.Sun, model.RawPosition{
				Longitude:      294.948627,
				SpeedDegPerDay: 1.019,
				DistanceAU:     0.9837,
			})

			Convey("Then the sidereal breakdown should land in Capricorn", func() {
				So(pos.SiderealLongitude, ShouldAlmostEqual, 271.234554, 1e-6)
				So(pos.Sign, ShouldEqual, types.Capricorn)
				So(pos.Degree, ShouldEqual, 1)
				So(pos.Minute, ShouldEqual, 14)
				So(pos.Second, ShouldEqual, 4)
				So(pos.Nakshatra, ShouldEqual, types.Nakshatra(20))
				So(pos.Pada, ShouldEqual, 2)
				So(pos.Retrograde, ShouldBeFalse)
				So(pos.House, ShouldEqual, 0)
			})
		})

		Convey("When the provider reports a negative longitude", func() {
			wrapped := position.Reduce(m, types.Sun, model.RawPosition{Longitude: 294.948627 - 360})

			Convey("Then normalization should yield the same placement", func() {
				So(wrapped.TropicalLongitude, ShouldAlmostEqual, 294.948627, 1e-6)
				So(wrapped.SiderealLongitude, ShouldAlmostEqual, 271.234554, 1e-6)
			})
		})

		Convey("When the planet moves backwards", func() {
			pos := position.Reduce(m, types.Mercury, model.RawPosition{
				Longitude:      280.5,
				SpeedDegPerDay: -1.2,
			})

			Convey("Then the retrograde flag should be set", func() {
				So(pos.Retrograde, ShouldBeTrue)
			})
		})

		Convey("When longitudes carry more than six decimals", func() {
			pos := position.Reduce(momentWithAyanamsa(0), types.Moon, model.RawPosition{
				Longitude: 100.12345649,
			})

			Convey("Then they should round to the serialized precision", func() {
				So(pos.SiderealLongitude, ShouldEqual, 100.123456)
			})
		})
	})
}

func TestDignityAndTemperament(t *testing.T) {
	Convey("Given dignity classification with a zero ayanamsa", t, func() {
		m := momentWithAyanamsa(0)

		Convey("When the Sun sits at its exaltation point", func() {
			pos := position.Reduce(m, types.Sun, model.RawPosition{Longitude: 10})

			Convey("Then it should be exalted and benefic by sign", func() {
				So(pos.Exalted, ShouldBeTrue)
				So(pos.Debilitated, ShouldBeFalse)
				So(pos.Sign, ShouldEqual, types.Aries)
				So(pos.Benefic, ShouldBeTrue)
			})
		})

		Convey("When the Sun sits just inside and just outside the orb", func() {
			inside := position.Reduce(m, types.Sun, model.RawPosition{Longitude: 14.9})
			outside := position.Reduce(m, types.Sun, model.RawPosition{Longitude: 15.1})

			Convey("Then only the inside position should be exalted", func() {
				So(inside.Exalted, ShouldBeTrue)
				So(outside.Exalted, ShouldBeFalse)
			})
		})

		Convey("When the Sun sits opposite its exaltation point", func() {
			pos := position.Reduce(m, types.Sun, model.RawPosition{Longitude: 187.2})

			Convey("Then it should be debilitated and malefic", func() {
				So(pos.Debilitated, ShouldBeTrue)
				So(pos.Exalted, ShouldBeFalse)
				So(pos.Benefic, ShouldBeFalse)
			})
		})

		Convey("When natural benefics sit in unfriendly signs", func() {
			pos := position.Reduce(m, types.Jupiter, model.RawPosition{Longitude: 200})

			Convey("Then they should stay benefic", func() {
				So(pos.Sign, ShouldEqual, types.Libra)
				So(pos.Benefic, ShouldBeTrue)
			})
		})

		Convey("When Saturn occupies one of its own signs", func() {
			own := position.Reduce(m, types.Saturn, model.RawPosition{Longitude: 310})
			foreign := position.Reduce(m, types.Saturn, model.RawPosition{Longitude: 130})

			Convey("Then only the friendly placement should upgrade to benefic", func() {
				So(own.Sign, ShouldEqual, types.Aquarius)
				So(own.Benefic, ShouldBeTrue)
				So(foreign.Sign, ShouldEqual, types.Leo)
				So(foreign.Benefic, ShouldBeFalse)
			})
		})
	})
}

func TestReduceAll(t *testing.T) {
	Convey("Given a full set of raw provider positions", t, func() {
		m := momentWithAyanamsa(0)
		raws := map[types.Planet]model.RawPosition{
			types.Sun:     {Longitude: 294.9, SpeedDegPerDay: 1.02},
			types.Moon:    {Longitude: 123.4, SpeedDegPerDay: 13.2},
			types.Mars:    {Longitude: 230.1, SpeedDegPerDay: 0.52},
			types.Mercury: {Longitude: 280.5, SpeedDegPerDay: -1.2},
			types.Jupiter: {Longitude: 65.2, SpeedDegPerDay: -0.05},
			types.Venus:   {Longitude: 301.7, SpeedDegPerDay: 1.25},
			types.Saturn:  {Longitude: 275.3, SpeedDegPerDay: 0.11},
			types.Rahu:    {Longitude: 50, SpeedDegPerDay: -0.0529},
		}

		Convey("When reducing all planets", func() {
			out := position.ReduceAll(m, raws)

			Convey("Then all nine placements should come back in canonical order", func() {
				So(len(out), ShouldEqual, 9)
				for i, p := range types.AllPlanets() {
					So(out[i].Planet, ShouldEqual, p)
				}
			})

			Convey("And Ketu should mirror Rahu across the ecliptic", func() {
				ketu := out[len(out)-1]
				So(ketu.Planet, ShouldEqual, types.Ketu)
				So(ketu.SiderealLongitude, ShouldAlmostEqual, 230, 1e-9)
				So(ketu.Retrograde, ShouldBeTrue)
				So(ketu.Sign, ShouldEqual, types.Scorpio)
				So(ketu.Exalted, ShouldBeTrue)
			})

			Convey("And Rahu should be exalted at 20 Taurus", func() {
				rahu := out[7]
				So(rahu.Planet, ShouldEqual, types.Rahu)
				So(rahu.Sign, ShouldEqual, types.Taurus)
				So(rahu.Exalted, ShouldBeTrue)
				So(rahu.Retrograde, ShouldBeTrue)
			})
		})

		Convey("When Rahu is missing from the input", func() {
			delete(raws, types.Rahu)
			out := position.ReduceAll(m, raws)

			Convey("Then Ketu should not be derived", func() {
				So(len(out), ShouldEqual, 7)
				for _, pos := range out {
					So(pos.Planet, ShouldNotEqual, types.Ketu)
					So(pos.Planet, ShouldNotEqual, types.Rahu)
				}
			})
		})
	})
}
