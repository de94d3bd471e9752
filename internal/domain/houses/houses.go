// Package houses computes the sidereal ascendant and twelve house cusps
// for a birth place and assigns every planet to exactly one house.
package houses

import (
	"context"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// CuspProvider is the consumed cusp contract: a tropical ascendant and
// twelve cusp longitudes for a UT Julian day, place and house system.
type CuspProvider interface {
	Cusps(ctx context.Context, jdUT, latitude, longitude float64, system types.HouseSystem) (model.RawCusps, error)
}

// Engine derives sidereal house sets from a cusp provider, falling back
// to an equal-house layout when the provider cannot resolve the system.
type Engine struct {
	provider CuspProvider
}

// New returns an engine backed by the given cusp provider.
func New(provider CuspProvider) *Engine {
	return &Engine{provider: provider}
}

// Compute builds the house set for the moment and place and returns the
// positions with their house assignments filled in. The input slice is
// not mutated. Provider failures other than context cancellation switch
// to the fallback path; the result then carries the Degraded flag
// instead of an error.
func (e *Engine) Compute(ctx context.Context, m model.EphemerisMoment, latitude, longitude float64, system types.HouseSystem, positions []model.PlanetaryPosition) (model.HouseSet, []model.PlanetaryPosition, error) {
	raw, err := e.provider.Cusps(ctx, m.JulianDayUT, latitude, longitude, system)
	degraded := false
	if err != nil {
		if ctx.Err() != nil {
			return model.HouseSet{}, nil, fmt.Errorf("cusp provider: %w", err)
		}
		raw = equalFallback(m, longitude)
		degraded = true
	}
	set, placed := Place(buildSet(system, raw, m.Ayanamsa, degraded), positions)
	return set, placed, nil
}

// buildSet reduces raw tropical cusps to the sidereal frame and fills
// each cusp's sign breakdown. Occupant lists are filled by Place.
func buildSet(system types.HouseSystem, raw model.RawCusps, ayanamsa float64, degraded bool) model.HouseSet {
	set := model.HouseSet{
		System:    system,
		Ascendant: ascendant(raw.Ascendant, ayanamsa),
		Degraded:  degraded,
	}
	for i, tropical := range raw.Cusps {
		sid := siderealLongitude(tropical, ayanamsa)
		set.Cusps[i] = model.HouseCusp{
			House:             i + 1,
			SiderealLongitude: sid,
			Sign:              types.SignOf(sid),
			DegreeInSign:      types.Round6(math.Mod(sid, types.SignSpan)),
		}
	}
	return set
}

// ascendant expands the first cusp into its full sidereal breakdown.
func ascendant(tropical, ayanamsa float64) model.AscendantCusp {
	sid := siderealLongitude(tropical, ayanamsa)
	asc := model.AscendantCusp{
		SiderealLongitude: sid,
		Sign:              types.SignOf(sid),
		Nakshatra:         types.NakshatraOf(sid),
		Pada:              types.PadaOf(sid),
	}
	asc.Degree, asc.Minute, asc.Second = types.DMS(math.Mod(sid, types.SignSpan))
	return asc
}

// siderealLongitude applies the ayanamsa and rounds to the serialized
// precision, re-wrapping the one case where rounding reaches 360.
func siderealLongitude(tropical, ayanamsa float64) float64 {
	l := types.Round6(types.NormalizeDegrees(tropical - ayanamsa))
	if l >= 360 {
		l -= 360
	}
	return l
}

// sidereal time is returned in seconds of time; 240 of them per degree.
const secondsPerDegree = 240.0

// equalFallback lays twelve tropical cusps at exact sign-span steps from
// an east-point ascendant proxy. The proxy is the ecliptic degree rising
// due east for an equatorial observer, which is defined at every
// latitude, unlike the quadrant cusp formulas.
func equalFallback(m model.EphemerisMoment, longitude float64) model.RawCusps {
	lst := types.NormalizeDegrees(sidereal.Apparent(m.JulianDayUT).Sec()/secondsPerDegree + longitude)
	obliquity := nutation.MeanObliquity(m.JulianDayTT).Rad()

	x := unit.AngleFromDeg(lst + 90).Rad()
	asc := unit.Angle(math.Atan2(math.Sin(x), math.Cos(x)*math.Cos(obliquity))).Deg()

	raw := model.RawCusps{Ascendant: types.NormalizeDegrees(asc)}
	for i := range raw.Cusps {
		raw.Cusps[i] = types.NormalizeDegrees(raw.Ascendant + float64(i)*types.SignSpan)
	}
	return raw
}
