// Package position reduces raw tropical planetary positions into sidereal
// placements: sign, nakshatra and pada breakdown, retrograde state, and
// dignity and temperament classification.
package position

import (
	"math"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// Reduce derives the full sidereal placement of one planet from its raw
// tropical position. The house field is left unset; the house engine
// assigns it.
func Reduce(m model.EphemerisMoment, planet types.Planet, raw model.RawPosition) model.PlanetaryPosition {
	tropical := roundedLongitude(raw.Longitude)
	sidereal := roundedLongitude(raw.Longitude - m.Ayanamsa)

	pos := model.PlanetaryPosition{
		Planet:            planet,
		TropicalLongitude: tropical,
		Latitude:          raw.Latitude,
		SpeedDegPerDay:    raw.SpeedDegPerDay,
		DistanceAU:        raw.DistanceAU,
		SiderealLongitude: sidereal,
		Sign:              types.SignOf(sidereal),
		Nakshatra:         types.NakshatraOf(sidereal),
		Pada:              types.PadaOf(sidereal),
		Retrograde:        raw.SpeedDegPerDay < 0,
	}
	pos.Degree, pos.Minute, pos.Second = types.DMS(math.Mod(sidereal, types.SignSpan))
	pos.Exalted, pos.Debilitated = dignity(planet, sidereal)
	pos.Benefic = benefic(planet, pos.Sign)
	return pos
}

// ReduceAll reduces every fetched planet and derives Ketu from Rahu.
// Output follows the canonical planet order; planets absent from the
// input are skipped, and Ketu appears only when Rahu does.
func ReduceAll(m model.EphemerisMoment, raws map[types.Planet]model.RawPosition) []model.PlanetaryPosition {
	out := make([]model.PlanetaryPosition, 0, len(raws)+1)
	for _, planet := range types.AllPlanets() {
		if planet == types.Ketu {
			if rahu, ok := raws[types.Rahu]; ok {
				out = append(out, Reduce(m, types.Ketu, oppositeNode(rahu)))
			}
			continue
		}
		raw, ok := raws[planet]
		if !ok {
			continue
		}
		out = append(out, Reduce(m, planet, raw))
	}
	return out
}

// oppositeNode mirrors Rahu's raw position onto Ketu: 180° away on the
// ecliptic with the same (retrograde) motion.
func oppositeNode(rahu model.RawPosition) model.RawPosition {
	return model.RawPosition{
		Longitude:      types.NormalizeDegrees(rahu.Longitude + 180),
		Latitude:       -rahu.Latitude,
		SpeedDegPerDay: rahu.SpeedDegPerDay,
		DistanceAU:     rahu.DistanceAU,
	}
}

// roundedLongitude normalizes to [0,360) and rounds to the serialized
// precision, re-wrapping the one case where rounding reaches 360.
func roundedLongitude(deg float64) float64 {
	l := types.Round6(types.NormalizeDegrees(deg))
	if l >= 360 {
		l -= 360
	}
	return l
}
