package position

import (
	"math"

	"github.com/okian/kundali/internal/domain/types"
)

// dignityOrb is the half-width of the arc around a reference degree
// within which exaltation or debilitation applies.
const dignityOrb = 5.0

// exaltationDegrees holds each planet's sidereal exaltation point.
// The debilitation point is 180° opposite. Indexed by types.Planet.
var exaltationDegrees = [...]float64{
	types.Sun:     10,  // 10° Aries
	types.Moon:    33,  // 3° Taurus
	types.Mars:    298, // 28° Capricorn
	types.Mercury: 165, // 15° Virgo
	types.Jupiter: 95,  // 5° Cancer
	types.Venus:   357, // 27° Pisces
	types.Saturn:  200, // 20° Libra
	types.Rahu:    50,  // 20° Taurus
	types.Ketu:    230, // 20° Scorpio
}

// naturalBenefics marks planets benefic by nature; all others are
// natural malefics. Indexed by types.Planet.
var naturalBenefics = [...]bool{
	types.Moon:    true,
	types.Mercury: true,
	types.Jupiter: true,
	types.Venus:   true,
	types.Ketu:    false,
}

// friendlySigns lists, per planet, the signs whose occupancy upgrades
// temperament to benefic regardless of natural classification: the
// planet's own signs plus its exaltation sign.
var friendlySigns = [...][]types.Sign{
	types.Sun:     {types.Leo, types.Aries},
	types.Moon:    {types.Cancer, types.Taurus},
	types.Mars:    {types.Aries, types.Scorpio, types.Capricorn},
	types.Mercury: {types.Gemini, types.Virgo},
	types.Jupiter: {types.Sagittarius, types.Pisces, types.Cancer},
	types.Venus:   {types.Taurus, types.Libra, types.Pisces},
	types.Saturn:  {types.Capricorn, types.Aquarius, types.Libra},
	types.Rahu:    {types.Aquarius, types.Taurus},
	types.Ketu:    {types.Scorpio},
}

// dignity reports whether a sidereal longitude falls within the
// exaltation or debilitation orb of the planet.
func dignity(p types.Planet, sidereal float64) (exalted, debilitated bool) {
	if !p.Valid() {
		return false, false
	}
	exalted = angularSeparation(sidereal, exaltationDegrees[p]) <= dignityOrb
	debilitated = angularSeparation(sidereal, exaltationDegrees[p]+180) <= dignityOrb
	return exalted, debilitated
}

// benefic classifies temperament: benefic by nature, or upgraded by
// occupying one of the planet's friendly signs.
func benefic(p types.Planet, sign types.Sign) bool {
	if !p.Valid() {
		return false
	}
	if naturalBenefics[p] {
		return true
	}
	for _, s := range friendlySigns[p] {
		if s == sign {
			return true
		}
	}
	return false
}

// angularSeparation returns the shorter arc between two longitudes.
func angularSeparation(a, b float64) float64 {
	d := math.Abs(types.NormalizeDegrees(a) - types.NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
