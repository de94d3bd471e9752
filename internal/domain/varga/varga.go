// Package varga transforms a sidereal chart into divisional charts. Each
// supported division factor carries its own sign-remapping rule, matched
// exhaustively over the closed division set so that adding or auditing
// a rule is a compile-checked change.
package varga

import (
	"fmt"
	"math"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// labels holds the fixed interpretive label of each divisional chart.
// Indexed by types.Division.
var labels = [...]string{
	types.D1:  "Rashi",
	types.D9:  "Navamsa",
	types.D10: "Dashamsa",
	types.D12: "Dwadashamsa",
	types.D30: "Trimshamsa",
	types.D60: "Shashtiamsa",
}

// trimshamsaBands maps the five unequal degree bands of the D30 chart to
// sign offsets from the original sign.
var trimshamsaBands = []struct {
	upTo   float64
	offset int
}{
	{upTo: 5, offset: 8},
	{upTo: 10, offset: 4},
	{upTo: 18, offset: 0},
	{upTo: 25, offset: 6},
	{upTo: 30, offset: 2},
}

// Label returns the interpretive label of a division, or "" for an
// invalid one.
func Label(d types.Division) string {
	if !d.Valid() {
		return ""
	}
	return labels[d]
}

// Transform re-maps the ascendant and every planetary position into the
// requested divisional chart. Placements are sign-only; house numbers
// are not re-derived.
func Transform(d types.Division, ascendant float64, positions []model.PlanetaryPosition) (model.DivisionalChart, error) {
	if !d.Valid() {
		return model.DivisionalChart{}, fmt.Errorf("%w: %d", ErrUnsupportedDivision, int(d))
	}
	out := model.DivisionalChart{
		Division:   d,
		Label:      labels[d],
		Ascendant:  SignFor(d, ascendant),
		Placements: make(map[types.Planet]types.Sign, len(positions)),
	}
	for _, pos := range positions {
		out.Placements[pos.Planet] = SignFor(d, pos.SiderealLongitude)
	}
	return out, nil
}

// TransformFactor resolves an integer division factor and transforms.
// Factors outside the supported set fail with ErrUnsupportedDivision.
func TransformFactor(factor int, ascendant float64, positions []model.PlanetaryPosition) (model.DivisionalChart, error) {
	d, ok := types.DivisionByFactor(factor)
	if !ok {
		return model.DivisionalChart{}, fmt.Errorf("%w: %d", ErrUnsupportedDivision, factor)
	}
	return Transform(d, ascendant, positions)
}

// SignFor computes the divisional sign for one sidereal longitude.
func SignFor(d types.Division, longitude float64) types.Sign {
	longitude = types.NormalizeDegrees(longitude)
	sign := types.SignOf(longitude)
	degreesInSign := math.Mod(longitude, types.SignSpan)
	idx := int(degreesInSign * float64(d.Factor()) / types.SignSpan)

	switch d {
	case types.D1:
		return sign
	case types.D9:
		// Signs group into four element triads; the ninth parts walk the
		// triad the sign anchors.
		return types.Sign((3*(int(sign)/3) + idx) % 12)
	case types.D10:
		if int(sign)%2 == 0 {
			return types.Sign(idx)
		}
		return types.Sign((idx + 9) % 12)
	case types.D12:
		return types.Sign(idx)
	case types.D30:
		for _, band := range trimshamsaBands {
			if degreesInSign < band.upTo {
				return types.Sign((int(sign) + band.offset) % 12)
			}
		}
		// degreesInSign < 30 always matches a band.
		return sign
	case types.D60:
		return types.Sign(idx % 12)
	}
	return sign
}
