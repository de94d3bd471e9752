package ephemtime

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
)

// deltaTSegment is one piece of the piecewise-polynomial delta-T fit.
// The polynomial argument is (year - pivot) / scale.
type deltaTSegment struct {
	until  float64 // exclusive upper bound, decimal years
	pivot  float64
	scale  float64
	coeffs []float64 // constant term first
}

// deltaTSegments is the long-range polynomial fit to delta-T published
// with the Five Millennium Canon of Solar Eclipses (Espenak & Meeus),
// kept as data so each segment is testable in isolation. The 2050-2150
// segment folds its linear correction term into the coefficients.
var deltaTSegments = []deltaTSegment{
	{until: -500, pivot: 1820, scale: 100, coeffs: []float64{-20, 0, 32}},
	{until: 500, pivot: 0, scale: 100, coeffs: []float64{
		10583.6, -1014.41, 33.78311, -5.952053, -0.1798452, 0.022174192, 0.0090316521,
	}},
	{until: 1600, pivot: 1000, scale: 100, coeffs: []float64{
		1574.2, -556.01, 71.23472, 0.319781, -0.8503463, -0.005050998, 0.0083572073,
	}},
	{until: 1700, pivot: 1600, scale: 1, coeffs: []float64{120, -0.9808, -0.01532, 1.0 / 7129}},
	{until: 1800, pivot: 1700, scale: 1, coeffs: []float64{
		8.83, 0.1603, -0.0059285, 0.00013336, -1.0 / 1174000,
	}},
	{until: 1860, pivot: 1800, scale: 1, coeffs: []float64{
		13.72, -0.332447, 0.0068612, 0.0041116, -0.00037436, 0.0000121272, -0.0000001699, 0.000000000875,
	}},
	{until: 1900, pivot: 1860, scale: 1, coeffs: []float64{
		7.62, 0.5737, -0.251754, 0.01680668, -0.0004473624, 1.0 / 233174,
	}},
	{until: 1920, pivot: 1900, scale: 1, coeffs: []float64{
		-2.79, 1.494119, -0.0598939, 0.0061966, -0.000197,
	}},
	{until: 1941, pivot: 1920, scale: 1, coeffs: []float64{21.20, 0.84493, -0.076100, 0.0020936}},
	{until: 1961, pivot: 1950, scale: 1, coeffs: []float64{29.07, 0.407, -1.0 / 233, 1.0 / 2547}},
	{until: 1986, pivot: 1975, scale: 1, coeffs: []float64{45.45, 1.067, -1.0 / 260, -1.0 / 718}},
	{until: 2005, pivot: 2000, scale: 1, coeffs: []float64{
		63.86, 0.3345, -0.060374, 0.0017275, 0.000651814, 0.00002373599,
	}},
	{until: 2050, pivot: 2000, scale: 1, coeffs: []float64{62.92, 0.32217, 0.005589}},
	{until: 2150, pivot: 1820, scale: 100, coeffs: []float64{-205.724, 56.28, 32}},
	{until: math.Inf(1), pivot: 1820, scale: 100, coeffs: []float64{-20, 0, 32}},
}

// DeltaTSeconds evaluates TT - UT for a decimal calendar year.
func DeltaTSeconds(year float64) float64 {
	for _, seg := range deltaTSegments {
		if year < seg.until {
			return base.Horner((year-seg.pivot)/seg.scale, seg.coeffs...)
		}
	}
	// Unreachable: the last segment is unbounded.
	return 0
}
