package ephemtime

import (
	"github.com/soniakeys/meeus/v3/base"

	"github.com/okian/kundali/internal/domain/types"
)

// Lahiri ayanamsa fit: value at J2000.0 plus accumulated general
// precession in longitude.
const (
	lahiriAtJ2000 = 23.853201 // degrees
	// precessionRate and precessionAccel are the arcsecond/year terms of
	// the accumulated-precession polynomial at J2000.
	precessionRate  = 50.28792
	precessionAccel = 0.000111
	arcsecPerDegree = 3600.0
)

// ayanamsaOffsets is the fixed per-system delta from the Lahiri value,
// in degrees. Indexed by types.SiderealSystem.
var ayanamsaOffsets = [...]float64{
	types.Lahiri:       0,
	types.Raman:        -1.393150,
	types.Krishnamurti: -0.098056,
	types.Yukteshwar:   -1.075556,
	types.FaganBradley: 0.883333,
}

// LahiriAyanamsa computes the primary-reference ayanamsa in degrees at
// an ephemeris (TT) Julian day.
func LahiriAyanamsa(jdTT float64) float64 {
	years := base.J2000Century(jdTT) * 100
	arcsec := base.Horner(years, 0, precessionRate, precessionAccel)
	return lahiriAtJ2000 + arcsec/arcsecPerDegree
}

// Ayanamsa computes the ayanamsa in degrees for a sidereal reference
// system at an ephemeris (TT) Julian day. Unsupported systems fall back
// to the primary reference.
func Ayanamsa(jdTT float64, sys types.SiderealSystem) float64 {
	a := LahiriAyanamsa(jdTT)
	if !sys.Valid() {
		return a
	}
	return a + ayanamsaOffsets[sys]
}
