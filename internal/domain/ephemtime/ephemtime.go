// Package ephemtime converts civil birth moments into the ephemeris time
// references and sidereal corrections that every downstream chart
// computation consumes: Julian day numbers in UT and TT, delta-T, and the
// ayanamsa of the selected sidereal reference system.
package ephemtime

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// secondsPerDay converts delta-T seconds into Julian day fractions.
const secondsPerDay = 86400.0

// JulianDay converts a moment to its Julian day number on the proleptic
// Gregorian calendar. The moment is read in UTC, so the result is a UT
// day number.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	day := float64(t.Day()) +
		(float64(t.Hour())+
			float64(t.Minute())/60+
			(float64(t.Second())+float64(t.Nanosecond())/1e9)/3600)/24
	return julian.CalendarGregorianToJD(t.Year(), int(t.Month()), day)
}

// DecimalYear expresses a moment as a fractional calendar year at month
// resolution, the argument convention the delta-T expressions use.
func DecimalYear(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Year()) + (float64(t.Month())-0.5)/12
}

// MomentOf derives the full ephemeris time reference for a birth input.
// The input's own validation errors (bad calendar date, unknown zone)
// propagate unchanged.
func MomentOf(in model.BirthInput) (model.EphemerisMoment, error) {
	ut, err := in.UTC()
	if err != nil {
		return model.EphemerisMoment{}, err
	}
	jdUT := JulianDay(ut)
	dt := DeltaTSeconds(DecimalYear(ut))
	jdTT := jdUT + dt/secondsPerDay
	return model.EphemerisMoment{
		JulianDayUT:   jdUT,
		JulianDayTT:   jdTT,
		DeltaTSeconds: dt,
		Ayanamsa:      types.Round6(Ayanamsa(jdTT, in.System)),
		System:        in.System,
	}, nil
}
