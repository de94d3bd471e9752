// Package dasha builds vimshottari planetary-period timelines anchored to
// the Moon's nakshatra position at birth.
package dasha

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// CycleYears is the span of one full nine-lord cycle.
const CycleYears = 120.0

const (
	cycleLen    = 9
	daysPerYear = 365.25
)

// dashaCycle is the fixed lord order with each lord's major-period
// duration. The durations sum to CycleYears.
var dashaCycle = [cycleLen]struct {
	planet types.Planet
	years  float64
}{
	{types.Ketu, 7},
	{types.Venus, 20},
	{types.Sun, 6},
	{types.Moon, 10},
	{types.Mars, 7},
	{types.Rahu, 18},
	{types.Jupiter, 16},
	{types.Saturn, 19},
	{types.Mercury, 17},
}

// Lord returns the ruling planet of a nakshatra. The 27 nakshatras map
// onto three repetitions of the nine-lord cycle.
func Lord(n types.Nakshatra) (types.Planet, error) {
	if !n.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNakshatra, int(n))
	}
	return dashaCycle[int(n)%cycleLen].planet, nil
}

// MajorYears returns the fixed major-period duration of a dasha lord,
// or 0 for a planet outside the cycle.
func MajorYears(p types.Planet) float64 {
	for _, entry := range dashaCycle {
		if entry.planet == p {
			return entry.years
		}
	}
	return 0
}

// FromMoon derives the anchor nakshatra and elapsed fraction from the
// Moon's sidereal longitude, then builds the timeline.
func FromMoon(moonLongitude float64, birth time.Time, opts ...Option) (model.DashaTimeline, error) {
	lon := types.NormalizeDegrees(moonLongitude)
	elapsed := math.Mod(lon, types.NakshatraSpan) / types.NakshatraSpan
	return Build(types.NakshatraOf(lon), elapsed, birth, opts...)
}

// Build constructs the timeline for an explicit anchor nakshatra and
// elapsed fraction in [0,1). The first period starts at the birth moment
// and lasts only the balance of its lord's duration; subsequent periods
// follow at full duration in cyclic order until the horizon (measured
// from the nominal start of the first period) is covered. At least one
// period is always produced.
func Build(n types.Nakshatra, elapsed float64, birth time.Time, opts ...Option) (model.DashaTimeline, error) {
	if !n.Valid() {
		return model.DashaTimeline{}, fmt.Errorf("%w: %d", ErrInvalidNakshatra, int(n))
	}
	g := newGenerator(opts...)
	if elapsed < 0 || math.IsNaN(elapsed) {
		elapsed = 0
	}
	if elapsed >= 1 {
		elapsed = math.Mod(elapsed, 1)
	}

	start := int(n) % cycleLen
	elapsedYears := elapsed * dashaCycle[start].years

	tl := model.DashaTimeline{
		Nakshatra:       n,
		ElapsedFraction: elapsed,
		HorizonYears:    g.horizonYears,
	}

	cursor := birth
	covered := elapsedYears
	for i := 0; i == 0 || covered < g.horizonYears-1e-9; i++ {
		entry := dashaCycle[(start+i)%cycleLen]
		span := entry.years
		nominalStart := cursor
		if i == 0 {
			span = (1 - elapsed) * entry.years
			nominalStart = birth.Add(-durationOf(elapsedYears))
		}
		end := cursor.Add(durationOf(span))

		period := model.DashaPeriod{
			Planet: entry.planet,
			Start:  cursor,
			End:    end,
			Years:  span,
			Order:  i + 1,
		}
		if g.subPeriods {
			period.SubPeriods = subPeriods(entry.planet, entry.years, nominalStart, cursor)
		}
		tl.Periods = append(tl.Periods, period)

		covered += span
		cursor = end
	}
	return tl, nil
}

// subPeriods expands one major period into its nine sub-periods. The sub
// cycle starts from the major's own lord and is laid out from the major's
// nominal start; sub-periods wholly elapsed before visibleFrom are
// dropped and a partially elapsed one is truncated to start there.
func subPeriods(major types.Planet, majorYears float64, nominalStart, visibleFrom time.Time) []model.DashaPeriod {
	majorIdx := cycleIndex(major)
	subs := make([]model.DashaPeriod, 0, cycleLen)
	cursor := nominalStart
	for j := 0; j < cycleLen; j++ {
		entry := dashaCycle[(majorIdx+j)%cycleLen]
		span := majorYears * entry.years / CycleYears
		start := cursor
		end := cursor.Add(durationOf(span))
		cursor = end

		if !end.After(visibleFrom) {
			continue
		}
		if start.Before(visibleFrom) {
			span = yearsOf(end.Sub(visibleFrom))
			start = visibleFrom
		}
		subs = append(subs, model.DashaPeriod{
			Planet: entry.planet,
			Start:  start,
			End:    end,
			Years:  span,
			Order:  j + 1,
		})
	}
	return subs
}

func cycleIndex(p types.Planet) int {
	for i, entry := range dashaCycle {
		if entry.planet == p {
			return i
		}
	}
	return 0
}

func durationOf(years float64) time.Duration {
	return time.Duration(years * daysPerYear * 24 * float64(time.Hour))
}

func yearsOf(d time.Duration) float64 {
	return d.Hours() / (24 * daysPerYear)
}
