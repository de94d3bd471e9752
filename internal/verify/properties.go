package verify

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/kundali/internal/domain/dasha"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

const (
	longitudeTolerance = 1e-6
	yearsTolerance     = 1e-6
	// Rahu and Ketu longitudes round to serialized precision
	// independently, so their separation can sit a full rounding step
	// away from exact opposition.
	oppositionTolerance = 2e-6
)

// vimshottariOrder is the canonical nine-lord sequence the timeline must
// follow, stated independently of the dasha package tables.
var vimshottariOrder = []types.Planet{
	types.Ketu, types.Venus, types.Sun, types.Moon, types.Mars,
	types.Rahu, types.Jupiter, types.Saturn, types.Mercury,
}

// checkChart runs every chart-level invariant. It returns how many
// checks ran and the failures.
func checkChart(chart model.BirthChart) (int, []Violation) {
	checks := []struct {
		name  string
		check func(model.BirthChart) error
	}{
		{"position_ranges", positionRanges},
		{"canonical_order", canonicalOrder},
		{"ketu_opposition", ketuOpposition},
		{"house_partition", housePartition},
		{"tithi_coherence", tithiCoherence},
	}

	var violations []Violation
	for _, c := range checks {
		if err := c.check(chart); err != nil {
			violations = append(violations, Violation{
				Input:    chart.Input,
				Property: c.name,
				Detail:   err.Error(),
			})
		}
	}
	return len(checks), violations
}

// positionRanges asserts every serialized position is internally
// consistent: longitudes in [0,360), sign/nakshatra/pada re-derivable
// from the longitude, house in [1,12].
func positionRanges(chart model.BirthChart) error {
	for _, pos := range chart.Positions {
		lon := pos.SiderealLongitude
		if lon < 0 || lon >= 360 {
			return fmt.Errorf("%s sidereal longitude %v out of range", pos.Planet, lon)
		}
		if pos.TropicalLongitude < 0 || pos.TropicalLongitude >= 360 {
			return fmt.Errorf("%s tropical longitude %v out of range", pos.Planet, pos.TropicalLongitude)
		}
		if pos.Sign != types.SignOf(lon) {
			return fmt.Errorf("%s sign %s does not match longitude %v", pos.Planet, pos.Sign, lon)
		}
		if pos.Nakshatra != types.NakshatraOf(lon) {
			return fmt.Errorf("%s nakshatra %s does not match longitude %v", pos.Planet, pos.Nakshatra, lon)
		}
		if pos.Pada != types.PadaOf(lon) || pos.Pada < 1 || pos.Pada > 4 {
			return fmt.Errorf("%s pada %d does not match longitude %v", pos.Planet, pos.Pada, lon)
		}
		if pos.House < 1 || pos.House > 12 {
			return fmt.Errorf("%s house %d out of range", pos.Planet, pos.House)
		}
	}
	return nil
}

// canonicalOrder asserts all nine grahas are present in canonical order.
func canonicalOrder(chart model.BirthChart) error {
	want := types.AllPlanets()
	if len(chart.Positions) != len(want) {
		return fmt.Errorf("%d positions, want %d", len(chart.Positions), len(want))
	}
	for i, pos := range chart.Positions {
		if pos.Planet != want[i] {
			return fmt.Errorf("position %d is %s, want %s", i, pos.Planet, want[i])
		}
	}
	return nil
}

// ketuOpposition asserts Ketu sits exactly opposite Rahu with mirrored
// latitude and the same speed.
func ketuOpposition(chart model.BirthChart) error {
	rahu, okRahu := chart.Position(types.Rahu)
	ketu, okKetu := chart.Position(types.Ketu)
	if !okRahu || !okKetu {
		return fmt.Errorf("nodes missing: rahu=%v ketu=%v", okRahu, okKetu)
	}

	diff := math.Mod(ketu.SiderealLongitude-rahu.SiderealLongitude+360, 360)
	if math.Abs(diff-180) > oppositionTolerance {
		return fmt.Errorf("node separation %v, want 180", diff)
	}
	if math.Abs(ketu.Latitude+rahu.Latitude) > longitudeTolerance {
		return fmt.Errorf("ketu latitude %v is not the mirror of rahu latitude %v", ketu.Latitude, rahu.Latitude)
	}
	if math.Abs(ketu.SpeedDegPerDay-rahu.SpeedDegPerDay) > longitudeTolerance {
		return fmt.Errorf("node speeds differ: rahu %v ketu %v", rahu.SpeedDegPerDay, ketu.SpeedDegPerDay)
	}
	return nil
}

// housePartition asserts the twelve cusps are numbered in order and that
// the cusp occupant lists place every graha in exactly one house, in
// agreement with each position's own house number.
func housePartition(chart model.BirthChart) error {
	seen := make(map[types.Planet]int, len(chart.Positions))
	occupants := 0
	for i, cusp := range chart.Houses.Cusps {
		if cusp.House != i+1 {
			return fmt.Errorf("cusp %d numbered %d", i, cusp.House)
		}
		if cusp.SiderealLongitude < 0 || cusp.SiderealLongitude >= 360 {
			return fmt.Errorf("cusp %d longitude %v out of range", cusp.House, cusp.SiderealLongitude)
		}
		for _, planet := range cusp.Planets {
			if prev, dup := seen[planet]; dup {
				return fmt.Errorf("%s occupies houses %d and %d", planet, prev, cusp.House)
			}
			seen[planet] = cusp.House
			occupants++
		}
	}

	if occupants != len(chart.Positions) {
		return fmt.Errorf("%d occupants across cusps, want %d", occupants, len(chart.Positions))
	}
	for _, pos := range chart.Positions {
		if seen[pos.Planet] != pos.House {
			return fmt.Errorf("%s listed in house %d but positioned in %d", pos.Planet, seen[pos.Planet], pos.House)
		}
	}
	return nil
}

// tithiCoherence asserts the panchanga attributes agree with each other.
func tithiCoherence(chart model.BirthChart) error {
	p := chart.Panchanga
	if p.TithiNumber < 1 || p.TithiNumber > 30 {
		return fmt.Errorf("tithi number %d out of range", p.TithiNumber)
	}
	wantPaksha := "waxing"
	if p.TithiNumber > 15 {
		wantPaksha = "waning"
	}
	if p.Paksha != wantPaksha {
		return fmt.Errorf("tithi %d has paksha %q, want %q", p.TithiNumber, p.Paksha, wantPaksha)
	}
	if p.TithiName == "" || p.Karana == "" || p.Yoga == "" {
		return fmt.Errorf("empty panchanga attribute: tithi=%q karana=%q yoga=%q", p.TithiName, p.Karana, p.Yoga)
	}
	return nil
}

// dashaCoverage asserts the timeline starts at birth, follows the
// nine-lord order gap-free and covers the horizon.
func dashaCoverage(tl model.DashaTimeline, birth time.Time) error {
	if len(tl.Periods) == 0 {
		return fmt.Errorf("empty timeline")
	}
	if !tl.Periods[0].Start.Equal(birth) {
		return fmt.Errorf("first period starts %v, want birth %v", tl.Periods[0].Start, birth)
	}

	anchor, err := dasha.Lord(tl.Nakshatra)
	if err != nil {
		return err
	}
	if tl.Periods[0].Planet != anchor {
		return fmt.Errorf("first lord %s, want %s for %s", tl.Periods[0].Planet, anchor, tl.Nakshatra)
	}

	anchorIdx := 0
	for i, planet := range vimshottariOrder {
		if planet == anchor {
			anchorIdx = i
		}
	}

	total := tl.ElapsedFraction * dasha.MajorYears(anchor)
	for i, period := range tl.Periods {
		if period.Order != i+1 {
			return fmt.Errorf("period %d has order %d", i, period.Order)
		}
		if want := vimshottariOrder[(anchorIdx+i)%len(vimshottariOrder)]; period.Planet != want {
			return fmt.Errorf("period %d lord %s, want %s", i, period.Planet, want)
		}
		if period.Years <= 0 || !period.End.After(period.Start) {
			return fmt.Errorf("period %d span %v years is not positive", i, period.Years)
		}
		if i > 0 && !period.Start.Equal(tl.Periods[i-1].End) {
			return fmt.Errorf("gap before period %d", i)
		}
		total += period.Years
	}

	if total < tl.HorizonYears-yearsTolerance {
		return fmt.Errorf("timeline covers %v years, want at least %v", total, tl.HorizonYears)
	}
	if total > tl.HorizonYears+dasha.CycleYears/6+yearsTolerance {
		return fmt.Errorf("timeline overshoots horizon: %v years for horizon %v", total, tl.HorizonYears)
	}
	return nil
}

// d1Identity asserts the D1 varga reproduces the rashi chart exactly.
func d1Identity(chart model.BirthChart, d1 model.DivisionalChart) error {
	if d1.Division != types.D1 {
		return fmt.Errorf("division %s, want D1", d1.Division)
	}
	if want := types.SignOf(chart.Houses.Ascendant.SiderealLongitude); d1.Ascendant != want {
		return fmt.Errorf("D1 ascendant %s, want %s", d1.Ascendant, want)
	}
	for _, pos := range chart.Positions {
		if placed, ok := d1.Placements[pos.Planet]; !ok || placed != pos.Sign {
			return fmt.Errorf("D1 places %s in %s, want %s", pos.Planet, placed, pos.Sign)
		}
	}
	return nil
}

// panchangaDeterminism asserts a standalone panchanga computation for
// the same input reproduces the chart's snapshot.
func panchangaDeterminism(chart model.BirthChart, snapshot model.PanchangaSnapshot) error {
	if snapshot != chart.Panchanga {
		return fmt.Errorf("snapshot %+v differs from chart panchanga %+v", snapshot, chart.Panchanga)
	}
	return nil
}
