package model

import (
	"time"

	"github.com/okian/kundali/internal/domain/types"
)

// EphemerisMoment is the time reference every downstream computation
// consumes: the UT and ephemeris (TT) Julian day numbers, the delta-T
// bridging them, and the ayanamsa for the selected sidereal system.
// Derived once per chart request.
type EphemerisMoment struct {
	JulianDayUT   float64              `json:"julian_day_ut"`
	JulianDayTT   float64              `json:"julian_day_tt"`
	DeltaTSeconds float64              `json:"delta_t_seconds"`
	Ayanamsa      float64              `json:"ayanamsa"`
	System        types.SiderealSystem `json:"sidereal_system"`
}

// RawPosition is a tropical position exactly as an ephemeris provider
// returned it, before any sidereal reduction.
type RawPosition struct {
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	SpeedDegPerDay float64 `json:"speed_deg_per_day"`
	DistanceAU     float64 `json:"distance_au"`
}

// RawCusps is a tropical ascendant and cusp set exactly as a cusp
// provider returned it, before sidereal reduction. Cusps[0] is house 1.
type RawCusps struct {
	Ascendant float64     `json:"ascendant"`
	Cusps     [12]float64 `json:"cusps"`
}

// PlanetaryPosition is one planet's fully reduced placement. Tropical
// fields arrive from the ephemeris provider; everything else is derived
// by the position pipeline, except House which the house engine fills in.
type PlanetaryPosition struct {
	Planet types.Planet `json:"planet"`

	TropicalLongitude float64 `json:"tropical_longitude"`
	Latitude          float64 `json:"latitude"`
	SpeedDegPerDay    float64 `json:"speed_deg_per_day"`
	DistanceAU        float64 `json:"distance_au"`

	SiderealLongitude float64         `json:"sidereal_longitude"`
	Sign              types.Sign      `json:"sign"`
	Degree            int             `json:"degree"`
	Minute            int             `json:"minute"`
	Second            int             `json:"second"`
	Nakshatra         types.Nakshatra `json:"nakshatra"`
	Pada              int             `json:"pada"`

	Retrograde  bool `json:"retrograde"`
	Exalted     bool `json:"exalted"`
	Debilitated bool `json:"debilitated"`
	Benefic     bool `json:"benefic"`

	// House is the assigned house number in [1,12], or 0 before the
	// house engine has run.
	House int `json:"house"`
}

// AscendantCusp is the first house cusp with its full sidereal breakdown.
type AscendantCusp struct {
	SiderealLongitude float64         `json:"sidereal_longitude"`
	Sign              types.Sign      `json:"sign"`
	Degree            int             `json:"degree"`
	Minute            int             `json:"minute"`
	Second            int             `json:"second"`
	Nakshatra         types.Nakshatra `json:"nakshatra"`
	Pada              int             `json:"pada"`
}

// HouseCusp is one of the twelve house boundaries and its occupants.
type HouseCusp struct {
	// House is the house number in [1,12].
	House             int        `json:"house"`
	SiderealLongitude float64    `json:"sidereal_longitude"`
	Sign              types.Sign `json:"sign"`
	DegreeInSign      float64    `json:"degree_in_sign"`
	// Planets lists occupants in ascending sidereal longitude order.
	Planets []types.Planet `json:"planets"`
}

// HouseSet is the computed ascendant plus the twelve cusps. The cusps
// partition the circle into twelve circularly ordered arcs. Degraded
// marks the equal-house fallback path; it signals lower confidence, not
// an error.
type HouseSet struct {
	System    types.HouseSystem `json:"system"`
	Ascendant AscendantCusp     `json:"ascendant"`
	Cusps     [12]HouseCusp     `json:"cusps"`
	Degraded  bool              `json:"degraded"`
}

// PanchangaSnapshot carries the lunar-calendar attributes of the birth
// moment, all derived from the Sun and Moon sidereal longitudes.
type PanchangaSnapshot struct {
	// TithiNumber is the lunar day in [1,30].
	TithiNumber int    `json:"tithi_number"`
	TithiName   string `json:"tithi_name"`
	// Paksha is "waxing" for tithis 1-15 and "waning" for 16-30.
	Paksha string `json:"paksha"`
	Karana string `json:"karana"`
	Yoga   string `json:"yoga"`
}

// DivisionalChart is one varga: every planet (and the ascendant)
// re-mapped to a divisional sign. Placements are sign-only; house
// numbers are not re-derived for divisional charts.
type DivisionalChart struct {
	Division   types.Division              `json:"division"`
	Label      string                      `json:"label"`
	Ascendant  types.Sign                  `json:"ascendant"`
	Placements map[types.Planet]types.Sign `json:"placements"`
}

// DashaPeriod is one planetary period. Years is the period's actual
// span in dasha years, which for the first major period is the balance
// remaining at birth rather than the planet's full duration.
type DashaPeriod struct {
	Planet types.Planet `json:"planet"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Years  float64      `json:"years"`
	// Order is the 1-based position within the enclosing sequence.
	Order      int           `json:"order"`
	SubPeriods []DashaPeriod `json:"sub_periods,omitempty"`
}

// DashaTimeline is the ordered, gap-free vimshottari sequence anchored
// to the Moon's birth nakshatra.
type DashaTimeline struct {
	// Nakshatra is the Moon's birth nakshatra the timeline is anchored to.
	Nakshatra types.Nakshatra `json:"nakshatra"`
	// ElapsedFraction is how far the Moon had progressed through that
	// nakshatra at birth, in [0,1).
	ElapsedFraction float64       `json:"elapsed_fraction"`
	HorizonYears    float64       `json:"horizon_years"`
	Periods         []DashaPeriod `json:"periods"`
}

// BirthChart is the aggregate chart result. It is assembled once per
// request and never mutated afterwards; divisional charts and the dasha
// timeline may be filled lazily.
type BirthChart struct {
	ID        string              `json:"id"`
	Input     BirthInput          `json:"input"`
	Moment    EphemerisMoment     `json:"moment"`
	Positions []PlanetaryPosition `json:"positions"`
	Houses    HouseSet            `json:"houses"`
	Panchanga PanchangaSnapshot   `json:"panchanga"`
	Vargas    []DivisionalChart   `json:"vargas,omitempty"`
	Dashas    *DashaTimeline      `json:"dashas,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Position returns the placement of one planet, if present.
func (c *BirthChart) Position(p types.Planet) (PlanetaryPosition, bool) {
	for _, pos := range c.Positions {
		if pos.Planet == p {
			return pos, true
		}
	}
	return PlanetaryPosition{}, false
}
