// Package types contains the shared astrological vocabulary used across the
// application: planets, zodiac signs, nakshatras, sidereal reference systems,
// house systems, divisional chart factors, and the angle helpers that every
// computation layer depends on.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Angular spans of the fixed zodiac subdivisions, in degrees.
const (
	// SignSpan is the width of one zodiac sign.
	SignSpan = 30.0
	// NakshatraSpan is the width of one lunar mansion (13°20').
	NakshatraSpan = 360.0 / 27.0
	// PadaSpan is the width of one nakshatra quarter (3°20').
	PadaSpan = 360.0 / 108.0
)

// Planet identifies one of the nine grahas used in sidereal charts.
// Rahu and Ketu are the lunar nodes; Ketu is always derived from Rahu
// rather than fetched from an ephemeris provider.
type Planet int

// The nine chart bodies in traditional order.
const (
	Sun Planet = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

var planetNames = [...]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mars:    "Mars",
	Mercury: "Mercury",
	Jupiter: "Jupiter",
	Venus:   "Venus",
	Saturn:  "Saturn",
	Rahu:    "Rahu",
	Ketu:    "Ketu",
}

// AllPlanets returns the nine chart bodies in canonical order.
func AllPlanets() []Planet {
	return []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}
}

// FetchedPlanets returns the bodies queried from an ephemeris provider.
// Ketu is excluded; the position pipeline derives it from Rahu.
func FetchedPlanets() []Planet {
	return []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu}
}

// Valid reports whether p is one of the nine chart bodies.
func (p Planet) Valid() bool {
	return p >= Sun && p <= Ketu
}

func (p Planet) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Planet(%d)", int(p))
	}
	return planetNames[p]
}

// ParsePlanet resolves a planet from its name, case-insensitively.
func ParsePlanet(s string) (Planet, error) {
	for i, name := range planetNames {
		if strings.EqualFold(s, name) {
			return Planet(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlanet, s)
}

// MarshalText encodes the planet as its canonical name. Implementing
// the text interfaces (rather than the JSON ones) lets planets serve as
// JSON map keys in divisional chart placements.
func (p Planet) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlanet, int(p))
	}
	return []byte(planetNames[p]), nil
}

// UnmarshalText decodes a planet from its name.
func (p *Planet) UnmarshalText(text []byte) error {
	parsed, err := ParsePlanet(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Sign is a zodiac sign index in [0,11], Aries through Pisces.
type Sign int

// The twelve signs in zodiacal order.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	Aries:       "Aries",
	Taurus:      "Taurus",
	Gemini:      "Gemini",
	Cancer:      "Cancer",
	Leo:         "Leo",
	Virgo:       "Virgo",
	Libra:       "Libra",
	Scorpio:     "Scorpio",
	Sagittarius: "Sagittarius",
	Capricorn:   "Capricorn",
	Aquarius:    "Aquarius",
	Pisces:      "Pisces",
}

// SignOf returns the sign containing the given ecliptic longitude.
// The longitude is normalized first, so any finite value is acceptable.
func SignOf(longitude float64) Sign {
	return Sign(int(NormalizeDegrees(longitude) / SignSpan))
}

// Valid reports whether s is in [Aries, Pisces].
func (s Sign) Valid() bool {
	return s >= Aries && s <= Pisces
}

func (s Sign) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// ParseSign resolves a sign from its name, case-insensitively.
func ParseSign(s string) (Sign, error) {
	for i, name := range signNames {
		if strings.EqualFold(s, name) {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSign, s)
}

// MarshalText encodes the sign as its canonical name.
func (s Sign) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSign, int(s))
	}
	return []byte(signNames[s]), nil
}

// UnmarshalText decodes a sign from its name.
func (s *Sign) UnmarshalText(text []byte) error {
	parsed, err := ParseSign(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Nakshatra is a lunar mansion index in [0,26], Ashwini through Revati.
type Nakshatra int

var nakshatraNames = [...]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

// NakshatraOf returns the lunar mansion containing the given longitude.
func NakshatraOf(longitude float64) Nakshatra {
	return Nakshatra(int(NormalizeDegrees(longitude) / NakshatraSpan))
}

// PadaOf returns the quarter (1-4) of the nakshatra containing the
// given longitude.
func PadaOf(longitude float64) int {
	within := math.Mod(NormalizeDegrees(longitude), NakshatraSpan)
	return int(within/PadaSpan) + 1
}

// Valid reports whether n is in [0,26].
func (n Nakshatra) Valid() bool {
	return n >= 0 && int(n) < len(nakshatraNames)
}

func (n Nakshatra) String() string {
	if !n.Valid() {
		return fmt.Sprintf("Nakshatra(%d)", int(n))
	}
	return nakshatraNames[n]
}

// ParseNakshatra resolves a nakshatra from its name, case-insensitively.
func ParseNakshatra(s string) (Nakshatra, error) {
	for i, name := range nakshatraNames {
		if strings.EqualFold(s, name) {
			return Nakshatra(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNakshatra, s)
}

// MarshalText encodes the nakshatra as its canonical name.
func (n Nakshatra) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNakshatra, int(n))
	}
	return []byte(nakshatraNames[n]), nil
}

// UnmarshalText decodes a nakshatra from its name.
func (n *Nakshatra) UnmarshalText(text []byte) error {
	parsed, err := ParseNakshatra(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// SiderealSystem selects the ayanamsa reference frame used to reduce
// tropical longitudes to sidereal ones.
type SiderealSystem int

// The five supported sidereal reference systems. Lahiri is the default.
const (
	Lahiri SiderealSystem = iota
	Raman
	Krishnamurti
	Yukteshwar
	FaganBradley
)

var siderealSystemNames = [...]string{
	Lahiri:       "lahiri",
	Raman:        "raman",
	Krishnamurti: "krishnamurti",
	Yukteshwar:   "yukteshwar",
	FaganBradley: "fagan_bradley",
}

// AllSiderealSystems returns the supported reference systems.
func AllSiderealSystems() []SiderealSystem {
	return []SiderealSystem{Lahiri, Raman, Krishnamurti, Yukteshwar, FaganBradley}
}

// Valid reports whether s is a supported reference system.
func (s SiderealSystem) Valid() bool {
	return s >= Lahiri && s <= FaganBradley
}

func (s SiderealSystem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("SiderealSystem(%d)", int(s))
	}
	return siderealSystemNames[s]
}

// ParseSiderealSystem resolves a reference system from its token,
// case-insensitively.
func ParseSiderealSystem(s string) (SiderealSystem, error) {
	for i, name := range siderealSystemNames {
		if strings.EqualFold(s, name) {
			return SiderealSystem(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSiderealSystem, s)
}

// MarshalText encodes the system as its token.
func (s SiderealSystem) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSiderealSystem, int(s))
	}
	return []byte(siderealSystemNames[s]), nil
}

// UnmarshalText decodes a system from its token.
func (s *SiderealSystem) UnmarshalText(text []byte) error {
	parsed, err := ParseSiderealSystem(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// HouseSystem selects the cusp formula used by the house engine.
type HouseSystem int

// The eight supported house systems. Placidus is the default.
const (
	Placidus HouseSystem = iota
	Koch
	Regiomontanus
	Campanus
	Porphyry
	Alcabitius
	Equal
	WholeSign
)

var houseSystemNames = [...]string{
	Placidus:      "placidus",
	Koch:          "koch",
	Regiomontanus: "regiomontanus",
	Campanus:      "campanus",
	Porphyry:      "porphyry",
	Alcabitius:    "alcabitius",
	Equal:         "equal",
	WholeSign:     "whole_sign",
}

// AllHouseSystems returns the supported house systems.
func AllHouseSystems() []HouseSystem {
	return []HouseSystem{
		Placidus, Koch, Regiomontanus, Campanus,
		Porphyry, Alcabitius, Equal, WholeSign,
	}
}

// Valid reports whether h is a supported house system.
func (h HouseSystem) Valid() bool {
	return h >= Placidus && h <= WholeSign
}

func (h HouseSystem) String() string {
	if !h.Valid() {
		return fmt.Sprintf("HouseSystem(%d)", int(h))
	}
	return houseSystemNames[h]
}

// ParseHouseSystem resolves a house system from its token,
// case-insensitively.
func ParseHouseSystem(s string) (HouseSystem, error) {
	for i, name := range houseSystemNames {
		if strings.EqualFold(s, name) {
			return HouseSystem(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHouseSystem, s)
}

// MarshalText encodes the house system as its token.
func (h HouseSystem) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHouseSystem, int(h))
	}
	return []byte(houseSystemNames[h]), nil
}

// UnmarshalText decodes a house system from its token.
func (h *HouseSystem) UnmarshalText(text []byte) error {
	parsed, err := ParseHouseSystem(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Division identifies one of the supported divisional (varga) charts.
// The set is closed: every transform rule is matched exhaustively, so
// adding a division is a compile-checked change.
type Division int

// The supported divisional charts.
const (
	D1 Division = iota
	D9
	D10
	D12
	D30
	D60
)

var divisionFactors = [...]int{
	D1:  1,
	D9:  9,
	D10: 10,
	D12: 12,
	D30: 30,
	D60: 60,
}

// AllDivisions returns the supported divisional charts in factor order.
func AllDivisions() []Division {
	return []Division{D1, D9, D10, D12, D30, D60}
}

// DivisionByFactor resolves a division factor (1, 9, 10, 12, 30, 60) to
// its Division. The second return is false for unsupported factors.
func DivisionByFactor(n int) (Division, bool) {
	for d, f := range divisionFactors {
		if f == n {
			return Division(d), true
		}
	}
	return 0, false
}

// Factor returns the division factor (number of parts per sign).
func (d Division) Factor() int {
	if !d.Valid() {
		return 0
	}
	return divisionFactors[d]
}

// Valid reports whether d is a supported division.
func (d Division) Valid() bool {
	return d >= D1 && d <= D60
}

func (d Division) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Division(%d)", int(d))
	}
	return fmt.Sprintf("D%d", divisionFactors[d])
}

// MarshalJSON encodes the division as its integer factor.
func (d Division) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDivision, int(d))
	}
	return json.Marshal(divisionFactors[d])
}

// UnmarshalJSON decodes a division from its integer factor.
func (d *Division) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	parsed, ok := DivisionByFactor(n)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDivision, n)
	}
	*d = parsed
	return nil
}

// NormalizeDegrees maps any finite angle to [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// DMS splits a non-negative degree value into whole degrees, minutes,
// and seconds, rounded to the nearest second.
func DMS(deg float64) (d, m, s int) {
	total := int(math.Round(deg * 3600))
	return total / 3600, (total % 3600) / 60, total % 60
}

// Round6 rounds a degree value to six decimal places, the precision used
// for every serialized longitude.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
