// Package model contains domain models passed between layers.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/okian/kundali/internal/domain/types"
)

// Geographic and offset bounds accepted by Validate.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
	// maxUTCOffsetMinutes bounds explicit offsets to ±18h, the widest
	// offset any civil timekeeping convention uses.
	maxUTCOffsetMinutes = 18 * 60
)

// BirthInput is the immutable civil description of a birth moment and
// place, plus the chart options selected for it. Created once per chart
// request; validated before any ephemeris call is made.
type BirthInput struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`

	// Timezone is an optional IANA zone name, e.g. "Asia/Kolkata".
	// When set it takes precedence over UTCOffsetMinutes.
	Timezone string `json:"timezone,omitempty"`
	// UTCOffsetMinutes is the fixed offset east of Greenwich, in minutes.
	UTCOffsetMinutes int `json:"utc_offset_minutes"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	System types.SiderealSystem `json:"sidereal_system"`
	Houses types.HouseSystem    `json:"house_system"`
}

// Validate checks calendar, clock, zone, and geographic ranges.
// It reports ErrInvalidBirthMoment or ErrInvalidLocation before any
// provider call happens.
func (b BirthInput) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidBirthMoment, b.Month)
	}
	if b.Day < 1 || b.Day > 31 {
		return fmt.Errorf("%w: day %d", ErrInvalidBirthMoment, b.Day)
	}
	if b.Hour < 0 || b.Hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidBirthMoment, b.Hour)
	}
	if b.Minute < 0 || b.Minute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidBirthMoment, b.Minute)
	}
	if b.Second < 0 || b.Second > 59 {
		return fmt.Errorf("%w: second %d", ErrInvalidBirthMoment, b.Second)
	}
	if b.Timezone == "" && (b.UTCOffsetMinutes < -maxUTCOffsetMinutes || b.UTCOffsetMinutes > maxUTCOffsetMinutes) {
		return fmt.Errorf("%w: utc offset %d minutes", ErrInvalidBirthMoment, b.UTCOffsetMinutes)
	}
	if _, err := b.UTC(); err != nil {
		return err
	}
	if b.Latitude < minLatitude || b.Latitude > maxLatitude {
		return fmt.Errorf("%w: latitude %v", ErrInvalidLocation, b.Latitude)
	}
	if b.Longitude < minLongitude || b.Longitude > maxLongitude {
		return fmt.Errorf("%w: longitude %v", ErrInvalidLocation, b.Longitude)
	}
	if !b.System.Valid() {
		return fmt.Errorf("%w: %d", types.ErrUnknownSiderealSystem, int(b.System))
	}
	if !b.Houses.Valid() {
		return fmt.Errorf("%w: %d", types.ErrUnknownHouseSystem, int(b.Houses))
	}
	return nil
}

// Location resolves the zone the civil time is expressed in: the named
// IANA zone when present, otherwise a fixed zone at UTCOffsetMinutes.
func (b BirthInput) Location() (*time.Location, error) {
	if b.Timezone != "" {
		loc, err := time.LoadLocation(b.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q", ErrInvalidBirthMoment, b.Timezone)
		}
		return loc, nil
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", b.UTCOffsetMinutes), b.UTCOffsetMinutes*60), nil
}

// UTC returns the birth moment as universal time. Calendar dates that do
// not exist (for example February 30th, or a wall-clock time skipped by a
// DST transition) fail with ErrInvalidBirthMoment.
func (b BirthInput) UTC() (time.Time, error) {
	loc, err := b.Location()
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, b.Second, 0, loc)
	if t.Year() != b.Year || t.Month() != time.Month(b.Month) || t.Day() != b.Day ||
		t.Hour() != b.Hour || t.Minute() != b.Minute || t.Second() != b.Second {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d does not exist",
			ErrInvalidBirthMoment, b.Year, b.Month, b.Day, b.Hour, b.Minute, b.Second)
	}
	return t.UTC(), nil
}

// Fingerprint returns a canonical fingerprint of the input, used for
// recompute avoidance. Two inputs share a fingerprint iff every chart-
// relevant field matches.
func (b BirthInput) Fingerprint() string {
	raw := fmt.Sprintf("%d-%02d-%02dT%02d:%02d:%02d|tz:%s|off:%d|lat:%.6f|lon:%.6f|sys:%s|hs:%s",
		b.Year, b.Month, b.Day, b.Hour, b.Minute, b.Second,
		b.Timezone, b.UTCOffsetMinutes, b.Latitude, b.Longitude, b.System, b.Houses)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
