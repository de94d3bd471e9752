// Package panchanga derives the lunar-calendar attributes of a moment
// (tithi, paksha, karana, and yoga) from the angular relationship
// between the Sun and the Moon.
package panchanga

import (
	"math"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// Paksha values carried on snapshots.
const (
	PakshaWaxing = "waxing"
	PakshaWaning = "waning"
)

// tithiSpan is the arc of Sun-Moon separation covered by one lunar day.
const tithiSpan = 12.0

// tithiNames is the fifteen-entry in-fortnight name table. Both
// fortnights share it; the fortnight's final tithi is the last entry.
var tithiNames = [...]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
}

// karanaNames is the full eleven-entry half-tithi table: seven movable
// karanas followed by the four fixed ones.
var karanaNames = [...]string{
	"Bava", "Balava", "Kaulava", "Taitila", "Garaja", "Vanija", "Vishti",
	"Shakuni", "Chatushpada", "Naga", "Kimstughna",
}

// yogaNames is the twenty-seven luni-solar yoga table.
var yogaNames = [...]string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana",
	"Atiganda", "Sukarma", "Dhriti", "Shula", "Ganda", "Vriddhi",
	"Dhruva", "Vyaghata", "Harshana", "Vajra", "Siddhi", "Vyatipata",
	"Variyana", "Parigha", "Shiva", "Siddha", "Sadhya", "Shubha",
	"Shukla", "Brahma", "Indra", "Vaidhriti",
}

// Snapshot derives the lunar-calendar attributes from the Sun and Moon
// sidereal longitudes. Both inputs are normalized before use, so any
// finite longitude is acceptable.
func Snapshot(sunLongitude, moonLongitude float64) model.PanchangaSnapshot {
	sun := types.NormalizeDegrees(sunLongitude)
	moon := types.NormalizeDegrees(moonLongitude)

	tithiAngle := types.NormalizeDegrees(moon - sun)
	tithiNumber := int(tithiAngle/tithiSpan) + 1

	paksha := PakshaWaxing
	if tithiNumber > 15 {
		paksha = PakshaWaning
	}

	karanaIndex := int(math.Mod(tithiAngle, tithiSpan) * 2 / tithiSpan)
	yogaIndex := int(types.NormalizeDegrees(moon+sun) / types.NakshatraSpan)

	return model.PanchangaSnapshot{
		TithiNumber: tithiNumber,
		TithiName:   tithiNames[(tithiNumber-1)%15],
		Paksha:      paksha,
		Karana:      karanaNames[karanaIndex],
		Yoga:        yogaNames[yogaIndex],
	}
}

// TithiName returns the in-fortnight name of a tithi number in [1,30].
func TithiName(n int) string {
	if n < 1 || n > 30 {
		return ""
	}
	return tithiNames[(n-1)%15]
}

// KaranaName returns the nth entry of the karana table, for callers
// rendering the full table.
func KaranaName(i int) string {
	if i < 0 || i >= len(karanaNames) {
		return ""
	}
	return karanaNames[i]
}

// YogaName returns the nth entry of the yoga table.
func YogaName(i int) string {
	if i < 0 || i >= len(yogaNames) {
		return ""
	}
	return yogaNames[i]
}
