package verify

import (
	"crypto/rand"
	"math/big"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// Generation ranges. Polar latitudes stay in so the house fallback path
// gets exercised.
const (
	yearMin  = 1900
	yearSpan = 200
	// dayMax stops at 28 so every month is a legal calendar date.
	dayMax  = 28
	latSpan = 178.0
	lonSpan = 360.0

	offsetMinMinutes  = -720
	offsetStepMinutes = 15
	offsetSteps       = 105 // -12h through +14h

	randomFloatDivisor = 1000000
)

// timezones sampled by the generator. The empty name selects a fixed
// UTC offset instead.
var timezones = []string{
	"",
	"UTC",
	"America/New_York",
	"Europe/London",
	"Asia/Kolkata",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// randomInt returns a uniform value in [0,n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomFloat returns a uniform value in [0,1).
func randomFloat() float64 {
	return float64(randomInt(randomFloatDivisor)) / randomFloatDivisor
}

// randomInput produces a birth input that passes domain validation.
// Wall-clock times swallowed by a DST transition are regenerated; the
// fallback moment is only reached if five candidates in a row land in
// a gap.
func randomInput() model.BirthInput {
	for attempt := 0; attempt < 5; attempt++ {
		in := candidateInput()
		if in.Validate() == nil {
			return in
		}
	}
	return model.BirthInput{
		Year: 2000, Month: 1, Day: 1, Hour: 12,
		Timezone: "UTC",
	}
}

func candidateInput() model.BirthInput {
	systems := types.AllSiderealSystems()
	houseSystems := types.AllHouseSystems()

	in := model.BirthInput{
		Year:      yearMin + randomInt(yearSpan),
		Month:     1 + randomInt(12),
		Day:       1 + randomInt(dayMax),
		Hour:      randomInt(24),
		Minute:    randomInt(60),
		Second:    randomInt(60),
		Latitude:  -latSpan/2 + randomFloat()*latSpan,
		Longitude: -lonSpan/2 + randomFloat()*lonSpan,
		System:    systems[randomInt(len(systems))],
		Houses:    houseSystems[randomInt(len(houseSystems))],
	}

	if tz := timezones[randomInt(len(timezones))]; tz != "" {
		in.Timezone = tz
	} else {
		in.UTCOffsetMinutes = offsetMinMinutes + offsetStepMinutes*randomInt(offsetSteps)
	}
	return in
}
