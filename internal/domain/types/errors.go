package types

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownPlanet         = errors.New("unknown planet")
	ErrUnknownSign           = errors.New("unknown sign")
	ErrUnknownNakshatra      = errors.New("unknown nakshatra")
	ErrUnknownSiderealSystem = errors.New("unknown sidereal system")
	ErrUnknownHouseSystem    = errors.New("unknown house system")
	ErrUnknownDivision       = errors.New("unsupported division")
)
