package ephemeris

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrEphemerisUnavailable indicates a position could not be produced;
	// chart computation fails fast on it.
	ErrEphemerisUnavailable = errors.New("ephemeris unavailable")
	// ErrPolarLatitude indicates a latitude where the requested house
	// system's cusp construction is undefined.
	ErrPolarLatitude = errors.New("polar latitude")
	// ErrUnsupportedPlanet indicates a body outside the provider's set.
	ErrUnsupportedPlanet = errors.New("unsupported planet")
)
