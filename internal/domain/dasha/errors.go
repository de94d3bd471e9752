package dasha

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As
// from callers.
var (
	// ErrInvalidNakshatra indicates an anchor index outside [0,26].
	ErrInvalidNakshatra = errors.New("invalid nakshatra index")
)
