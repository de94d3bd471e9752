package verify

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidCount rejects a non-positive chart count.
	ErrInvalidCount = errors.New("chart count must be positive")

	// ErrViolations reports that at least one chart failed to compute or
	// violated an invariant.
	ErrViolations = errors.New("invariant violations found")
)
