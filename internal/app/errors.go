package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNotStarted reports an operation on a service that was never
	// started or was already stopped.
	ErrNotStarted = errors.New("service not started")

	// ErrIncompleteChart reports an archived chart document missing a
	// component a derivation needs.
	ErrIncompleteChart = errors.New("incomplete chart document")
)
