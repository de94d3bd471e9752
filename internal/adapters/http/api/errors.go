package api

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrBadRequest marks a request the handlers could not interpret:
	// malformed JSON, unparseable query values, or a path shape the
	// route does not recognize.
	ErrBadRequest = errors.New("bad request")

	// ErrServe indicates the HTTP listener terminated abnormally.
	ErrServe = errors.New("http serve failed")
)
