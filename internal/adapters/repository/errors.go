package repository

import "errors"

// Sentinel kinds for chart archive errors.
var (
	ErrNotFound     = errors.New("chart not found")
	ErrInvalidLimit = errors.New("invalid recent-charts limit")
	ErrMissingID    = errors.New("chart has no identifier")
)
