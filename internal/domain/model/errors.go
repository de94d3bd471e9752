package model

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidBirthMoment = errors.New("invalid birth moment")
	ErrInvalidLocation    = errors.New("invalid location")
)
