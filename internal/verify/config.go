// Package verify stress-checks the chart pipeline. It generates random
// valid birth inputs, computes charts against an in-process service and
// asserts the mathematical invariants every chart must satisfy: position
// ranges, canonical ordering, the Ketu opposition, the house partition,
// divisional identity, dasha coverage and panchanga determinism.
package verify

import (
	"time"

	"github.com/okian/kundali/internal/domain/model"
)

// Config holds the harness parameters.
type Config struct {
	Count   int  // Number of random charts to compute
	Workers int  // Concurrent compute workers
	Verbose bool // Log every violation as it is found
}

// Violation is one failed invariant on one generated chart.
type Violation struct {
	Input    model.BirthInput
	Property string
	Detail   string
}

// Stats aggregates a harness run.
type Stats struct {
	ChartsPlanned  int
	ChartsComputed int
	ChartsFailed   int
	PropertyChecks int
	Violations     []Violation
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
