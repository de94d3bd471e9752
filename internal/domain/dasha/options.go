package dasha

// generator holds tunables for timeline construction.
type generator struct {
	horizonYears float64
	subPeriods   bool
}

// Option configures timeline generation.
type Option func(*generator)

// WithHorizonYears bounds how many years, measured from the nominal
// start of the first period, are materialized. Non-positive values keep
// the default of one full cycle.
func WithHorizonYears(years float64) Option {
	return func(g *generator) {
		if years > 0 {
			g.horizonYears = years
		}
	}
}

// WithSubPeriods toggles expansion of each major period into its nine
// sub-periods.
func WithSubPeriods(enabled bool) Option {
	return func(g *generator) {
		g.subPeriods = enabled
	}
}

func newGenerator(opts ...Option) *generator {
	g := &generator{horizonYears: CycleYears}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}
