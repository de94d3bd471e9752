package ephemeris

// Option configures the fan-out pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent provider calls. Values
// below one keep the default.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}
