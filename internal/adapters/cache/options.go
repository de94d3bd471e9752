package cache

// Option applies a configuration option to the in-process cache.
type Option func(*Memory)

// WithMaxEntries sets the entry bound for the in-process cache.
// Values of zero or less disable the bound entirely.
func WithMaxEntries(n int) Option {
	return func(m *Memory) {
		m.maxEntries = n
	}
}
