// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep the struct flat and koanf-tagged; Load layers defaults, file, env.
// - Numeric knobs stay permissive here; component options guard their own
//   ranges and fall back to defaults on nonsense.
// - External errors must be wrapped with this package's sentinels.
package config

// Chart archive backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EphemerisWorkers bounds concurrent per-planet position fetches.
	EphemerisWorkers int `koanf:"ephemeris_workers"`

	// Store selects the chart archive backend: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath locates the archive database when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// StoreCapacity bounds the in-memory archive before oldest-first
	// eviction. Ignored by the sqlite backend.
	StoreCapacity int `koanf:"store_capacity"`

	// RedisURL points the result cache at a shared Redis instance.
	// Empty selects the in-process cache.
	RedisURL string `koanf:"redis_url"`

	// CacheTTLMinutes sets the result cache entry lifetime. Zero or
	// negative keeps entries until evicted.
	CacheTTLMinutes int `koanf:"cache_ttl_minutes"`

	// CacheMaxEntries bounds the in-process result cache.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// MaxRecentLimit caps GET /v1/charts?limit.
	MaxRecentLimit int `koanf:"max_recent_limit"`

	// Divisions lists divisional-chart factors computed eagerly with
	// every chart, e.g. 9 for the navamsa. Empty computes none; all
	// supported divisions stay available through the per-chart query.
	Divisions []int `koanf:"divisions"`

	// DashaHorizonYears is the default timeline horizon for dasha
	// queries that do not request one explicitly.
	DashaHorizonYears int `koanf:"dasha_horizon_years"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		EphemerisWorkers:  4,
		Store:             StoreMemory,
		SQLitePath:        "kundali.db",
		StoreCapacity:     10_000,
		RedisURL:          "",
		CacheTTLMinutes:   1440,
		CacheMaxEntries:   4096,
		MaxRecentLimit:    100,
		Divisions:         nil,
		DashaHorizonYears: 120,
	}
}
