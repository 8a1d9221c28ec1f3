// Package maintenance implements the cache's single-writer periodic
// cleanup (C4): age-based expiry, then size-capped eviction, gated by a
// 24-hour rate limit and an advisory process-exclusion lock.
package maintenance

import "time"

const (
	// DefaultMaxAgeHours is 24*31 hours (31 days).
	DefaultMaxAgeHours = 24 * 31
	// DefaultMaxSizeBytes is 1 GiB.
	DefaultMaxSizeBytes int64 = 1073741824
	// rateGateInterval is the minimum spacing between two completed
	// cleanup runs.
	rateGateInterval = 24 * time.Hour
)

// Config holds the tunable knobs on the maintenance component. It is not
// exposed to per-operation callers — only to whoever wires up the
// maintenance loop (the daemon or a one-shot CLI command).
type Config struct {
	MaxAgeHours   int   `mapstructure:"max_age_hours"   toml:"max_age_hours"`
	MaxSizeBytes  int64 `mapstructure:"max_size_bytes"  toml:"max_size_bytes"`
	Disabled      bool  `mapstructure:"disabled"        toml:"disabled"`
	AnalyzeMisses bool  `mapstructure:"analyze_misses"  toml:"analyze_misses"`
	Verbose       bool  `mapstructure:"verbose"         toml:"verbose"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxAgeHours:  DefaultMaxAgeHours,
		MaxSizeBytes: DefaultMaxSizeBytes,
	}
}

// MaxAge returns MaxAgeHours as a time.Duration.
func (c Config) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours) * time.Hour
}
