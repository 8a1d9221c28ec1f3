package config

import "github.com/allaspectsdev/nfrt-cache/internal/maintenance"

// DefaultHome is the cache home directory (before tilde expansion).
const DefaultHome = "~/.nfrt/cache"

// DefaultConfigFilename is the name of the config file.
const DefaultConfigFilename = "nfrt-cache.toml"

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// DefaultStatusAddr is the default bind address of the daemon's status/health
// HTTP surface — localhost only, per the decision that this surface carries
// no authentication.
const DefaultStatusAddr = "127.0.0.1:7679"

// ValidLogLevels lists the allowed log level values.
var ValidLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Home: DefaultHome,
		},
		Maintenance: maintenance.DefaultConfig(),
		Server: ServerConfig{
			StatusAddr: DefaultStatusAddr,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}
