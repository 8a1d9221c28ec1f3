package config

import (
	"fmt"
	"strings"
)

// validate checks the Config for invalid or out-of-range values.
// It returns a combined error if any checks fail.
func validate(cfg *Config) error {
	var errs []string

	if cfg.Store.Home == "" {
		errs = append(errs, "store.home must not be empty")
	}

	if cfg.Maintenance.MaxAgeHours < 0 {
		errs = append(errs, fmt.Sprintf("maintenance.max_age_hours must be non-negative, got %d", cfg.Maintenance.MaxAgeHours))
	}
	if cfg.Maintenance.MaxSizeBytes < 0 {
		errs = append(errs, fmt.Sprintf("maintenance.max_size_bytes must be non-negative, got %d", cfg.Maintenance.MaxSizeBytes))
	}

	if cfg.Server.StatusAddr == "" {
		errs = append(errs, "server.status_addr must not be empty")
	}

	if !isValidEnum(cfg.Logging.Level, ValidLogLevels) {
		errs = append(errs, fmt.Sprintf("logging.level must be one of %v, got %q", ValidLogLevels, cfg.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// isValidEnum returns true if val is in the allowed list (case-insensitive).
func isValidEnum(val string, allowed []string) bool {
	lower := strings.ToLower(val)
	for _, a := range allowed {
		if strings.ToLower(a) == lower {
			return true
		}
	}
	return false
}
