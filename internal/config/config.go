// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() builds a Config with defaults; Load layers file and env on top.
//   - Validation failures wrap ErrInvalidConfig, loading failures ErrLoadConfig.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ReferencePath points at a compatibility dataset that replaces the
	// embedded one. Empty uses the embedded dataset.
	ReferencePath string `koanf:"reference_path"`

	// ProfilesPath optionally seeds the profile store from a YAML file.
	ProfilesPath string `koanf:"profiles_path"`

	// ConflictThreshold is the conflict potential reported by detection and
	// attached to score breakdowns.
	ConflictThreshold int `koanf:"conflict_threshold"`

	// ConflictCutoff is the pair conflict potential the builder avoids.
	ConflictCutoff int `koanf:"conflict_cutoff"`

	// MinPerElement is how many members of each element a balanced team needs.
	MinPerElement int `koanf:"min_per_element"`

	// MaxSuggestions caps optimizer output when a request leaves it unset.
	MaxSuggestions int `koanf:"max_suggestions"`

	// BuildTimeoutMS bounds a single team build; the best team so far is
	// returned when it expires.
	BuildTimeoutMS int `koanf:"build_timeout_ms"`

	// BuildCacheSize is how many build results are kept for repeated
	// requests. Zero disables the cache.
	BuildCacheSize int `koanf:"build_cache_size"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		ConflictThreshold: 60,
		ConflictCutoff:    85,
		MinPerElement:     1,
		MaxSuggestions:    5,
		BuildTimeoutMS:    2000,
		BuildCacheSize:    1024,
		ShutdownTimeoutMS: 5000,
	}
}

// BuildTimeout returns BuildTimeoutMS as a duration.
func (c *Config) BuildTimeout() time.Duration {
	return time.Duration(c.BuildTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ConflictThreshold < 0 || c.ConflictThreshold > 100:
		return fmt.Errorf("%w: conflict_threshold %d outside [0,100]", ErrInvalidConfig, c.ConflictThreshold)
	case c.ConflictCutoff < 1 || c.ConflictCutoff > 100:
		return fmt.Errorf("%w: conflict_cutoff %d outside [1,100]", ErrInvalidConfig, c.ConflictCutoff)
	case c.MinPerElement < 1:
		return fmt.Errorf("%w: min_per_element must be positive", ErrInvalidConfig)
	case c.MaxSuggestions < 1:
		return fmt.Errorf("%w: max_suggestions must be positive", ErrInvalidConfig)
	case c.BuildTimeoutMS < 0:
		return fmt.Errorf("%w: build_timeout_ms must not be negative", ErrInvalidConfig)
	case c.BuildCacheSize < 0:
		return fmt.Errorf("%w: build_cache_size must not be negative", ErrInvalidConfig)
	case c.ShutdownTimeoutMS < 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
