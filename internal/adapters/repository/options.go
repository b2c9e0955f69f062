package repository

import (
	"time"

	"github.com/okian/teamfit/internal/domain/zodiac"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithElementOf sets the sign to element mapping used to normalize profiles.
// The default is zodiac.ElementOf.
func WithElementOf(fn func(zodiac.Sign) zodiac.Element) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.elementOf = fn
		}
	}
}
