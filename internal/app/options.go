package service

import (
	"time"

	"github.com/okian/teamfit/internal/adapters/repository"
	"github.com/okian/teamfit/internal/config"
	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReferencePath loads the compatibility dataset from a file instead of
// the embedded copy.
func WithReferencePath(path string) Option {
	return func(s *Service) {
		s.referencePath = path
	}
}

// WithHarmonyTable replaces the element harmony table of the dataset.
func WithHarmonyTable(t compat.HarmonyTable) Option {
	return func(s *Service) {
		s.harmony = t
	}
}

// WithProfilesPath seeds the profile store from a YAML file on Start.
func WithProfilesPath(path string) Option {
	return func(s *Service) {
		s.profilesPath = path
	}
}

// WithStore replaces the default in-memory profile store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.profiles = store
		}
	}
}

// WithConflictThreshold sets the default conflict detection threshold.
func WithConflictThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold >= compat.MinScore && threshold <= compat.MaxScore {
			s.conflictThreshold = threshold
		}
	}
}

// WithConflictCutoff sets the pair conflict potential the builder avoids.
func WithConflictCutoff(cutoff int) Option {
	return func(s *Service) {
		if cutoff > 0 {
			s.conflictCutoff = cutoff
		}
	}
}

// WithMinPerElement sets how many members per element a balanced team needs.
func WithMinPerElement(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPerElement = n
		}
	}
}

// WithMaxSuggestions sets the default optimizer limit.
func WithMaxSuggestions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// WithBuildTimeout bounds each BuildTeam call. Zero disables the bound.
func WithBuildTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.buildTimeout = d
		}
	}
}

// WithBuildCacheSize sets how many build results are kept for repeated
// requests. Zero disables the cache.
func WithBuildCacheSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.buildCacheSize = n
		}
	}
}

// OptionsFromConfig maps a loaded Config onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithReferencePath(cfg.ReferencePath),
		WithProfilesPath(cfg.ProfilesPath),
		WithConflictThreshold(cfg.ConflictThreshold),
		WithConflictCutoff(cfg.ConflictCutoff),
		WithMinPerElement(cfg.MinPerElement),
		WithMaxSuggestions(cfg.MaxSuggestions),
		WithBuildTimeout(cfg.BuildTimeout()),
		WithBuildCacheSize(cfg.BuildCacheSize),
	}
}
