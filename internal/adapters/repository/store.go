// Package repository holds the read-only profile snapshots the engine scores.
package repository

import (
	"context"

	"github.com/okian/teamfit/internal/domain/model"
)

// Store provides access to the current profile snapshot.
type Store interface {
	// Replace swaps the whole snapshot. Profiles must have unique IDs.
	Replace(ctx context.Context, profiles []model.Profile) error

	// Upsert adds or replaces a single profile.
	Upsert(ctx context.Context, p model.Profile) error

	// Get returns one profile. Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (model.Profile, error)

	// Resolve returns the profiles for ids in the given order. Returns
	// ErrNotFound naming the first unknown ID.
	Resolve(ctx context.Context, ids []string) ([]model.Profile, error)

	// Active returns every active profile ordered by ID.
	Active(ctx context.Context) []model.Profile

	// Count returns the number of stored profiles.
	Count(ctx context.Context) int
}
