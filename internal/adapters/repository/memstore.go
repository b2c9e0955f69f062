package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/zodiac"
	"github.com/okian/teamfit/pkg/metrics"
)

// In-memory, copy-on-write Store implementation.
//
// Readers load an immutable snapshot through an atomic pointer and never
// block. Writers serialize on mu, build a fresh snapshot and publish it.

// snapshot is an immutable view of the stored profiles.
type snapshot struct {
	byID   map[string]model.Profile
	active []model.Profile // ordered by ID
}

func newSnapshot(byID map[string]model.Profile) *snapshot {
	all := make([]model.Profile, 0, len(byID))
	for _, p := range byID {
		all = append(all, p)
	}
	return &snapshot{byID: byID, active: model.Eligible(all)}
}

// MemoryStore keeps profiles in memory.
type MemoryStore struct {
	mu                    sync.Mutex
	snap                  atomic.Pointer[snapshot]
	elementOf             func(zodiac.Sign) zodiac.Element
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store and starts its metrics updater,
// which runs until ctx ends or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		elementOf:             zodiac.ElementOf,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap.Store(newSnapshot(map[string]model.Profile{}))
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Replace implements Store.Replace. Profiles are normalized; the snapshot is
// left untouched when any of them is invalid or repeated.
func (s *MemoryStore) Replace(ctx context.Context, profiles []model.Profile) error {
	const op = "repository.replace"
	normalized, err := model.NormalizeAll(op, profiles, s.elementOf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := model.CheckUnique(normalized); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	byID := make(map[string]model.Profile, len(normalized))
	for _, p := range normalized {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.snap.Store(newSnapshot(byID))
	s.mu.Unlock()

	metrics.RecordProfileReplace()
	metrics.UpdateProfilesTotal(len(byID))
	return nil
}

// Upsert implements Store.Upsert.
func (s *MemoryStore) Upsert(ctx context.Context, p model.Profile) error {
	p, err := model.Normalize("repository.upsert", p, s.elementOf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.mu.Lock()
	old := s.snap.Load().byID
	byID := make(map[string]model.Profile, len(old)+1)
	for id, q := range old {
		byID[id] = q
	}
	byID[p.ID] = p
	s.snap.Store(newSnapshot(byID))
	s.mu.Unlock()

	metrics.UpdateProfilesTotal(len(byID))
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Profile, error) {
	p, ok := s.snap.Load().byID[id]
	if !ok {
		metrics.RecordProfileLookupMiss()
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Profile{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// Resolve implements Store.Resolve against a single snapshot so the result is
// consistent even while a Replace runs.
func (s *MemoryStore) Resolve(ctx context.Context, ids []string) ([]model.Profile, error) {
	snap := s.snap.Load()
	out := make([]model.Profile, 0, len(ids))
	for _, id := range ids {
		p, ok := snap.byID[id]
		if !ok {
			metrics.RecordProfileLookupMiss()
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		out = append(out, p)
	}
	return out, nil
}

// Active implements Store.Active. The returned slice is a copy.
func (s *MemoryStore) Active(ctx context.Context) []model.Profile {
	return append([]model.Profile(nil), s.snap.Load().active...)
}

// Count implements Store.Count.
func (s *MemoryStore) Count(ctx context.Context) int {
	return len(s.snap.Load().byID)
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateProfilesTotal(s.Count(ctx))
			}
		}
	}()
}
