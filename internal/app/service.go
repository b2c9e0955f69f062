// Package service wires the compatibility engine together and implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/teamfit/internal/adapters/cache"
	"github.com/okian/teamfit/internal/adapters/reference"
	"github.com/okian/teamfit/internal/adapters/repository"
	"github.com/okian/teamfit/internal/domain/balance"
	"github.com/okian/teamfit/internal/domain/builder"
	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/internal/domain/conflict"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/optimizer"
	"github.com/okian/teamfit/internal/domain/scoring"
	"github.com/okian/teamfit/internal/domain/zodiac"
	"github.com/okian/teamfit/pkg/logger"
	"github.com/okian/teamfit/pkg/metrics"
)

// Operation outcomes recorded in metrics.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotReady = "not_ready"
	outcomeError    = "error"
)

// engine is the immutable set of components built once the matrix is valid.
type engine struct {
	matrix    *compat.Matrix
	agg       *scoring.Aggregator
	builder   *builder.Builder
	optimizer *optimizer.Optimizer

	// results caches completed builds; scope keys them to these settings.
	results cache.Results[builder.Result]
	scope   string
}

// Service exposes the engine once Start has loaded and validated the
// compatibility matrix. Every engine call made earlier fails with ErrNotReady.
type Service struct {
	mu sync.RWMutex

	// Core components
	eng      atomic.Pointer[engine]
	profiles repository.Store
	ownStore bool

	// Configuration
	referencePath     string
	profilesPath      string
	harmony           compat.HarmonyTable
	conflictThreshold int
	conflictCutoff    int
	minPerElement     int
	maxSuggestions    int
	buildTimeout      time.Duration
	buildCacheSize    int

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		conflictThreshold: conflict.DefaultThreshold,
		conflictCutoff:    builder.DefaultConflictCutoff,
		minPerElement:     1,
		maxSuggestions:    optimizer.DefaultMaxSuggestions,
		buildTimeout:      2 * time.Second,
		buildCacheSize:    cache.DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the reference data, builds the engine and seeds the profile
// store. A matrix that fails validation is returned as an error and the
// service stays not ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting compatibility engine...",
		logger.String("reference", referenceName(s.referencePath)),
	)

	loadStart := time.Now()
	ropts := []reference.Option{reference.WithPath(s.referencePath)}
	if s.harmony != nil {
		ropts = append(ropts, reference.WithHarmonyTable(s.harmony))
	}
	matrix, err := reference.Load(ctx, ropts...)
	if err != nil {
		metrics.RecordErrorByComponent("reference", "load")
		s.logger.Error(ctx, "reference data rejected", logger.Error(err))
		return fmt.Errorf("load reference data: %w", err)
	}
	metrics.UpdateMatrix(matrix.Len(), float64(time.Since(loadStart).Microseconds())/1000)

	agg := scoring.NewAggregator(matrix,
		scoring.WithConflictThreshold(s.conflictThreshold),
		scoring.WithBalanceAnalyzer(balance.NewAnalyzer(balance.WithMinPerElement(s.minPerElement))),
	)
	e := &engine{
		matrix:    matrix,
		agg:       agg,
		builder:   builder.New(agg, builder.WithConflictCutoff(s.conflictCutoff)),
		optimizer: optimizer.New(agg, optimizer.WithDefaultMaxSuggestions(s.maxSuggestions)),
		results:   cache.NewLRU[builder.Result](cache.WithMaxEntries(s.buildCacheSize)),
		scope:     fmt.Sprintf("%s/%d/%d/%d", referenceName(s.referencePath), s.conflictThreshold, s.conflictCutoff, s.minPerElement),
	}

	if s.profiles == nil {
		s.profiles = repository.NewMemoryStore(ctx, repository.WithElementOf(matrix.ElementOf))
		s.ownStore = true
	}
	if s.profilesPath != "" {
		seed, err := repository.LoadProfilesFile(s.profilesPath)
		if err == nil {
			err = s.profiles.Replace(ctx, seed)
		}
		if err != nil {
			s.closeStore()
			s.logger.Error(ctx, "profile seed rejected", logger.Error(err), logger.String("path", s.profilesPath))
			return fmt.Errorf("seed profiles: %w", err)
		}
	}

	s.eng.Store(e)
	s.started = true
	s.startedAt = time.Now()
	metrics.UpdateEngineReady(true)

	s.logger.Info(ctx, "compatibility engine started",
		logger.Int("records", matrix.Len()),
		logger.Int("profiles", s.profiles.Count(ctx)),
		logger.Int("conflictThreshold", s.conflictThreshold),
		logger.Int("conflictCutoff", s.conflictCutoff),
		logger.Int("minPerElement", s.minPerElement),
		logger.Duration("buildTimeout", s.buildTimeout),
		logger.Int("buildCacheSize", s.buildCacheSize),
	)
	return nil
}

// Stop releases the profile store and marks the engine not ready.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping compatibility engine...")

	if e := s.eng.Swap(nil); e != nil {
		e.results.Purge(context.Background())
	}
	s.closeStore()
	s.started = false
	metrics.UpdateEngineReady(false)

	s.logger.Info(context.Background(), "compatibility engine stopped")
}

func (s *Service) closeStore() {
	if !s.ownStore {
		return
	}
	if closer, ok := s.profiles.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.profiles = nil
	s.ownStore = false
}

// Ready reports whether Start completed.
func (s *Service) Ready() bool {
	return s.eng.Load() != nil
}

func (s *Service) current() (*engine, error) {
	e := s.eng.Load()
	if e == nil {
		return nil, ErrNotReady
	}
	return e, nil
}

// observe records the outcome of one engine operation.
func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrNotReady):
		outcome = outcomeNotReady
	case errors.Is(err, model.ErrInvalidInput):
		outcome = outcomeInvalid
	default:
		outcome = outcomeError
	}
	metrics.RecordOperation(op, outcome, ms)

	log := s.log()
	if err != nil {
		metrics.RecordErrorByComponent("engine", outcome)
		log.Warn(ctx, "operation failed",
			logger.String("operation", op),
			logger.String("outcome", outcome),
			logger.Error(err),
		)
		return
	}
	log.Debug(ctx, "operation completed",
		logger.String("operation", op),
		logger.Float64("latencyMs", ms),
	)
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

func (s *Service) store() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profiles == nil {
		return nil, ErrNotReady
	}
	return s.profiles, nil
}

// Compatibility returns the record of an unordered sign pair.
func (s *Service) Compatibility(ctx context.Context, a, b zodiac.Sign) (rec compat.Record, err error) {
	const op = "compatibility"
	defer func(start time.Time) { s.observe(ctx, op, start, err) }(time.Now())

	e, err := s.current()
	if err != nil {
		return compat.Record{}, err
	}
	rec, err = e.matrix.LookupChecked(a, b)
	if err != nil {
		return compat.Record{}, model.InvalidWrap(op, "sign pair", err)
	}
	return rec, nil
}

// ScoreTeam scores a group of profiles.
func (s *Service) ScoreTeam(ctx context.Context, profiles []model.Profile) (b scoring.Breakdown, err error) {
	const op = "score_team"
	defer func(start time.Time) { s.observe(ctx, op, start, err) }(time.Now())

	e, ps, err := s.prepare(op, profiles)
	if err != nil {
		return scoring.Breakdown{}, err
	}
	b = e.agg.Score(ps)
	metrics.RecordTeam(b.Size, b.Overall)
	metrics.RecordConflicts(len(b.Conflicts))
	return b, nil
}

// AnalyzeBalance reports the element balance of a group.
func (s *Service) AnalyzeBalance(ctx context.Context, profiles []model.Profile) (r balance.Report, err error) {
	const op = "analyze_balance"
	defer func(start time.Time) { s.observe(ctx, op, start, err) }(time.Now())

	e, ps, err := s.prepare(op, profiles)
	if err != nil {
		return balance.Report{}, err
	}
	return e.agg.Analyzer().Analyze(ps), nil
}

// DetectConflicts lists the pairs of a group at or above threshold. A
// negative threshold selects the configured default.
func (s *Service) DetectConflicts(ctx context.Context, profiles []model.Profile, threshold int) (pairs []conflict.Pair, err error) {
	const op = "detect_conflicts"
	defer func(start time.Time) { s.observe(ctx, op, start, err) }(time.Now())

	if threshold > compat.MaxScore {
		return nil, model.Invalid(op, fmt.Sprintf("threshold %d above %d", threshold, compat.MaxScore))
	}
	e, ps, err := s.prepare(op, profiles)
	if err != nil {
		return nil, err
	}
	if threshold < 0 {
		threshold = e.agg.ConflictThreshold()
	}
	pairs = e.agg.Detector().Detect(ps, threshold)
	metrics.RecordConflicts(len(pairs))
	return pairs, nil
}

// BuildTeam selects a team of targetSize from pool. The search is bounded by
// the configured build timeout; an interrupted search returns the best team
// found so far with Interrupted set.
func (s *Service) BuildTeam(ctx context.Context, pool []model.Profile, targetSize int, c builder.Constraints) (res builder.Result, err error) {
	const op = "build_team"
	defer func(start time.Time) { s.observe(ctx, op, start, err) }(time.Now())

	e, err := s.current()
	if err != nil {
		return builder.Result{}, err
	}
	ps, err := model.NormalizeAll(op, pool, e.matrix.ElementOf)
	if err != nil {
		return builder.Result{}, err
	}

	key := cache.BuildKey(e.scope, ps, targetSize, c)
	if cached, ok := e.results.Get(ctx, key); ok {
		metrics.RecordBuildCache(true)
		return cached.Clone(), nil
	}
	metrics.RecordBuildCache(false)

	bctx := ctx
	if s.buildTimeout > 0 {
		var cancel context.CancelFunc
		bctx, cancel = context.WithTimeout(ctx, s.buildTimeout)
		defer cancel()
	}
	res, err = e.builder.Build(bctx, ps, targetSize, c)
	if err != nil {
		return builder.Result{}, err
	}
	if !res.Interrupted {
		e.results.Put(ctx, key, res.Clone())
	}

	metrics.RecordTeam(res.Breakdown.Size, res.Breakdown.Overall)
	metrics.RecordConflicts(len(res.Breakdown.Conflicts))
	metrics.RecordRepairSwaps(res.RepairSwaps)
	for flag, set := range map[string]bool{
		metrics.FlagUnderfilled:    res.Underfilled,
		metrics.FlagForcedConflict: res.ForcedConflict,
		metrics.FlagInterrupted:    res.Interrupted,
		metrics.FlagUnsatisfied:    len(res.Unsatisfied) > 0,
	} {
		if set {
			_ = metrics.RecordBuilderFlag(flag)
		}
	}
	if uerr := res.Err(); uerr != nil {
		s.log().Info(ctx, "team built with unmet constraints",
			logger.Error(uerr),
			logger.Int("size", res.Breakdown.Size),
		)
	}
	return res, nil
}

// OptimizeTeam proposes moves that improve current using candidates from pool.
func (s *Service) OptimizeTeam(ctx context.Context, current, pool []model.Profile, opts optimizer.Options) (moves []optimizer.Suggestion, err error) {
	const op = "optimize_team"
	defer func(start time.Time) { s.observe(ctx, op, start, err) }(time.Now())

	e, team, err := s.prepare(op, current)
	if err != nil {
		return nil, err
	}
	candidates, err := model.NormalizeAll(op, pool, e.matrix.ElementOf)
	if err != nil {
		return nil, err
	}
	moves, err = e.optimizer.Suggest(team, candidates, opts)
	if err != nil {
		return nil, err
	}
	metrics.RecordSuggestions(len(moves))
	return moves, nil
}

// prepare normalizes a caller-supplied group and rejects repeated IDs.
func (s *Service) prepare(op string, profiles []model.Profile) (*engine, []model.Profile, error) {
	e, err := s.current()
	if err != nil {
		return nil, nil, err
	}
	ps, err := model.NormalizeAll(op, profiles, e.matrix.ElementOf)
	if err != nil {
		return nil, nil, err
	}
	if err := model.CheckUnique(ps); err != nil {
		return nil, nil, model.InvalidWrap(op, "profiles", err)
	}
	return e, ps, nil
}

// ResolveProfiles looks up stored profiles by ID. Unknown IDs are reported as
// invalid input.
func (s *Service) ResolveProfiles(ctx context.Context, ids []string) ([]model.Profile, error) {
	const op = "resolve_profiles"
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	ps, err := st.Resolve(ctx, ids)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.InvalidWrap(op, "unknown member", err)
		}
		return nil, err
	}
	return ps, nil
}

// Profile returns one stored profile or repository.ErrNotFound.
func (s *Service) Profile(ctx context.Context, id string) (model.Profile, error) {
	st, err := s.store()
	if err != nil {
		return model.Profile{}, err
	}
	return st.Get(ctx, id)
}

// ActiveProfiles returns every active stored profile ordered by ID.
func (s *Service) ActiveProfiles(ctx context.Context) ([]model.Profile, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.Active(ctx), nil
}

// ReplaceProfiles swaps the stored profile snapshot.
func (s *Service) ReplaceProfiles(ctx context.Context, profiles []model.Profile) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	if err := st.Replace(ctx, profiles); err != nil {
		s.log().Warn(ctx, "profile snapshot rejected", logger.Error(err))
		return err
	}
	s.log().Info(ctx, "profile snapshot replaced", logger.Int("profiles", len(profiles)))
	return nil
}

// UpsertProfile adds or replaces one profile in the snapshot.
func (s *Service) UpsertProfile(ctx context.Context, p model.Profile) error {
	st, err := s.store()
	if err != nil {
		return err
	}
	if err := st.Upsert(ctx, p); err != nil {
		s.log().Warn(ctx, "profile rejected", logger.Error(err), logger.String("id", p.ID))
		return err
	}
	s.log().Debug(ctx, "profile stored", logger.String("id", p.ID))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"reference":         referenceName(s.referencePath),
		"conflictThreshold": s.conflictThreshold,
		"conflictCutoff":    s.conflictCutoff,
		"minPerElement":     s.minPerElement,
		"maxSuggestions":    s.maxSuggestions,
		"buildTimeoutMs":    s.buildTimeout.Milliseconds(),
		"buildCacheSize":    s.buildCacheSize,
	}

	if e := s.eng.Load(); e != nil && s.profiles != nil {
		total := s.profiles.Count(ctx)
		stats["records"] = e.matrix.Len()
		stats["totalProfiles"] = total
		stats["activeProfiles"] = len(s.profiles.Active(ctx))
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["cachedBuilds"] = e.results.Size()

		metrics.UpdateProfilesTotal(total)
	}

	return stats
}

func referenceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
