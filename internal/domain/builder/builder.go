// Package builder assembles a team of a target size from a candidate pool.
//
// Exact subset selection is combinatorial, so the builder uses greedy
// construction followed by a bounded element-balance repair pass. The result
// is near-optimal, not guaranteed optimal, and fully deterministic: the same
// pool and constraints always produce the same team.
package builder

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/okian/teamfit/internal/domain/balance"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/scoring"
	"github.com/okian/teamfit/internal/domain/zodiac"
)

// DefaultConflictCutoff is the pair conflict potential AvoidConflicts refuses
// unless there is no other way to fill the team.
const DefaultConflictCutoff = 85

const minTeamSize = 2

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithConflictCutoff sets the conflict potential avoided by AvoidConflicts.
func WithConflictCutoff(cutoff int) Option {
	return func(b *Builder) {
		if cutoff > 0 {
			b.cutoff = cutoff
		}
	}
}

// Constraints steer team construction.
type Constraints struct {
	RequireElementBalance bool    `json:"require_element_balance"`
	AvoidConflicts        bool    `json:"avoid_conflicts"`
	MinCompatibilityScore float64 `json:"min_compatibility_score"`
}

// Result is the team the builder settled on.
type Result struct {
	Composition model.Composition `json:"members"`
	Members     []model.Profile   `json:"profiles"`
	Breakdown   scoring.Breakdown `json:"breakdown"`
	// Underfilled is set when the eligible pool was smaller than the target.
	Underfilled bool `json:"underfilled"`
	// ForcedConflict is set when a pair at or above the conflict cutoff had
	// to be accepted to reach the target size.
	ForcedConflict bool `json:"forced_conflict"`
	// Interrupted is set when the context ended mid-search; the team is the
	// best found so far and may be smaller than the target.
	Interrupted bool `json:"interrupted"`
	// RepairSwaps counts the balance repair swaps applied.
	RepairSwaps int          `json:"repair_swaps"`
	Unsatisfied []Constraint `json:"unsatisfied"`
}

// Err reports unmet constraints as a *ConstraintUnsatisfiableError. The
// result stays usable either way.
func (r Result) Err() error {
	if len(r.Unsatisfied) == 0 {
		return nil
	}
	return &ConstraintUnsatisfiableError{Constraints: slices.Clone(r.Unsatisfied), Score: r.Breakdown.Overall}
}

// Clone returns a copy that shares no slices or maps with r.
func (r Result) Clone() Result {
	out := r
	out.Members = slices.Clone(r.Members)
	out.Unsatisfied = slices.Clone(r.Unsatisfied)
	out.Breakdown.Conflicts = slices.Clone(r.Breakdown.Conflicts)
	out.Breakdown.Balance.Missing = slices.Clone(r.Breakdown.Balance.Missing)
	out.Breakdown.Balance.Short = slices.Clone(r.Breakdown.Balance.Short)
	out.Breakdown.Balance.Counts = maps.Clone(r.Breakdown.Balance.Counts)
	return out
}

// Builder selects teams from candidate pools.
type Builder struct {
	agg    *scoring.Aggregator
	cutoff int
}

// New creates a builder over an aggregator.
func New(agg *scoring.Aggregator, opts ...Option) *Builder {
	b := &Builder{agg: agg, cutoff: DefaultConflictCutoff}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ConflictCutoff returns the configured cutoff.
func (b *Builder) ConflictCutoff() int { return b.cutoff }

// Build selects up to targetSize members from pool. Profiles must be
// normalized. Inactive profiles are ignored and repeated IDs keep their first
// occurrence. It fails with model.ErrInvalidInput when targetSize is below two
// or fewer than two profiles are eligible, and with the context error when the
// context ends before a seed pair is chosen.
func (b *Builder) Build(ctx context.Context, pool []model.Profile, targetSize int, c Constraints) (Result, error) {
	const op = "builder.build"
	if targetSize < minTeamSize {
		return Result{}, model.Invalid(op, "target size must be at least 2")
	}
	eligible := model.Eligible(pool)
	if len(eligible) < minTeamSize {
		return Result{}, model.Invalid(op, "fewer than 2 eligible profiles")
	}

	if len(eligible) <= targetSize {
		res := b.finish(eligible, c)
		res.Underfilled = len(eligible) < targetSize
		res.ForcedConflict = c.AvoidConflicts && b.agg.Detector().Count(eligible, b.cutoff) > 0
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	team, forced := b.seed(eligible, c.AvoidConflicts)
	res := Result{ForcedConflict: forced}
	for len(team) < targetSize {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		next, forced := b.pick(team, outside(eligible, team), c.AvoidConflicts)
		res.ForcedConflict = res.ForcedConflict || forced
		team = sortedInsert(team, next)
	}

	if c.RequireElementBalance && !res.Interrupted {
		var interrupted bool
		team, res.RepairSwaps, interrupted = b.repair(ctx, team, eligible, c)
		res.Interrupted = interrupted
	}

	final := b.finish(team, c)
	final.ForcedConflict = res.ForcedConflict
	final.Interrupted = res.Interrupted
	final.RepairSwaps = res.RepairSwaps
	return final, nil
}

// seed returns the pair with the highest overall score; ties go to the lowest
// (idA, idB). Pairs at or above the cutoff are skipped when avoiding conflicts
// unless every pair is above it.
func (b *Builder) seed(eligible []model.Profile, avoid bool) ([]model.Profile, bool) {
	scorer := b.agg.Scorer()
	bestAny, bestOK := [2]int{-1, -1}, [2]int{-1, -1}
	scoreAny, scoreOK := -1, -1
	for i := 0; i < len(eligible); i++ {
		for j := i + 1; j < len(eligible); j++ {
			r := scorer.Lookup(eligible[i].Sign, eligible[j].Sign)
			if r.Overall > scoreAny {
				scoreAny, bestAny = r.Overall, [2]int{i, j}
			}
			if r.ConflictPotential < b.cutoff && r.Overall > scoreOK {
				scoreOK, bestOK = r.Overall, [2]int{i, j}
			}
		}
	}
	pick, forced := bestAny, false
	if avoid {
		if bestOK[0] >= 0 {
			pick = bestOK
		} else {
			forced = true
		}
	}
	return []model.Profile{eligible[pick[0]], eligible[pick[1]]}, forced
}

// pick returns the candidate whose addition maximizes the recomputed team
// score; ties go to the lowest ID.
func (b *Builder) pick(team, candidates []model.Profile, avoid bool) (model.Profile, bool) {
	trial := make([]model.Profile, len(team)+1)
	copy(trial, team)
	bestAny, bestOK := -1, -1
	var scoreAny, scoreOK float64
	for i, cand := range candidates {
		trial[len(team)] = cand
		s := b.agg.Means(trial).Overall
		if bestAny < 0 || s > scoreAny {
			bestAny, scoreAny = i, s
		}
		if b.agg.Detector().Max(cand, team) < b.cutoff && (bestOK < 0 || s > scoreOK) {
			bestOK, scoreOK = i, s
		}
	}
	if !avoid {
		return candidates[bestAny], false
	}
	if bestOK >= 0 {
		return candidates[bestOK], false
	}
	return candidates[bestAny], true
}

// repair runs one pass over the elements below the minimum in team. For
// each, it applies the best swaps that bring members of the element in
// without lowering another element below the minimum and keep the score at
// or above the minimum score. The pass stops at the first element no swap can
// raise.
func (b *Builder) repair(ctx context.Context, team, eligible []model.Profile, c Constraints) ([]model.Profile, int, bool) {
	an := b.agg.Analyzer()
	swaps := 0
	for _, short := range an.Analyze(team).Short {
		for {
			if ctx.Err() != nil {
				return team, swaps, true
			}
			current := an.Analyze(team)
			if !slices.Contains(current.Short, short) {
				break
			}
			next, ok := b.bestSwap(team, eligible, short, current, c)
			if !ok {
				return team, swaps, false
			}
			team = next
			swaps++
		}
	}
	return team, swaps, false
}

func (b *Builder) bestSwap(team, eligible []model.Profile, short zodiac.Element, current balance.Report, c Constraints) ([]model.Profile, bool) {
	an := b.agg.Analyzer()
	var best []model.Profile
	bestScore := 0.0
	for mi := range team {
		rest := slices.Delete(slices.Clone(team), mi, mi+1)
		for _, cand := range outside(eligible, team) {
			if cand.Element != short {
				continue
			}
			if c.AvoidConflicts && b.agg.Detector().Max(cand, rest) >= b.cutoff {
				continue
			}
			trial := sortedInsert(slices.Clone(rest), cand)
			if !balance.Fills(current, an.Analyze(trial)) {
				continue
			}
			s := b.agg.Means(trial).Overall
			if s < c.MinCompatibilityScore {
				continue
			}
			if best == nil || s > bestScore {
				best, bestScore = trial, s
			}
		}
	}
	return best, best != nil
}

func (b *Builder) finish(team []model.Profile, c Constraints) Result {
	members := model.SortByID(team)
	comp, _ := model.CompositionOf(members)
	res := Result{
		Composition: comp,
		Members:     members,
		Breakdown:   b.agg.Score(members),
		Unsatisfied: []Constraint{},
	}
	if res.Breakdown.Overall < c.MinCompatibilityScore {
		res.Unsatisfied = append(res.Unsatisfied, ConstraintMinScore)
	}
	if c.RequireElementBalance && !res.Breakdown.Balance.IsBalanced {
		res.Unsatisfied = append(res.Unsatisfied, ConstraintElementBalance)
	}
	return res
}

// outside returns the eligible profiles not in team, in ID order.
func outside(eligible, team []model.Profile) []model.Profile {
	in := make(map[string]struct{}, len(team))
	for _, p := range team {
		in[p.ID] = struct{}{}
	}
	out := make([]model.Profile, 0, len(eligible)-len(team))
	for _, p := range eligible {
		if _, ok := in[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// sortedInsert adds p to a team kept in ID order.
func sortedInsert(team []model.Profile, p model.Profile) []model.Profile {
	i, _ := slices.BinarySearchFunc(team, p.ID, func(q model.Profile, id string) int {
		return strings.Compare(q.ID, id)
	})
	return slices.Insert(team, i, p)
}
