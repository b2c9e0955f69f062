// Package optimizer proposes single moves that improve an existing team.
package optimizer

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/okian/teamfit/internal/domain/balance"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/scoring"
	"github.com/okian/teamfit/internal/domain/zodiac"
)

// DefaultMaxSuggestions caps the suggestion list when options leave it unset.
const DefaultMaxSuggestions = 5

// scores closer than eps are treated as equal.
const eps = 1e-9

// MoveType is the kind of change a suggestion makes.
type MoveType string

const (
	MoveAdd    MoveType = "add"
	MoveRemove MoveType = "remove"
	MoveSwap   MoveType = "swap"
)

func (t MoveType) rank() int {
	switch t {
	case MoveAdd:
		return 0
	case MoveRemove:
		return 1
	default:
		return 2
	}
}

// Options tune a Suggest call.
type Options struct {
	MaxSuggestions int `json:"max_suggestions"`
	// TargetSize caps ADD moves; zero or less means no cap.
	TargetSize               int  `json:"target_size"`
	PrioritizeElementBalance bool `json:"prioritize_element_balance"`
	MinimizeConflicts        bool `json:"minimize_conflicts"`
}

// Suggestion is one proposed move. In is the incoming profile (ADD, SWAP) and
// Out the outgoing member (REMOVE, SWAP).
type Suggestion struct {
	Type           MoveType         `json:"type"`
	In             *model.Profile   `json:"in,omitempty"`
	Out            *model.Profile   `json:"out,omitempty"`
	CurrentScore   float64          `json:"current_score"`
	ProjectedScore float64          `json:"projected_score"`
	Improvement    float64          `json:"improvement"`
	FillsElements  []zodiac.Element `json:"fills_elements"`
	ConflictCount  int              `json:"conflict_count"`
	Reasoning      string           `json:"reasoning"`
}

// Subjects returns the IDs the move touches in ascending order.
func (s Suggestion) Subjects() []string {
	var ids []string
	if s.Out != nil {
		ids = append(ids, s.Out.ID)
	}
	if s.In != nil {
		ids = append(ids, s.In.ID)
	}
	slices.Sort(ids)
	return ids
}

func (s Suggestion) key() string {
	return strings.Join(s.Subjects(), "\x00")
}

// Option applies a configuration option to the Optimizer.
type Option func(*Optimizer)

// WithDefaultMaxSuggestions sets the cap used when Options.MaxSuggestions is
// not positive.
func WithDefaultMaxSuggestions(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.maxSuggestions = n
		}
	}
}

// Optimizer ranks ADD, REMOVE and SWAP moves for a team.
type Optimizer struct {
	agg            *scoring.Aggregator
	maxSuggestions int
}

// New creates an optimizer over an aggregator.
func New(agg *scoring.Aggregator, opts ...Option) *Optimizer {
	o := &Optimizer{agg: agg, maxSuggestions: DefaultMaxSuggestions}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type baseline struct {
	dims    scoring.Dimensions
	balance balance.Report
}

// Suggest returns up to MaxSuggestions moves that raise the team score, best
// first. With PrioritizeElementBalance a move that fills an element gap without
// lowering the score also qualifies. Pool profiles already on the team,
// inactive or repeated are ignored. A one-member team only receives ADD
// moves, reported with CurrentScore 0 so that Improvement equals the
// projected pair score.
func (o *Optimizer) Suggest(current, pool []model.Profile, opts Options) ([]Suggestion, error) {
	const op = "optimizer.suggest"
	if len(current) == 0 {
		return nil, model.Invalid(op, "current team is empty")
	}
	if err := model.CheckUnique(current); err != nil {
		return nil, model.InvalidWrap(op, "current team", err)
	}
	limit := opts.MaxSuggestions
	if limit <= 0 {
		limit = o.maxSuggestions
	}

	team := model.SortByID(current)
	candidates := outside(model.Eligible(pool), team)
	base := baseline{dims: o.agg.Means(team), balance: o.agg.Analyzer().Analyze(team)}
	if len(team) < 2 {
		// No pairs yet: moves are measured from zero, not from the solo
		// sentinel the aggregator reports.
		base.dims = scoring.Dimensions{}
	}

	var moves []Suggestion
	consider := func(s Suggestion, next []model.Profile) {
		if m, ok := o.evaluate(s, next, base, opts); ok {
			moves = append(moves, m)
		}
	}
	if opts.TargetSize <= 0 || len(team) < opts.TargetSize {
		for _, c := range candidates {
			consider(Suggestion{Type: MoveAdd, In: ptr(c)}, with(team, -1, c))
		}
	}
	if len(team) > 2 {
		for i, m := range team {
			consider(Suggestion{Type: MoveRemove, Out: ptr(m)}, with(team, i, model.Profile{}))
		}
	}
	if len(team) >= 2 {
		for i, m := range team {
			for _, c := range candidates {
				consider(Suggestion{Type: MoveSwap, In: ptr(c), Out: ptr(m)}, with(team, i, c))
			}
		}
	}

	slices.SortFunc(moves, func(a, b Suggestion) int { return compare(a, b, opts) })

	out := make([]Suggestion, 0, min(limit, len(moves)))
	seen := make(map[string]struct{}, len(moves))
	for _, m := range moves {
		if len(out) == limit {
			break
		}
		k := m.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

func (o *Optimizer) evaluate(s Suggestion, next []model.Profile, base baseline, opts Options) (Suggestion, bool) {
	dims := o.agg.Means(next)
	report := o.agg.Analyzer().Analyze(next)

	s.CurrentScore = base.dims.Overall
	s.ProjectedScore = dims.Overall
	s.Improvement = dims.Overall - base.dims.Overall
	s.FillsElements = []zodiac.Element{}
	if balance.Fills(base.balance, report) {
		for _, e := range base.balance.Short {
			if !slices.Contains(report.Short, e) {
				s.FillsElements = append(s.FillsElements, e)
			}
		}
	}
	switch {
	case s.Improvement > eps:
	case opts.PrioritizeElementBalance && math.Abs(s.Improvement) <= eps && len(s.FillsElements) > 0:
	default:
		return Suggestion{}, false
	}
	s.ConflictCount = o.agg.Detector().Count(next, o.agg.ConflictThreshold())
	s.Reasoning = reasoning(s, base.dims, dims)
	return s, true
}

func compare(a, b Suggestion, opts Options) int {
	if math.Abs(a.Improvement-b.Improvement) > eps {
		return cmp.Compare(b.Improvement, a.Improvement)
	}
	if opts.PrioritizeElementBalance {
		if fa, fb := len(a.FillsElements) > 0, len(b.FillsElements) > 0; fa != fb {
			if fa {
				return -1
			}
			return 1
		}
	}
	if opts.MinimizeConflicts {
		if c := cmp.Compare(a.ConflictCount, b.ConflictCount); c != 0 {
			return c
		}
	}
	if c := slices.Compare(a.Subjects(), b.Subjects()); c != 0 {
		return c
	}
	return cmp.Compare(a.Type.rank(), b.Type.rank())
}

func reasoning(s Suggestion, cur, next scoring.Dimensions) string {
	var b strings.Builder
	switch s.Type {
	case MoveAdd:
		fmt.Fprintf(&b, "Add %s", s.In.Label())
	case MoveRemove:
		fmt.Fprintf(&b, "Remove %s", s.Out.Label())
	case MoveSwap:
		fmt.Fprintf(&b, "Swap %s for %s", s.Out.Label(), s.In.Label())
	}
	fmt.Fprintf(&b, " (overall %+.1f)", s.Improvement)

	gains := []struct {
		name  string
		delta float64
	}{
		{"work", next.Work - cur.Work},
		{"communication", next.Communication - cur.Communication},
		{"synergy", next.Synergy - cur.Synergy},
		{"conflict reduction", cur.ConflictPotential - next.ConflictPotential},
	}
	best := gains[0]
	for _, g := range gains[1:] {
		if g.delta > best.delta+eps {
			best = g
		}
	}
	if best.delta > eps {
		fmt.Fprintf(&b, "; biggest gain in %s (%+.1f)", best.name, best.delta)
	}
	if len(s.FillsElements) > 0 {
		names := make([]string, len(s.FillsElements))
		for i, e := range s.FillsElements {
			names[i] = e.String()
		}
		fmt.Fprintf(&b, "; brings in %s", strings.Join(names, ", "))
	}
	return b.String()
}

// Apply returns team with the suggestion applied, ordered by ID. It fails with
// model.ErrInvalidInput when the outgoing member is absent or the incoming
// profile is already present.
func Apply(team []model.Profile, s Suggestion) ([]model.Profile, error) {
	const op = "optimizer.apply"
	out := make([]model.Profile, 0, len(team)+1)
	removed := s.Out == nil
	for _, p := range team {
		if s.Out != nil && p.ID == s.Out.ID {
			removed = true
			continue
		}
		if s.In != nil && p.ID == s.In.ID {
			return nil, model.Invalid(op, "member "+p.ID+" is already on the team")
		}
		out = append(out, p)
	}
	if !removed {
		return nil, model.Invalid(op, "member "+s.Out.ID+" is not on the team")
	}
	if s.In != nil {
		out = append(out, *s.In)
	}
	return model.SortByID(out), nil
}

// with returns a copy of team with index i replaced by p. i < 0 appends p and
// an empty p removes index i.
func with(team []model.Profile, i int, p model.Profile) []model.Profile {
	out := slices.Clone(team)
	switch {
	case i < 0:
		return append(out, p)
	case p.ID == "":
		return slices.Delete(out, i, i+1)
	default:
		out[i] = p
		return out
	}
}

func outside(eligible, team []model.Profile) []model.Profile {
	out := make([]model.Profile, 0, len(eligible))
	for _, p := range eligible {
		if !slices.ContainsFunc(team, func(q model.Profile) bool { return q.ID == p.ID }) {
			out = append(out, p)
		}
	}
	return out
}

func ptr(p model.Profile) *model.Profile { return &p }
