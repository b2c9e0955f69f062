// Package scoring aggregates pairwise compatibility into team-level scores.
package scoring

import (
	"github.com/okian/teamfit/internal/domain/balance"
	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/internal/domain/conflict"
	"github.com/okian/teamfit/internal/domain/model"
)

// Sentinel values reported for groups with fewer than two members. A team of
// one has no internal conflict.
const (
	soloScore    = compat.MaxScore
	soloConflict = compat.MinScore
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithConflictThreshold sets the threshold of the attached conflict list.
func WithConflictThreshold(threshold int) Option {
	return func(a *Aggregator) {
		if threshold >= compat.MinScore && threshold <= compat.MaxScore {
			a.conflictThreshold = threshold
		}
	}
}

// WithBalanceAnalyzer replaces the default element balance analyzer.
func WithBalanceAnalyzer(an *balance.Analyzer) Option {
	return func(a *Aggregator) {
		if an != nil {
			a.analyzer = an
		}
	}
}

// Dimensions are mean pairwise scores of a group.
type Dimensions struct {
	Overall           float64 `json:"overall"`
	Work              float64 `json:"work"`
	Communication     float64 `json:"communication"`
	ConflictPotential float64 `json:"conflict_potential"`
	Synergy           float64 `json:"synergy"`
}

// Breakdown is the full score report of a group.
type Breakdown struct {
	Size      int `json:"size"`
	PairCount int `json:"pair_count"`
	Dimensions
	Level     compat.Level    `json:"level"`
	Balance   balance.Report  `json:"balance"`
	Conflicts []conflict.Pair `json:"conflicts"`
}

// Aggregator combines pairwise scores into group metrics.
type Aggregator struct {
	scorer            compat.Scorer
	analyzer          *balance.Analyzer
	detector          *conflict.Detector
	conflictThreshold int
}

// NewAggregator creates an aggregator over a pair scorer.
func NewAggregator(scorer compat.Scorer, opts ...Option) *Aggregator {
	a := &Aggregator{
		scorer:            scorer,
		analyzer:          balance.NewAnalyzer(),
		detector:          conflict.NewDetector(scorer),
		conflictThreshold: conflict.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scorer returns the underlying pair scorer.
func (a *Aggregator) Scorer() compat.Scorer { return a.scorer }

// Analyzer returns the balance analyzer used for reports.
func (a *Aggregator) Analyzer() *balance.Analyzer { return a.analyzer }

// Detector returns the conflict detector used for reports.
func (a *Aggregator) Detector() *conflict.Detector { return a.detector }

// ConflictThreshold returns the threshold of attached conflict lists.
func (a *Aggregator) ConflictThreshold() int { return a.conflictThreshold }

// Means returns the mean of every dimension across all unordered pairs of ps.
// Groups smaller than two get the solo sentinel.
func (a *Aggregator) Means(ps []model.Profile) Dimensions {
	var sum compat.Scores
	pairs := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			r := a.scorer.Lookup(ps[i].Sign, ps[j].Sign)
			sum.Overall += r.Overall
			sum.Work += r.Work
			sum.Communication += r.Communication
			sum.ConflictPotential += r.ConflictPotential
			sum.Synergy += r.Synergy
			pairs++
		}
	}
	if pairs == 0 {
		return Dimensions{
			Overall:           soloScore,
			Work:              soloScore,
			Communication:     soloScore,
			ConflictPotential: soloConflict,
			Synergy:           soloScore,
		}
	}
	n := float64(pairs)
	return Dimensions{
		Overall:           float64(sum.Overall) / n,
		Work:              float64(sum.Work) / n,
		Communication:     float64(sum.Communication) / n,
		ConflictPotential: float64(sum.ConflictPotential) / n,
		Synergy:           float64(sum.Synergy) / n,
	}
}

// Score returns the breakdown of ps. It never fails; a group of fewer than two
// members gets an overall score of 100 and level n/a.
func (a *Aggregator) Score(ps []model.Profile) Breakdown {
	b := Breakdown{
		Size:       len(ps),
		PairCount:  len(ps) * (len(ps) - 1) / 2,
		Dimensions: a.Means(ps),
		Balance:    a.analyzer.Analyze(ps),
		Conflicts:  a.detector.Detect(ps, a.conflictThreshold),
	}
	if len(ps) < 2 {
		b.PairCount = 0
		b.Level = compat.LevelNA
		return b
	}
	b.Level = compat.Classify(b.Overall)
	return b
}

// ScoreChecked is Score for caller-supplied groups: repeated IDs are a
// contract violation and yield model.ErrDuplicateMember.
func (a *Aggregator) ScoreChecked(ps []model.Profile) (Breakdown, error) {
	if err := model.CheckUnique(ps); err != nil {
		return Breakdown{}, err
	}
	return a.Score(ps), nil
}
