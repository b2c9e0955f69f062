// Package conflict finds member pairs whose signs are likely to clash.
package conflict

import (
	"cmp"
	"slices"

	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/internal/domain/model"
)

// DefaultThreshold is the conflict potential at which a pair is reported.
const DefaultThreshold = 60

// Severity buckets a pair's conflict potential.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severity thresholds (inclusive lower bounds).
const (
	criticalThreshold = 80
	highThreshold     = 60
	mediumThreshold   = 35
)

// Classify maps a conflict potential to its severity.
func Classify(potential int) Severity {
	switch {
	case potential >= criticalThreshold:
		return SeverityCritical
	case potential >= highThreshold:
		return SeverityHigh
	case potential >= mediumThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Pair is one reported conflict. IDs are ordered so that A < B.
type Pair struct {
	A                 string   `json:"member_a"`
	B                 string   `json:"member_b"`
	ConflictPotential int      `json:"conflict_potential"`
	Severity          Severity `json:"severity"`
}

// Detector scans groups for conflicting pairs.
type Detector struct {
	scorer compat.Scorer
}

// NewDetector creates a detector over a pair scorer.
func NewDetector(scorer compat.Scorer) *Detector {
	return &Detector{scorer: scorer}
}

// Detect returns every pair of distinct members whose conflict potential is at
// least threshold, highest first; ties are ordered by ascending (A, B).
func (d *Detector) Detect(ps []model.Profile, threshold int) []Pair {
	out := []Pair{}
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			a, b := ps[i], ps[j]
			if a.ID == b.ID {
				continue
			}
			cp := d.scorer.Lookup(a.Sign, b.Sign).ConflictPotential
			if cp < threshold {
				continue
			}
			if b.ID < a.ID {
				a, b = b, a
			}
			out = append(out, Pair{A: a.ID, B: b.ID, ConflictPotential: cp, Severity: Classify(cp)})
		}
	}
	slices.SortFunc(out, func(x, y Pair) int {
		if c := cmp.Compare(y.ConflictPotential, x.ConflictPotential); c != 0 {
			return c
		}
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return out
}

// Count returns how many pairs reach threshold without building the list.
func (d *Detector) Count(ps []model.Profile, threshold int) int {
	n := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].ID != ps[j].ID && d.scorer.Lookup(ps[i].Sign, ps[j].Sign).ConflictPotential >= threshold {
				n++
			}
		}
	}
	return n
}

// Max returns the highest conflict potential between p and any member of ps.
func (d *Detector) Max(p model.Profile, ps []model.Profile) int {
	best := 0
	for _, q := range ps {
		if q.ID == p.ID {
			continue
		}
		if cp := d.scorer.Lookup(p.Sign, q.Sign).ConflictPotential; cp > best {
			best = cp
		}
	}
	return best
}
