// Package compat holds the immutable pairwise compatibility matrix between
// signs and the record type it serves.
package compat

import "github.com/okian/teamfit/internal/domain/zodiac"

// Score bounds shared by every dimension.
const (
	MinScore = 0
	MaxScore = 100
)

// Level is the qualitative band of an overall score.
type Level string

const (
	LevelExcellent   Level = "excellent"
	LevelGood        Level = "good"
	LevelModerate    Level = "moderate"
	LevelChallenging Level = "challenging"
	LevelDifficult   Level = "difficult"
	// LevelNA is reported for groups too small to have a pair.
	LevelNA Level = "n/a"
)

// Level thresholds (inclusive lower bounds).
const (
	excellentThreshold   = 80
	goodThreshold        = 65
	moderateThreshold    = 50
	challengingThreshold = 35
)

// Classify maps an overall score to its level. It is monotonic in score.
func Classify(score float64) Level {
	switch {
	case score >= excellentThreshold:
		return LevelExcellent
	case score >= goodThreshold:
		return LevelGood
	case score >= moderateThreshold:
		return LevelModerate
	case score >= challengingThreshold:
		return LevelChallenging
	default:
		return LevelDifficult
	}
}

// highConflictThreshold marks a pair as likely to generate friction.
const highConflictThreshold = 60

// Scores bundles the five numeric dimensions of a pair.
type Scores struct {
	Overall           int `json:"overall" yaml:"overall"`
	Work              int `json:"work" yaml:"work"`
	Communication     int `json:"communication" yaml:"communication"`
	ConflictPotential int `json:"conflict_potential" yaml:"conflict_potential"`
	Synergy           int `json:"synergy" yaml:"synergy"`
}

// Row is one line of reference data before validation.
type Row struct {
	A, B zodiac.Sign
	Scores
}

// Record is the validated compatibility of an unordered sign pair.
// SignA <= SignB always holds.
type Record struct {
	SignA zodiac.Sign `json:"sign_a"`
	SignB zodiac.Sign `json:"sign_b"`
	Scores
	Level   Level   `json:"level"`
	Harmony Harmony `json:"element_harmony"`
}

// IsExcellentMatch reports whether the pair classifies as excellent.
func (r Record) IsExcellentMatch() bool { return r.Level == LevelExcellent }

// HasHighConflictPotential reports whether friction between the pair is likely.
func (r Record) HasHighConflictPotential() bool {
	return r.ConflictPotential >= highConflictThreshold
}

// IsHarmonious reports whether the pair's elements are harmonious.
func (r Record) IsHarmonious() bool { return r.Harmony == Harmonious }

// Key is the canonical (min, max) key of a sign pair.
type Key struct {
	A, B zodiac.Sign
}

// KeyOf canonicalizes an unordered pair.
func KeyOf(a, b zodiac.Sign) Key {
	if b < a {
		a, b = b, a
	}
	return Key{A: a, B: b}
}

func (k Key) String() string { return k.A.String() + "/" + k.B.String() }
