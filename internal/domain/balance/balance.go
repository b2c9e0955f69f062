// Package balance reports how a group's members spread across the four
// elements.
package balance

import (
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/zodiac"
)

const defaultMinPerElement = 1

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithMinPerElement sets how many members of each element a balanced group
// needs.
func WithMinPerElement(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.minPerElement = n
		}
	}
}

// Counts holds member counts indexed by element.
type Counts map[zodiac.Element]int

// Report is the element balance of a group. Missing lists elements with no
// member at all; Short lists every element below the minimum, so Missing is a
// subset of Short. Shortfall is the number of members still needed.
type Report struct {
	Counts     Counts           `json:"counts"`
	IsBalanced bool             `json:"is_balanced"`
	Missing    []zodiac.Element `json:"missing_elements"`
	Short      []zodiac.Element `json:"short_elements"`
	Shortfall  int              `json:"shortfall"`
	Dominant   zodiac.Element   `json:"dominant_element,omitempty"`
}

// Analyzer computes element balance reports. It is stateless after
// construction.
type Analyzer struct {
	minPerElement int
}

// NewAnalyzer creates an analyzer with configuration options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{minPerElement: defaultMinPerElement}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MinPerElement returns the configured minimum.
func (a *Analyzer) MinPerElement() int { return a.minPerElement }

// Analyze counts the elements of ps. Profiles are expected to be normalized so
// each carries a valid element; others are ignored.
func (a *Analyzer) Analyze(ps []model.Profile) Report {
	counts := Counts{}
	for _, e := range zodiac.Elements() {
		counts[e] = 0
	}
	for _, p := range ps {
		if p.Element.Valid() {
			counts[p.Element]++
		}
	}
	return a.report(counts)
}

func (a *Analyzer) report(counts Counts) Report {
	r := Report{Counts: counts, Missing: []zodiac.Element{}, Short: []zodiac.Element{}}
	best := 0
	for _, e := range zodiac.Elements() {
		n := counts[e]
		if n == 0 {
			r.Missing = append(r.Missing, e)
		}
		if n < a.minPerElement {
			r.Short = append(r.Short, e)
			r.Shortfall += a.minPerElement - n
		}
		if n > best {
			best = n
			r.Dominant = e
		}
	}
	r.IsBalanced = len(r.Short) == 0
	return r
}

// Fills reports whether moving from before to after brings the group closer
// to the minimum.
func Fills(before, after Report) bool {
	return after.Shortfall < before.Shortfall
}
