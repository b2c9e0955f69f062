package compat

import (
	"fmt"

	"github.com/okian/teamfit/internal/domain/zodiac"
)

// PairCount is the number of unordered sign pairs including self-pairs.
const PairCount = zodiac.SignCount * (zodiac.SignCount + 1) / 2

// Option applies a configuration option to matrix construction.
type Option func(*Matrix)

// WithHarmonyTable replaces the element harmony reference table.
func WithHarmonyTable(t HarmonyTable) Option {
	return func(m *Matrix) {
		if t != nil {
			m.harmony = t
		}
	}
}

// WithElements sets the sign to element mapping from reference data. Signs
// not present in the map keep the standard mapping.
func WithElements(elements map[zodiac.Sign]zodiac.Element) Option {
	return func(m *Matrix) {
		for s, e := range elements {
			if s.Valid() {
				m.elements[s-1] = e
			}
		}
	}
}

// Matrix is the validated, read-only compatibility table. It is safe for
// concurrent use once NewMatrix returns.
type Matrix struct {
	cells    [zodiac.SignCount][zodiac.SignCount]*Record
	records  []Record
	elements [zodiac.SignCount]zodiac.Element
	harmony  HarmonyTable
}

// NewMatrix validates rows and freezes them into a Matrix. It returns an
// *IncompleteMatrixError listing every problem when rows do not contain
// exactly one in-range record per canonical sign pair.
func NewMatrix(rows []Row, opts ...Option) (*Matrix, error) {
	m := &Matrix{harmony: DefaultHarmonyTable()}
	for _, s := range zodiac.Signs() {
		m.elements[s-1] = zodiac.ElementOf(s)
	}
	for _, opt := range opts {
		opt(m)
	}

	verr := &IncompleteMatrixError{}
	for _, s := range zodiac.Signs() {
		if !m.elements[s-1].Valid() {
			verr.Problems = append(verr.Problems, fmt.Sprintf("sign %s has no element", s))
		}
	}
	for _, p := range m.harmony.missing() {
		verr.Problems = append(verr.Problems, fmt.Sprintf("harmony table missing %s/%s", p.A, p.B))
	}

	seen := make(map[Key]Row, PairCount)
	for i, row := range rows {
		if !row.A.Valid() || !row.B.Valid() {
			verr.Problems = append(verr.Problems, fmt.Sprintf("row %d: invalid sign", i))
			continue
		}
		k := KeyOf(row.A, row.B)
		if _, dup := seen[k]; dup {
			verr.Duplicates = append(verr.Duplicates, k)
			continue
		}
		for _, f := range outOfRange(row.Scores) {
			verr.Problems = append(verr.Problems, fmt.Sprintf("%s: %s out of range", k, f))
		}
		seen[k] = row
	}

	signs := zodiac.Signs()
	for i, a := range signs {
		for _, b := range signs[i:] {
			if _, ok := seen[KeyOf(a, b)]; !ok {
				verr.Missing = append(verr.Missing, KeyOf(a, b))
			}
		}
	}
	if !verr.empty() {
		return nil, verr
	}

	m.records = make([]Record, 0, PairCount)
	for i, a := range signs {
		for _, b := range signs[i:] {
			row := seen[KeyOf(a, b)]
			h, _ := m.harmony.Lookup(m.elements[a-1], m.elements[b-1])
			m.records = append(m.records, Record{
				SignA:   a,
				SignB:   b,
				Scores:  row.Scores,
				Level:   Classify(float64(row.Overall)),
				Harmony: h,
			})
		}
	}
	for i := range m.records {
		r := &m.records[i]
		m.cells[r.SignA-1][r.SignB-1] = r
		m.cells[r.SignB-1][r.SignA-1] = r
	}
	return m, nil
}

func outOfRange(s Scores) []string {
	var out []string
	check := func(name string, v int) {
		if v < MinScore || v > MaxScore {
			out = append(out, fmt.Sprintf("%s=%d", name, v))
		}
	}
	check("overall", s.Overall)
	check("work", s.Work)
	check("communication", s.Communication)
	check("conflict_potential", s.ConflictPotential)
	check("synergy", s.Synergy)
	return out
}

// Lookup returns the record of an unordered sign pair; argument order does not
// matter. Both signs must be valid: an invalid sign is a caller contract
// violation and panics.
func (m *Matrix) Lookup(a, b zodiac.Sign) Record {
	return *m.cells[a-1][b-1]
}

// LookupChecked is Lookup for unvalidated input.
func (m *Matrix) LookupChecked(a, b zodiac.Sign) (Record, error) {
	if !a.Valid() || !b.Valid() {
		return Record{}, fmt.Errorf("%w: %d/%d", ErrUnknownSign, int(a), int(b))
	}
	return m.Lookup(a, b), nil
}

// ElementOf returns the element of s under the loaded reference data.
func (m *Matrix) ElementOf(s zodiac.Sign) zodiac.Element {
	if !s.Valid() {
		return zodiac.ElementUnknown
	}
	return m.elements[s-1]
}

// Harmony returns the harmony of two elements under the loaded table.
func (m *Matrix) Harmony(a, b zodiac.Element) Harmony {
	h, _ := m.harmony.Lookup(a, b)
	return h
}

// Records returns a copy of all records in canonical order.
func (m *Matrix) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of records.
func (m *Matrix) Len() int { return len(m.records) }
