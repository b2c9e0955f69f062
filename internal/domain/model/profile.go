// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"strings"

	"github.com/okian/teamfit/internal/domain/zodiac"
)

// Profile is a read-only snapshot of a person supplied by the member store.
// The engine never mutates or persists profiles.
type Profile struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Sign    zodiac.Sign    `json:"sign" yaml:"sign"`
	Element zodiac.Element `json:"element,omitempty" yaml:"element,omitempty"`
	Active  bool           `json:"active" yaml:"active"`
}

// Label returns the display name, falling back to the ID.
func (p Profile) Label() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.ID
}

// Normalize validates a profile and fills its element from the sign when it is
// unset. elementOf is normally (*compat.Matrix).ElementOf.
func Normalize(op string, p Profile, elementOf func(zodiac.Sign) zodiac.Element) (Profile, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Profile{}, Invalid(op, "profile without id")
	}
	if !p.Sign.Valid() {
		return Profile{}, Invalid(op, "profile "+p.ID+" has no valid sign")
	}
	want := elementOf(p.Sign)
	switch {
	case p.Element == zodiac.ElementUnknown:
		p.Element = want
	case p.Element != want:
		return Profile{}, Invalid(op, "profile "+p.ID+": element "+p.Element.String()+" does not match sign "+p.Sign.String())
	}
	return p, nil
}

// NormalizeAll normalizes every profile in order.
func NormalizeAll(op string, ps []Profile, elementOf func(zodiac.Sign) zodiac.Element) ([]Profile, error) {
	out := make([]Profile, len(ps))
	for i, p := range ps {
		n, err := Normalize(op, p, elementOf)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// SortByID returns a copy of ps ordered by ascending ID.
func SortByID(ps []Profile) []Profile {
	out := slices.Clone(ps)
	slices.SortStableFunc(out, func(a, b Profile) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// CheckUnique returns ErrDuplicateMember naming the first repeated ID.
func CheckUnique(ps []Profile) error {
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if _, ok := seen[p.ID]; ok {
			return &DuplicateMemberError{ID: p.ID}
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Eligible keeps active profiles, dropping repeated IDs (first occurrence
// wins), and returns them ordered by ID.
func Eligible(ps []Profile) []Profile {
	seen := make(map[string]struct{}, len(ps))
	out := make([]Profile, 0, len(ps))
	for _, p := range ps {
		if !p.Active {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return SortByID(out)
}
