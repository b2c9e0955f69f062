package model

import (
	"encoding/json"
	"slices"
	"strings"
)

// Composition is an unordered set of profile IDs. IDs are kept sorted so two
// compositions with the same members compare equal.
type Composition struct {
	ids []string
}

// NewComposition builds a composition, rejecting repeated IDs.
func NewComposition(ids ...string) (Composition, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return Composition{}, &DuplicateMemberError{ID: sorted[i]}
		}
	}
	return Composition{ids: sorted}, nil
}

// CompositionOf builds a composition from profiles.
func CompositionOf(ps []Profile) (Composition, error) {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return NewComposition(ids...)
}

// IDs returns a copy of the member IDs in ascending order.
func (c Composition) IDs() []string { return slices.Clone(c.ids) }

// Size returns the number of members.
func (c Composition) Size() int { return len(c.ids) }

// Contains reports whether id is a member.
func (c Composition) Contains(id string) bool {
	_, ok := slices.BinarySearch(c.ids, id)
	return ok
}

func (c Composition) String() string { return "{" + strings.Join(c.ids, ",") + "}" }

// MarshalJSON encodes the composition as a JSON array of IDs.
func (c Composition) MarshalJSON() ([]byte, error) {
	if c.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.ids)
}
