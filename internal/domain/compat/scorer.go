package compat

import "github.com/okian/teamfit/internal/domain/zodiac"

// Scorer is the single source of truth for what two signs score together.
// *Matrix is the production implementation.
type Scorer interface {
	// Lookup returns the record of an unordered pair of valid signs.
	Lookup(a, b zodiac.Sign) Record
	// ElementOf returns the element a sign belongs to.
	ElementOf(s zodiac.Sign) zodiac.Element
}

var _ Scorer = (*Matrix)(nil)
