// Package zodiac defines the twelve signs and four elements the engine
// classifies people by.
package zodiac

import (
	"fmt"
	"strings"
)

// Sign is one of the twelve zodiac signs. Signs are totally ordered by their
// position in the zodiac, which the engine relies on for canonical pair keys
// and deterministic tie-breaking.
type Sign int

// The zero Sign is invalid.
const (
	SignUnknown Sign = iota
	Aries
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// SignCount is the number of valid signs.
const SignCount = 12

var signNames = [...]string{
	SignUnknown: "unknown",
	Aries:       "aries",
	Taurus:      "taurus",
	Gemini:      "gemini",
	Cancer:      "cancer",
	Leo:         "leo",
	Virgo:       "virgo",
	Libra:       "libra",
	Scorpio:     "scorpio",
	Sagittarius: "sagittarius",
	Capricorn:   "capricorn",
	Aquarius:    "aquarius",
	Pisces:      "pisces",
}

// Signs returns all valid signs in zodiac order.
func Signs() []Sign {
	out := make([]Sign, 0, SignCount)
	for s := Aries; s <= Pisces; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool { return s >= Aries && s <= Pisces }

func (s Sign) String() string {
	if !s.Valid() {
		return signNames[SignUnknown]
	}
	return signNames[s]
}

// ParseSign parses a sign name case-insensitively.
func ParseSign(name string) (Sign, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s := Aries; s <= Pisces; s++ {
		if signNames[s] == n {
			return s, nil
		}
	}
	return SignUnknown, fmt.Errorf("%w: %q", ErrUnknownSign, name)
}

// MarshalText encodes the sign as its lower-case name.
func (s Sign) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSign, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a sign name.
func (s *Sign) UnmarshalText(b []byte) error {
	v, err := ParseSign(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Element is one of the four classical elements. The declaration order is the
// canonical element order used in reports.
type Element int

const (
	ElementUnknown Element = iota
	Fire
	Earth
	Air
	Water
)

// ElementCount is the number of valid elements.
const ElementCount = 4

var elementNames = [...]string{
	ElementUnknown: "unknown",
	Fire:           "fire",
	Earth:          "earth",
	Air:            "air",
	Water:          "water",
}

// Elements returns all valid elements in canonical order.
func Elements() []Element {
	return []Element{Fire, Earth, Air, Water}
}

// Valid reports whether e is one of the four elements.
func (e Element) Valid() bool { return e >= Fire && e <= Water }

func (e Element) String() string {
	if !e.Valid() {
		return elementNames[ElementUnknown]
	}
	return elementNames[e]
}

// ParseElement parses an element name case-insensitively.
func ParseElement(name string) (Element, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for e := Fire; e <= Water; e++ {
		if elementNames[e] == n {
			return e, nil
		}
	}
	return ElementUnknown, fmt.Errorf("%w: %q", ErrUnknownElement, name)
}

// MarshalText encodes the element as its lower-case name. The unknown element
// encodes as an empty string so it can be omitted from JSON output.
func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return []byte(""), nil
	}
	return []byte(e.String()), nil
}

// UnmarshalText decodes an element name. An empty value decodes to
// ElementUnknown.
func (e *Element) UnmarshalText(b []byte) error {
	if strings.TrimSpace(string(b)) == "" {
		*e = ElementUnknown
		return nil
	}
	v, err := ParseElement(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ElementOf returns the element a sign belongs to under the standard
// triplicity mapping. Use a compat.Matrix to honor reference data that was
// loaded at startup.
func ElementOf(s Sign) Element {
	if !s.Valid() {
		return ElementUnknown
	}
	return Element((int(s)-1)%ElementCount + 1)
}
