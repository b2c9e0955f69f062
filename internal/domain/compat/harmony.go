package compat

import "github.com/okian/teamfit/internal/domain/zodiac"

// Harmony classifies how two elements get along, independent of the numeric
// scores of any pair.
type Harmony string

const (
	Harmonious  Harmony = "harmonious"
	Neutral     Harmony = "neutral"
	Challenging Harmony = "challenging"
)

// ElementPair is the canonical key of an unordered element pair.
type ElementPair struct {
	A, B zodiac.Element
}

// ElementPairOf canonicalizes an unordered element pair.
func ElementPairOf(a, b zodiac.Element) ElementPair {
	if b < a {
		a, b = b, a
	}
	return ElementPair{A: a, B: b}
}

// HarmonyTable maps every unordered element pair to its harmony. It is
// reference data and may be replaced wholesale with WithHarmonyTable.
type HarmonyTable map[ElementPair]Harmony

// DefaultHarmonyTable returns a fresh copy of the standard table: same
// element and the complementary fire/air and earth/water pairs are
// harmonious; fire/water and earth/air are challenging; the rest neutral.
func DefaultHarmonyTable() HarmonyTable {
	t := HarmonyTable{}
	for _, e := range zodiac.Elements() {
		t[ElementPairOf(e, e)] = Harmonious
	}
	t[ElementPairOf(zodiac.Fire, zodiac.Air)] = Harmonious
	t[ElementPairOf(zodiac.Earth, zodiac.Water)] = Harmonious
	t[ElementPairOf(zodiac.Fire, zodiac.Water)] = Challenging
	t[ElementPairOf(zodiac.Earth, zodiac.Air)] = Challenging
	t[ElementPairOf(zodiac.Fire, zodiac.Earth)] = Neutral
	t[ElementPairOf(zodiac.Air, zodiac.Water)] = Neutral
	return t
}

// Lookup returns the harmony of two elements.
func (t HarmonyTable) Lookup(a, b zodiac.Element) (Harmony, bool) {
	h, ok := t[ElementPairOf(a, b)]
	return h, ok
}

// missing lists the element pairs the table does not cover.
func (t HarmonyTable) missing() []ElementPair {
	var out []ElementPair
	els := zodiac.Elements()
	for i, a := range els {
		for _, b := range els[i:] {
			h, ok := t[ElementPairOf(a, b)]
			if !ok || (h != Harmonious && h != Neutral && h != Challenging) {
				out = append(out, ElementPairOf(a, b))
			}
		}
	}
	return out
}
