package compat_test

import (
	"errors"
	"testing"

	"github.com/okian/teamfit/internal/adapters/reference"
	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/internal/domain/zodiac"
	. "github.com/smartystreets/goconvey/convey"
)

// fullRows returns a complete, valid set of rows with a simple distance-based
// overall score.
func fullRows() []compat.Row {
	var rows []compat.Row
	signs := zodiac.Signs()
	for i, a := range signs {
		for _, b := range signs[i:] {
			d := int(b - a)
			rows = append(rows, compat.Row{A: a, B: b, Scores: compat.Scores{
				Overall:           100 - d*8,
				Work:              50,
				Communication:     50,
				ConflictPotential: d * 8,
				Synergy:           50,
			}})
		}
	}
	return rows
}

func TestNewMatrix(t *testing.T) {
	Convey("Given complete reference rows", t, func() {
		rows := fullRows()

		Convey("When building the matrix", func() {
			m, err := compat.NewMatrix(rows)

			Convey("Then it holds one record per unordered pair", func() {
				So(err, ShouldBeNil)
				So(m.Len(), ShouldEqual, compat.PairCount)
				So(compat.PairCount, ShouldEqual, 78)
			})

			Convey("Then every sign has a self-pair", func() {
				for _, s := range zodiac.Signs() {
					r := m.Lookup(s, s)
					So(r.SignA, ShouldEqual, s)
					So(r.SignB, ShouldEqual, s)
					So(r.Overall, ShouldEqual, 100)
				}
			})

			Convey("Then lookup is symmetric and canonical", func() {
				for _, a := range zodiac.Signs() {
					for _, b := range zodiac.Signs() {
						ab := m.Lookup(a, b)
						So(ab, ShouldResemble, m.Lookup(b, a))
						So(ab.SignA, ShouldBeLessThanOrEqualTo, ab.SignB)
					}
				}
			})

			Convey("Then level and harmony are derived at construction", func() {
				r := m.Lookup(zodiac.Aries, zodiac.Leo)
				So(r.Overall, ShouldEqual, 68)
				So(r.Level, ShouldEqual, compat.LevelGood)
				So(r.Harmony, ShouldEqual, compat.Harmonious)
				So(m.Lookup(zodiac.Aries, zodiac.Cancer).Harmony, ShouldEqual, compat.Challenging)
				So(m.Lookup(zodiac.Aries, zodiac.Taurus).Harmony, ShouldEqual, compat.Neutral)
			})

			Convey("Then rows listed in reverse order are canonicalized", func() {
				rev := fullRows()
				for i := range rev {
					rev[i].A, rev[i].B = rev[i].B, rev[i].A
				}
				m2, err := compat.NewMatrix(rev)
				So(err, ShouldBeNil)
				So(m2.Records(), ShouldResemble, m.Records())
			})
		})

		Convey("When a pair is missing", func() {
			_, err := compat.NewMatrix(rows[1:])

			Convey("Then construction fails with the missing key", func() {
				So(errors.Is(err, compat.ErrIncompleteMatrix), ShouldBeTrue)
				var ime *compat.IncompleteMatrixError
				So(errors.As(err, &ime), ShouldBeTrue)
				So(ime.Missing, ShouldResemble, []compat.Key{{A: zodiac.Aries, B: zodiac.Aries}})
			})
		})

		Convey("When a pair is listed twice", func() {
			dup := append(fullRows(), compat.Row{A: zodiac.Libra, B: zodiac.Aries})
			_, err := compat.NewMatrix(dup)

			Convey("Then construction fails with the duplicate", func() {
				var ime *compat.IncompleteMatrixError
				So(errors.As(err, &ime), ShouldBeTrue)
				So(ime.Duplicates, ShouldResemble, []compat.Key{compat.KeyOf(zodiac.Aries, zodiac.Libra)})
			})
		})

		Convey("When a score is out of range", func() {
			bad := fullRows()
			bad[3].Synergy = 101
			_, err := compat.NewMatrix(bad)

			Convey("Then construction fails", func() {
				So(errors.Is(err, compat.ErrIncompleteMatrix), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "synergy=101")
			})
		})

		Convey("When the harmony table is incomplete", func() {
			_, err := compat.NewMatrix(rows, compat.WithHarmonyTable(compat.HarmonyTable{
				compat.ElementPairOf(zodiac.Fire, zodiac.Fire): compat.Harmonious,
			}))

			Convey("Then construction fails", func() {
				So(errors.Is(err, compat.ErrIncompleteMatrix), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "harmony table missing")
			})
		})

		Convey("When a custom harmony table is supplied", func() {
			table := compat.DefaultHarmonyTable()
			table[compat.ElementPairOf(zodiac.Fire, zodiac.Earth)] = compat.Challenging
			m, err := compat.NewMatrix(rows, compat.WithHarmonyTable(table))

			Convey("Then records use it", func() {
				So(err, ShouldBeNil)
				So(m.Lookup(zodiac.Taurus, zodiac.Aries).Harmony, ShouldEqual, compat.Challenging)
				So(m.Harmony(zodiac.Earth, zodiac.Fire), ShouldEqual, compat.Challenging)
			})
		})
	})
}

func TestLookupChecked(t *testing.T) {
	Convey("Given the embedded matrix", t, func() {
		m := reference.MustDefault()

		Convey("When looking up invalid signs", func() {
			_, err := m.LookupChecked(zodiac.SignUnknown, zodiac.Aries)
			So(errors.Is(err, compat.ErrUnknownSign), ShouldBeTrue)
		})

		Convey("When looking up valid signs", func() {
			r, err := m.LookupChecked(zodiac.Libra, zodiac.Aries)
			So(err, ShouldBeNil)
			So(r.SignA, ShouldEqual, zodiac.Aries)
			So(r.SignB, ShouldEqual, zodiac.Libra)
			So(r.Overall, ShouldEqual, 65)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given the level thresholds", t, func() {
		So(compat.Classify(100), ShouldEqual, compat.LevelExcellent)
		So(compat.Classify(80), ShouldEqual, compat.LevelExcellent)
		So(compat.Classify(79.9), ShouldEqual, compat.LevelGood)
		So(compat.Classify(65), ShouldEqual, compat.LevelGood)
		So(compat.Classify(50), ShouldEqual, compat.LevelModerate)
		So(compat.Classify(35), ShouldEqual, compat.LevelChallenging)
		So(compat.Classify(34.99), ShouldEqual, compat.LevelDifficult)
		So(compat.Classify(0), ShouldEqual, compat.LevelDifficult)

		Convey("Then classification is monotonic", func() {
			rank := map[compat.Level]int{
				compat.LevelDifficult:   0,
				compat.LevelChallenging: 1,
				compat.LevelModerate:    2,
				compat.LevelGood:        3,
				compat.LevelExcellent:   4,
			}
			prev := rank[compat.Classify(0)]
			for s := 0.0; s <= 100; s += 0.5 {
				cur := rank[compat.Classify(s)]
				So(cur, ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
		})
	})
}

func TestRecordPredicates(t *testing.T) {
	Convey("Given records from the embedded matrix", t, func() {
		m := reference.MustDefault()

		Convey("Then predicates follow the record values", func() {
			leo := m.Lookup(zodiac.Aries, zodiac.Leo)
			So(leo.IsExcellentMatch(), ShouldBeTrue)
			So(leo.IsHarmonious(), ShouldBeTrue)
			So(leo.HasHighConflictPotential(), ShouldBeFalse)

			cancer := m.Lookup(zodiac.Cancer, zodiac.Aries)
			So(cancer.IsExcellentMatch(), ShouldBeFalse)
			So(cancer.IsHarmonious(), ShouldBeFalse)
			So(cancer.HasHighConflictPotential(), ShouldBeTrue)
		})
	})
}
