package conflict_test

import (
	"testing"

	"github.com/okian/teamfit/internal/adapters/reference"
	"github.com/okian/teamfit/internal/domain/conflict"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/zodiac"
	. "github.com/smartystreets/goconvey/convey"
)

func profile(id string, s zodiac.Sign) model.Profile {
	return model.Profile{ID: id, Sign: s, Element: zodiac.ElementOf(s), Active: true}
}

func TestDetect(t *testing.T) {
	Convey("Given a detector over the embedded matrix", t, func() {
		d := conflict.NewDetector(reference.MustDefault())

		Convey("When a group has exactly one pair at 75", func() {
			group := []model.Profile{
				profile("sam", zodiac.Scorpio),
				profile("ada", zodiac.Aquarius),
				profile("lee", zodiac.Libra),
			}
			got := d.Detect(group, conflict.DefaultThreshold)

			Convey("Then that pair is returned first and only", func() {
				So(len(got), ShouldEqual, 1)
				So(got[0], ShouldResemble, conflict.Pair{
					A: "ada", B: "sam", ConflictPotential: 75, Severity: conflict.SeverityHigh,
				})
			})
		})

		Convey("When a group has several conflicts", func() {
			group := []model.Profile{
				profile("m1", zodiac.Aries),
				profile("m2", zodiac.Cancer),
				profile("m3", zodiac.Libra),
				profile("m4", zodiac.Capricorn),
			}
			got := d.Detect(group, conflict.DefaultThreshold)

			Convey("Then they are ordered by conflict potential descending", func() {
				So(len(got), ShouldEqual, 4)
				So(got[0].A, ShouldEqual, "m2")
				So(got[0].B, ShouldEqual, "m3")
				So(got[0].ConflictPotential, ShouldEqual, 89)
				So(got[0].Severity, ShouldEqual, conflict.SeverityCritical)
				So(got[1].ConflictPotential, ShouldEqual, 86)
				for i := 1; i < len(got); i++ {
					So(got[i-1].ConflictPotential, ShouldBeGreaterThanOrEqualTo, got[i].ConflictPotential)
				}
			})

			Convey("Then ties are broken by ascending ID pair", func() {
				// aries/capricorn and libra/capricorn both score 83.
				So(got[2].ConflictPotential, ShouldEqual, 83)
				So(got[3].ConflictPotential, ShouldEqual, 83)
				So(got[2].A+got[2].B, ShouldEqual, "m1m4")
				So(got[3].A+got[3].B, ShouldEqual, "m3m4")
			})

			Convey("Then Count and Max agree with Detect", func() {
				So(d.Count(group, conflict.DefaultThreshold), ShouldEqual, len(got))
				So(d.Max(group[0], group), ShouldEqual, 86)
			})
		})

		Convey("When nothing reaches the threshold", func() {
			group := []model.Profile{profile("a", zodiac.Aries), profile("b", zodiac.Leo)}
			So(d.Detect(group, conflict.DefaultThreshold), ShouldBeEmpty)
			So(d.Detect(group, 0), ShouldHaveLength, 1)
		})

		Convey("When the same member appears twice", func() {
			group := []model.Profile{profile("a", zodiac.Aries), profile("a", zodiac.Aries)}
			So(d.Detect(group, 0), ShouldBeEmpty)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given the severity buckets", t, func() {
		So(conflict.Classify(95), ShouldEqual, conflict.SeverityCritical)
		So(conflict.Classify(80), ShouldEqual, conflict.SeverityCritical)
		So(conflict.Classify(60), ShouldEqual, conflict.SeverityHigh)
		So(conflict.Classify(59), ShouldEqual, conflict.SeverityMedium)
		So(conflict.Classify(35), ShouldEqual, conflict.SeverityMedium)
		So(conflict.Classify(34), ShouldEqual, conflict.SeverityLow)
	})
}
