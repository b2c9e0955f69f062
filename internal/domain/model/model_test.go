package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/zodiac"
	"github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	convey.Convey("Given profile snapshots", t, func() {
		convey.Convey("When the element is unset", func() {
			p, err := model.Normalize("test", model.Profile{ID: "a", Sign: zodiac.Scorpio}, zodiac.ElementOf)

			convey.Convey("Then it is derived from the sign", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Element, convey.ShouldEqual, zodiac.Water)
			})
		})

		convey.Convey("When the element disagrees with the sign", func() {
			_, err := model.Normalize("test", model.Profile{ID: "a", Sign: zodiac.Scorpio, Element: zodiac.Fire}, zodiac.ElementOf)

			convey.Convey("Then it is invalid input", func() {
				convey.So(errors.Is(err, model.ErrInvalidInput), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "does not match sign scorpio")
			})
		})

		convey.Convey("When the ID or sign is missing", func() {
			_, err := model.Normalize("test", model.Profile{Sign: zodiac.Leo}, zodiac.ElementOf)
			convey.So(errors.Is(err, model.ErrInvalidInput), convey.ShouldBeTrue)

			_, err = model.NormalizeAll("test", []model.Profile{{ID: "ok", Sign: zodiac.Leo}, {ID: "x"}}, zodiac.ElementOf)
			var iie *model.InvalidInputError
			convey.So(errors.As(err, &iie), convey.ShouldBeTrue)
			convey.So(iie.Op, convey.ShouldEqual, "test")
		})
	})
}

func TestEligible(t *testing.T) {
	convey.Convey("Given a pool with inactive and repeated profiles", t, func() {
		pool := []model.Profile{
			{ID: "c", Sign: zodiac.Leo, Active: true},
			{ID: "a", Sign: zodiac.Aries, Active: true},
			{ID: "b", Sign: zodiac.Libra, Active: false},
			{ID: "a", Sign: zodiac.Pisces, Active: true},
		}

		convey.Convey("Then eligible keeps the first active occurrence ordered by ID", func() {
			got := model.Eligible(pool)
			convey.So(len(got), convey.ShouldEqual, 2)
			convey.So(got[0].ID, convey.ShouldEqual, "a")
			convey.So(got[0].Sign, convey.ShouldEqual, zodiac.Aries)
			convey.So(got[1].ID, convey.ShouldEqual, "c")
		})

		convey.Convey("Then uniqueness checks name the repeated ID", func() {
			err := model.CheckUnique(pool)
			convey.So(errors.Is(err, model.ErrDuplicateMember), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, `"a"`)
		})
	})
}

func TestComposition(t *testing.T) {
	convey.Convey("Given member IDs", t, func() {
		convey.Convey("When they are unique", func() {
			c, err := model.NewComposition("m3", "m1", "m2")

			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Size(), convey.ShouldEqual, 3)
			convey.So(c.IDs(), convey.ShouldResemble, []string{"m1", "m2", "m3"})
			convey.So(c.Contains("m2"), convey.ShouldBeTrue)
			convey.So(c.Contains("m4"), convey.ShouldBeFalse)
			convey.So(c.String(), convey.ShouldEqual, "{m1,m2,m3}")

			b, err := json.Marshal(c)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `["m1","m2","m3"]`)
		})

		convey.Convey("When an ID repeats", func() {
			_, err := model.NewComposition("m1", "m2", "m1")
			convey.So(errors.Is(err, model.ErrDuplicateMember), convey.ShouldBeTrue)
		})

		convey.Convey("When built from profiles", func() {
			c, err := model.CompositionOf([]model.Profile{{ID: "z"}, {ID: "y"}})
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.IDs(), convey.ShouldResemble, []string{"y", "z"})
		})
	})
}
