package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/teamfit/internal/app"
	"github.com/okian/teamfit/internal/adapters/repository"
	"github.com/okian/teamfit/internal/domain/builder"
	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/optimizer"
	"github.com/okian/teamfit/internal/domain/zodiac"
	"github.com/okian/teamfit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func profile(id string, s zodiac.Sign) model.Profile {
	return model.Profile{ID: id, Sign: s, Active: true}
}

const seedYAML = `profiles:
  - id: m0
    sign: aries
    active: true
  - id: m1
    sign: taurus
    active: true
  - id: m2
    sign: gemini
    active: true
  - id: m3
    sign: cancer
    active: true
  - id: m4
    sign: leo
    active: true
  - id: m5
    sign: libra
    active: true
  - id: gone
    sign: pisces
    active: false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it is not ready until started", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Then engine calls fail with ErrNotReady", func() {
			ctx := context.Background()
			_, err := svc.Compatibility(ctx, zodiac.Aries, zodiac.Libra)
			So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)

			_, err = svc.ScoreTeam(ctx, []model.Profile{profile("a", zodiac.Aries)})
			So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)

			_, err = svc.BuildTeam(ctx, nil, 2, builder.Constraints{})
			So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)

			_, err = svc.ResolveProfiles(ctx, []string{"a"})
			So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
			So(errors.Is(err, model.ErrNotReady), ShouldBeTrue)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service with a broken reference file", t, func() {
		path := writeFile(t, "reference.yaml", "records: []\n")
		svc := service.New(service.WithReferencePath(path))

		Convey("Then Start fails and the engine stays not ready", func() {
			err := svc.Start(context.Background())
			So(err, ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a service with a malformed profile seed", t, func() {
		path := writeFile(t, "profiles.yaml", "profiles:\n  - id: x\n    sign: ophiuchus\n")
		svc := service.New(service.WithProfilesPath(path))

		Convey("Then Start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
		})
	})

	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Ready(), ShouldBeTrue)
		})

		Convey("Then stats describe the engine", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["records"], ShouldEqual, compat.PairCount)
			So(stats["reference"], ShouldEqual, "embedded")
			So(stats["totalProfiles"], ShouldEqual, 0)
		})

		Convey("When the service is stopped", func() {
			svc.Stop()

			Convey("Then it is no longer ready", func() {
				So(svc.Ready(), ShouldBeFalse)
				_, err := svc.Compatibility(ctx, zodiac.Aries, zodiac.Libra)
				So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
			})
		})
	})
}

func TestService_Engine(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithConflictThreshold(60))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When looking up a sign pair", func() {
			rec, err := svc.Compatibility(ctx, zodiac.Libra, zodiac.Aries)

			Convey("Then the unordered record is returned", func() {
				So(err, ShouldBeNil)
				So(rec.SignA, ShouldEqual, zodiac.Aries)
				So(rec.SignB, ShouldEqual, zodiac.Libra)
				So(rec.Overall, ShouldEqual, 65)
			})

			Convey("Then an unknown sign is invalid input", func() {
				_, err := svc.Compatibility(ctx, zodiac.Sign(13), zodiac.Aries)
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err, compat.ErrUnknownSign), ShouldBeTrue)
			})
		})

		Convey("When scoring a fire trio", func() {
			b, err := svc.ScoreTeam(ctx, []model.Profile{
				profile("a", zodiac.Aries),
				profile("b", zodiac.Leo),
				profile("c", zodiac.Sagittarius),
			})

			Convey("Then elements are filled in and the mean is returned", func() {
				So(err, ShouldBeNil)
				So(b.Overall, ShouldAlmostEqual, 260.0/3, 1e-9)
				So(b.Balance.Counts[zodiac.Fire], ShouldEqual, 3)
			})
		})

		Convey("When a group repeats a member", func() {
			_, err := svc.ScoreTeam(ctx, []model.Profile{profile("a", zodiac.Aries), profile("a", zodiac.Aries)})

			Convey("Then it is rejected as invalid input", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err, model.ErrDuplicateMember), ShouldBeTrue)
			})
		})

		Convey("When a profile's element contradicts its sign", func() {
			p := profile("a", zodiac.Aries)
			p.Element = zodiac.Water
			_, err := svc.AnalyzeBalance(ctx, []model.Profile{p})

			Convey("Then it is rejected as invalid input", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When analyzing balance", func() {
			r, err := svc.AnalyzeBalance(ctx, []model.Profile{profile("a", zodiac.Aries), profile("b", zodiac.Taurus)})

			Convey("Then missing elements are reported in canonical order", func() {
				So(err, ShouldBeNil)
				So(r.IsBalanced, ShouldBeFalse)
				So(r.Missing, ShouldResemble, []zodiac.Element{zodiac.Air, zodiac.Water})
			})
		})

		Convey("When the configured minimum is two per element", func() {
			strict := service.New(service.WithMinPerElement(2))
			So(strict.Start(ctx), ShouldBeNil)
			defer strict.Stop()
			r, err := strict.AnalyzeBalance(ctx, []model.Profile{profile("a", zodiac.Aries), profile("b", zodiac.Taurus)})

			Convey("Then only absent elements are missing and present ones are short", func() {
				So(err, ShouldBeNil)
				So(r.Missing, ShouldResemble, []zodiac.Element{zodiac.Air, zodiac.Water})
				So(r.Short, ShouldResemble, []zodiac.Element{zodiac.Fire, zodiac.Earth, zodiac.Air, zodiac.Water})
				So(r.Shortfall, ShouldEqual, 6)
			})
		})

		Convey("When detecting conflicts", func() {
			group := []model.Profile{
				profile("sam", zodiac.Scorpio),
				profile("ada", zodiac.Aquarius),
				profile("lee", zodiac.Libra),
			}

			Convey("Then a negative threshold uses the configured default", func() {
				pairs, err := svc.DetectConflicts(ctx, group, -1)
				So(err, ShouldBeNil)
				So(len(pairs), ShouldEqual, 1)
				So(pairs[0].ConflictPotential, ShouldEqual, 75)
			})

			Convey("Then an explicit threshold is honored", func() {
				pairs, err := svc.DetectConflicts(ctx, group, 40)
				So(err, ShouldBeNil)
				So(len(pairs), ShouldEqual, 2)
			})

			Convey("Then a threshold above 100 is invalid", func() {
				_, err := svc.DetectConflicts(ctx, group, 101)
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When building a team of four", func() {
			pool := []model.Profile{
				profile("m0", zodiac.Aries),
				profile("m1", zodiac.Taurus),
				profile("m2", zodiac.Gemini),
				profile("m3", zodiac.Cancer),
				profile("m4", zodiac.Leo),
				profile("m5", zodiac.Libra),
			}
			res, err := svc.BuildTeam(ctx, pool, 4, builder.Constraints{})

			Convey("Then the greedy team is returned", func() {
				So(err, ShouldBeNil)
				So(res.Composition.IDs(), ShouldResemble, []string{"m0", "m2", "m4", "m5"})
				So(res.Breakdown.Overall, ShouldAlmostEqual, 79, 1e-9)
				So(res.Underfilled, ShouldBeFalse)
			})

			Convey("Then an undersized target is invalid", func() {
				_, err := svc.BuildTeam(ctx, pool, 1, builder.Constraints{})
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When optimizing a team", func() {
			current := []model.Profile{
				profile("ann", zodiac.Aries),
				profile("cat", zodiac.Cancer),
				profile("cole", zodiac.Capricorn),
			}
			pool := []model.Profile{
				profile("leo", zodiac.Leo),
				profile("lib", zodiac.Libra),
				profile("tau", zodiac.Taurus),
				profile("pia", zodiac.Pisces),
			}
			got, err := svc.OptimizeTeam(ctx, current, pool, optimizer.Options{MaxSuggestions: 1, TargetSize: 4})

			Convey("Then the best move comes first", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Type, ShouldEqual, optimizer.MoveSwap)
				So(got[0].Subjects(), ShouldResemble, []string{"ann", "pia"})
			})

			Convey("Then an empty team is invalid", func() {
				_, err := svc.OptimizeTeam(ctx, nil, pool, optimizer.Options{})
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_BuildTimeout(t *testing.T) {
	Convey("Given a service whose caller context is already cancelled", t, func() {
		svc := service.New(service.WithBuildTimeout(time.Second))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		pool := []model.Profile{
			profile("m0", zodiac.Aries),
			profile("m1", zodiac.Taurus),
			profile("m2", zodiac.Gemini),
		}

		Convey("Then the build reports the cancellation", func() {
			_, err := svc.BuildTeam(ctx, pool, 2, builder.Constraints{})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestService_BuildCache(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		pool := []model.Profile{
			profile("m0", zodiac.Aries),
			profile("m1", zodiac.Taurus),
			profile("m2", zodiac.Gemini),
			profile("m3", zodiac.Cancer),
		}

		Convey("When the same build is requested twice", func() {
			svc := service.New()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			first, err := svc.BuildTeam(ctx, pool, 3, builder.Constraints{})
			So(err, ShouldBeNil)
			first.Members[0].ID = "mutated"
			reversed := []model.Profile{pool[3], pool[2], pool[1], pool[0]}
			second, err := svc.BuildTeam(ctx, reversed, 3, builder.Constraints{})

			Convey("Then the cached result is returned untouched", func() {
				So(err, ShouldBeNil)
				So(second.Members[0].ID, ShouldEqual, "m0")
				So(second.Composition.IDs(), ShouldResemble, first.Composition.IDs())
				So(svc.GetStats()["cachedBuilds"], ShouldEqual, int64(1))
			})

			Convey("Then different constraints are built separately", func() {
				_, err := svc.BuildTeam(ctx, pool, 3, builder.Constraints{AvoidConflicts: true})
				So(err, ShouldBeNil)
				So(svc.GetStats()["cachedBuilds"], ShouldEqual, int64(2))
			})
		})

		Convey("When the cache is disabled", func() {
			svc := service.New(service.WithBuildCacheSize(0))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			_, err := svc.BuildTeam(ctx, pool, 3, builder.Constraints{})
			So(err, ShouldBeNil)

			Convey("Then nothing is kept", func() {
				So(svc.GetStats()["buildCacheSize"], ShouldEqual, 0)
				So(svc.GetStats()["cachedBuilds"], ShouldEqual, int64(0))
			})
		})
	})
}

func TestService_Profiles(t *testing.T) {
	Convey("Given a service seeded from a profile file", t, func() {
		path := writeFile(t, "profiles.yaml", seedYAML)
		svc := service.New(service.WithProfilesPath(path))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then active profiles exclude inactive ones", func() {
			active, err := svc.ActiveProfiles(ctx)
			So(err, ShouldBeNil)
			So(len(active), ShouldEqual, 6)
			So(svc.GetStats()["totalProfiles"], ShouldEqual, 7)
		})

		Convey("Then stored profiles carry their element", func() {
			p, err := svc.Profile(ctx, "m3")
			So(err, ShouldBeNil)
			So(p.Element, ShouldEqual, zodiac.Water)

			_, err = svc.Profile(ctx, "nobody")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When resolving member IDs", func() {
			ps, err := svc.ResolveProfiles(ctx, []string{"m5", "m0"})
			So(err, ShouldBeNil)
			So(ps[0].ID, ShouldEqual, "m5")
			So(ps[1].ID, ShouldEqual, "m0")

			Convey("Then an unknown ID is invalid input", func() {
				_, err := svc.ResolveProfiles(ctx, []string{"m0", "nobody"})
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the snapshot is replaced", func() {
			err := svc.ReplaceProfiles(ctx, []model.Profile{profile("x", zodiac.Virgo), profile("y", zodiac.Pisces)})
			So(err, ShouldBeNil)

			Convey("Then only the new profiles remain", func() {
				active, err := svc.ActiveProfiles(ctx)
				So(err, ShouldBeNil)
				So(len(active), ShouldEqual, 2)
				_, err = svc.ResolveProfiles(ctx, []string{"m0"})
				So(err, ShouldNotBeNil)
			})

			Convey("Then a bad snapshot is rejected and the old one kept", func() {
				err := svc.ReplaceProfiles(ctx, []model.Profile{{ID: "", Sign: zodiac.Aries}})
				So(err, ShouldNotBeNil)
				active, _ := svc.ActiveProfiles(ctx)
				So(len(active), ShouldEqual, 2)
			})
		})

		Convey("When one profile is upserted", func() {
			So(svc.UpsertProfile(ctx, profile("m9", zodiac.Virgo)), ShouldBeNil)
			So(svc.UpsertProfile(ctx, model.Profile{ID: "m0", Sign: zodiac.Aries, Active: false}), ShouldBeNil)

			Convey("Then it is added or replaced in place", func() {
				p, err := svc.Profile(ctx, "m9")
				So(err, ShouldBeNil)
				So(p.Element, ShouldEqual, zodiac.Earth)
				active, _ := svc.ActiveProfiles(ctx)
				So(len(active), ShouldEqual, 6)
				So(svc.GetStats()["totalProfiles"], ShouldEqual, 8)
			})

			Convey("Then an invalid profile is rejected", func() {
				err := svc.UpsertProfile(ctx, model.Profile{ID: "bad"})
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}
