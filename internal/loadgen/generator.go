package loadgen

import (
	"encoding/json"
	"math/rand/v2"
	"net/url"

	"github.com/google/uuid"

	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/zodiac"
)

// Engine operations exercised by a run.
const (
	OpCompatibility = "compatibility"
	OpScore         = "score"
	OpBalance       = "balance"
	OpConflicts     = "conflicts"
	OpBuild         = "build"
	OpOptimize      = "optimize"
)

// minProfiles is the smallest store every generated call can draw from.
const minProfiles = 8

var ops = []string{OpCompatibility, OpScore, OpBalance, OpConflicts, OpBuild, OpOptimize} //nolint:gochecknoglobals // fixed op set

// Call is one generated request.
type Call struct {
	Op     string          `json:"op"`
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body,omitempty"`
	// Repeats is the index of the call this one repeats, or -1.
	Repeats int `json:"repeats"`
}

type generator struct {
	rng *rand.Rand
}

func newGenerator(seed uint64) *generator {
	return &generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// profiles returns n active profiles with random IDs and signs.
func (g *generator) profiles(n int) []model.Profile {
	signs := zodiac.Signs()
	out := make([]model.Profile, n)
	for i := range out {
		out[i] = model.Profile{
			ID:     uuid.NewString(),
			Sign:   signs[g.rng.IntN(len(signs))],
			Active: true,
		}
	}
	return out
}

// calls returns n calls over ids. A share of them, set by repeat, copy an
// earlier call verbatim.
func (g *generator) calls(n int, ids []string, repeat float64) []Call {
	out := make([]Call, 0, n)
	for len(out) < n {
		if len(out) > 0 && g.rng.Float64() < repeat {
			idx := g.rng.IntN(len(out))
			c := out[idx]
			for c.Repeats >= 0 {
				idx = c.Repeats
				c = out[idx]
			}
			c.Repeats = idx
			out = append(out, c)
			continue
		}
		out = append(out, g.call(ids))
	}
	return out
}

func (g *generator) call(ids []string) Call {
	op := ops[g.rng.IntN(len(ops))]
	switch op {
	case OpCompatibility:
		signs := zodiac.Signs()
		q := url.Values{}
		q.Set("a", signs[g.rng.IntN(len(signs))].String())
		q.Set("b", signs[g.rng.IntN(len(signs))].String())
		return Call{Op: op, Method: "GET", Path: "/compatibility?" + q.Encode(), Repeats: -1}
	case OpScore, OpBalance:
		return g.post(op, "/teams/"+op, map[string]any{"member_ids": g.pick(ids, 2, 6)})
	case OpConflicts:
		return g.post(op, "/teams/conflicts", map[string]any{
			"member_ids": g.pick(ids, 2, 6),
			"threshold":  g.rng.IntN(101),
		})
	case OpBuild:
		pool := g.pick(ids, 4, 12)
		return g.post(op, "/teams/build", map[string]any{
			"pool_ids":                pool,
			"target_size":             2 + g.rng.IntN(len(pool)-1),
			"avoid_conflicts":         g.rng.IntN(2) == 0,
			"require_element_balance": g.rng.IntN(2) == 0,
		})
	default:
		picked := g.pick(ids, 5, 8)
		cut := 2 + g.rng.IntN(3)
		return g.post(op, "/teams/optimize", map[string]any{
			"member_ids":      picked[:cut],
			"pool_ids":        picked[cut:],
			"max_suggestions": 1 + g.rng.IntN(5),
		})
	}
}

func (g *generator) post(op, path string, body any) Call {
	b, _ := json.Marshal(body)
	return Call{Op: op, Method: "POST", Path: path, Body: b, Repeats: -1}
}

// pick returns between lo and hi distinct ids, capped at len(ids).
func (g *generator) pick(ids []string, lo, hi int) []string {
	n := min(lo+g.rng.IntN(hi-lo+1), len(ids))
	out := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(ids))[:n] {
		out = append(out, ids[i])
	}
	return out
}
