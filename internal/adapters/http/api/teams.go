package api

import (
	"context"
	"net/http"

	"github.com/okian/teamfit/internal/domain/builder"
	"github.com/okian/teamfit/internal/domain/conflict"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/optimizer"
)

// TeamsHandler serves team scoring, building and optimization.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// teamRequest names a group by member IDs. Threshold is only read by the
// conflicts route; when absent the configured default applies.
type teamRequest struct {
	MemberIDs []string `json:"member_ids"`
	Threshold *int     `json:"threshold,omitempty"`
}

type buildRequest struct {
	PoolIDs               []string `json:"pool_ids"`
	TargetSize            int      `json:"target_size"`
	RequireElementBalance bool     `json:"require_element_balance"`
	AvoidConflicts        bool     `json:"avoid_conflicts"`
	MinCompatibilityScore float64  `json:"min_compatibility_score"`
}

type optimizeRequest struct {
	MemberIDs                []string `json:"member_ids"`
	PoolIDs                  []string `json:"pool_ids"`
	MaxSuggestions           int      `json:"max_suggestions"`
	TargetSize               int      `json:"target_size"`
	PrioritizeElementBalance bool     `json:"prioritize_element_balance"`
	MinimizeConflicts        bool     `json:"minimize_conflicts"`
}

type conflictsResponse struct {
	Conflicts []conflict.Pair `json:"conflicts"`
}

type suggestionsResponse struct {
	Suggestions []optimizer.Suggestion `json:"suggestions"`
}

// HandleScore handles POST /teams/score requests.
func (h *TeamsHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_team"
	members, _, ok := h.members(w, r, op)
	if !ok {
		return
	}
	b, err := h.deps.ScoreTeam(r.Context(), members)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleBalance handles POST /teams/balance requests.
func (h *TeamsHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_balance"
	members, _, ok := h.members(w, r, op)
	if !ok {
		return
	}
	report, err := h.deps.AnalyzeBalance(r.Context(), members)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleConflicts handles POST /teams/conflicts requests.
func (h *TeamsHandler) HandleConflicts(w http.ResponseWriter, r *http.Request) {
	const op = "api.detect_conflicts"
	members, req, ok := h.members(w, r, op)
	if !ok {
		return
	}
	threshold := -1
	if req.Threshold != nil {
		if *req.Threshold < 0 {
			writeFailure(w, NewKind(op, ErrBadRequest))
			return
		}
		threshold = *req.Threshold
	}
	pairs, err := h.deps.DetectConflicts(r.Context(), members, threshold)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conflictsResponse{Conflicts: pairs})
}

// HandleBuild handles POST /teams/build requests. An empty pool_ids list
// builds from every active stored profile.
func (h *TeamsHandler) HandleBuild(w http.ResponseWriter, r *http.Request) {
	const op = "api.build_team"
	var req buildRequest
	if !h.begin(w, r, op, &req) {
		return
	}
	pool, err := h.pool(r.Context(), req.PoolIDs)
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.BuildTeam(r.Context(), pool, req.TargetSize, builder.Constraints{
		RequireElementBalance: req.RequireElementBalance,
		AvoidConflicts:        req.AvoidConflicts,
		MinCompatibilityScore: req.MinCompatibilityScore,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleOptimize handles POST /teams/optimize requests. An empty pool_ids
// list draws candidates from every active stored profile.
func (h *TeamsHandler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "api.optimize_team"
	var req optimizeRequest
	if !h.begin(w, r, op, &req) {
		return
	}
	current, err := h.deps.ResolveProfiles(r.Context(), req.MemberIDs)
	if err != nil {
		writeFailure(w, err)
		return
	}
	pool, err := h.pool(r.Context(), req.PoolIDs)
	if err != nil {
		writeFailure(w, err)
		return
	}
	moves, err := h.deps.OptimizeTeam(r.Context(), current, pool, optimizer.Options{
		MaxSuggestions:           req.MaxSuggestions,
		TargetSize:               req.TargetSize,
		PrioritizeElementBalance: req.PrioritizeElementBalance,
		MinimizeConflicts:        req.MinimizeConflicts,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: moves})
}

// begin checks the method and readiness and decodes the body into v.
func (h *TeamsHandler) begin(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return false
	}
	if !guard(w, h.deps, op) {
		return false
	}
	if err := decode(w, r, v); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return false
	}
	return true
}

// members decodes a teamRequest and resolves its member IDs.
func (h *TeamsHandler) members(w http.ResponseWriter, r *http.Request, op string) ([]model.Profile, teamRequest, bool) {
	var req teamRequest
	if !h.begin(w, r, op, &req) {
		return nil, req, false
	}
	ps, err := h.deps.ResolveProfiles(r.Context(), req.MemberIDs)
	if err != nil {
		writeFailure(w, err)
		return nil, req, false
	}
	return ps, req, true
}

func (h *TeamsHandler) pool(ctx context.Context, ids []string) ([]model.Profile, error) {
	if len(ids) == 0 {
		return h.deps.ActiveProfiles(ctx)
	}
	return h.deps.ResolveProfiles(ctx, ids)
}
