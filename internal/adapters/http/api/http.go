// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/teamfit/internal/adapters/repository"
	"github.com/okian/teamfit/internal/domain/balance"
	"github.com/okian/teamfit/internal/domain/builder"
	"github.com/okian/teamfit/internal/domain/compat"
	"github.com/okian/teamfit/internal/domain/conflict"
	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/optimizer"
	"github.com/okian/teamfit/internal/domain/scoring"
	"github.com/okian/teamfit/internal/domain/zodiac"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Ready reports whether the engine accepts calls.
	Ready() bool

	Compatibility(ctx context.Context, a, b zodiac.Sign) (compat.Record, error)
	ScoreTeam(ctx context.Context, profiles []model.Profile) (scoring.Breakdown, error)
	AnalyzeBalance(ctx context.Context, profiles []model.Profile) (balance.Report, error)
	DetectConflicts(ctx context.Context, profiles []model.Profile, threshold int) ([]conflict.Pair, error)
	BuildTeam(ctx context.Context, pool []model.Profile, targetSize int, c builder.Constraints) (builder.Result, error)
	OptimizeTeam(ctx context.Context, current, pool []model.Profile, opts optimizer.Options) ([]optimizer.Suggestion, error)

	// Profile snapshot access.
	ResolveProfiles(ctx context.Context, ids []string) ([]model.Profile, error)
	ActiveProfiles(ctx context.Context) ([]model.Profile, error)
	ReplaceProfiles(ctx context.Context, profiles []model.Profile) error
	UpsertProfile(ctx context.Context, p model.Profile) error
	Profile(ctx context.Context, id string) (model.Profile, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	profilesHandler      *ProfilesHandler
	compatibilityHandler *CompatibilityHandler
	teamsHandler         *TeamsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		profilesHandler:      NewProfilesHandler(deps),
		compatibilityHandler: NewCompatibilityHandler(deps),
		teamsHandler:         NewTeamsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(RequestIDMiddleware(h), endpoint))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/profiles", "profiles", s.profilesHandler.HandleReplace)
	route("/profiles/", "profile", s.profilesHandler.HandleProfile)
	route("/compatibility", "compatibility", s.compatibilityHandler.HandleGet)
	route("/teams/score", "teams_score", s.teamsHandler.HandleScore)
	route("/teams/balance", "teams_balance", s.teamsHandler.HandleBalance)
	route("/teams/conflicts", "teams_conflicts", s.teamsHandler.HandleConflicts)
	route("/teams/build", "teams_build", s.teamsHandler.HandleBuild)
	route("/teams/optimize", "teams_optimize", s.teamsHandler.HandleOptimize)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an engine or store error onto a response status.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// guard answers 503 when the engine is not ready and reports whether the
// handler may continue.
func guard(w http.ResponseWriter, deps Dependencies, op string) bool {
	if deps.Ready() {
		return true
	}
	writeFailure(w, NewKind(op, ErrNotReady))
	return false
}
