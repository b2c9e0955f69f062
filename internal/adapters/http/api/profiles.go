package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/teamfit/internal/domain/model"
)

// ProfilesHandler serves the profile snapshot.
type ProfilesHandler struct {
	deps Dependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps Dependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

type replaceResponse struct {
	Status   string `json:"status"`
	Profiles int    `json:"profiles"`
}

// HandleReplace handles PUT /profiles requests. The body is a JSON list of
// profiles that replaces the whole snapshot.
func (h *ProfilesHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_profiles"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	if !guard(w, h.deps, op) {
		return
	}
	var profiles []model.Profile
	if err := decode(w, r, &profiles); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.ReplaceProfiles(r.Context(), profiles); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, replaceResponse{Status: "replaced", Profiles: len(profiles)})
}

// HandleProfile handles GET and PUT /profiles/{id} requests. PUT stores the
// body as that profile; a body ID, when given, must match the path.
func (h *ProfilesHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile"
	if r.Method != http.MethodGet && r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/profiles/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	if !guard(w, h.deps, op) {
		return
	}
	if r.Method == http.MethodPut {
		h.upsert(w, r, id)
		return
	}
	p, err := h.deps.Profile(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfilesHandler) upsert(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.upsert_profile"
	var p model.Profile
	if err := decode(w, r, &p); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if p.ID == "" {
		p.ID = id
	}
	if p.ID != id {
		writeFailure(w, WrapKind(op, ErrBadRequest, fmt.Errorf("body id %q does not match path", p.ID)))
		return
	}
	if err := h.deps.UpsertProfile(r.Context(), p); err != nil {
		writeFailure(w, err)
		return
	}
	p, err := h.deps.Profile(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
