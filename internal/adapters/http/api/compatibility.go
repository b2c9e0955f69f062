package api

import (
	"errors"
	"net/http"

	"github.com/okian/teamfit/internal/domain/zodiac"
)

// CompatibilityHandler serves single pair lookups.
type CompatibilityHandler struct {
	deps Dependencies
}

// NewCompatibilityHandler creates a new compatibility handler.
func NewCompatibilityHandler(deps Dependencies) *CompatibilityHandler {
	return &CompatibilityHandler{deps: deps}
}

// HandleGet handles GET /compatibility?a=aries&b=libra requests.
func (h *CompatibilityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_compatibility"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	a, errA := zodiac.ParseSign(q.Get("a"))
	b, errB := zodiac.ParseSign(q.Get("b"))
	if err := errors.Join(errA, errB); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if !guard(w, h.deps, op) {
		return
	}
	rec, err := h.deps.Compatibility(r.Context(), a, b)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
