package api

import (
	"net/http"
	"strings"
)

// StatsProvider reports engine and store statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the statistics snapshot.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats requests. An optional keys query parameter,
// a comma separated list, narrows the response to those entries; unknown
// keys are left out.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.provider.GetStats()
	if raw := r.URL.Query().Get("keys"); raw != "" {
		picked := make(map[string]interface{})
		for _, k := range strings.Split(raw, ",") {
			if v, ok := stats[strings.TrimSpace(k)]; ok {
				picked[strings.TrimSpace(k)] = v
			}
		}
		stats = picked
	}
	writeJSON(w, http.StatusOK, stats)
}
