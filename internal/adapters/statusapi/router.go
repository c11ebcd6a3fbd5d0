// Package statusapi exposes a read-only HTTP view of the orchestrator's
// live state: current mode, per-band bandit stats, the capture list, and
// whether the timing optimizer is active. It does not expose the
// optimizer's parameters. It never accepts control input; the
// epoch loop is driven entirely by the brain.Brain/sensor/actuator
// wiring in cmd/pwny-core, not over HTTP.
package statusapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FadeVT/pwny-core/internal/core/services/brain"
)

// Handler serves the status API's routes against a live Brain.
type Handler struct {
	brain *brain.Brain
}

// NewHandler constructs a Handler wired to the given Brain.
func NewHandler(b *brain.Brain) *Handler {
	return &Handler{brain: b}
}

// NewRouter builds the gorilla/mux router for the status API.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", h.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/status/bands", h.handleBandStats).Methods(http.MethodGet)
	r.HandleFunc("/api/status/captures", h.handleCaptures).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

type statusResponse struct {
	Mode            string `json:"mode"`
	TotalEpochs     int    `json:"total_epochs"`
	CapturedCount   int    `json:"captured_count"`
	OptimizerActive bool   `json:"optimizer_active"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Mode:            string(h.brain.Mode()),
		TotalEpochs:     h.brain.Bandit().TotalEpochs(),
		CapturedCount:   h.brain.Context().CapturedCount(),
		OptimizerActive: h.brain.Optimizer() != nil,
	}
	writeJSON(w, resp)
}

func (h *Handler) handleBandStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.brain.Bandit().GetBandStats())
}

type capturesResponse struct {
	Count int      `json:"count"`
	MACs  []string `json:"macs"`
}

func (h *Handler) handleCaptures(w http.ResponseWriter, r *http.Request) {
	macs := h.brain.Context().CapturedMACs()
	writeJSON(w, capturesResponse{Count: len(macs), MACs: macs})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
