package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// StatsCollector lets tests stub the aggregate queries.
type StatsCollector interface {
	Collect(ctx context.Context) (*Stats, error)
}

type Handler struct {
	stats StatsCollector
	log   *slog.Logger
}

func NewHandler(stats StatsCollector, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{stats: stats, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/v1/dashboard
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Collect(r.Context())
	if err != nil {
		h.log.Error("dashboard aggregation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
