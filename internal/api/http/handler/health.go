package handler

import (
	"context"
	"net/http"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles the liveness endpoint.
type Health struct {
	db Pinger
}

// NewHealth creates a new Health handler.
func NewHealth(db Pinger) *Health {
	return &Health{db: db}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Check reports whether the service and its database are reachable.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
