package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ReadinessCheck pings a backing store.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	ready ReadinessCheck
}

func NewHealthHandler(ready ReadinessCheck) *HealthHandler { return &HealthHandler{ready: ready} }

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "pong"})
	case "ready":
		if h.ready != nil {
			if err := h.ready(r.Context()); err != nil {
				slog.Error("readiness check failed", "err", err)
				writeError(w, http.StatusServiceUnavailable, "storage unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "ready"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
