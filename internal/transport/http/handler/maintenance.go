package handler

import (
	"context"
	"log/slog"
	"net/http"
)

type codeSweeper interface {
	RunOnce(ctx context.Context) (int64, error)
}

// MaintenanceHandler exposes admin-triggered housekeeping.
type MaintenanceHandler struct {
	sweeper codeSweeper
}

func NewMaintenanceHandler(sweeper codeSweeper) *MaintenanceHandler {
	return &MaintenanceHandler{sweeper: sweeper}
}

func (h *MaintenanceHandler) SweepPhoneCodes(w http.ResponseWriter, r *http.Request) {
	n, err := h.sweeper.RunOnce(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	slog.Info("phone codes swept on demand", "deleted", n)
	writeJSON(w, http.StatusOK, SweepEnvelope{Success: true, Deleted: n})
}
