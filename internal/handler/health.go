package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/stridelog/stridelog/internal/problem"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler reports healthy while ping succeeds.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	err := h.ping(r.Context())
	if err != nil {
		slog.Error("health check failed", "error", err)
		problem.Write(w, r, http.StatusServiceUnavailable, "Dependency unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
