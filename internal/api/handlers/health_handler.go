package handlers

import (
	"log/slog"
	"net/http"

	"github.com/sahildhillon803/STRATIFY/internal/api/response"
	"github.com/sahildhillon803/STRATIFY/internal/catalog"
)

// HealthHandler handles health and readiness checks.
type HealthHandler struct {
	store *catalog.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *catalog.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health check response", "error", err)
	}
}

// Ready handles GET /ready. Reports 503 until the investor catalog is loaded.
func (h *HealthHandler) Ready(w http.ResponseWriter, _ *http.Request) {
	cat := h.store.Current()
	if cat == nil {
		response.RespondServiceUnavailable(w, "Investor catalog is not loaded")
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"investors": cat.Size(),
	})
}
