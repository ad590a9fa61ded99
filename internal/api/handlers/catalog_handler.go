package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sahildhillon803/STRATIFY/internal/api/response"
	"github.com/sahildhillon803/STRATIFY/internal/models"
	"github.com/sahildhillon803/STRATIFY/internal/service"
)

// CatalogService defines the interface for catalog administration.
type CatalogService interface {
	Reload(ctx context.Context) (int, error)
}

// CatalogHandler handles HTTP requests for catalog administration
type CatalogHandler struct {
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Reload handles POST /api/v1/catalog/reload. Rebuilds the catalog snapshot
// from the source file and swaps it in; requests keep serving the previous
// snapshot until the swap.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	size, err := h.service.Reload(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrReloadNotConfigured) {
			response.RespondServiceUnavailable(w, "Catalog reload is not configured")
			return
		}

		response.RespondInternalServerError(w, "Catalog reload failed")

		return
	}

	response.RespondJSON(w, http.StatusOK, models.ReloadResponse{
		Status:    models.StatusSuccess,
		Investors: size,
	})
}
