package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sahildhillon803/STRATIFY/internal/api/response"
	"github.com/sahildhillon803/STRATIFY/internal/api/validation"
	"github.com/sahildhillon803/STRATIFY/internal/models"
	"github.com/sahildhillon803/STRATIFY/internal/service"
)

// MatchingService defines the interface for matching business logic.
type MatchingService interface {
	Match(ctx context.Context, req models.MatchRequest) ([]models.InvestorSummary, error)
	ListInvestors(filters models.ListInvestorsFilters) (models.ListInvestorsResponse, error)
	FilterOptions() (models.FilterOptions, error)
}

// MatchingHandler handles HTTP requests for investor matching and browsing
type MatchingHandler struct {
	service MatchingService
}

// NewMatchingHandler creates a new matching handler
func NewMatchingHandler(service MatchingService) *MatchingHandler {
	return &MatchingHandler{service: service}
}

// Match handles POST /api/v1/matching/investors
// @Summary Match investors for a startup
// @Description Ranks catalog investors against a startup description, raise amount and stage
// @Tags Matching
// @Accept json
// @Produce json
// @Param request body MatchRequest true "Startup profile to match"
// @Success 200 {object} MatchResponse
// @Failure 400 {object} ProblemDetails "Invalid or unparseable request"
// @Failure 401 {object} ProblemDetails "Unauthorized - Invalid or missing API key"
// @Failure 503 {object} ProblemDetails "Investor catalog not loaded"
// @Security BearerAuth
// @Router /api/v1/matching/investors [post]
func (h *MatchingHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		validation.RespondValidationError(w, err)
		return
	}

	matches, err := h.service.Match(r.Context(), req)
	if err != nil {
		respondMatchingError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, models.MatchResponse{
		Status:       models.StatusSuccess,
		TopInvestors: matches,
	})
}

// FilterOptions handles GET /api/v1/matching/filter-options
// @Summary List browse filter options
// @Description Returns the distinct headquarters countries and investment stages in the catalog
// @Tags Matching
// @Produce json
// @Success 200 {object} FilterOptions
// @Failure 401 {object} ProblemDetails "Unauthorized - Invalid or missing API key"
// @Failure 503 {object} ProblemDetails "Investor catalog not loaded"
// @Security BearerAuth
// @Router /api/v1/matching/filter-options [get]
func (h *MatchingHandler) FilterOptions(w http.ResponseWriter, _ *http.Request) {
	options, err := h.service.FilterOptions()
	if err != nil {
		respondMatchingError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, options)
}

// List handles GET /api/v1/matching/all
// @Summary Browse the investor catalog
// @Description Lists investors with optional stage and headquarters filters, sorting and pagination
// @Tags Matching
// @Produce json
// @Param stage query string false "Filter by investment stage; All disables the filter"
// @Param hq query string false "Filter by headquarters substring; All disables the filter"
// @Param sort_by query string false "Sort mode: name_asc, name_desc or cheque_desc"
// @Param limit query int false "Number of results to return (default 50)"
// @Param skip query int false "Number of results to skip"
// @Success 200 {object} ListInvestorsResponse
// @Failure 400 {object} ProblemDetails "Invalid query parameters"
// @Failure 401 {object} ProblemDetails "Unauthorized - Invalid or missing API key"
// @Failure 503 {object} ProblemDetails "Investor catalog not loaded"
// @Security BearerAuth
// @Router /api/v1/matching/all [get]
func (h *MatchingHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := models.ListInvestorsFilters{}

	// Decode and validate query parameters
	if err := validation.ValidateAndDecodeQueryParams(r, &filters); err != nil {
		validation.RespondValidationError(w, err)
		return
	}

	// Browse defaults, applied here so the service only sees explicit values.
	if filters.Stage == "" {
		filters.Stage = models.FilterAll
	}

	if filters.HQ == "" {
		filters.HQ = models.FilterAll
	}

	if filters.SortBy == "" {
		filters.SortBy = models.SortNameAsc
	}

	result, err := h.service.ListInvestors(filters)
	if err != nil {
		respondMatchingError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// respondMatchingError maps service errors to problem responses.
func respondMatchingError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrCatalogNotLoaded) {
		response.RespondServiceUnavailable(w, "Investor catalog is not loaded")
		return
	}

	response.RespondInternalServerError(w, "An unexpected error occurred")
}
