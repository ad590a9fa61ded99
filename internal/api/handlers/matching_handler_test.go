package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahildhillon803/STRATIFY/internal/models"
	"github.com/sahildhillon803/STRATIFY/internal/service"
)

type mockMatchingService struct {
	matchFunc         func(ctx context.Context, req models.MatchRequest) ([]models.InvestorSummary, error)
	listFunc          func(filters models.ListInvestorsFilters) (models.ListInvestorsResponse, error)
	filterOptionsFunc func() (models.FilterOptions, error)
}

func (m *mockMatchingService) Match(ctx context.Context, req models.MatchRequest) ([]models.InvestorSummary, error) {
	if m.matchFunc != nil {
		return m.matchFunc(ctx, req)
	}

	return nil, nil
}

func (m *mockMatchingService) ListInvestors(filters models.ListInvestorsFilters) (models.ListInvestorsResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(filters)
	}

	return models.ListInvestorsResponse{}, nil
}

func (m *mockMatchingService) FilterOptions() (models.FilterOptions, error) {
	if m.filterOptionsFunc != nil {
		return m.filterOptionsFunc()
	}

	return models.FilterOptions{}, nil
}

const matchURL = "http://test/api/v1/matching/investors"

func postMatch(t *testing.T, handler *MatchingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, matchURL, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()

	handler.Match(rec, req)

	return rec
}

func TestMatchingHandler_Match(t *testing.T) {
	t.Run("invalid JSON returns 400", func(t *testing.T) {
		handler := NewMatchingHandler(&mockMatchingService{})

		rec := postMatch(t, handler, `{"startup_description":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field returns 400", func(t *testing.T) {
		handler := NewMatchingHandler(&mockMatchingService{})

		rec := postMatch(t, handler, `{"startup_description":"AI devtools","raise_amount":100000,"vertical":"ai"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank description returns 400 without calling the service", func(t *testing.T) {
		called := false
		mock := &mockMatchingService{
			matchFunc: func(_ context.Context, _ models.MatchRequest) ([]models.InvestorSummary, error) {
				called = true

				return nil, nil
			},
		}
		handler := NewMatchingHandler(mock)

		rec := postMatch(t, handler, `{"startup_description":"   ","raise_amount":100000,"stage":"Seed"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called)
		assert.Contains(t, rec.Body.String(), "must not be blank")
	})

	t.Run("missing raise amount returns 400", func(t *testing.T) {
		handler := NewMatchingHandler(&mockMatchingService{})

		rec := postMatch(t, handler, `{"startup_description":"AI devtools"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success returns 200 with top investors", func(t *testing.T) {
		mock := &mockMatchingService{
			matchFunc: func(_ context.Context, req models.MatchRequest) ([]models.InvestorSummary, error) {
				assert.Equal(t, "AI tooling for fintech teams", req.StartupDescription)
				assert.InDelta(t, 500000.0, req.RaiseAmount, 1e-9)
				assert.Equal(t, "Seed", req.Stage)

				return []models.InvestorSummary{
					{InvestorID: 3, Name: "Alpha Ventures", MatchScore: 0.91, Website: "https://alpha.example", HQ: "USA", Type: "VC"},
					{InvestorID: 7, Name: "Beacon Capital", MatchScore: 0.84, Website: "", HQ: "Canada", Type: "Angel"},
				}, nil
			},
		}
		handler := NewMatchingHandler(mock)

		rec := postMatch(t, handler,
			`{"startup_description":"AI tooling for fintech teams","raise_amount":500000,"stage":"Seed"}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.MatchResponse

		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuccess, resp.Status)
		require.Len(t, resp.TopInvestors, 2)
		assert.Equal(t, 3, resp.TopInvestors[0].InvestorID)
		assert.Equal(t, "Alpha Ventures", resp.TopInvestors[0].Name)
		assert.InDelta(t, 0.91, resp.TopInvestors[0].MatchScore, 1e-9)
		assert.Equal(t, "Canada", resp.TopInvestors[1].HQ)
	})

	t.Run("no matches is 200 with empty list", func(t *testing.T) {
		mock := &mockMatchingService{
			matchFunc: func(_ context.Context, _ models.MatchRequest) ([]models.InvestorSummary, error) {
				return []models.InvestorSummary{}, nil
			},
		}
		handler := NewMatchingHandler(mock)

		rec := postMatch(t, handler, `{"startup_description":"space mining","raise_amount":1000000,"stage":"Series Z"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"top_investors":[]`)
	})

	t.Run("catalog not loaded returns 503", func(t *testing.T) {
		mock := &mockMatchingService{
			matchFunc: func(_ context.Context, _ models.MatchRequest) ([]models.InvestorSummary, error) {
				return nil, service.ErrCatalogNotLoaded
			},
		}
		handler := NewMatchingHandler(mock)

		rec := postMatch(t, handler, `{"startup_description":"AI devtools","raise_amount":100000}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("embedding failure returns 500", func(t *testing.T) {
		mock := &mockMatchingService{
			matchFunc: func(_ context.Context, _ models.MatchRequest) ([]models.InvestorSummary, error) {
				return nil, &service.MatchError{Op: "embed query", Err: errors.New("provider down")}
			},
		}
		handler := NewMatchingHandler(mock)

		rec := postMatch(t, handler, `{"startup_description":"AI devtools","raise_amount":100000}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMatchingHandler_List(t *testing.T) {
	t.Run("defaults applied when no query params", func(t *testing.T) {
		var seen models.ListInvestorsFilters

		mock := &mockMatchingService{
			listFunc: func(filters models.ListInvestorsFilters) (models.ListInvestorsResponse, error) {
				seen = filters

				return models.ListInvestorsResponse{Status: models.StatusSuccess, Investors: []models.InvestorSummary{}}, nil
			},
		}
		handler := NewMatchingHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/all", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.FilterAll, seen.Stage)
		assert.Equal(t, models.FilterAll, seen.HQ)
		assert.Equal(t, models.SortNameAsc, seen.SortBy)
		assert.Equal(t, 0, seen.Limit)
		assert.Equal(t, 0, seen.Skip)
	})

	t.Run("query params decoded into filters", func(t *testing.T) {
		var seen models.ListInvestorsFilters

		mock := &mockMatchingService{
			listFunc: func(filters models.ListInvestorsFilters) (models.ListInvestorsResponse, error) {
				seen = filters

				return models.ListInvestorsResponse{
					Status:    models.StatusSuccess,
					Investors: []models.InvestorSummary{{InvestorID: 1, Name: "Delta Partners"}},
					Total:     12,
				}, nil
			},
		}
		handler := NewMatchingHandler(mock)

		req := httptest.NewRequest(http.MethodGet,
			"http://test/api/v1/matching/all?stage=Seed&hq=USA&sort_by=cheque_desc&limit=10&skip=5", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Seed", seen.Stage)
		assert.Equal(t, "USA", seen.HQ)
		assert.Equal(t, models.SortChequeDesc, seen.SortBy)
		assert.Equal(t, 10, seen.Limit)
		assert.Equal(t, 5, seen.Skip)

		var resp models.ListInvestorsResponse

		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, 12, resp.Total)
		require.Len(t, resp.Investors, 1)
		assert.Equal(t, "Delta Partners", resp.Investors[0].Name)
	})

	t.Run("limit above cap returns 400", func(t *testing.T) {
		handler := NewMatchingHandler(&mockMatchingService{})

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/all?limit=500", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric limit returns 400", func(t *testing.T) {
		handler := NewMatchingHandler(&mockMatchingService{})

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/all?limit=plenty", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative skip returns 400", func(t *testing.T) {
		handler := NewMatchingHandler(&mockMatchingService{})

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/all?skip=-1", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("catalog not loaded returns 503", func(t *testing.T) {
		mock := &mockMatchingService{
			listFunc: func(_ models.ListInvestorsFilters) (models.ListInvestorsResponse, error) {
				return models.ListInvestorsResponse{}, service.ErrCatalogNotLoaded
			},
		}
		handler := NewMatchingHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/all", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMatchingHandler_FilterOptions(t *testing.T) {
	t.Run("success returns bare options payload", func(t *testing.T) {
		mock := &mockMatchingService{
			filterOptionsFunc: func() (models.FilterOptions, error) {
				return models.FilterOptions{
					HQs:    []string{"Canada", "USA"},
					Stages: []string{"Seed", "Series A"},
				}, nil
			},
		}
		handler := NewMatchingHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/filter-options", nil)
		rec := httptest.NewRecorder()

		handler.FilterOptions(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.FilterOptions

		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, []string{"Canada", "USA"}, resp.HQs)
		assert.Equal(t, []string{"Seed", "Series A"}, resp.Stages)

		// The options payload has no status wrapper.
		assert.NotContains(t, rec.Body.String(), `"status"`)
	})

	t.Run("catalog not loaded returns 503", func(t *testing.T) {
		mock := &mockMatchingService{
			filterOptionsFunc: func() (models.FilterOptions, error) {
				return models.FilterOptions{}, service.ErrCatalogNotLoaded
			},
		}
		handler := NewMatchingHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/filter-options", nil)
		rec := httptest.NewRecorder()

		handler.FilterOptions(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
