package handlers

import (
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

type mockCatalogService struct {
	reloadFunc func(ctx context.Context) (int, error)
}

func (m *mockCatalogService) Reload(ctx context.Context) (int, error) {
	if m.reloadFunc != nil {
		return m.reloadFunc(ctx)
	}

	return 0, nil
}

func TestCatalogHandler_Reload(t *testing.T) {
	t.Run("success returns investor count", func(t *testing.T) {
		mock := &mockCatalogService{
			reloadFunc: func(_ context.Context) (int, error) {
				return 42, nil
			},
		}
		handler := NewCatalogHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "http://test/api/v1/catalog/reload", nil)
		rec := httptest.NewRecorder()

		handler.Reload(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.ReloadResponse

		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuccess, resp.Status)
		assert.Equal(t, 42, resp.Investors)
	})

	t.Run("load failure returns 500", func(t *testing.T) {
		mock := &mockCatalogService{
			reloadFunc: func(_ context.Context) (int, error) {
				return 0, errors.New("open catalog: no such file")
			},
		}
		handler := NewCatalogHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "http://test/api/v1/catalog/reload", nil)
		rec := httptest.NewRecorder()

		handler.Reload(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("unconfigured reload returns 503", func(t *testing.T) {
		mock := &mockCatalogService{
			reloadFunc: func(_ context.Context) (int, error) {
				return 0, service.ErrReloadNotConfigured
			},
		}
		handler := NewCatalogHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "http://test/api/v1/catalog/reload", nil)
		rec := httptest.NewRecorder()

		handler.Reload(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
