package tests

import (
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahildhillon803/STRATIFY/internal/models"
)

// postReload sends an authenticated reload request. The endpoint takes no
// body.
func postReload(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, nil)
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer "+testAPIKey)

	resp, err := client.Do(req)
	require.NoError(t, err)

	return resp
}

func TestCatalogReload(t *testing.T) {
	server, catalogPath := setupTestServer(t)
	client := &http.Client{}

	reloadURL := server.URL + "/api/v1/catalog/reload"

	t.Run("Unauthorized without API key", func(t *testing.T) {
		resp, err := http.Post(reloadURL, "application/json", nil)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Reload reports the current catalog size", func(t *testing.T) {
		resp := postReload(t, client, reloadURL)
		defer func() { _ = resp.Body.Close() }()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result models.ReloadResponse
		require.NoError(t, decodeData(resp, &result))

		assert.Equal(t, models.StatusSuccess, result.Status)
		assert.Equal(t, 4, result.Investors)
	})

	t.Run("Reload picks up investors added to the source file", func(t *testing.T) {
		f, err := os.OpenFile(catalogPath, os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(t, err)

		_, err = f.WriteString(extraInvestorRow)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		resp := postReload(t, client, reloadURL)
		defer func() { _ = resp.Body.Close() }()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result models.ReloadResponse
		require.NoError(t, decodeData(resp, &result))
		assert.Equal(t, 5, result.Investors)

		// Browse and the filter dropdowns see the new snapshot immediately.
		listResp := getJSON(t, client, server.URL+"/api/v1/matching/all")
		defer func() { _ = listResp.Body.Close() }()

		var list models.ListInvestorsResponse
		require.NoError(t, decodeData(listResp, &list))
		assert.Equal(t, 5, list.Total)

		names := make([]string, 0, len(list.Investors))
		for _, inv := range list.Investors {
			names = append(names, inv.Name)
		}
		assert.Contains(t, names, "Ember Fund")

		optionsResp := getJSON(t, client, server.URL+"/api/v1/matching/filter-options")
		defer func() { _ = optionsResp.Body.Close() }()

		var options models.FilterOptions
		require.NoError(t, decodeData(optionsResp, &options))
		assert.Equal(t, []string{"Canada", "Germany", "UK", "USA"}, options.HQs)
	})
}
