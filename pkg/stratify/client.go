// Package stratify provides a Go client for the STRATIFY investor matching API.
package stratify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ClientOptions configures the STRATIFY API client
type ClientOptions struct {
	// BaseURL is the base URL of the API server (default: "http://localhost:8080")
	// Do not include /api/v1 - it is added automatically
	BaseURL string
	// APIKey is the API key, sent as a Bearer token
	APIKey string
	// RetryMax is the maximum number of retries (default: 3)
	RetryMax int
	// Timeout is the HTTP client timeout (default: 30 seconds)
	Timeout time.Duration
}

// Client is the STRATIFY API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *retryablehttp.Client
}

// NewClient creates a new STRATIFY API client with default settings
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithOptions(ClientOptions{
		BaseURL: baseURL,
		APIKey:  apiKey,
	})
}

// NewClientWithOptions creates a new STRATIFY API client with custom options
func NewClientWithOptions(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080"
	}

	// Normalize base URL - remove trailing slash and any /api/v1 suffix
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/api/v1")

	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 3
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.Logger = nil // Disable logging by default

	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: retryClient,
	}
}

// apiURL returns the versioned API base URL
func (c *Client) apiURL() string {
	return c.baseURL + "/api/v1"
}

// MatchInvestors ranks catalog investors against a startup profile and
// returns the top matches.
func (c *Client) MatchInvestors(matchReq MatchRequest) (*MatchResult, error) {
	payload, err := json.Marshal(matchReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/matching/investors", c.apiURL())

	req, err := retryablehttp.NewRequest(http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result MatchResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListInvestors browses the catalog with optional filters, sorting and
// pagination.
func (c *Client) ListInvestors(opts ListInvestorsOptions) (*InvestorList, error) {
	reqURL := fmt.Sprintf("%s/matching/all", c.apiURL())

	// Build query parameters
	params := url.Values{}
	if opts.Stage != "" {
		params.Add("stage", opts.Stage)
	}
	if opts.HQ != "" {
		params.Add("hq", opts.HQ)
	}
	if opts.SortBy != "" {
		params.Add("sort_by", opts.SortBy)
	}
	if opts.Limit > 0 {
		params.Add("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		params.Add("skip", strconv.Itoa(opts.Skip))
	}

	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result InvestorList
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// FilterOptions retrieves the distinct stage and headquarters values in the
// catalog, for populating browse filter dropdowns.
func (c *Client) FilterOptions() (*FilterOptions, error) {
	reqURL := fmt.Sprintf("%s/matching/filter-options", c.apiURL())

	req, err := retryablehttp.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result FilterOptions
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ReloadCatalog rebuilds the catalog from the source file and reports the
// new snapshot size.
func (c *Client) ReloadCatalog() (*ReloadResult, error) {
	reqURL := fmt.Sprintf("%s/catalog/reload", c.apiURL())

	req, err := retryablehttp.NewRequest(http.MethodPost, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result ReloadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// do executes the request with auth headers and decodes the JSON response
// into out.
func (c *Client) do(req *retryablehttp.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			slog.Error("Failed to read error response body", "error", err)
		}
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
