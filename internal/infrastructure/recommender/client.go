// Package recommender wraps the external recommendation service.
package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fieldops/catalog-system/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Client issues one GET per scan against the recommendation service. No
// retries and no caching: every scan is a fresh request.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a Client. A non-positive timeout falls back to the
// default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Recommendations fetches the recommendation list for userID. A non-2xx
// response yields an error carrying the server's message when one is given.
func (c *Client) Recommendations(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	reqURL := fmt.Sprintf("%s/get?userId=%s", c.baseURL, url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("recommendation service: status %d: %s", resp.StatusCode, serverMessage(body))
	}

	var recs []domain.Recommendation
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return recs, nil
}

// serverMessage extracts {"error": "..."} when the service returns a JSON
// envelope, otherwise the trimmed raw body.
func serverMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(body))
}
