package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"rateadmin/internal/adapters/observability"
)

// Client reads per-hotel dashboard summaries from the metrics API. The shape
// varies by report period, so it stays an untyped passthrough to the UI.
type Client struct {
	base string
	hc   *http.Client
	key  string
}

func New(base, key string) *Client {
	return &Client{base: base, hc: &http.Client{Timeout: 15 * time.Second}, key: key}
}

func (c *Client) HotelSummary(ctx context.Context, sabreID string) (map[string]any, error) {
	u := fmt.Sprintf("%s/v1/summary/%s", c.base, url.PathEscape(sabreID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("analytics", "summary", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics: status %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
