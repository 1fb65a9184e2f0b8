package seogen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rateadmin/internal/adapters/observability"
	"rateadmin/internal/domain"
)

// Client talks to the SEO text-generation API. Generation is slow by nature,
// so the timeout is wider than the other outbound clients and there is no
// retry loop: re-running a generation on a flaky 500 just burns quota.
type Client struct {
	base string
	hc   *http.Client
	key  string
}

var ErrGeneration = errors.New("seogen: generation failed")

func New(base, key string) *Client {
	return &Client{base: base, hc: &http.Client{Timeout: 60 * time.Second}, key: key}
}

type generateRequest struct {
	HotelName   string `json:"hotelName"`
	Description string `json:"description"`
	ReviewText  string `json:"reviewText,omitempty"`
}

type generateResponse struct {
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
	SEOKeywords    string `json:"seoKeywords"`
}

func (c *Client) Generate(ctx context.Context, req domain.SEORequest) (domain.SEOFields, error) {
	body, err := json.Marshal(generateRequest{
		HotelName:   req.HotelName,
		Description: req.Description,
		ReviewText:  req.ReviewText,
	})
	if err != nil {
		return domain.SEOFields{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return domain.SEOFields{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.key)
	}

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return domain.SEOFields{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("seogen", "generate", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.SEOFields{}, fmt.Errorf("%w: status %d: %s", ErrGeneration, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.SEOFields{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return domain.SEOFields{
		Title:       optStr(out.SEOTitle),
		Description: optStr(out.SEODescription),
		Keywords:    optStr(out.SEOKeywords),
	}, nil
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
