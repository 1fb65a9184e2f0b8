// internal/adapters/sabre/client.go
package sabre

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"rateadmin/internal/adapters/observability"
	"rateadmin/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// HotelRates fetches the availability tree (GetHotelDetailsRS) for one hotel
// and stay. The payload is returned untyped; the flattening lives upstream.
func (c *Client) HotelRates(ctx context.Context, hotelID string, q domain.StayQuery) (map[string]any, error) {
	u := fmt.Sprintf("%s/v1/hotels/%s/rates?%s", c.base, url.PathEscape(hotelID), stayParams(q))
	var out map[string]any
	return out, c.get(ctx, "rates", u, &out)
}

// RoomContent fetches the room content tree used for the per-room offer view.
func (c *Client) RoomContent(ctx context.Context, hotelID string, q domain.StayQuery) (map[string]any, error) {
	u := fmt.Sprintf("%s/v1/hotels/%s/content?%s", c.base, url.PathEscape(hotelID), stayParams(q))
	var out map[string]any
	return out, c.get(ctx, "content", u, &out)
}

func stayParams(q domain.StayQuery) string {
	v := url.Values{}
	v.Set("checkIn", q.CheckIn.Format(domain.DateLayout))
	v.Set("checkOut", q.CheckOut.Format(domain.DateLayout))
	v.Set("adults", strconv.Itoa(q.Adults))
	v.Set("children", strconv.Itoa(q.Children))
	if q.CurrencyCode != "" {
		v.Set("currency", q.CurrencyCode)
	}
	return v.Encode()
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("sabre: not found")
	ErrUnauthorized = errors.New("sabre: unauthorized")
	ErrForbidden    = errors.New("sabre: forbidden")

	// ErrBadPayload marks a 200 whose body is not JSON (typically an HTML
	// error page in front of the API). Surfaced to the user as "unexpected
	// response format", distinct from a decode failure inside valid JSON.
	ErrBadPayload = errors.New("sabre: unexpected response format")
)

// get performs a GET with client-side rate limiting, retries, and JSON decode
// into out. Retries on 429 and transient 5xx, honoring Retry-After when
// provided. Successful bodies are sniffed before decode: a non-JSON content
// type or a body that does not start with '{' or '[' is ErrBadPayload.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "rateadmin/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("sabre", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := decodeJSON(resp, out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// decodeJSON sniffs the response before parsing. Proxies and gateways like to
// answer 200 with an HTML error page; that must surface as ErrBadPayload, not
// a cryptic decode error.
func decodeJSON(resp *http.Response, out any) error {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err == nil && !strings.Contains(mt, "json") {
			io.Copy(io.Discard, resp.Body)
			return ErrBadPayload
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return ErrBadPayload
	}
	return json.Unmarshal(trimmed, out)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
