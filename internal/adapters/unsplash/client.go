package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"tripsmith/internal/adapters/observability"
)

// Client queries the image-search API. Per the resolution contract each
// query is attempted exactly once: rate limits, auth failures, server
// errors and malformed bodies all collapse into "no result" rather than
// surfacing as distinct error states.
type Client struct {
	base string
	key  string
	hc   *http.Client
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
		key:  key,
		hc:   &http.Client{Timeout: 10 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns the first landscape result for query, or "" when the API
// had nothing usable. Only context errors propagate.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/search/photos?query=%s&per_page=1&orientation=landscape&client_id=%s",
		c.base, url.QueryEscape(query), url.QueryEscape(c.key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tripsmith/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		observability.ObserveExternal("unsplash", "search_photos", 0, time.Since(start))
		return "", nil
	}
	defer resp.Body.Close()
	observability.ObserveExternal("unsplash", "search_photos", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", nil
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil
	}
	if len(body.Results) == 0 {
		return "", nil
	}
	return body.Results[0].URLs.Regular, nil
}
