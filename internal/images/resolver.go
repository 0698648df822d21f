package images

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripsmith/internal/adapters/observability"
	"tripsmith/internal/domain"
)

// Config carries the injected parts of the resolution policy: the static
// per-category fallback catalog, probe timeouts, and the place retry budget.
type Config struct {
	Fallbacks     map[domain.ImageCategory]string
	ProbeTimeouts map[domain.ImageCategory]time.Duration
	PlaceRetries  int
	RetryBackoff  time.Duration
}

// DefaultConfig mirrors the catalog and timing the product shipped with.
func DefaultConfig() Config {
	return Config{
		Fallbacks: map[domain.ImageCategory]string{
			domain.ImageHotel:       "https://images.unsplash.com/photo-1566073771259-6a8506099945?ixlib=rb-4.0.3&w=600&h=400&fit=crop",
			domain.ImagePlace:       "https://images.unsplash.com/photo-1488646953014-85cb44e25828?ixlib=rb-4.0.3&w=600&h=400&fit=crop",
			domain.ImageDestination: "https://images.unsplash.com/photo-1477959858617-67f85cf4f1df?ixlib=rb-4.0.3&w=600&h=400&fit=crop",
			domain.ImageGeneral:     "https://images.unsplash.com/photo-1469474968028-56623f02e42e?ixlib=rb-4.0.3&w=600&h=400&fit=crop",
		},
		ProbeTimeouts: map[domain.ImageCategory]time.Duration{
			domain.ImageHotel:       3 * time.Second,
			domain.ImageDestination: 5 * time.Second,
			domain.ImagePlace:       8 * time.Second,
			domain.ImageGeneral:     5 * time.Second,
		},
		PlaceRetries: 2,
		RetryBackoff: time.Second,
	}
}

// Resolver finds a best-effort display image URL for an entity. Resolve
// never fails; every request ends in some displayable URL.
type Resolver struct {
	search domain.ImageSearcher
	hc     *http.Client
	cfg    Config
}

func New(search domain.ImageSearcher, cfg Config) *Resolver {
	return &Resolver{
		search: search,
		// Per-probe deadlines come from the config; this is a backstop.
		hc:  &http.Client{Timeout: 30 * time.Second},
		cfg: cfg,
	}
}

// Resolve tries, in order: the supplied direct URL, the image-search API
// over query variants from most to least specific, the category's static
// fallback, and finally a generated placeholder. "Success" means the
// candidate actually served an image within the category's timeout.
func (r *Resolver) Resolve(ctx context.Context, req domain.ImageRequest) string {
	if IsAbsoluteURL(req.DirectURL) && r.loads(ctx, req.DirectURL, req.Category) {
		observability.ObserveResolution("direct")
		return req.DirectURL
	}

	for _, q := range queryVariants(req) {
		if strings.TrimSpace(q) == "" {
			continue
		}
		u, err := r.search.Search(ctx, q)
		if err != nil || u == "" {
			continue // any search failure reads as "no result"
		}
		if r.loads(ctx, u, req.Category) {
			observability.ObserveResolution("search")
			return u
		}
	}

	if fb := r.fallbackFor(req.Category); fb != "" && r.loads(ctx, fb, req.Category) {
		observability.ObserveResolution("fallback")
		return fb
	}

	observability.ObserveResolution("placeholder")
	return Placeholder(req.Name)
}

func (r *Resolver) fallbackFor(cat domain.ImageCategory) string {
	if u, ok := r.cfg.Fallbacks[cat]; ok {
		return u
	}
	return r.cfg.Fallbacks[domain.ImageGeneral]
}

// loads reports whether url serves an actual image within the category's
// timeout. Place probes retry with a short backoff before giving up.
func (r *Resolver) loads(ctx context.Context, u string, cat domain.ImageCategory) bool {
	if strings.HasPrefix(u, "data:") {
		return true // inline images involve no network
	}
	attempts := 1
	if cat == domain.ImagePlace {
		attempts += r.cfg.PlaceRetries
	}
	for i := 0; i < attempts; i++ {
		if i > 0 && !sleepCtx(ctx, r.cfg.RetryBackoff) {
			return false
		}
		if r.probe(ctx, u, cat) {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
	return false
}

func (r *Resolver) probe(ctx context.Context, u string, cat domain.ImageCategory) bool {
	timeout, ok := r.cfg.ProbeTimeouts[cat]
	if !ok {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "image/*")
	resp, err := r.hc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return false
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		head, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		ct = http.DetectContentType(head)
	}
	return strings.HasPrefix(ct, "image/")
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

// IsAbsoluteURL reports whether s parses as an absolute http(s) URL.
func IsAbsoluteURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
