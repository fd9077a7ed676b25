package retrieve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher downloads pages with a body-size cap, a redirect limit and
// per-host outbound rate limiting.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *robotsChecker

	limiters     map[string]*rate.Limiter
	limiterMu    sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// ErrBlocked marks a fetch the site disallowed via robots.txt.
var ErrBlocked = fmt.Errorf("fetch blocked by robots.txt")

// NewFetcher creates a fetcher with the given limits.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, requestsPerSecond float64, burst int) *Fetcher {
	if burst <= 0 {
		burst = 2
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:    userAgent,
		maxBytes:     maxBytes,
		robots:       newRobotsChecker(userAgent, timeout),
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// FetchResult is a fetched page plus the URL it resolved to.
type FetchResult struct {
	HTML     string
	FinalURL string
}

// Fetch retrieves a page. It waits for per-host rate clearance, honors
// robots.txt and caps the body size.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if !f.robots.allowed(ctx, rawURL) {
		return nil, ErrBlocked
	}
	if err := f.wait(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:     string(body),
		FinalURL: resp.Request.URL.String(),
	}, nil
}

func (f *Fetcher) wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	f.limiterMu.Lock()
	limiter, exists := f.limiters[parsed.Host]
	if !exists {
		limiter = rate.NewLimiter(f.defaultRate, f.defaultBurst)
		f.limiters[parsed.Host] = limiter
	}
	f.limiterMu.Unlock()

	return limiter.Wait(ctx)
}

// SubjectFromURL extracts a human-readable listing name from the URL: the
// de-slugged last path segment, or the host when the path is empty.
func SubjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return last
}
