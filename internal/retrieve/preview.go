package retrieve

import (
	"context"
	"errors"

	gocache "github.com/patrickmn/go-cache"

	"github.com/shopcheck/credo/internal/config"
)

// Preview is raw page markup for the client-side preview, or a blocked
// indicator when the site disallows fetching. It never feeds the verdict
// logic.
type Preview struct {
	HTML    string `json:"html,omitempty"`
	Blocked bool   `json:"blocked"`
}

// Previewer serves raw page markup with a short-TTL in-memory cache in
// front of the fetcher.
type Previewer struct {
	fetcher *Fetcher
	cache   *gocache.Cache
}

// NewPreviewer creates a previewer.
func NewPreviewer(cfg *config.RetrievalConfig) *Previewer {
	return &Previewer{
		fetcher: NewFetcher(cfg.Timeout(), cfg.UserAgent, cfg.MaxBodyBytes, cfg.RequestsPerSecond, cfg.Burst),
		cache:   gocache.New(cfg.CacheTTL(), 2*cfg.CacheTTL()),
	}
}

// Get returns the page markup for a URL, cached per URL for the configured
// TTL. A robots.txt denial yields a blocked preview rather than an error.
func (p *Previewer) Get(ctx context.Context, rawURL string) (*Preview, error) {
	if cached, found := p.cache.Get(rawURL); found {
		return cached.(*Preview), nil
	}

	result, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if errors.Is(err, ErrBlocked) {
			preview := &Preview{Blocked: true}
			p.cache.SetDefault(rawURL, preview)
			return preview, nil
		}
		return nil, err
	}

	preview := &Preview{HTML: result.HTML}
	p.cache.SetDefault(rawURL, preview)
	return preview, nil
}
