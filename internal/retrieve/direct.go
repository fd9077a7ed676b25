package retrieve

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/shopcheck/credo/internal/config"
)

// maxPolicyPages caps how many policy-looking links the direct agent
// follows per listing.
const maxPolicyPages = 2

// DirectAgent is the standalone retrieval mode: it fetches the product page
// itself, extracts its visible text, and follows up to two policy-looking
// links on the same host for policy text. Best effort: a failed policy
// fetch is logged and skipped, only a failed product fetch fails the call.
type DirectAgent struct {
	fetcher *Fetcher
}

// NewDirectAgent creates a direct retrieval agent.
func NewDirectAgent(cfg *config.RetrievalConfig) *DirectAgent {
	return &DirectAgent{
		fetcher: NewFetcher(cfg.Timeout(), cfg.UserAgent, cfg.MaxBodyBytes, cfg.RequestsPerSecond, cfg.Burst),
	}
}

// Name returns the agent name.
func (a *DirectAgent) Name() string {
	return "direct"
}

// Fetch retrieves the product page and its policy pages.
func (a *DirectAgent) Fetch(ctx context.Context, rawURL string) (*PageContent, error) {
	page, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("product page: %w", err)
	}

	content := &PageContent{
		ProductText: VisibleText(page.HTML),
		Title:       PageTitle(page.HTML),
	}

	for _, link := range PolicyLinks(page.HTML, page.FinalURL, maxPolicyPages) {
		policyPage, err := a.fetcher.Fetch(ctx, link)
		if err != nil {
			log.Warn().Err(err).Str("url", link).Msg("Policy page fetch failed")
			continue
		}
		content.PolicyTexts = append(content.PolicyTexts, VisibleText(policyPage.HTML))
	}

	return content, nil
}
