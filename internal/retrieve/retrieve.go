// Package retrieve acquires product and policy text for a listing URL,
// either through a remote content-retrieval agent or by fetching pages
// directly. It also provides the raw page fetcher used for UI previews.
package retrieve

import (
	"context"
	"fmt"

	"github.com/shopcheck/credo/internal/config"
)

// PageContent is the strict boundary shape produced from whatever the
// retrieval side returns. Optional fields are empty strings when the
// source did not provide them.
type PageContent struct {
	ProductText  string
	PolicyTexts  []string
	Title        string
	Price        string
	Description  string
	PreviewImage string
}

// PolicyText joins all policy page texts into one body for extraction.
func (p *PageContent) PolicyText() string {
	out := ""
	for i, t := range p.PolicyTexts {
		if i > 0 {
			out += "\n"
		}
		out += t
	}
	return out
}

// Agent retrieves listing content for a URL. Implementations are treated
// as a single fallible call by the pipeline.
type Agent interface {
	Fetch(ctx context.Context, rawURL string) (*PageContent, error)
	Name() string
}

// NewAgent builds the retrieval agent selected by configuration.
func NewAgent(cfg *config.RetrievalConfig) (Agent, error) {
	switch cfg.Mode {
	case "agent":
		return NewHTTPAgent(cfg), nil
	case "direct":
		return NewDirectAgent(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported retrieval mode: %s", cfg.Mode)
	}
}
