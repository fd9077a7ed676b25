package llm

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer rewrites an insight summary into friendlier prose. It runs
// after the verdict is fixed and never influences flags or scoring; callers
// treat failures as a warning and keep the deterministic summary.
type Summarizer struct {
	provider Provider
}

// NewSummarizer wraps a provider. A nil provider yields a disabled
// summarizer.
func NewSummarizer(provider Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// Enabled reports whether a provider is configured.
func (s *Summarizer) Enabled() bool {
	return s != nil && s.provider != nil
}

const summarySystemPrompt = `You are a copy editor for a shopping trust report.
Rewrite the provided product summary as one or two plain sentences for a shopper.
Do not add facts, judgements, or recommendations that are not in the input.
Respond with the rewritten sentences only.`

// Polish rewrites the summary text. The input is returned unchanged when
// the provider fails or produces an empty result.
func (s *Summarizer) Polish(ctx context.Context, summary string) (string, error) {
	if !s.Enabled() {
		return summary, nil
	}

	out, err := s.provider.CompleteWithSystem(ctx, summarySystemPrompt, summary, DefaultCompletionOptions())
	if err != nil {
		return summary, fmt.Errorf("polish summary: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return summary, nil
	}
	return out, nil
}
