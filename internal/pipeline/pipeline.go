// Package pipeline orchestrates the analysis of one listing URL: retrieval,
// extraction, contradiction detection, explanation and insight, with a
// step-by-step execution trace and optional live progress events.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopcheck/credo/internal/config"
	"github.com/shopcheck/credo/internal/detect"
	"github.com/shopcheck/credo/internal/extract"
	"github.com/shopcheck/credo/internal/insight"
	"github.com/shopcheck/credo/internal/llm"
	"github.com/shopcheck/credo/internal/models"
	"github.com/shopcheck/credo/internal/retrieve"
)

// errDevOnly marks an input outside the dev-mode allow-list.
var errDevOnly = errors.New("input not in the dev-mode allow-list")

// Orchestrator sequences the analysis stages. Each Analyze call is fully
// independent: no shared mutable state crosses requests.
type Orchestrator struct {
	agent      retrieve.Agent
	claims     *extract.ClaimExtractor
	policies   *extract.PolicyExtractor
	summarizer *llm.Summarizer

	retrievalBudget time.Duration
	heartbeat       time.Duration
	devMode         bool
}

// New creates an orchestrator. The summarizer may be nil (disabled); the
// agent may be nil only when dev mode is enabled.
func New(agent retrieve.Agent, summarizer *llm.Summarizer, cfg *config.PipelineConfig) *Orchestrator {
	budget := cfg.RetrievalBudget()
	if budget <= 0 {
		budget = 10 * time.Second
	}
	heartbeat := cfg.HeartbeatInterval()
	if heartbeat <= 0 {
		heartbeat = 2 * time.Second
	}
	return &Orchestrator{
		agent:           agent,
		claims:          extract.NewClaimExtractor(),
		policies:        extract.NewPolicyExtractor(),
		summarizer:      summarizer,
		retrievalBudget: budget,
		heartbeat:       heartbeat,
		devMode:         cfg.DevMode,
	}
}

// Analyze runs the full pipeline for a listing URL. It never returns an
// error: every internal failure is recorded as a failed trace step and
// converted into a complete, schema-valid terminal result. Progress events
// go to sink (may be nil) in exact stage order.
func (o *Orchestrator) Analyze(ctx context.Context, rawURL string, sink EventSink) *models.AnalyzeResult {
	start := time.Now()
	tr := &trace{}

	if err := tr.run("validate", func() error { return validateURL(rawURL) }); err != nil {
		log.Warn().Str("url", rawURL).Err(err).Msg("Rejected analyze input")
		return o.terminal(models.FlagInvalidURL, tr, start, rawURL, "")
	}

	var content *retrieve.PageContent
	emit(sink, models.EventRetrieving, "Fetching product and policy pages")
	if err := tr.run("retrieve", func() error {
		var err error
		content, err = o.retrieveContent(ctx, rawURL, sink)
		return err
	}); err != nil {
		if errors.Is(err, errDevOnly) {
			return o.terminal(models.FlagDevOnly, tr, start, rawURL, "")
		}
		log.Error().Str("url", rawURL).Err(err).Msg("Retrieval failed")
		return o.terminal(models.FlagAnalysisFailed, tr, start, rawURL, "")
	}

	productText := content.ProductText
	policyText := content.PolicyText()

	var claimFacts, policyFacts models.FactSet
	emit(sink, models.EventExtracting, "Extracting claims and policy facts")
	if err := tr.run("extract", func() error {
		claimFacts = o.claims.Extract(productText)
		policyFacts = o.policies.Extract(policyText)
		return nil
	}); err != nil {
		return o.terminal(models.FlagAnalysisFailed, tr, start, rawURL, policyText)
	}

	var det detect.Result
	emit(sink, models.EventDetecting, "Checking claims against policies")
	if err := tr.run("detect", func() error {
		det = detect.Detect(claimFacts, policyFacts)
		return nil
	}); err != nil {
		return o.terminal(models.FlagAnalysisFailed, tr, start, rawURL, policyText)
	}

	var explanations []string
	if err := tr.run("explain", func() error {
		explanations = detect.Explain(det.Flags)
		return nil
	}); err != nil {
		return o.terminal(models.FlagAnalysisFailed, tr, start, rawURL, policyText)
	}

	var narrative *models.Insight
	if !hasConflict(det.Flags) {
		if err := tr.run("insight", func() error {
			ins := insight.Build(productText, policyText, claimFacts, policyFacts)
			if o.summarizer.Enabled() {
				polished, err := o.summarizer.Polish(ctx, ins.Summary)
				if err != nil {
					log.Warn().Err(err).Msg("Summary polish failed, keeping deterministic summary")
				} else {
					ins.Summary = polished
				}
			}
			narrative = &ins
			return nil
		}); err != nil {
			return o.terminal(models.FlagAnalysisFailed, tr, start, rawURL, policyText)
		}
	}

	var details models.Details
	var previewImage *string
	emit(sink, models.EventFinalizing, "Assembling result")
	if err := tr.run("finalize", func() error {
		details = buildDetails(rawURL, content, claimFacts, det.Flags, productText, policyText)
		if content.PreviewImage != "" {
			previewImage = models.String(content.PreviewImage)
		}
		return nil
	}); err != nil {
		return o.terminal(models.FlagAnalysisFailed, tr, start, rawURL, policyText)
	}

	flags := det.Flags
	if flags == nil {
		flags = []models.Flag{}
	}

	result := &models.AnalyzeResult{
		Verdict:      det.Verdict,
		Flags:        flags,
		Explanations: explanations,
		ProcessingMs: time.Since(start).Milliseconds(),
		Steps:        tr.steps,
		Insight:      narrative,
		Details:      details,
		PreviewImage: previewImage,
	}

	log.Info().
		Str("url", rawURL).
		Str("verdict", string(result.Verdict)).
		Int("flags", len(result.Flags)).
		Int64("duration_ms", result.ProcessingMs).
		Msg("Analysis complete")

	return result
}

// retrieveContent acquires listing content, offline from the fixture
// allow-list in dev mode, otherwise through the retrieval agent under the
// fixed budget, emitting heartbeat events while the call is in flight.
func (o *Orchestrator) retrieveContent(ctx context.Context, rawURL string, sink EventSink) (*retrieve.PageContent, error) {
	if o.devMode {
		fx, ok := fixtureFor(rawURL)
		if !ok {
			return nil, errDevOnly
		}
		content := &retrieve.PageContent{
			ProductText: fx.ProductText,
			Title:       fx.Title,
			Price:       fx.Price,
		}
		if fx.PolicyText != "" {
			content.PolicyTexts = []string{fx.PolicyText}
		}
		return content, nil
	}

	if o.agent == nil {
		return nil, fmt.Errorf("no retrieval agent configured")
	}

	rctx, cancel := context.WithTimeout(ctx, o.retrievalBudget)
	defer cancel()

	type fetchResult struct {
		content *retrieve.PageContent
		err     error
	}
	done := make(chan fetchResult, 1)
	go func() {
		content, err := o.agent.Fetch(rctx, rawURL)
		done <- fetchResult{content, err}
	}()

	ticker := time.NewTicker(o.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case res := <-done:
			return res.content, res.err
		case <-ticker.C:
			emit(sink, models.EventHeartbeat, "Still retrieving page content")
		}
	}
}

// terminal builds the fallback result for invalid_url, dev_only and
// analysis_failed outcomes: always a complete AnalyzeResult, never a bare
// error.
func (o *Orchestrator) terminal(flag models.Flag, tr *trace, start time.Time, rawURL, policyText string) *models.AnalyzeResult {
	flags := []models.Flag{flag}

	policyStatus := models.PolicyMissing
	if strings.TrimSpace(policyText) != "" {
		policyStatus = models.PolicyPresent
	}

	return &models.AnalyzeResult{
		Verdict:      models.VerdictUnclear,
		Flags:        flags,
		Explanations: detect.Explain(flags),
		ProcessingMs: time.Since(start).Milliseconds(),
		Steps:        tr.steps,
		Insight:      nil,
		Details: models.Details{
			Name:           retrieve.SubjectFromURL(rawURL),
			Price:          nil,
			Flags:          flagStrings(flags),
			HiddenFindings: []string{},
			PolicyStatus:   policyStatus,
		},
		PreviewImage: nil,
	}
}

func buildDetails(rawURL string, content *retrieve.PageContent, claims models.FactSet, flags []models.Flag, productText, policyText string) models.Details {
	name := content.Title
	if name == "" {
		name = retrieve.SubjectFromURL(rawURL)
	}

	var price *string
	if content.Price != "" {
		price = models.String(content.Price)
	} else if claims.PriceValue != nil {
		price = models.String(fmt.Sprintf("%.2f", *claims.PriceValue))
	}

	policyStatus := models.PolicyMissing
	if strings.TrimSpace(policyText) != "" {
		policyStatus = models.PolicyPresent
	}

	hidden := extract.HiddenCosts(productText + " " + policyText)
	if hidden == nil {
		hidden = []string{}
	}

	return models.Details{
		Name:           name,
		Price:          price,
		Description:    content.Description,
		Flags:          flagStrings(flags),
		HiddenFindings: hidden,
		PolicyStatus:   policyStatus,
	}
}

func flagStrings(flags []models.Flag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, string(f))
	}
	return out
}

func hasConflict(flags []models.Flag) bool {
	for _, f := range flags {
		if f.IsConflict() {
			return true
		}
	}
	return false
}

// validateURL accepts only absolute http(s) URLs with a host.
func validateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("url is empty")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}
