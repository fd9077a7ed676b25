package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopcheck/credo/internal/config"
)

// HTTPAgent calls a remote content-retrieval service. The service returns
// loosely-typed JSON; missing or malformed fields are coerced explicitly at
// this boundary rather than trusted.
type HTTPAgent struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPAgent creates an agent client for the configured endpoint.
func NewHTTPAgent(cfg *config.RetrievalConfig) *HTTPAgent {
	return &HTTPAgent{
		endpoint: cfg.AgentURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// Name returns the agent name.
func (a *HTTPAgent) Name() string {
	return "agent"
}

// agentPayload mirrors the agent's loose response. Fields arrive as
// arbitrary JSON and are coerced field by field.
type agentPayload struct {
	ProductText  json.RawMessage `json:"product_text"`
	PolicyTexts  json.RawMessage `json:"policy_texts"`
	Title        json.RawMessage `json:"title"`
	Price        json.RawMessage `json:"price"`
	Description  json.RawMessage `json:"description"`
	PreviewImage json.RawMessage `json:"preview_image"`
}

// Fetch retrieves listing content through the remote agent.
func (a *HTTPAgent) Fetch(ctx context.Context, rawURL string) (*PageContent, error) {
	endpoint := fmt.Sprintf("%s?url=%s", a.endpoint, url.QueryEscape(rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("retrieval agent: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read agent response: %w", err)
	}

	return decodePayload(body)
}

// decodePayload validates the agent's loose JSON into the strict
// PageContent shape. Non-object payloads are rejected; wrong-typed fields
// are coerced where a sane coercion exists and dropped otherwise.
func decodePayload(body []byte) (*PageContent, error) {
	var payload agentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("agent payload is not a JSON object: %w", err)
	}

	content := &PageContent{
		ProductText:  coerceString(payload.ProductText),
		PolicyTexts:  coerceStringSlice(payload.PolicyTexts),
		Title:        coerceString(payload.Title),
		Price:        coerceString(payload.Price),
		Description:  coerceString(payload.Description),
		PreviewImage: coerceString(payload.PreviewImage),
	}
	return content, nil
}

// coerceString accepts strings and numbers; everything else (null, arrays,
// objects, booleans) becomes the empty string.
func coerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("%g", n)
	}
	return ""
}

// coerceStringSlice accepts an array of strings, a single string, or
// anything else (treated as empty). Non-string array members are skipped.
func coerceStringSlice(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		var out []string
		for _, item := range items {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := coerceString(raw); s != "" {
		return []string{s}
	}
	return nil
}
