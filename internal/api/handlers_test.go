package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopcheck/credo/internal/config"
	"github.com/shopcheck/credo/internal/models"
	"github.com/shopcheck/credo/internal/pipeline"
	"github.com/shopcheck/credo/internal/retrieve"
)

// stubAnalyzer replays canned events and returns a fixed result.
type stubAnalyzer struct {
	result *models.AnalyzeResult
	events []models.Event
	gotURL string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, rawURL string, sink pipeline.EventSink) *models.AnalyzeResult {
	s.gotURL = rawURL
	if sink != nil {
		for _, ev := range s.events {
			sink.Emit(ev)
		}
	}
	return s.result
}

type stubPreviewer struct {
	preview *retrieve.Preview
	err     error
}

func (s *stubPreviewer) Get(ctx context.Context, rawURL string) (*retrieve.Preview, error) {
	return s.preview, s.err
}

func goodResult() *models.AnalyzeResult {
	return &models.AnalyzeResult{
		Verdict:      models.VerdictGood,
		Flags:        []models.Flag{},
		Explanations: []string{},
		Steps:        []models.TraceStep{{Name: "validate", Status: models.StepDone}},
		Details: models.Details{
			Name:           "Widget",
			Flags:          []string{},
			HiddenFindings: []string{},
			PolicyStatus:   models.PolicyPresent,
		},
	}
}

func TestHealthCheck(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestAnalyzeHandler(t *testing.T) {
	analyzer := &stubAnalyzer{result: goodResult()}
	handler := NewHandler(analyzer, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"url":"https://shop.example.com/widget"}`))
	w := httptest.NewRecorder()
	handler.Analyze(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if analyzer.gotURL != "https://shop.example.com/widget" {
		t.Errorf("analyzer received url %q", analyzer.gotURL)
	}

	var result models.AnalyzeResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Verdict != models.VerdictGood {
		t.Errorf("verdict = %v", result.Verdict)
	}
	if result.Flags == nil {
		t.Error("flags should serialize as an empty array, not null")
	}
}

func TestAnalyzeHandler_TerminalResultsAreStill200(t *testing.T) {
	analyzer := &stubAnalyzer{result: &models.AnalyzeResult{
		Verdict:      models.VerdictUnclear,
		Flags:        []models.Flag{models.FlagInvalidURL},
		Explanations: []string{"The supplied URL is empty or not a valid web address."},
	}}
	handler := NewHandler(analyzer, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"url":""}`))
	w := httptest.NewRecorder()
	handler.Analyze(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("terminal outcomes ride a 200, got %d", w.Code)
	}
}

func TestAnalyzeHandler_RejectsBadBody(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{result: goodResult()}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	handler.Analyze(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestStreamAnalyze(t *testing.T) {
	analyzer := &stubAnalyzer{
		result: goodResult(),
		events: []models.Event{
			{Event: models.EventRetrieving, Message: "Fetching product and policy pages"},
			{Event: models.EventExtracting, Message: "Extracting claims and policy facts"},
		},
	}
	handler := NewHandler(analyzer, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyze/stream?url=https://shop.example.com/widget", nil)
	w := httptest.NewRecorder()
	handler.StreamAnalyze(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	frames := parseSSE(t, w.Body.String())
	wantOrder := []string{models.EventRetrieving, models.EventExtracting, models.EventDone}
	if len(frames) != len(wantOrder) {
		t.Fatalf("got %d frames, want %d: %v", len(frames), len(wantOrder), frames)
	}
	for i, frame := range frames {
		if frame.Event != wantOrder[i] {
			t.Errorf("frame[%d].Event = %q, want %q", i, frame.Event, wantOrder[i])
		}
	}

	final := frames[len(frames)-1]
	if final.Result == nil {
		t.Fatal("done event must carry the result")
	}
	if final.Result.Verdict != models.VerdictGood {
		t.Errorf("final verdict = %v", final.Result.Verdict)
	}
}

func TestStreamAnalyze_RequiresURL(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{result: goodResult()}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyze/stream", nil)
	w := httptest.NewRecorder()
	handler.StreamAnalyze(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPreviewHandler(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{}, &stubPreviewer{
		preview: &retrieve.Preview{HTML: "<html>page</html>"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/preview?url=https://shop.example.com/widget", nil)
	w := httptest.NewRecorder()
	handler.Preview(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var preview retrieve.Preview
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if preview.HTML != "<html>page</html>" {
		t.Errorf("HTML = %q", preview.HTML)
	}
}

func TestPreviewHandler_RequiresURL(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{}, &stubPreviewer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/preview", nil)
	w := httptest.NewRecorder()
	handler.Preview(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRouter_PublicSurfaceWithoutStore(t *testing.T) {
	cfg := config.DefaultConfig()
	handler := NewHandler(&stubAnalyzer{result: goodResult()}, nil, nil)
	router := NewRouter(cfg, handler, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"url":"https://shop.example.com/widget"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("analyze status = %d, want 200", w.Code)
	}

	// Admin surface is not mounted without a store.
	req = httptest.NewRequest(http.MethodGet, "/admin/keys", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("admin keys status = %d, want 404", w.Code)
	}
}

// parseSSE splits a server-sent event body into frames.
type sseFrame struct {
	Event  string
	Result *models.AnalyzeResult
}

func parseSSE(t *testing.T, body string) []sseFrame {
	t.Helper()

	var frames []sseFrame
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		var frame sseFrame
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(line, "event: ") {
				frame.Event = strings.TrimPrefix(line, "event: ")
			}
			if strings.HasPrefix(line, "data: ") {
				var ev models.Event
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
					t.Fatalf("invalid event data: %v", err)
				}
				frame.Result = ev.Result
			}
		}
		frames = append(frames, frame)
	}
	return frames
}
