package llm

import (
	"context"
	"errors"
	"testing"
)

// fakeProvider returns a canned completion or error.
type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestSummarizer_Disabled(t *testing.T) {
	var nilSummarizer *Summarizer
	if nilSummarizer.Enabled() {
		t.Error("nil summarizer should be disabled")
	}
	if NewSummarizer(nil).Enabled() {
		t.Error("summarizer without provider should be disabled")
	}

	out, err := NewSummarizer(nil).Polish(context.Background(), "original")
	if err != nil {
		t.Fatalf("disabled Polish errored: %v", err)
	}
	if out != "original" {
		t.Errorf("disabled Polish = %q, want input unchanged", out)
	}
}

func TestSummarizer_Polish(t *testing.T) {
	s := NewSummarizer(&fakeProvider{response: "  A friendlier summary.  "})

	out, err := s.Polish(context.Background(), "original")
	if err != nil {
		t.Fatalf("Polish errored: %v", err)
	}
	if out != "A friendlier summary." {
		t.Errorf("Polish = %q", out)
	}
}

func TestSummarizer_KeepsInputOnFailure(t *testing.T) {
	s := NewSummarizer(&fakeProvider{err: errors.New("provider down")})

	out, err := s.Polish(context.Background(), "original")
	if err == nil {
		t.Error("expected the provider error to surface")
	}
	if out != "original" {
		t.Errorf("Polish on failure = %q, want input unchanged", out)
	}
}

func TestSummarizer_KeepsInputOnEmptyResponse(t *testing.T) {
	s := NewSummarizer(&fakeProvider{response: "   "})

	out, err := s.Polish(context.Background(), "original")
	if err != nil {
		t.Fatalf("Polish errored: %v", err)
	}
	if out != "original" {
		t.Errorf("Polish on empty response = %q, want input unchanged", out)
	}
}
