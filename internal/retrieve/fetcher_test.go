package retrieve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(5*time.Second, "credo-test/1.0", 1<<20, 100, 10)
}

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != "credo-test/1.0" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	result, err := newTestFetcher().Fetch(context.Background(), server.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(result.HTML, "hello") {
		t.Errorf("HTML = %q", result.HTML)
	}
	if result.FinalURL != server.URL+"/page" {
		t.Errorf("FinalURL = %q", result.FinalURL)
	}
}

func TestFetcher_RejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := newTestFetcher().Fetch(context.Background(), server.URL+"/page"); err == nil {
		t.Fatal("expected an error for 404")
	}
}

func TestFetcher_CapsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "credo-test/1.0", 100, 100, 10)
	result, err := fetcher.Fetch(context.Background(), server.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.HTML) != 100 {
		t.Errorf("body length = %d, want capped at 100", len(result.HTML))
	}
}

func TestFetcher_HonorsRobotsDisallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.Write([]byte("secret"))
	}))
	defer server.Close()

	fetcher := newTestFetcher()

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/private/page"); !errors.Is(err, ErrBlocked) {
		t.Errorf("expected ErrBlocked, got %v", err)
	}

	// Paths outside the disallowed prefix still fetch.
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/public/page"); err != nil {
		t.Errorf("public path should fetch, got %v", err)
	}
}

func TestFetcher_MissingRobotsAllowsFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	if _, err := newTestFetcher().Fetch(context.Background(), server.URL+"/page"); err != nil {
		t.Errorf("404 robots.txt should allow fetching, got %v", err)
	}
}
