package retrieve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/shopcheck/credo/internal/config"
)

func TestDecodePayload(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    *PageContent
		wantErr bool
	}{
		{
			name: "well formed",
			body: `{"product_text":"A lamp.","policy_texts":["Returns accepted."],"title":"Lamp","price":"$10","description":"desc","preview_image":"https://x/img.png"}`,
			want: &PageContent{
				ProductText:  "A lamp.",
				PolicyTexts:  []string{"Returns accepted."},
				Title:        "Lamp",
				Price:        "$10",
				Description:  "desc",
				PreviewImage: "https://x/img.png",
			},
		},
		{
			name: "price as number",
			body: `{"product_text":"A lamp.","price":89}`,
			want: &PageContent{ProductText: "A lamp.", Price: "89"},
		},
		{
			name: "single policy string promoted to slice",
			body: `{"policy_texts":"Returns accepted."}`,
			want: &PageContent{PolicyTexts: []string{"Returns accepted."}},
		},
		{
			name: "non-string array members skipped",
			body: `{"policy_texts":["Returns accepted.",42,null,{"x":1},"Warranty."]}`,
			want: &PageContent{PolicyTexts: []string{"Returns accepted.", "42", "Warranty."}},
		},
		{
			name: "nulls and wrong types become empty",
			body: `{"product_text":null,"title":["not","a","string"],"price":{"amount":5}}`,
			want: &PageContent{},
		},
		{
			name:    "non-object payload rejected",
			body:    `["not","an","object"]`,
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodePayload([]byte(tc.body))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("decodePayload = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestHTTPAgent_Fetch(t *testing.T) {
	var gotURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"product_text":"A lamp.","title":"Lamp"}`))
	}))
	defer server.Close()

	agent := NewHTTPAgent(&config.RetrievalConfig{AgentURL: server.URL, TimeoutSeconds: 5})

	content, err := agent.Fetch(context.Background(), "https://shop.example.com/lamp?x=1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotURL != "https://shop.example.com/lamp?x=1" {
		t.Errorf("agent received url %q", gotURL)
	}
	if content.ProductText != "A lamp." || content.Title != "Lamp" {
		t.Errorf("unexpected content: %+v", content)
	}
}

func TestHTTPAgent_FetchRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	agent := NewHTTPAgent(&config.RetrievalConfig{AgentURL: server.URL, TimeoutSeconds: 5})

	if _, err := agent.Fetch(context.Background(), "https://shop.example.com/lamp"); err == nil {
		t.Fatal("expected an error for non-2xx status")
	}
}
