package retrieve

import (
	"reflect"
	"strings"
	"testing"
)

func TestVisibleText(t *testing.T) {
	markup := `<html><head>
		<title>Lamp Shop</title>
		<style>body { color: red; }</style>
		<script>var tracking = true;</script>
	</head><body>
		<h1>Aurora Lamp</h1>
		<p>In stock. Returns accepted within 30 days.</p>
		<noscript>Enable JavaScript</noscript>
		<iframe src="ad.html">ad text</iframe>
	</body></html>`

	text := VisibleText(markup)

	for _, want := range []string{"Aurora Lamp", "In stock", "Returns accepted within 30 days"} {
		if !strings.Contains(text, want) {
			t.Errorf("visible text missing %q: %q", want, text)
		}
	}
	for _, skip := range []string{"tracking", "color: red", "Enable JavaScript", "ad text"} {
		if strings.Contains(text, skip) {
			t.Errorf("visible text should not contain %q: %q", skip, text)
		}
	}
}

func TestPageTitle(t *testing.T) {
	if got := PageTitle(`<html><head><title> Lamp Shop </title></head><body/></html>`); got != "Lamp Shop" {
		t.Errorf("PageTitle = %q, want %q", got, "Lamp Shop")
	}
	if got := PageTitle(`<html><body><p>no title here</p></body></html>`); got != "" {
		t.Errorf("PageTitle = %q, want empty", got)
	}
}

func TestPolicyLinks(t *testing.T) {
	markup := `<html><body>
		<a href="/returns">Returns</a>
		<a href="/help/refund-policy">Refunds</a>
		<a href="https://othersite.example.org/policy">External policy</a>
		<a href="/about">About us</a>
		<a href="/warranty">Warranty</a>
		<a href="mailto:help@shop.example.com">policy questions</a>
	</body></html>`

	links := PolicyLinks(markup, "https://shop.example.com/products/lamp", 2)

	want := []string{
		"https://shop.example.com/returns",
		"https://shop.example.com/help/refund-policy",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("PolicyLinks = %v, want %v", links, want)
	}
}

func TestPolicyLinks_DedupesAndMatchesLabels(t *testing.T) {
	markup := `<html><body>
		<a href="/p1">Return policy</a>
		<a href="/p1">Return policy again</a>
		<a href="/p2">Shipping info</a>
	</body></html>`

	links := PolicyLinks(markup, "https://shop.example.com/", 5)

	want := []string{
		"https://shop.example.com/p1",
		"https://shop.example.com/p2",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("PolicyLinks = %v, want %v", links, want)
	}
}

func TestSubjectFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://shop.example.com/products/aurora-desk-lamp", "aurora desk lamp"},
		{"https://shop.example.com/items/widget_pro.html", "widget pro"},
		{"https://shop.example.com/", "shop.example.com"},
		{"https://shop.example.com", "shop.example.com"},
	}

	for _, tc := range cases {
		if got := SubjectFromURL(tc.in); got != tc.want {
			t.Errorf("SubjectFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
