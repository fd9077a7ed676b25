package insight

import (
	"strings"
	"testing"

	"github.com/shopcheck/credo/internal/models"
)

func TestBuild_PolicyPresence(t *testing.T) {
	withPolicy := Build("A lamp.", "Returns accepted.", models.FactSet{}, models.FactSet{})
	if withPolicy.PolicyStatus != models.PolicyPresent {
		t.Errorf("PolicyStatus = %q, want %q", withPolicy.PolicyStatus, models.PolicyPresent)
	}
	if !strings.Contains(withPolicy.Message, "No contradictions") {
		t.Errorf("unexpected message with policy: %q", withPolicy.Message)
	}

	noPolicy := Build("A lamp.", "   ", models.FactSet{}, models.FactSet{})
	if noPolicy.PolicyStatus != models.PolicyMissing {
		t.Errorf("PolicyStatus = %q, want %q", noPolicy.PolicyStatus, models.PolicyMissing)
	}
	if !strings.Contains(noPolicy.Message, "product page alone") {
		t.Errorf("unexpected message without policy: %q", noPolicy.Message)
	}
}

func TestBuild_ProsFollowClaimSignals(t *testing.T) {
	claims := models.FactSet{
		ReturnsAllowed:   models.Bool(true),
		WarrantyProvided: models.Bool(true),
		StockStatus:      models.Stock(models.StockInStock),
		PriceValue:       models.Float(49.99),
		PriceGuarantee:   models.Bool(true),
	}

	ins := Build("Great lamp.", "policy", claims, models.FactSet{})
	if len(ins.Pros) != 5 {
		t.Fatalf("expected 5 pros, got %d: %v", len(ins.Pros), ins.Pros)
	}
	want := []string{
		"Returns are accepted.",
		"A warranty is provided.",
		"The product is listed as in stock.",
		"A clear price is listed.",
		"The seller advertises a price guarantee.",
	}
	for i := range want {
		if ins.Pros[i] != want[i] {
			t.Errorf("pros[%d] = %q, want %q", i, ins.Pros[i], want[i])
		}
	}
}

func TestBuild_ConsFromEitherSide(t *testing.T) {
	claims := models.FactSet{ReturnsAllowed: models.Bool(false)}
	policy := models.FactSet{
		WarrantyProvided: models.Bool(false),
		StockWarning:     models.Bool(true),
		PricePolicy:      models.Pricing(models.PolicyPriceChange),
	}

	ins := Build("Lamp.", "policy", claims, policy)
	want := []string{
		"Returns are not accepted.",
		"No warranty is provided.",
		"Availability is not guaranteed.",
		"Prices may change without notice.",
	}
	if len(ins.Cons) != len(want) {
		t.Fatalf("expected %d cons, got %d: %v", len(want), len(ins.Cons), ins.Cons)
	}
	for i := range want {
		if ins.Cons[i] != want[i] {
			t.Errorf("cons[%d] = %q, want %q", i, ins.Cons[i], want[i])
		}
	}
}

func TestBuild_FillersKeepListsNonEmpty(t *testing.T) {
	ins := Build("Plain text.", "", models.FactSet{}, models.FactSet{})
	if len(ins.Pros) != 1 || ins.Pros[0] != fillerPro {
		t.Errorf("Pros = %v, want single filler", ins.Pros)
	}
	if len(ins.Cons) != 1 || ins.Cons[0] != fillerCon {
		t.Errorf("Cons = %v, want single filler", ins.Cons)
	}
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", genericSummary},
		{"whitespace only", "  \n ", genericSummary},
		{"one sentence", "A fine lamp.", "A fine lamp."},
		{"two sentences kept", "A fine lamp. Ships fast.", "A fine lamp. Ships fast."},
		{"third sentence dropped", "A fine lamp. Ships fast. Buy now while supplies last.", "A fine lamp. Ships fast."},
		{"question marks count", "Why wait? Order today! This is dropped.", "Why wait? Order today!"},
		{"no terminator", "just a fragment with no punctuation", "just a fragment with no punctuation"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Summarize(tc.in); got != tc.want {
				t.Errorf("Summarize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
