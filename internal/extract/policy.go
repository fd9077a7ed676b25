package extract

import (
	"strings"

	"github.com/shopcheck/credo/internal/models"
)

// PolicyExtractor derives policy facts from policy-page text. Policy
// describes the terms, so the policy side populates returns, warranty,
// price guarantee, price policy and the availability disclaimer, but never
// the claim-only fields (stock status, price value).
type PolicyExtractor struct{}

// NewPolicyExtractor creates a new policy extractor.
func NewPolicyExtractor() *PolicyExtractor {
	return &PolicyExtractor{}
}

// Extract produces a fact set from raw policy text. It is a total function:
// noise or empty text yields an all-absent fact set.
func (e *PolicyExtractor) Extract(text string) models.FactSet {
	text = Normalize(text)
	lower := strings.ToLower(text)

	return models.FactSet{
		ReturnsDays:      matchReturnsDays(text),
		ReturnsAllowed:   matchReturnsAllowed(lower),
		WarrantyMonths:   matchWarrantyMonths(text),
		WarrantyProvided: matchWarrantyProvided(text, lower),
		PriceGuarantee:   matchPriceGuarantee(lower),
		PricePolicy:      matchPricePolicy(lower),
		StockWarning:     matchStockWarning(lower),
	}
}
