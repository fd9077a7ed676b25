package extract

import (
	"strings"

	"github.com/shopcheck/credo/internal/models"
)

// ClaimExtractor derives product claims from product-page text. Claims
// describe the product, so the claim side populates returns, warranty,
// stock status, price value and price guarantee, but never the policy-only
// signals (price policy, stock warning).
type ClaimExtractor struct{}

// NewClaimExtractor creates a new claim extractor.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

// Extract produces a fact set from raw product-page text. It is a total
// function: noise or empty text yields an all-absent fact set.
func (e *ClaimExtractor) Extract(text string) models.FactSet {
	text = Normalize(text)
	lower := strings.ToLower(text)

	return models.FactSet{
		ReturnsDays:      matchReturnsDays(text),
		ReturnsAllowed:   matchReturnsAllowed(lower),
		WarrantyMonths:   matchWarrantyMonths(text),
		WarrantyProvided: matchWarrantyProvided(text, lower),
		StockStatus:      matchStockStatus(lower),
		PriceValue:       matchPriceValue(text),
		PriceGuarantee:   matchPriceGuarantee(lower),
	}
}
