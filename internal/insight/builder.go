// Package insight synthesizes the short narrative shown when no hard
// contradiction was detected. It never influences flags or the verdict.
package insight

import (
	"strings"

	"github.com/shopcheck/credo/internal/extract"
	"github.com/shopcheck/credo/internal/models"
)

const (
	genericSummary = "No product description was available for this listing."

	messageWithPolicy = "No contradictions were found between the product page and the merchant's policies."
	messageNoPolicy   = "No policy text was available, so the listing was assessed from the product page alone."

	fillerPro = "No standout guarantees were found on the product page."
	fillerCon = "No obvious red flags were found."
)

// Build produces the insight narrative from the two text bodies and the
// extracted fact sets. Pros and cons follow a fixed priority list and each
// falls back to a single filler sentence so the UI never renders an empty
// list.
func Build(productText, policyText string, claims, policy models.FactSet) models.Insight {
	policyStatus := models.PolicyMissing
	message := messageNoPolicy
	if strings.TrimSpace(policyText) != "" {
		policyStatus = models.PolicyPresent
		message = messageWithPolicy
	}

	var pros []string
	if claims.ReturnsAllowed != nil && *claims.ReturnsAllowed {
		pros = append(pros, "Returns are accepted.")
	}
	if claims.WarrantyProvided != nil && *claims.WarrantyProvided {
		pros = append(pros, "A warranty is provided.")
	}
	if claims.StockStatus != nil && *claims.StockStatus == models.StockInStock {
		pros = append(pros, "The product is listed as in stock.")
	}
	if claims.PriceValue != nil {
		pros = append(pros, "A clear price is listed.")
	}
	if claims.PriceGuarantee != nil && *claims.PriceGuarantee {
		pros = append(pros, "The seller advertises a price guarantee.")
	}
	if len(pros) == 0 {
		pros = []string{fillerPro}
	}

	var cons []string
	if falseOnEitherSide(claims.ReturnsAllowed, policy.ReturnsAllowed) {
		cons = append(cons, "Returns are not accepted.")
	}
	if falseOnEitherSide(claims.WarrantyProvided, policy.WarrantyProvided) {
		cons = append(cons, "No warranty is provided.")
	}
	if policy.StockWarning != nil && *policy.StockWarning {
		cons = append(cons, "Availability is not guaranteed.")
	}
	if policy.PricePolicy != nil && *policy.PricePolicy == models.PolicyPriceChange {
		cons = append(cons, "Prices may change without notice.")
	}
	if len(cons) == 0 {
		cons = []string{fillerCon}
	}

	return models.Insight{
		Message:      message,
		Summary:      Summarize(productText),
		Pros:         pros,
		Cons:         cons,
		PolicyStatus: policyStatus,
	}
}

func falseOnEitherSide(a, b *bool) bool {
	return (a != nil && !*a) || (b != nil && !*b)
}

// Summarize returns the first one or two sentences of the text, or a fixed
// generic sentence when the text is empty.
func Summarize(text string) string {
	text = extract.Normalize(text)
	if text == "" {
		return genericSummary
	}

	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == 2 {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}
