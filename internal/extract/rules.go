package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopcheck/credo/internal/models"
)

// Per-field rule lists. Rules for a field are evaluated in order and the
// first match wins; later rules are never consulted once a value is set.

var returnsDaysRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)returns?\s+(?:are\s+)?(?:accepted\s+)?within\s+(\d+)\s*days?`),
	regexp.MustCompile(`(?i)(\d+)[\s-]*days?\s+returns?`),
	regexp.MustCompile(`(?i)returns?[^.!?]{0,80}?policy[^.!?]{0,80}?(\d+)\s*days?`),
}

var returnsNegative = []string{
	"no returns",
	"final sale",
	"non-returnable",
	"non returnable",
	"cannot be returned",
}

var returnsAffirmative = []string{
	"returns accepted",
	"returns are accepted",
	"free returns",
	"return policy",
	"returns within",
}

// Warranty duration: "warranty ... N year(s)|month(s)" with a bounded
// lookahead, then the reversed "N year warranty" form.
var warrantyDurationRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)warranty\b[^.!?]{0,40}?(\d+)[\s-]*(year|yr|month|mo)s?\b`),
	regexp.MustCompile(`(?i)(\d+)[\s-]*(year|yr|month|mo)s?\b[^.!?]{0,40}?warranty`),
}

var warrantyNegative = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bno warranty\b`),
	regexp.MustCompile(`(?i)\bwithout (?:a |any )?warranty\b`),
	regexp.MustCompile(`(?i)\bas[\s-]is\b`),
}

// Stock phrasing in fixed priority order: a page containing both "in stock"
// and "out of stock" resolves to out-of-stock.
var stockRules = []struct {
	status  models.StockStatus
	phrases []string
}{
	{models.StockOutOfStock, []string{"out of stock", "out-of-stock", "sold out"}},
	{models.StockPreorder, []string{"pre-order", "preorder", "pre order"}},
	{models.StockBackorder, []string{"backorder", "back-order", "back order"}},
	{models.StockInStock, []string{"in stock", "in-stock", "available now"}},
}

var priceValueRule = regexp.MustCompile(`(?i)(?:[$€£¥]|usd|eur|gbp)\s*([0-9]+(?:,[0-9]{3})*(?:\.[0-9]{1,2})?)`)

var priceGuaranteePositive = []string{
	"price match",
	"price guarantee",
}

var priceChangeDisclaimers = []string{
	"prices subject to change",
	"prices are subject to change",
	"price subject to change",
	"reserve the right to change prices",
	"reserves the right to change prices",
}

var stockWarningPhrases = []string{
	"subject to availability",
	"availability not guaranteed",
	"availability is not guaranteed",
}

var hiddenCostPhrases = []string{
	"restocking fee",
	"shipping not included",
	"handling fee",
	"service charge",
	"customs fees",
	"subscription required",
	"activation fee",
}

func matchReturnsDays(text string) *int {
	for _, re := range returnsDaysRules {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return models.Int(n)
			}
		}
	}
	return nil
}

// matchReturnsAllowed applies the absence-of-negative-first policy: negative
// phrasing beats affirmative phrasing regardless of position in the text.
func matchReturnsAllowed(lower string) *bool {
	for _, p := range returnsNegative {
		if strings.Contains(lower, p) {
			return models.Bool(false)
		}
	}
	for _, p := range returnsAffirmative {
		if strings.Contains(lower, p) {
			return models.Bool(true)
		}
	}
	return nil
}

func matchWarrantyMonths(text string) *int {
	for _, re := range warrantyDurationRules {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		unit := strings.ToLower(m[2])
		if strings.HasPrefix(unit, "y") {
			n *= 12
		}
		return models.Int(n)
	}
	return nil
}

func matchWarrantyProvided(text, lower string) *bool {
	for _, re := range warrantyNegative {
		if re.MatchString(text) {
			return models.Bool(false)
		}
	}
	if strings.Contains(lower, "warranty") {
		return models.Bool(true)
	}
	return nil
}

func matchStockStatus(lower string) *models.StockStatus {
	for _, rule := range stockRules {
		for _, p := range rule.phrases {
			if strings.Contains(lower, p) {
				return models.Stock(rule.status)
			}
		}
	}
	return nil
}

func matchPriceValue(text string) *float64 {
	m := priceValueRule.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return models.Float(v)
}

func matchPriceGuarantee(lower string) *bool {
	for _, p := range priceGuaranteePositive {
		if strings.Contains(lower, p) {
			return models.Bool(true)
		}
	}
	for _, p := range priceChangeDisclaimers {
		if strings.Contains(lower, p) {
			return models.Bool(false)
		}
	}
	return nil
}

// matchPricePolicy is mutually exclusive by check order: match beats
// guarantee beats change disclaimer.
func matchPricePolicy(lower string) *models.PricePolicy {
	if strings.Contains(lower, "price match") {
		return models.Pricing(models.PolicyPriceMatch)
	}
	if strings.Contains(lower, "price guarantee") {
		return models.Pricing(models.PolicyPriceGuarantee)
	}
	for _, p := range priceChangeDisclaimers {
		if strings.Contains(lower, p) {
			return models.Pricing(models.PolicyPriceChange)
		}
	}
	return nil
}

func matchStockWarning(lower string) *bool {
	for _, p := range stockWarningPhrases {
		if strings.Contains(lower, p) {
			return models.Bool(true)
		}
	}
	return nil
}

// HiddenCosts scans text for phrases that hint at costs not reflected in
// the listed price. Returned findings keep the scan order.
func HiddenCosts(text string) []string {
	lower := strings.ToLower(Normalize(text))
	var findings []string
	for _, p := range hiddenCostPhrases {
		if strings.Contains(lower, p) {
			findings = append(findings, p)
		}
	}
	return findings
}
