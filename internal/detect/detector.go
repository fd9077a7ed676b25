// Package detect compares a claim fact set against a policy fact set and
// derives flags and an overall verdict. Everything here is pure: no I/O,
// identical inputs always yield identical flags in identical order.
package detect

import (
	"github.com/shopcheck/credo/internal/models"
)

// Result is the detector output: the ordered flag set and the verdict
// derived from it.
type Result struct {
	Flags   []models.Flag `json:"flags"`
	Verdict models.Verdict `json:"verdict"`
}

// Detect evaluates the contradiction rules in fixed order, then the
// coverage-gap and no-signal rules. Multiple conflict rules may fire on one
// run; "unclear" is appended at most once.
func Detect(claims, policy models.FactSet) Result {
	var flags []models.Flag

	// 1. Promised return window exceeds the policy's window.
	if claims.ReturnsDays != nil && policy.ReturnsDays != nil && *claims.ReturnsDays > *policy.ReturnsDays {
		flags = append(flags, models.FlagReturnsConflict)
	}
	// 2./3. Returns allowed on one side, disallowed on the other.
	if claims.ReturnsAllowed != nil && policy.ReturnsAllowed != nil {
		if *claims.ReturnsAllowed && !*policy.ReturnsAllowed {
			flags = append(flags, models.FlagReturnsConflict)
		}
		if !*claims.ReturnsAllowed && *policy.ReturnsAllowed {
			flags = append(flags, models.FlagReturnsConflict)
		}
	}
	// 4. Advertised warranty outlasts the policy warranty.
	if claims.WarrantyMonths != nil && policy.WarrantyMonths != nil && *claims.WarrantyMonths > *policy.WarrantyMonths {
		flags = append(flags, models.FlagWarrantyConflict)
	}
	// 5. Warranty advertised but policy disclaims it.
	if claims.WarrantyProvided != nil && policy.WarrantyProvided != nil &&
		*claims.WarrantyProvided && !*policy.WarrantyProvided {
		flags = append(flags, models.FlagWarrantyConflict)
	}
	// 6. In-stock claim against an availability disclaimer.
	if claims.StockStatus != nil && *claims.StockStatus == models.StockInStock &&
		policy.StockWarning != nil && *policy.StockWarning {
		flags = append(flags, models.FlagStockConflict)
	}
	// 7. Price guarantee against a change-of-price policy.
	if claims.PriceGuarantee != nil && *claims.PriceGuarantee &&
		policy.PricePolicy != nil && *policy.PricePolicy == models.PolicyPriceChange {
		flags = append(flags, models.FlagPriceConflict)
	}

	unclear := false
	for _, topic := range coverageTopics(claims, policy) {
		if topic.claimed && !topic.covered {
			unclear = true
			break
		}
	}
	if claims.Empty() && policy.Empty() {
		unclear = true
	}
	if unclear {
		flags = append(flags, models.FlagUnclear)
	}

	return Result{Flags: flags, Verdict: models.VerdictFor(flags)}
}

type topic struct {
	claimed bool
	covered bool
}

// coverageTopics defines the four coverage-gap topics. A plain in-stock
// claim carries no forward commitment a policy must back (the stock
// conflict rule owns the in-stock vs availability-disclaimer case), so only
// preorder/backorder/out-of-stock claims count as claimed for stock.
func coverageTopics(claims, policy models.FactSet) []topic {
	return []topic{
		{
			claimed: claims.ReturnsDays != nil || claims.ReturnsAllowed != nil,
			covered: policy.ReturnsDays != nil || policy.ReturnsAllowed != nil,
		},
		{
			claimed: claims.WarrantyMonths != nil || claims.WarrantyProvided != nil,
			covered: policy.WarrantyMonths != nil || policy.WarrantyProvided != nil,
		},
		{
			claimed: claims.StockStatus != nil && *claims.StockStatus != models.StockInStock,
			covered: policy.StockWarning != nil,
		},
		{
			claimed: claims.PriceValue != nil || claims.PriceGuarantee != nil,
			covered: policy.PricePolicy != nil || policy.PriceGuarantee != nil,
		},
	}
}
