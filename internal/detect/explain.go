package detect

import "github.com/shopcheck/credo/internal/models"

// explanations maps each flag to its fixed human-readable sentence.
var explanations = map[models.Flag]string{
	models.FlagReturnsConflict:  "The product page promises a more generous return arrangement than the store's return policy allows.",
	models.FlagWarrantyConflict: "The warranty advertised on the product page exceeds what the merchant's policy actually provides.",
	models.FlagStockConflict:    "The product is advertised as in stock, but the policy warns that availability is not guaranteed.",
	models.FlagPriceConflict:    "The page advertises a price guarantee, but the policy reserves the right to change prices.",
	models.FlagUnclear:          "Some claims on the product page are not covered by the merchant's stated policies.",
	models.FlagInvalidURL:       "The supplied URL is empty or not a valid web address.",
	models.FlagAnalysisFailed:   "The analysis could not be completed, so the verdict defaults to unclear.",
	models.FlagDevOnly:          "This deployment only analyzes a fixed set of sample listings.",
}

// Explain maps flags to explanation sentences, preserving input order and
// length: one sentence per flag, duplicates included if present upstream.
func Explain(flags []models.Flag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		if s, ok := explanations[f]; ok {
			out = append(out, s)
		} else {
			out = append(out, "An unrecognized signal was raised during analysis.")
		}
	}
	return out
}
