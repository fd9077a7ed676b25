// Package extract turns free-form listing and policy text into normalized
// fact sets using ordered, case-insensitive pattern rules.
package extract

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses all whitespace runs to single spaces and trims
// leading/trailing whitespace. Total function: empty in, empty out.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
