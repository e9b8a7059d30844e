// Package match resolves free-text mentions of a catalog product to a
// canonical product record. It is a deliberately cheap fuzzy matcher: a
// handful of similarity signals with a threshold, not a learned model.
package match

import (
	"regexp"
	"strings"

	"github.com/fundwise/fundfaq/internal/catalog"
)

// DefaultThreshold is the minimum similarity a candidate must reach.
const DefaultThreshold = 0.6

const (
	substringScore = 0.9
	categoryScore  = 0.7
)

// Trailing plan/growth-option qualifiers stripped before comparison.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*Direct\s*Plan\s*Growth\s*$`),
	regexp.MustCompile(`(?i)\s*Direct\s*Growth\s*$`),
	regexp.MustCompile(`(?i)\s*Regular\s*Plan\s*Growth\s*$`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Brand heuristics for pulling a "<Brand> <Words> [Fund]" fragment out of a
// longer query. The catalog is a single AMC's funds, so the brand is fixed.
var fragmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ICICI\s+Prudential\s+([A-Za-z\s&]+?)(?:\s+Fund|\s+Direct|$)`),
	regexp.MustCompile(`(?i)ICICI\s+Prudential\s+([A-Za-z\s&]+)`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+?)\s+Fund\s+ICICI`),
}

// Normalize strips known trailing qualifiers, collapses whitespace and
// lower-cases the name for comparison.
func Normalize(name string) string {
	for _, re := range suffixPatterns {
		name = re.ReplaceAllString(name, "")
	}
	name = whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	return strings.ToLower(name)
}

// extractNameFragment pulls a candidate product name out of a query, or
// returns the empty string when no brand pattern applies.
func extractNameFragment(query string) string {
	for _, re := range fragmentPatterns {
		if m := re.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Resolve finds the best-matching product for a query fragment, or nil when
// no candidate clears the threshold. Per candidate it takes the maximum of
// four signals: a substring-containment boost, the sequence ratio against the
// full query, the ratio against an extracted name fragment, and a category
// mention boost. Ties keep the first-seen candidate.
func Resolve(query string, candidates []catalog.Product, threshold float64) *catalog.Product {
	if len(candidates) == 0 {
		return nil
	}

	normQuery := Normalize(query)
	fragment := extractNameFragment(query)
	normFragment := ""
	if fragment != "" {
		normFragment = Normalize(fragment)
	}

	var best *catalog.Product
	bestScore := 0.0

	for i := range candidates {
		candidate := &candidates[i]
		normName := Normalize(candidate.Name)

		score := 0.0
		if strings.Contains(normQuery, normName) || strings.Contains(normName, normQuery) {
			score = substringScore
		}
		if r := Ratio(normQuery, normName); r > score {
			score = r
		}
		if normFragment != "" {
			if r := Ratio(normFragment, normName); r > score {
				score = r
			}
		}
		if candidate.Category != "" &&
			strings.Contains(normQuery, strings.ToLower(candidate.Category)) &&
			categoryScore > score {
			score = categoryScore
		}

		if score > bestScore && score >= threshold {
			bestScore = score
			best = candidate
		}
	}

	return best
}

// ByCategory returns the candidates whose category contains the given name,
// case-insensitively, preserving input order.
func ByCategory(category string, candidates []catalog.Product) []catalog.Product {
	needle := strings.ToLower(category)
	var matched []catalog.Product
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Category), needle) {
			matched = append(matched, c)
		}
	}
	return matched
}
