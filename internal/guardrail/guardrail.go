// Package guardrail classifies whether a query asks for subjective
// investment advice rather than factual information. Detection is a pure
// function over a static table of compiled signatures; identical input
// always yields identical output.
package guardrail

import (
	"regexp"
	"strings"
)

// Topic selects which educational link accompanies the canned redirect.
type Topic string

const (
	TopicGeneral   Topic = "general"
	TopicELSS      Topic = "elss"
	TopicEquity    Topic = "equity"
	TopicDebt      Topic = "debt"
	TopicHybrid    Topic = "hybrid"
	TopicReturns   Topic = "returns"
	TopicTax       Topic = "tax"
	TopicPortfolio Topic = "portfolio"
)

// Result is the guardrail's classification of one query.
type Result struct {
	AdviceSeeking bool
	Topic         Topic
}

// signature is one advice-detection rule. Name identifies the advice
// sub-type for logging and tests.
type signature struct {
	name string
	re   *regexp.Regexp
}

// signatures is the curated rule table, matched against the lower-cased
// query. Any single match classifies the query as advice-seeking.
var signatures = []signature{
	// Direct recommendation requests
	{"recommendation", regexp.MustCompile(`\b(should|must|need to|recommend|suggest|advise)\b.*\b(invest|fund|scheme|plan)\b`)},
	{"recommendation", regexp.MustCompile(`\b(best|top|worst)\b.*\b(fund|scheme|elss|equity|debt|hybrid)\b.*\b(invest|put|choose)\b`)},
	{"recommendation", regexp.MustCompile(`\b(which|what)\b.*\b(fund|scheme)\b.*\b(invest|choose|pick|select|should)\b`)},
	{"recommendation", regexp.MustCompile(`\b(which|what)\b.*\b(should|must|need to)\b.*\b(invest|fund|scheme)\b`)},

	// Timing questions
	{"timing", regexp.MustCompile(`\b(good time|right time|best time|when|timing)\b.*\b(invest|buy|sell)\b`)},
	{"timing", regexp.MustCompile(`\b(should.*now|should.*wait|when.*invest|is.*time)\b`)},
	{"timing", regexp.MustCompile(`\b(is it|is this)\b.*\b(good|right|best)\b.*\b(time|moment)\b.*\b(invest|buy)\b`)},

	// Comparative "which is better" questions
	{"comparison", regexp.MustCompile(`\b(better|worse|compare|comparison|vs|versus)\b.*\b(fund|scheme)\b.*\b(choose|select|should)\b`)},
	{"comparison", regexp.MustCompile(`\b(which.*better|which.*choose|which.*prefer|which.*should)\b`)},
	{"comparison", regexp.MustCompile(`\b(is|are)\b.*\b(better|worse|good|bad)\b.*\b(than|or)\b`)},

	// Future-performance questions
	{"performance", regexp.MustCompile(`\b(returns|performance|profit|gain|loss)\b.*\b(next|future|coming|5 years|10 years|will give)\b`)},
	{"performance", regexp.MustCompile(`\b(highest|lowest|best|worst)\b.*\b(returns|performance)\b`)},
	{"performance", regexp.MustCompile(`\b(will give|will provide|will earn)\b.*\b(returns|profit)\b`)},

	// Portfolio-allocation questions
	{"portfolio", regexp.MustCompile(`\b(portfolio|allocation|diversification|how much|how many)\b.*\b(invest|allocate|should)\b`)},

	// Tax-advice questions
	{"tax", regexp.MustCompile(`\b(tax|tax saving|tax benefit|elss)\b.*\b(invest|choose|best|should)\b`)},
	{"tax", regexp.MustCompile(`\b(best|top)\b.*\b(elss|tax saving)\b`)},

	// Personal-suitability questions
	{"suitability", regexp.MustCompile(`\b(suitable|right for|good for|fit for)\b.*\b(me|my|i|retirement|goal)\b`)},
	{"suitability", regexp.MustCompile(`\b(should i|what should|what.*for me|for my)\b`)},

	// Switch/transfer advice
	{"switching", regexp.MustCompile(`\b(shift|switch|change|transfer|move)\b.*\b(from|to|plan|fund)\b.*\b(should|now)\b`)},
	{"switching", regexp.MustCompile(`\b(should.*shift|should.*switch|should.*change)\b`)},

	// Risk-suitability advice
	{"risk", regexp.MustCompile(`\b(risk|risky|safe|secure)\b.*\b(invest|fund|scheme)\b.*\b(should|recommend)\b`)},

	// Bypass attempts: asking for advice while disclaiming it is advice
	{"bypass", regexp.MustCompile(`\b(just tell|just say|just recommend|just suggest)\b.*\b(good|best|better)\b`)},
	{"bypass", regexp.MustCompile(`\b(won.?t|will not|don.?t|do not)\b.*\b(consider|treat|take)\b.*\b(advice)\b`)},
	{"bypass", regexp.MustCompile(`\b(which.*good|what.*good|tell.*good|say.*good)\b.*\b(won.?t|will not|don.?t|do not)\b`)},
	{"bypass", regexp.MustCompile(`\b(fund|scheme)\b.*\b(good|best|better)\b.*\b(won.?t|will not|don.?t|do not)\b.*\b(advice)\b`)},
}

// EducationalLinks maps a topic to the learn-more URL used in redirects.
var EducationalLinks = map[Topic]string{
	TopicGeneral:   "https://groww.in/mutual-funds/amc/icici-prudential-mutual-funds",
	TopicELSS:      "https://groww.in/mutual-funds/elss",
	TopicEquity:    "https://groww.in/mutual-funds/equity",
	TopicDebt:      "https://groww.in/mutual-funds/debt",
	TopicHybrid:    "https://groww.in/mutual-funds/hybrid",
	TopicReturns:   "https://groww.in/mutual-funds",
	TopicTax:       "https://groww.in/mutual-funds/elss",
	TopicPortfolio: "https://groww.in/mutual-funds",
}

// Classify reports whether the query is advice-seeking and which topic's
// educational link should accompany the redirect.
func Classify(query string) Result {
	lower := strings.ToLower(query)

	for _, sig := range signatures {
		if sig.re.MatchString(lower) {
			return Result{AdviceSeeking: true, Topic: classifyTopic(lower)}
		}
	}
	return Result{AdviceSeeking: false, Topic: TopicGeneral}
}

// classifyTopic infers the educational-link topic by keyword, defaulting to
// general. Order matters: tax-related wording wins over equity wording.
func classifyTopic(lower string) Topic {
	switch {
	case strings.Contains(lower, "elss") || strings.Contains(lower, "tax"):
		return TopicELSS
	case strings.Contains(lower, "equity"):
		return TopicEquity
	case strings.Contains(lower, "debt"):
		return TopicDebt
	case strings.Contains(lower, "hybrid"):
		return TopicHybrid
	case strings.Contains(lower, "return") || strings.Contains(lower, "performance"):
		return TopicReturns
	case strings.Contains(lower, "portfolio") || strings.Contains(lower, "allocation"):
		return TopicPortfolio
	default:
		return TopicGeneral
	}
}

// Link returns the educational link for a topic, falling back to general.
func Link(topic Topic) string {
	if url, ok := EducationalLinks[topic]; ok {
		return url
	}
	return EducationalLinks[TopicGeneral]
}

// RedirectAnswer is the canned facts-only response for advice-seeking
// queries, with the topic's educational link appended.
func RedirectAnswer(topic Topic) string {
	return "I provide factual information about mutual fund schemes only, not investment advice. " +
		"For investment decisions, please consult a registered investment advisor. " +
		"Learn more: " + Link(topic)
}
