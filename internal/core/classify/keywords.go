package classify

import "strings"

const (
	// DefaultCategory is assigned when no keyword rule matches.
	DefaultCategory = "general_feedback"
	// FallbackCategory replaces a generated reply that parses to nothing.
	FallbackCategory = "uncategorized"

	ConfidenceGenerated = 0.8
	ConfidenceKeyword   = 0.75
	ConfidenceDefault   = 0.6
)

// Source identifies which path produced a suggestion.
const (
	SourceGenerated = "generated"
	SourceKeyword   = "keyword"
	SourceFallback  = "fallback"
	SourceDefault   = "default"
)

// Suggestion is one categorization outcome.
type Suggestion struct {
	Category   string
	Confidence float64
	Source     string
}

type keywordRule struct {
	category string
	keywords []string
}

// Rule order is load-bearing: categories are mutually exclusive per call and
// earlier rules win on overlapping keywords.
var keywordRules = []keywordRule{
	{category: "api_error", keywords: []string{"500", "error", "crash", "broken", "fail"}},
	{category: "slow_performance", keywords: []string{"slow", "timeout", "performance", "crawling"}},
	{category: "unclear_docs", keywords: []string{"docs", "documentation", "example", "guide", "unclear"}},
	{category: "ux_issue", keywords: []string{"dashboard", "ui", "ux", "confusing", "cluttered"}},
	{category: "pricing_concern", keywords: []string{"price", "cost", "bill", "tier"}},
	{category: "feature_request", keywords: []string{"please add", "would love", "need", "request"}},
	{category: "positive_feedback", keywords: []string{"love", "amazing", "incredible", "🔥", "⚡"}},
	{category: "deployment_issue", keywords: []string{"deploy", "build", "wrangler"}},
	{category: "configuration_problem", keywords: []string{"binding", "config", "secret"}},
	{category: "scaling_concern", keywords: []string{"scale", "enterprise", "million"}},
}

// KeywordCategorize tests lowercased text against the ordered rule table and
// returns the first match. It is total, deterministic and pure, which is what
// keeps the system available without any generation backend.
func KeywordCategorize(text string) Suggestion {
	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		if containsAny(lower, rule.keywords) {
			return Suggestion{
				Category:   rule.category,
				Confidence: ConfidenceKeyword,
				Source:     SourceKeyword,
			}
		}
	}
	return Suggestion{
		Category:   DefaultCategory,
		Confidence: ConfidenceDefault,
		Source:     SourceDefault,
	}
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
