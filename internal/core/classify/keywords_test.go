package classify

import "testing"

func TestKeywordCategorizeRuleTable(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		category string
	}{
		{"api error", "Getting a 500 from the API", "api_error"},
		{"crash", "the CLI just crashed again", "api_error"},
		{"performance", "requests are crawling today", "slow_performance"},
		{"docs", "the documentation is missing half the endpoints", "unclear_docs"},
		{"ux", "the UI is so cluttered", "ux_issue"},
		{"pricing", "what tier do I need for this?", "pricing_concern"},
		{"feature request", "would love dark mode", "feature_request"},
		{"positive emoji", "this release is 🔥", "positive_feedback"},
		{"deployment", "wrangler won't publish my worker", "deployment_issue"},
		{"configuration", "my KV binding is missing", "configuration_problem"},
		{"scaling", "will this handle a million requests?", "scaling_concern"},
		{"no match", "just checking in", "general_feedback"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := KeywordCategorize(tc.text)
			if got.Category != tc.category {
				t.Fatalf("KeywordCategorize(%q) = %q, want %q", tc.text, got.Category, tc.category)
			}
		})
	}
}

func TestKeywordCategorizeEarlierRulesWin(t *testing.T) {
	// "error" (api_error) and "deploy" (deployment_issue) both match;
	// api_error is evaluated first.
	got := KeywordCategorize("Getting 500 errors when I deploy, this is blocking our release 😤")
	if got.Category != "api_error" {
		t.Fatalf("expected api_error to win over deployment_issue, got %q", got.Category)
	}
	if got.Confidence != ConfidenceKeyword {
		t.Fatalf("expected confidence %v, got %v", ConfidenceKeyword, got.Confidence)
	}
}

func TestKeywordCategorizeConfidence(t *testing.T) {
	if got := KeywordCategorize("I love this product, it's amazing!"); got.Confidence != ConfidenceKeyword {
		t.Fatalf("keyword match confidence = %v, want %v", got.Confidence, ConfidenceKeyword)
	}
	got := KeywordCategorize("hello there")
	if got.Category != DefaultCategory || got.Confidence != ConfidenceDefault {
		t.Fatalf("default suggestion = %+v", got)
	}
	if got.Source != SourceDefault {
		t.Fatalf("default source = %q", got.Source)
	}
}

func TestKeywordCategorizeIsCaseInsensitive(t *testing.T) {
	upper := KeywordCategorize("SLOW DASHBOARD")
	lower := KeywordCategorize("slow dashboard")
	if upper != lower {
		t.Fatalf("case sensitivity detected: %+v vs %+v", upper, lower)
	}
	if upper.Category != "slow_performance" {
		t.Fatalf("expected slow_performance (earlier rule than ux_issue), got %q", upper.Category)
	}
}
