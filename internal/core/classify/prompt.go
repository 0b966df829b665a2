package classify

import (
	"fmt"
	"strings"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
)

// FewShotWindow bounds how many recent corrections a prompt embeds.
const FewShotWindow = 5

const promptHeader = `You are categorizing product feedback tweets. Suggest ONE specific category.

Examples of good categories: api_error, slow_performance, unclear_docs, pricing_concern, feature_request, positive_feedback, deployment_issue, configuration_problem.

`

// BuildPrompt constructs the categorization prompt for one tweet. It is a
// pure function of (text, corrections) so any generation backend can execute
// it and tests can assert on the exact output. Corrections are embedded in
// the order given (most recent first), capped at FewShotWindow.
func BuildPrompt(text string, corrections []domain.Correction) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	if len(corrections) > 0 {
		b.WriteString("Here are examples of correct categorizations:\n\n")
		window := corrections
		if len(window) > FewShotWindow {
			window = window[:FewShotWindow]
		}
		for _, correction := range window {
			fmt.Fprintf(&b, "Tweet: %q\nCategory: %s\n\n", correction.TweetText, correction.CorrectedCategory)
		}
	}

	fmt.Fprintf(&b, "Now categorize this tweet:\nTweet: %q\n\nRespond with ONLY the category name (lowercase, underscores for spaces).\nCategory:", text)
	return b.String()
}

// ParseCategory normalizes a raw generated reply into a category label:
// lowercase, strip literal "category:" tags and quotes, keep only the first
// line, then join the first two whitespace tokens with an underscore. An
// empty result becomes FallbackCategory.
func ParseCategory(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, "category:", "")
	cleaned = strings.NewReplacer(`'`, "", `"`, "").Replace(cleaned)
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	cleaned = strings.TrimSpace(cleaned)

	words := strings.Fields(cleaned)
	if len(words) > 2 {
		words = words[:2]
	}
	category := strings.Join(words, "_")
	if category == "" {
		return FallbackCategory
	}
	return category
}
