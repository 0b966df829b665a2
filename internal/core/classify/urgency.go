package classify

import "strings"

var (
	criticalKeywords = []string{"broken", "crash", "down", "blocking"}
	highKeywords     = []string{"error", "500", "timeout", "fail"}
	mediumKeywords   = []string{"slow", "issue", "problem"}
	emotionalGlyphs  = []string{"😤", "😓", "⚠️"}
	positiveKeywords = []string{"love", "amazing", "incredible"}
)

// UrgencyScore maps feedback text to an integer priority in [1,10].
// Additive rule model: base 5, bonuses stack, then the positive-feedback
// reduction applies with a floor of 2, then the total clamps to 10.
func UrgencyScore(text string) int {
	urgency := 5
	lower := strings.ToLower(text)

	if containsAny(lower, criticalKeywords) {
		urgency += 3
	}
	if containsAny(lower, highKeywords) {
		urgency += 2
	}
	if containsAny(lower, mediumKeywords) {
		urgency++
	}
	if containsAny(text, emotionalGlyphs) {
		urgency++
	}

	if containsAny(lower, positiveKeywords) {
		urgency -= 2
		if urgency < 2 {
			urgency = 2
		}
	}

	if urgency > 10 {
		urgency = 10
	}
	return urgency
}
