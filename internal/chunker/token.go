package chunker

import "strings"

// EstimateTokens gives a rough token count from the word count. Exact
// tokenization is not required for chunk sizing, and the word-based estimate
// behaves acceptably for both English and Arabic legal prose.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 1.33 tokens per word.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}
