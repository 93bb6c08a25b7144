package processor

import (
	"github.com/wgomg/oratoria/internal/utils"
)

// ExceedsModelLimit reports whether the remote model is likely to truncate
// content silently.
func ExceedsModelLimit(estimatedTokens int, maxInputTokens int) bool {
	return maxInputTokens > 0 && estimatedTokens > maxInputTokens
}

func EstimateTokens(content string) int {
	cleanedUpContent := utils.CleanUp(content)

	wordCount := utils.CountWords(cleanedUpContent)
	estimatedTokens := utils.EstimateTokensFromWords(wordCount)

	return estimatedTokens
}
