package utils

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var symbolsRe = regexp.MustCompile(`[$€£¥¢%&*+=<>^|~@#\\_\[\]{}]`)

func CountWords(text string) int {
	words := strings.Fields(text)
	wordCount := len(words)

	return wordCount
}

func EstimateTokensFromWords(wordCount int) int {
	return int(math.Round(float64(wordCount) * 1.3))
}

func CleanUp(text string) string {
	return symbolsRe.ReplaceAllString(text, "")
}

// Preview shortens s to at most maxRunes runes for log lines, never splitting a
// multi-byte character.
func Preview(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
