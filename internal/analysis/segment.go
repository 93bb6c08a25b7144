package analysis

import (
	"strings"
)

// SplitLines splits text on every carriage return or newline.
func SplitLines(text string) []string {
	return splitTrimmed(text, func(r rune) bool { return r == '\n' || r == '\r' })
}

// SplitSentences splits text on periods. Abbreviations and decimal numbers are
// split too; that precision is accepted.
func SplitSentences(text string) []string {
	return splitTrimmed(text, func(r rune) bool { return r == '.' })
}

func splitTrimmed(text string, sep func(rune) bool) []string {
	segments := make([]string, 0)
	for _, part := range strings.FieldsFunc(text, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
