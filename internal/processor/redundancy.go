package processor

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

var tokenSplitRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// FindRedundantPairs compares every pair of sentences by the Jaccard overlap
// of their word sets and returns the pairs strictly above threshold, ordered
// by (First, Second).
func FindRedundantPairs(sentences []string, threshold float64) []RedundantPair {
	prepared := prepareSentences(sentences)
	pairs := make([]RedundantPair, 0)

	for i := range prepared {
		for j := i + 1; j < len(prepared); j++ {
			similarity := jaccardSimilarity(prepared[i].UniqueTokens, prepared[j].UniqueTokens)

			if similarity > threshold {
				pairs = append(pairs, RedundantPair{First: i, Second: j, Similarity: similarity})
			}
		}
	}

	return pairs
}

func prepareSentences(sentences []string) []Sentence {
	prepared := make([]Sentence, len(sentences))

	for i, raw := range sentences {
		tokens := tokenize(raw)

		tokenFrequencies := make(map[string]int)
		for _, token := range tokens {
			tokenFrequencies[token]++
		}

		unique := slices.Collect(maps.Keys(tokenFrequencies))
		slices.Sort(unique)

		prepared[i] = Sentence{
			Id:               i,
			RawText:          raw,
			Tokens:           tokens,
			UniqueTokens:     unique,
			TokenFrequencies: tokenFrequencies,
		}
	}

	return prepared
}

func tokenize(text string) []string {
	var tokens []string
	for _, t := range tokenSplitRe.Split(strings.ToLower(text), -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}

	set := make(map[string]bool)
	for _, v := range a {
		set[v] = true
	}

	intersection := 0
	for _, v := range b {
		if set[v] {
			intersection++
		}
	}

	// union = |A| + |B| - intersection
	union := len(a) + len(b) - intersection

	return float64(intersection) / float64(union)
}
