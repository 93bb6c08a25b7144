package analysis

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RE2's \b only knows ASCII word characters, which breaks on accented
// Spanish terms, so word edges are spelled out with Unicode classes.
const (
	wordStart = `(?:^|[^\p{L}\p{M}\p{N}_])`
	wordEnd   = `(?:[^\p{L}\p{M}\p{N}_]|$)`
)

type markerPattern struct {
	term string
	re   *regexp.Regexp
}

// Detector matches a fixed filler vocabulary against text. It is immutable
// after construction and safe for concurrent use.
type Detector struct {
	patterns []markerPattern
}

func NewDetector(vocabulary []string) *Detector {
	d := &Detector{patterns: make([]markerPattern, 0, len(vocabulary))}

	for _, term := range cleanVocabulary(vocabulary) {
		words := strings.Fields(norm.NFC.String(term))
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}

		d.patterns = append(d.patterns, markerPattern{
			term: term,
			re:   regexp.MustCompile(`(?i)` + wordStart + strings.Join(words, `\s+`) + wordEnd),
		})
	}

	return d
}

// Detect returns the vocabulary terms present in text as whole words, in
// vocabulary order, each at most once.
func (d *Detector) Detect(text string) []string {
	normalized := norm.NFC.String(text)
	detected := make([]string, 0)
	seen := make(map[string]bool)

	for _, p := range d.patterns {
		key := strings.ToLower(p.term)
		if seen[key] {
			continue
		}
		if p.re.MatchString(normalized) {
			detected = append(detected, p.term)
			seen[key] = true
		}
	}

	return detected
}

func DetectMarkers(text string, vocabulary []string) []string {
	return NewDetector(vocabulary).Detect(text)
}
