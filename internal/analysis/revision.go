package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/wgomg/oratoria/internal/processor"
)

const grammarMaxNewTokens = 512

// RedundancyDetector flags sentence pairs with heavy word overlap and, when a
// summarizer is configured, attaches a remote summary of the transcript.
type RedundancyDetector struct {
	summarizer  Summarizer
	threshold   float64
	callTimeout time.Duration
}

func NewRedundancyDetector(summarizer Summarizer, threshold float64, callTimeout time.Duration) *RedundancyDetector {
	return &RedundancyDetector{summarizer: summarizer, threshold: threshold, callTimeout: callTimeout}
}

// Detect always returns the local overlap pairs; a summarizer failure is
// returned alongside them.
func (r *RedundancyDetector) Detect(ctx context.Context, text string, sentences []string) (*Redundancy, error) {
	result := &Redundancy{Pairs: processor.FindRedundantPairs(sentences, r.threshold)}

	if r.summarizer == nil {
		return result, nil
	}

	callCtx, cancel := withCallTimeout(ctx, r.callTimeout)
	defer cancel()

	summary, err := r.summarizer.Summarize(callCtx, text)
	if err != nil {
		return result, fmt.Errorf("summarize transcript: %w", err)
	}
	result.Summary = summary

	return result, nil
}

type GrammarCorrector struct {
	generator   Generator
	callTimeout time.Duration
}

func NewGrammarCorrector(generator Generator, callTimeout time.Duration) *GrammarCorrector {
	return &GrammarCorrector{generator: generator, callTimeout: callTimeout}
}

// Correct returns the model's corrected text, or text itself when the model
// produced nothing.
func (g *GrammarCorrector) Correct(ctx context.Context, text string) (string, error) {
	callCtx, cancel := withCallTimeout(ctx, g.callTimeout)
	defer cancel()

	corrected, err := g.generator.Generate(callCtx, "correct grammar: "+text, grammarMaxNewTokens)
	if err != nil {
		return "", fmt.Errorf("correct grammar: %w", err)
	}
	if corrected == "" {
		return text, nil
	}

	return corrected, nil
}
