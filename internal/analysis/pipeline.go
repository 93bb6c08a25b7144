package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wgomg/oratoria/internal/processor"
	"github.com/wgomg/oratoria/internal/utils"
)

const (
	StageCoherence  = "coherence"
	StageDiscourse  = "discourse"
	StageFactCheck  = "fact_check"
	StageRedundancy = "redundancy"
	StageGrammar    = "grammar"
)

const stageFailedMessage = "stage failed, see server logs"

type Options struct {
	Concurrency         int
	Timeout             time.Duration
	CallTimeout         time.Duration
	ModelMaxInputTokens int
	RedundancyThreshold float64
	EnableFactCheck     bool
	EnableRedundancy    bool
	EnableGrammar       bool
}

// Dependencies are the collaborators injected into the pipeline. Summarizer,
// Generator and Searcher are only required by the stages that use them;
// a nil Summarizer makes the redundancy stage purely local.
type Dependencies struct {
	Classifier Classifier
	Summarizer Summarizer
	Generator  Generator
	Searcher   Searcher
	Vocabulary []string
}

type Pipeline struct {
	logger     *utils.Logger
	opts       Options
	detector   *Detector
	coherence  *CoherenceScorer
	discourse  *DiscourseClassifier
	facts      *FactVerifier
	redundancy *RedundancyDetector
	grammar    *GrammarCorrector
}

func NewPipeline(deps Dependencies, opts Options, logger *utils.Logger) (*Pipeline, error) {
	if deps.Classifier == nil {
		return nil, fmt.Errorf("a classifier is required")
	}
	if opts.EnableFactCheck && deps.Searcher == nil {
		return nil, fmt.Errorf("fact checking is enabled but no searcher was provided")
	}
	if opts.EnableGrammar && deps.Generator == nil {
		return nil, fmt.Errorf("grammar correction is enabled but no generator was provided")
	}

	vocabulary := deps.Vocabulary
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}

	p := &Pipeline{
		logger:    logger,
		opts:      opts,
		detector:  NewDetector(vocabulary),
		coherence: NewCoherenceScorer(deps.Classifier, opts.Concurrency, opts.CallTimeout),
		discourse: NewDiscourseClassifier(deps.Classifier, opts.Concurrency, opts.CallTimeout),
	}

	if opts.EnableFactCheck {
		p.facts = NewFactVerifier(deps.Classifier, deps.Searcher, opts.CallTimeout)
	}
	if opts.EnableRedundancy {
		p.redundancy = NewRedundancyDetector(deps.Summarizer, opts.RedundancyThreshold, opts.CallTimeout)
	}
	if opts.EnableGrammar {
		p.grammar = NewGrammarCorrector(deps.Generator, opts.CallTimeout)
	}

	return p, nil
}

// Analyze runs every enabled stage over text. A failing remote stage is
// recorded in StageErrors and leaves its field empty while the other stages
// keep their results. Cancellation or the overall deadline discards the
// whole result.
func (p *Pipeline) Analyze(ctx context.Context, text string, reqID string) (*AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTranscript
	}

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	estimatedTokens := processor.EstimateTokens(text)
	if processor.ExceedsModelLimit(estimatedTokens, p.opts.ModelMaxInputTokens) {
		p.logger.Info(&reqID, "Transcript of ~%d tokens exceeds model input limit %d, remote stages may truncate it",
			estimatedTokens, p.opts.ModelMaxInputTokens)
	}

	result := &AnalysisResult{
		Text:      text,
		Markers:   p.detector.Detect(text),
		Coherence: []CoherenceEdge{},
		Discourse: []DiscourseLabel{},
	}
	p.logger.Info(&reqID, "Filler markers: %v", result.Markers)

	lines := SplitLines(text)
	edges, err := p.coherence.Score(ctx, lines)
	if abortErr := p.stageFailed(ctx, result, StageCoherence, err, reqID); abortErr != nil {
		return nil, abortErr
	}
	if edges != nil {
		result.Coherence = edges
	}
	p.logger.Debug(&reqID, "Coherence: %d segments, %d edges", len(lines), len(result.Coherence))

	sentences := SplitSentences(text)
	labels, err := p.discourse.Classify(ctx, sentences)
	if abortErr := p.stageFailed(ctx, result, StageDiscourse, err, reqID); abortErr != nil {
		return nil, abortErr
	}
	if labels != nil {
		result.Discourse = labels
	}
	p.logger.Debug(&reqID, "Discourse: %d sentences labelled", len(result.Discourse))

	if p.facts != nil {
		check, err := p.facts.Verify(ctx, text)
		if abortErr := p.stageFailed(ctx, result, StageFactCheck, err, reqID); abortErr != nil {
			return nil, abortErr
		}
		result.FactCheck = check
	}

	if p.redundancy != nil {
		redundancy, err := p.redundancy.Detect(ctx, text, sentences)
		if abortErr := p.stageFailed(ctx, result, StageRedundancy, err, reqID); abortErr != nil {
			return nil, abortErr
		}
		result.Redundancy = redundancy
	}

	if p.grammar != nil {
		corrected, err := p.grammar.Correct(ctx, text)
		if abortErr := p.stageFailed(ctx, result, StageGrammar, err, reqID); abortErr != nil {
			return nil, abortErr
		}
		result.Correction = corrected
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis aborted: %w", err)
	}

	return result, nil
}

// stageFailed records a stage error on result. It returns a non-nil error only
// when the pipeline context itself is done, in which case no result may be
// treated as final.
func (p *Pipeline) stageFailed(ctx context.Context, result *AnalysisResult, stage string, err error, reqID string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		p.logger.Error(&reqID, "Analysis aborted during %s stage: %v", stage, err)
		return fmt.Errorf("analysis aborted during %s: %w", stage, ctxErr)
	}

	p.logger.Error(&reqID, "Stage %s failed: %v", stage, err)
	if result.StageErrors == nil {
		result.StageErrors = make(map[string]string)
	}
	result.StageErrors[stage] = stageFailedMessage

	return nil
}
