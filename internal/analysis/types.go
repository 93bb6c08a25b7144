package analysis

import (
	"context"
	"errors"

	"github.com/wgomg/oratoria/internal/inference"
	"github.com/wgomg/oratoria/internal/processor"
)

var ErrEmptyTranscript = errors.New("transcript text is required")

// Classifier is a zero-shot text classifier. Implementations return labels
// ordered by confidence, most confident first.
type Classifier interface {
	Classify(ctx context.Context, inputs string, candidateLabels []string) (inference.Classification, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)
}

// Searcher returns free-text snippets related to a query.
type Searcher interface {
	Snippets(ctx context.Context, query string) ([]string, error)
}

type CoherenceEdge struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Labels  []string  `json:"labels"`
	Scores  []float64 `json:"scores"`
	Verdict string    `json:"verdict"`
}

type DiscourseLabel struct {
	Segment string  `json:"segment"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
}

type FactCheck struct {
	Statement string  `json:"statement"`
	Snippets  int     `json:"snippets"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Judgment  string  `json:"judgment"`
}

type Redundancy struct {
	Pairs   []processor.RedundantPair `json:"pairs"`
	Summary string                    `json:"summary,omitempty"`
}

type AnalysisResult struct {
	Text        string            `json:"text"`
	Markers     []string          `json:"markers"`
	Coherence   []CoherenceEdge   `json:"coherence"`
	Discourse   []DiscourseLabel  `json:"discourse"`
	FactCheck   *FactCheck        `json:"fact_check,omitempty"`
	Redundancy  *Redundancy       `json:"redundancy,omitempty"`
	Correction  string            `json:"correction,omitempty"`
	StageErrors map[string]string `json:"stage_errors,omitempty"`
}
