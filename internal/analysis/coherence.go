package analysis

import (
	"context"
	"fmt"
	"time"
)

var coherenceLabels = []string{"yes", "no"}

// CoherenceScorer asks the classifier whether each line segment logically
// leads into the next one.
type CoherenceScorer struct {
	classifier  Classifier
	workers     int
	callTimeout time.Duration
}

func NewCoherenceScorer(classifier Classifier, workers int, callTimeout time.Duration) *CoherenceScorer {
	return &CoherenceScorer{classifier: classifier, workers: workers, callTimeout: callTimeout}
}

func coherenceQuery(from, to string) string {
	return fmt.Sprintf("%s. Does this logically connect to: %s?", from, to)
}

// Score returns one edge per adjacent pair of segments, in segment order.
// Fewer than two segments yield no edges.
func (s *CoherenceScorer) Score(ctx context.Context, segments []string) ([]CoherenceEdge, error) {
	if len(segments) < 2 {
		return []CoherenceEdge{}, nil
	}

	return runOrdered(ctx, len(segments)-1, s.workers, func(ctx context.Context, i int) (CoherenceEdge, error) {
		callCtx, cancel := withCallTimeout(ctx, s.callTimeout)
		defer cancel()

		from, to := segments[i], segments[i+1]
		res, err := s.classifier.Classify(callCtx, coherenceQuery(from, to), coherenceLabels)
		if err != nil {
			return CoherenceEdge{}, fmt.Errorf("coherence of segment %d: %w", i, err)
		}

		verdict, _ := res.Top()
		return CoherenceEdge{
			From:    from,
			To:      to,
			Labels:  nonNilStrings(res.Labels),
			Scores:  nonNilFloats(res.Scores),
			Verdict: verdict,
		}, nil
	})
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilFloats(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
