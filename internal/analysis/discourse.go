package analysis

import (
	"context"
	"fmt"
	"time"
)

var discourseLabels = []string{"introduction", "development", "conclusion"}

type DiscourseClassifier struct {
	classifier  Classifier
	workers     int
	callTimeout time.Duration
}

func NewDiscourseClassifier(classifier Classifier, workers int, callTimeout time.Duration) *DiscourseClassifier {
	return &DiscourseClassifier{classifier: classifier, workers: workers, callTimeout: callTimeout}
}

// Classify labels every sentence with its rhetorical role, one label per
// sentence in input order.
func (d *DiscourseClassifier) Classify(ctx context.Context, sentences []string) ([]DiscourseLabel, error) {
	return runOrdered(ctx, len(sentences), d.workers, func(ctx context.Context, i int) (DiscourseLabel, error) {
		callCtx, cancel := withCallTimeout(ctx, d.callTimeout)
		defer cancel()

		res, err := d.classifier.Classify(callCtx, sentences[i], discourseLabels)
		if err != nil {
			return DiscourseLabel{}, fmt.Errorf("discourse role of sentence %d: %w", i, err)
		}

		label, score := res.Top()
		return DiscourseLabel{Segment: sentences[i], Label: label, Score: score}, nil
	})
}
