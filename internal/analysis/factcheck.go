package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var factLabels = []string{"true", "false", "uncertain"}

// FactVerifier compares a statement with search snippets through the
// classifier. Its judgment depends on an uncontrolled search response and is
// only a soft signal.
type FactVerifier struct {
	classifier  Classifier
	searcher    Searcher
	callTimeout time.Duration
}

func NewFactVerifier(classifier Classifier, searcher Searcher, callTimeout time.Duration) *FactVerifier {
	return &FactVerifier{classifier: classifier, searcher: searcher, callTimeout: callTimeout}
}

func (f *FactVerifier) Verify(ctx context.Context, statement string) (*FactCheck, error) {
	searchCtx, cancel := withCallTimeout(ctx, f.callTimeout)
	snippets, err := f.searcher.Snippets(searchCtx, statement)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("search related topics: %w", err)
	}

	query := fmt.Sprintf("%s Is this fact consistent with: %s", statement, strings.Join(snippets, ". "))

	callCtx, cancel := withCallTimeout(ctx, f.callTimeout)
	defer cancel()

	res, err := f.classifier.Classify(callCtx, query, factLabels)
	if err != nil {
		return nil, fmt.Errorf("classify statement: %w", err)
	}

	label, score := res.Top()
	return &FactCheck{
		Statement: statement,
		Snippets:  len(snippets),
		Label:     label,
		Score:     score,
		Judgment:  label + ": " + strconv.FormatFloat(score, 'f', -1, 64),
	}, nil
}
