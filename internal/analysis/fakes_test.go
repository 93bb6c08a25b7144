package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wgomg/oratoria/internal/inference"
)

var errRemote = errors.New("remote classifier unavailable")

// fakeClassifier answers deterministically: the first candidate label wins
// with a score derived from the input length, unless a rule matches.
type fakeClassifier struct {
	mu       sync.Mutex
	inputs   []string
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	// failOn makes inputs containing the substring fail.
	failOn string
	// delay returns how long to block for a given input.
	delay func(input string) time.Duration
	// empty returns an empty ranking for every call.
	empty bool
}

func (f *fakeClassifier) Classify(ctx context.Context, inputs string, labels []string) (inference.Classification, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.inputs = append(f.inputs, inputs)
	f.mu.Unlock()

	if f.delay != nil {
		t := time.NewTimer(f.delay(inputs))
		select {
		case <-ctx.Done():
			t.Stop()
			return inference.Classification{}, ctx.Err()
		case <-t.C:
		}
	}

	if f.failOn != "" && strings.Contains(inputs, f.failOn) {
		return inference.Classification{}, errRemote
	}
	if f.empty {
		return inference.Classification{}, nil
	}

	ranked := append([]string(nil), labels...)
	scores := make([]float64, len(labels))
	top := 0.5 + float64(len(inputs)%50)/100
	for i := range scores {
		if i == 0 {
			scores[i] = top
		} else {
			scores[i] = (1 - top) / float64(len(labels)-1)
		}
	}
	return inference.Classification{Labels: ranked, Scores: scores}, nil
}

type fakeSearcher struct {
	snippets []string
	err      error
	query    string
}

func (s *fakeSearcher) Snippets(ctx context.Context, query string) ([]string, error) {
	s.query = query
	return s.snippets, s.err
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (s *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.summary, s.err
}

type fakeGenerator struct {
	output string
	err    error
	prompt string
	tokens int
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	g.prompt = prompt
	g.tokens = maxNewTokens
	return g.output, g.err
}
