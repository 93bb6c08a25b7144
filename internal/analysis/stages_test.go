package analysis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestCoherenceEdgeCount(t *testing.T) {
	for n := 0; n <= 6; n++ {
		segments := make([]string, n)
		for i := range segments {
			segments[i] = fmt.Sprintf("segmento %d", i)
		}

		classifier := &fakeClassifier{}
		edges, err := NewCoherenceScorer(classifier, 3, time.Second).Score(context.Background(), segments)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		want := max(n-1, 0)
		if len(edges) != want {
			t.Fatalf("n=%d: %d edges, want %d", n, len(edges), want)
		}
		if int(classifier.calls.Load()) != want {
			t.Fatalf("n=%d: %d classifier calls, want %d", n, classifier.calls.Load(), want)
		}
		for i, e := range edges {
			if e.From != segments[i] || e.To != segments[i+1] {
				t.Fatalf("edge %d = %q -> %q, out of adjacency order", i, e.From, e.To)
			}
		}
	}
}

func TestCoherenceQueryAndVerdict(t *testing.T) {
	classifier := &fakeClassifier{}
	edges, err := NewCoherenceScorer(classifier, 1, time.Second).Score(context.Background(), []string{"Llueve", "Llevo paraguas"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	wantQuery := "Llueve. Does this logically connect to: Llevo paraguas?"
	if classifier.inputs[0] != wantQuery {
		t.Fatalf("query = %q, want %q", classifier.inputs[0], wantQuery)
	}
	if edges[0].Verdict != "yes" || !reflect.DeepEqual(edges[0].Labels, []string{"yes", "no"}) {
		t.Fatalf("edge = %+v", edges[0])
	}
}

func TestCoherenceOrderIndependentOfCompletion(t *testing.T) {
	segments := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	classifier := &fakeClassifier{delay: func(input string) time.Duration {
		// earlier pairs take longer
		return time.Duration(25-5*strings.Index(input, ".")) * time.Millisecond
	}}

	edges, err := NewCoherenceScorer(classifier, 4, time.Second).Score(context.Background(), segments)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i, e := range edges {
		if e.From != segments[i] {
			t.Fatalf("edge %d from %q, want %q", i, e.From, segments[i])
		}
	}
	if classifier.maxSeen.Load() > 4 {
		t.Fatalf("concurrency %d exceeded worker bound", classifier.maxSeen.Load())
	}
}

func TestEmptyRankingRecordedAsEmptyLabel(t *testing.T) {
	classifier := &fakeClassifier{empty: true}

	edges, err := NewCoherenceScorer(classifier, 2, time.Second).Score(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if edges[0].Verdict != "" || edges[0].Labels == nil || len(edges[0].Labels) != 0 {
		t.Fatalf("edge = %+v, want empty verdict and labels", edges[0])
	}

	labels, err := NewDiscourseClassifier(classifier, 2, time.Second).Classify(context.Background(), []string{"solo"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0].Label != "" || labels[0].Score != 0 {
		t.Fatalf("label = %+v, want empty", labels[0])
	}
}

func TestDiscourseOneLabelPerSentence(t *testing.T) {
	sentences := []string{"Primero", "Luego", "Después", "Al final"}
	classifier := &fakeClassifier{}

	labels, err := NewDiscourseClassifier(classifier, 2, time.Second).Classify(context.Background(), sentences)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(labels) != len(sentences) {
		t.Fatalf("%d labels for %d sentences", len(labels), len(sentences))
	}
	for i, l := range labels {
		if l.Segment != sentences[i] {
			t.Fatalf("label %d for %q, want %q", i, l.Segment, sentences[i])
		}
		if l.Label != "introduction" || l.Score < 0 || l.Score > 1 {
			t.Fatalf("label %d = %+v", i, l)
		}
	}

	empty, err := NewDiscourseClassifier(classifier, 2, time.Second).Classify(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty input = %v, %v", empty, err)
	}
}

func TestDiscourseCallTimeout(t *testing.T) {
	classifier := &fakeClassifier{delay: func(string) time.Duration { return time.Second }}

	_, err := NewDiscourseClassifier(classifier, 1, 10*time.Millisecond).Classify(context.Background(), []string{"lento"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestFactVerifier(t *testing.T) {
	classifier := &fakeClassifier{}
	searcher := &fakeSearcher{snippets: []string{"Dato uno", "Dato dos"}}

	check, err := NewFactVerifier(classifier, searcher, time.Second).Verify(context.Background(), "El agua hierve a 100 grados")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	wantQuery := "El agua hierve a 100 grados Is this fact consistent with: Dato uno. Dato dos"
	if classifier.inputs[0] != wantQuery {
		t.Fatalf("query = %q", classifier.inputs[0])
	}
	if searcher.query != "El agua hierve a 100 grados" {
		t.Fatalf("search query = %q", searcher.query)
	}
	if check.Label != "true" || check.Snippets != 2 {
		t.Fatalf("check = %+v", check)
	}
	if !strings.HasPrefix(check.Judgment, "true: 0.") {
		t.Fatalf("judgment = %q", check.Judgment)
	}
}

func TestFactVerifierToleratesNoTopics(t *testing.T) {
	classifier := &fakeClassifier{}

	check, err := NewFactVerifier(classifier, &fakeSearcher{}, time.Second).Verify(context.Background(), "Nada")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if check.Snippets != 0 || classifier.inputs[0] != "Nada Is this fact consistent with: " {
		t.Fatalf("check = %+v, query = %q", check, classifier.inputs[0])
	}
}

func TestFactVerifierSearchError(t *testing.T) {
	classifier := &fakeClassifier{}
	searcher := &fakeSearcher{err: errors.New("search down")}

	if _, err := NewFactVerifier(classifier, searcher, time.Second).Verify(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if classifier.calls.Load() != 0 {
		t.Fatal("classifier must not be called when search fails")
	}
}

func TestRedundancyDetector(t *testing.T) {
	sentences := []string{"Fue un buen año", "Fue un buen año sin duda", "Cambiando de tema"}

	local, err := NewRedundancyDetector(nil, 0.6, time.Second).Detect(context.Background(), "texto", sentences)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(local.Pairs) != 1 || local.Pairs[0].First != 0 || local.Pairs[0].Second != 1 || local.Summary != "" {
		t.Fatalf("local = %+v", local)
	}

	withSummary, err := NewRedundancyDetector(&fakeSummarizer{summary: "Buen año."}, 0.6, time.Second).
		Detect(context.Background(), "texto", sentences)
	if err != nil || withSummary.Summary != "Buen año." {
		t.Fatalf("summary = %+v, %v", withSummary, err)
	}

	failed, err := NewRedundancyDetector(&fakeSummarizer{err: errRemote}, 0.6, time.Second).
		Detect(context.Background(), "texto", sentences)
	if err == nil || failed == nil || len(failed.Pairs) != 1 {
		t.Fatalf("summarizer failure should keep local pairs: %+v, %v", failed, err)
	}
}

func TestGrammarCorrector(t *testing.T) {
	gen := &fakeGenerator{output: "Yo fui al mercado."}
	got, err := NewGrammarCorrector(gen, time.Second).Correct(context.Background(), "yo fue al mercado")
	if err != nil || got != "Yo fui al mercado." {
		t.Fatalf("Correct = %q, %v", got, err)
	}
	if gen.prompt != "correct grammar: yo fue al mercado" || gen.tokens != 512 {
		t.Fatalf("prompt = %q, tokens = %d", gen.prompt, gen.tokens)
	}

	fallback, err := NewGrammarCorrector(&fakeGenerator{}, time.Second).Correct(context.Background(), "sin cambios")
	if err != nil || fallback != "sin cambios" {
		t.Fatalf("fallback = %q, %v", fallback, err)
	}
}
