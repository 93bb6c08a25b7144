package api

import (
	"context"

	"github.com/wgomg/oratoria/internal/analysis"
)

// Analyzer runs the revision pipeline over a transcript.
type Analyzer interface {
	Analyze(ctx context.Context, text string, reqID string) (*analysis.AnalysisResult, error)
}

// Transcriber turns an audio blob into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// RevisionPayload is the object form of a revision request body. A bare JSON
// string is accepted as well.
type RevisionPayload struct {
	Text *string `json:"text"`
}

type TextResponse struct {
	Text string `json:"text"`
}
