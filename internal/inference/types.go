package inference

import (
	"encoding/json"
	"fmt"
)

type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Classification is a zero-shot ranking, most confident label first.
type Classification struct {
	Labels []string
	Scores []float64
}

// Top returns the first ranked label and its score, or ("", 0) for an empty
// ranking.
func (c Classification) Top() (string, float64) {
	if len(c.Labels) == 0 {
		return "", 0
	}
	score := 0.0
	if len(c.Scores) > 0 {
		score = c.Scores[0]
	}
	return c.Labels[0], score
}

type ZeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label,omitempty"`
}

type ZeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters ZeroShotParameters `json:"parameters"`
	Model      string             `json:"model,omitempty"`
}

type zeroShotObject struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type SummarizationRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters"`
}

type summarizationResult struct {
	SummaryText string `json:"summary_text"`
}

type GenerationParameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

type GenerationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters GenerationParameters `json:"parameters"`
}

type generationResult struct {
	GeneratedText string `json:"generated_text"`
}

type TranscriptionResult struct {
	Text string `json:"text"`
}

// decodeClassification accepts the shapes inference endpoints are known to
// return: {labels, scores}, [{labels, scores}] and [{label, score}, ...].
func decodeClassification(body []byte) (Classification, error) {
	var obj zeroShotObject
	if err := json.Unmarshal(body, &obj); err == nil {
		return Classification{Labels: obj.Labels, Scores: obj.Scores}, nil
	}

	var objs []zeroShotObject
	if err := json.Unmarshal(body, &objs); err == nil && (len(objs) == 0 || objs[0].Labels != nil) {
		if len(objs) == 0 {
			return Classification{}, nil
		}
		return Classification{Labels: objs[0].Labels, Scores: objs[0].Scores}, nil
	}

	var pairs []labelScore
	if err := json.Unmarshal(body, &pairs); err != nil {
		return Classification{}, fmt.Errorf("unrecognized classification response: %w", err)
	}

	result := Classification{
		Labels: make([]string, len(pairs)),
		Scores: make([]float64, len(pairs)),
	}
	for i, p := range pairs {
		result.Labels[i] = p.Label
		result.Scores[i] = p.Score
	}
	return result, nil
}
