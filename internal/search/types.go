package search

import "fmt"

type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Topic is one entry of an instant-answer RelatedTopics list. Category groups
// carry their entries in Topics instead of Text.
type Topic struct {
	Text     string  `json:"Text"`
	FirstURL string  `json:"FirstURL"`
	Name     string  `json:"Name"`
	Topics   []Topic `json:"Topics"`
}

type InstantAnswer struct {
	Abstract      string  `json:"Abstract"`
	AbstractText  string  `json:"AbstractText"`
	Heading       string  `json:"Heading"`
	RelatedTopics []Topic `json:"RelatedTopics"`
}
