package processor

type Sentence struct {
	Id               int
	RawText          string
	Tokens           []string
	UniqueTokens     []string
	TokenFrequencies map[string]int
}

type RedundantPair struct {
	First      int     `json:"first"`
	Second     int     `json:"second"`
	Similarity float64 `json:"similarity"`
}
