package domain

import "time"

// Token is a word token located in normalized text.
// Normalized[Start:End] == Text always holds.
type Token struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Analysis holds the outcome of running the full pipeline over one text.
type Analysis struct {
	Normalized    string                 `json:"normalized"`
	Tokens        []Token                `json:"tokens"`
	Words         []string               `json:"words"`
	Sentences     []string               `json:"sentences"`
	Stems         []string               `json:"stems"`
	TokenCount    int                    `json:"token_count"`
	SentenceCount int                    `json:"sentence_count"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// StreamResult holds the outcome of processing a text stream.
type StreamResult struct {
	Mode           string
	Items          int
	Lines          int
	BytesProcessed int64
	ProcessingTime time.Duration
}
