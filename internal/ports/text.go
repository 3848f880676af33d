package ports

import (
	"context"

	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
)

// Tokenizer splits text into words and sentences.
// Implementations normalize their input, callers never need to.
type Tokenizer interface {
	Tokenize(text string) []string
	Tokens(text string) []domain.Token
	SentenceTokenize(text string) []string
}

// Stemmer strips affixes from a single word.
type Stemmer interface {
	Stem(word string) string
}

// BatchStemmer also stems whole word lists, keeping order.
type BatchStemmer interface {
	Stemmer
	StemAll(words []string) []string
}

// Analyzer runs the full normalize, tokenize and stem pipeline over a text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (domain.Analysis, error)
}
