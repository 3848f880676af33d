// Package tokenize splits Sorani Kurdish text into word tokens and sentences.
//
// Every entry point normalizes its input first. A Tokenizer holds only
// read-only state after construction and is safe for concurrent use.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
)

// Tokenizer produces words and sentences from raw text.
type Tokenizer struct {
	normalizer ports.Normalizer
	script     *unicode.RangeTable
}

// NewTokenizer creates a tokenizer that normalizes with the given normalizer.
func NewTokenizer(normalizer ports.Normalizer) *Tokenizer {
	return &Tokenizer{
		normalizer: normalizer,
		script:     newScriptTable(),
	}
}

// Normalizer returns the normalizer applied before tokenization.
func (t *Tokenizer) Normalizer() ports.Normalizer {
	return t.normalizer
}

// IsWordRune reports whether r can be part of a word token.
func (t *Tokenizer) IsWordRune(r rune) bool {
	return isGenericWordRune(r) || unicode.Is(t.script, r)
}

// Tokenize normalizes text and returns its word tokens in order of appearance.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := t.TokensNormalized(t.normalizer.Normalize(text))
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
	}
	return words
}

// Tokens normalizes text and returns its word tokens with byte offsets into
// the normalized text.
func (t *Tokenizer) Tokens(text string) []domain.Token {
	return t.TokensNormalized(t.normalizer.Normalize(text))
}

// TokensNormalized tokenizes text that is already normalized.
func (t *Tokenizer) TokensNormalized(text string) []domain.Token {
	tokens := make([]domain.Token, 0, len(text)/8)
	pos := 0
	i := 0

	for i < len(text) {
		// Skip non-word characters.
		r, size := utf8.DecodeRuneInString(text[i:])
		if !t.IsWordRune(r) {
			i += size
			continue
		}

		// Collect word characters.
		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !t.IsWordRune(r) {
				break
			}
			i += size
		}

		term := text[start:i]
		if strings.TrimSpace(term) == "" {
			continue
		}
		tokens = append(tokens, domain.Token{
			Text:     term,
			Position: pos,
			Start:    start,
			End:      i,
		})
		pos++
	}

	return tokens
}

// SentenceTokenize normalizes text and splits it into sentences.
// A sentence is a run of text ending in '.', '!' or '?', terminator included.
// Text after the last terminator is dropped; when no sentence ends anywhere,
// the whole trimmed text is returned as one sentence.
func (t *Tokenizer) SentenceTokenize(text string) []string {
	return t.SentencesNormalized(t.normalizer.Normalize(text))
}

// SentencesNormalized splits already normalized text into sentences.
func (t *Tokenizer) SentencesNormalized(text string) []string {
	var scanner SentenceScanner
	sentences := append(scanner.Feed(text), scanner.Finish()...)
	if sentences == nil {
		return []string{}
	}
	return sentences
}
