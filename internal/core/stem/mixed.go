package stem

import (
	"fmt"
	"unicode"

	"github.com/kljensen/snowball"
)

// MixedStemmer stems Latin-script words with a Snowball stemmer and every
// other word with a Sorani Stemmer. Snowball lowercases what it stems.
type MixedStemmer struct {
	sorani   *Stemmer
	language string
}

// NewMixedStemmer creates a MixedStemmer for a Snowball language such as
// "english" or "french".
func NewMixedStemmer(sorani *Stemmer, language string) (*MixedStemmer, error) {
	if _, err := snowball.Stem("probe", language, true); err != nil {
		return nil, fmt.Errorf("unsupported snowball language %q: %w", language, err)
	}
	return &MixedStemmer{sorani: sorani, language: language}, nil
}

// Language returns the Snowball language used for Latin-script words.
func (m *MixedStemmer) Language() string {
	return m.language
}

// Stem stems word with the stemmer matching its script.
func (m *MixedStemmer) Stem(word string) string {
	if !isLatinWord(word) {
		return m.sorani.Stem(word)
	}
	stemmed, err := snowball.Stem(word, m.language, true)
	if err != nil {
		return word
	}
	return stemmed
}

// StemAll stems every word, keeping order.
func (m *MixedStemmer) StemAll(words []string) []string {
	stems := make([]string, len(words))
	for i, w := range words {
		stems[i] = m.Stem(w)
	}
	return stems
}

// isLatinWord reports whether word has a Latin letter and nothing outside
// Latin letters, ASCII digits and underscore.
func isLatinWord(word string) bool {
	letter := false
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Latin, r):
			letter = true
		case r == '_' || (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return letter
}
