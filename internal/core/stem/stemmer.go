// Package stem implements a light affix-stripping stemmer for Sorani Kurdish.
//
// Stem removes at most one prefix and then at most one suffix, each chosen by
// a first-match scan over an ordered rule list. It does not guarantee a
// linguistically valid root.
package stem

import (
	"strings"
	"unicode/utf8"
)

// Stemmer strips known Sorani affixes from single words.
// It is immutable after construction and safe for concurrent use.
type Stemmer struct {
	prefixes []AffixRule
	suffixes []AffixRule
}

// NewStemmer creates a stemmer with the default Sorani affix lists.
func NewStemmer() *Stemmer {
	return NewStemmerWithRules(NewAffixRules(SoraniPrefixes()...), NewAffixRules(SoraniSuffixes()...))
}

// NewStemmerWithRules creates a stemmer with custom ordered affix rules.
func NewStemmerWithRules(prefixes, suffixes []AffixRule) *Stemmer {
	return &Stemmer{
		prefixes: append([]AffixRule(nil), prefixes...),
		suffixes: append([]AffixRule(nil), suffixes...),
	}
}

// Prefixes returns a copy of the prefix rules in precedence order.
func (s *Stemmer) Prefixes() []AffixRule {
	return append([]AffixRule(nil), s.prefixes...)
}

// Suffixes returns a copy of the suffix rules in precedence order.
func (s *Stemmer) Suffixes() []AffixRule {
	return append([]AffixRule(nil), s.suffixes...)
}

// Stem removes the first qualifying prefix and then the first qualifying
// suffix from word. A word with no qualifying affix is returned unchanged.
func (s *Stemmer) Stem(word string) string {
	n := utf8.RuneCountInString(word)

	for _, rule := range s.prefixes {
		if n >= rule.MinLength && strings.HasPrefix(word, rule.Pattern) {
			word = word[len(rule.Pattern):]
			n -= rule.runes
			break
		}
	}

	for _, rule := range s.suffixes {
		if n >= rule.MinLength && strings.HasSuffix(word, rule.Pattern) {
			word = word[:len(word)-len(rule.Pattern)]
			break
		}
	}

	return word
}

// StemAll stems every word, keeping order.
func (s *Stemmer) StemAll(words []string) []string {
	stems := make([]string, len(words))
	for i, w := range words {
		stems[i] = s.Stem(w)
	}
	return stems
}
