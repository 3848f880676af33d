package normalizer

import (
	"strings"
	"unicode"

	"github.com/baditaflorin/go_kurdish_nlp/internal/pool"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Code points touched by the Sorani normalization rules.
const (
	arabicKaf  = '\u0643'
	kurdishKaf = '\u06A9'
	arabicYeh  = '\u064A'
	kurdishYeh = '\u06CC'
	heh        = '\u0647'
	ae         = '\u06D5'
	yehHamza   = '\u0626'
	zwnj       = '\u200C'
)

// newRuleReplacer builds the character-equivalence rules. Each rule is applied
// independently in one pass, replacements never feed another rule.
func newRuleReplacer() *strings.Replacer {
	return strings.NewReplacer(
		string(arabicKaf), string(kurdishKaf),
		string(arabicYeh), string(kurdishYeh),
		string(heh)+string(zwnj), string(ae),
	)
}

// isDropped reports whether r is removed after decomposition:
// non-spacing marks and any zero-width non-joiner left over by the rules.
func isDropped(r rune) bool {
	return r == zwnj || unicode.Is(unicode.Mn, r)
}

// restoreHamzaSeat maps the bare seat of a decomposed ئ back to ئ.
// The rules already removed every Arabic yeh from the input, so an Arabic yeh
// seen after decomposition can only come from U+0626.
func restoreHamzaSeat(r rune) rune {
	if r == arabicYeh {
		return yehHamza
	}
	return r
}

// SoraniNormalizer canonicalizes Sorani Kurdish text using golang.org/x/text transforms.
type SoraniNormalizer struct {
	rules        *strings.Replacer
	transformers *pool.TransformerPool
}

// NewSoraniNormalizer creates a new Sorani normalizer.
func NewSoraniNormalizer() ports.Normalizer {
	return &SoraniNormalizer{
		rules: newRuleReplacer(),
		transformers: pool.NewTransformerPool(func() transform.Transformer {
			return transform.Chain(
				norm.NFD,
				runes.Remove(runes.Predicate(isDropped)),
				runes.Map(restoreHamzaSeat),
			)
		}),
	}
}

// Normalize maps Arabic kaf and yeh to their Kurdish forms, folds heh+ZWNJ
// into ae, strips diacritics from the canonical decomposition and removes
// zero-width non-joiners. The result is left decomposed.
func (n *SoraniNormalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = n.rules.Replace(text)

	t := n.transformers.Get()
	defer n.transformers.Put(t)

	out, _, err := transform.String(t, text)
	if err != nil {
		// not reachable with this chain
		return text
	}
	return out
}
