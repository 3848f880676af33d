package stem

import "unicode/utf8"

// minStemLength is the shortest remainder, in runes, an affix removal may leave.
const minStemLength = 3

// AffixRule is one removable prefix or suffix. A word may lose the affix only
// when it is at least MinLength runes long, so at least minStemLength runes remain.
type AffixRule struct {
	Pattern   string
	MinLength int
	runes     int
}

// NewAffixRules builds rules from patterns, keeping their order.
// Order is precedence: the first matching rule wins.
func NewAffixRules(patterns ...string) []AffixRule {
	rules := make([]AffixRule, len(patterns))
	for i, p := range patterns {
		n := utf8.RuneCountInString(p)
		rules[i] = AffixRule{
			Pattern:   p,
			MinLength: n + minStemLength,
			runes:     n,
		}
	}
	return rules
}

// SoraniPrefixes returns the default prefix list in precedence order.
func SoraniPrefixes() []string {
	return []string{"نە", "بە", "دە", "هەڵ", "دا", "ڕا"}
}

// SoraniSuffixes returns the default suffix list in precedence order.
// "ی" appears twice; the second entry can never match.
func SoraniSuffixes() []string {
	return []string{"ەکان", "ەکە", "ێک", "ان", "یش", "ە", "ی", "م", "ت", "ی", "مان", "تان", "یان"}
}
