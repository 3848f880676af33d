package tokenize

import "unicode"

// newScriptTable returns the Arabic-script blocks accepted as word characters:
// Arabic, Arabic Supplement, Arabic Extended-A and Arabic Presentation Forms A/B.
// Together they cover the Sorani letter inventory.
func newScriptTable() *unicode.RangeTable {
	return &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
			{Lo: 0x0750, Hi: 0x077F, Stride: 1},
			{Lo: 0x08A0, Hi: 0x08FF, Stride: 1},
			{Lo: 0xFB50, Hi: 0xFDFF, Stride: 1},
			{Lo: 0xFE70, Hi: 0xFEFF, Stride: 1},
		},
	}
}

// isGenericWordRune matches letters, numbers and the underscore in any script.
func isGenericWordRune(r rune) bool {
	if r <= unicode.MaxASCII {
		return r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// IsTerminator reports whether b ends a sentence.
// Only '.', '!' and '?' do; the Arabic question mark does not.
func IsTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
