package tokenize

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func FuzzTokens(f *testing.F) {
	f.Add("ئەمە دەقێکی کوردییە.")
	f.Add("")
	f.Add("  spaces  everywhere  ")
	f.Add("كتيب ه\u200Cکان")
	f.Add("123 ٣٤٥ foo_bar")

	tok := newTestTokenizer()

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip()
		}
		normalized := tok.Normalizer().Normalize(input)
		tokens := tok.TokensNormalized(normalized)

		for i, token := range tokens {
			if token.Position != i {
				t.Errorf("token %d position = %d, want %d", i, token.Position, i)
			}
			if token.Start < 0 || token.End > len(normalized) || token.Start >= token.End {
				t.Errorf("invalid byte offsets: start=%d end=%d len=%d", token.Start, token.End, len(normalized))
			}
			if normalized[token.Start:token.End] != token.Text {
				t.Errorf("token %d text %q does not match its offsets", i, token.Text)
			}
			if strings.ContainsFunc(token.Text, unicode.IsSpace) {
				t.Errorf("token %q contains whitespace", token.Text)
			}
			if strings.ContainsAny(token.Text, "\u0643\u064A\u200C") {
				t.Errorf("token %q contains an un-normalized character", token.Text)
			}
		}
	})
}

func FuzzSentenceTokenize(f *testing.F) {
	f.Add("یەک. دوو! سێ؟")
	f.Add("...")
	f.Add("")

	tok := newTestTokenizer()

	f.Fuzz(func(t *testing.T, input string) {
		for _, sentence := range tok.SentenceTokenize(input) {
			if sentence == "" || sentence != strings.TrimSpace(sentence) {
				t.Errorf("sentence %q is empty or untrimmed", sentence)
			}
		}
	})
}
