package normalizer

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
)

func allNormalizers() map[string]ports.Normalizer {
	factory := NewNormalizerFactory()
	return map[string]ports.Normalizer{
		"sorani": factory.CreateNormalizer(SoraniNormalizerType),
		"fast":   factory.CreateNormalizer(FastNormalizerType),
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "ascii passthrough", input: "hello world_42", want: "hello world_42"},
		{name: "arabic kaf", input: "\u0643", want: "\u06A9"},
		{name: "arabic yeh", input: "\u064A", want: "\u06CC"},
		{name: "heh with zwnj", input: "\u0647\u200C", want: "\u06D5"},
		{name: "word with arabic letters", input: "\u0643\u062A\u064A\u0628", want: "\u06A9\u062A\u06CC\u0628"},
		{name: "harakat removed", input: "\u0645\u064E\u0631\u062D\u064E\u0628\u0627", want: "\u0645\u0631\u062D\u0628\u0627"},
		{name: "zwnj removed", input: "\u0645\u06CC\u200C\u062E\u0648\u0627\u0645", want: "\u0645\u06CC\u062E\u0648\u0627\u0645"},
		{name: "yeh with hamza kept", input: "ئەمە", want: "ئەمە"},
		{name: "alef with hamza stripped", input: "\u0623", want: "\u0627"},
		{name: "latin accent stripped", input: "caf\u00E9", want: "cafe"},
		{name: "sorani letters untouched", input: "ڕۆژێک لە کوردستان", want: "ڕۆژێک لە کوردستان"},
	}

	for name, n := range allNormalizers() {
		for _, tc := range tests {
			t.Run(name+"/"+tc.name, func(t *testing.T) {
				if got := n.Normalize(tc.input); got != tc.want {
					t.Errorf("Normalize(%q) = %q (%U), want %q (%U)", tc.input, got, []rune(got), tc.want, []rune(tc.want))
				}
			})
		}
	}
}

func TestNormalizersAgree(t *testing.T) {
	inputs := []string{
		"کوردستان وڵاتێکی جوانە و خەڵکەکەی زۆر میهرەبانن.",
		"\u0643\u064A\u0647\u200C\u0623\u064E\u0650\u200C",
		"ئێمە\u200C\u064Bخوێندکارین! Hello, wörld?",
		"\uFEFB \u0626\u0654 \u064A\u0654",
		strings.Repeat("ڕێگا ", 5000),
	}

	factory := NewNormalizerFactory()
	sorani := factory.CreateNormalizer(SoraniNormalizerType)
	fast := factory.CreateNormalizer(FastNormalizerType)

	for _, in := range inputs {
		if a, b := sorani.Normalize(in), fast.Normalize(in); a != b {
			t.Errorf("normalizers disagree on %q:\n sorani %U\n fast   %U", in, []rune(a), []rune(b))
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"\u0626\u0654\u064B",
		"\u0647\u064E\u200C",
		"\u064A\u0654",
		"ئەمە دەقێکی کوردییە.",
	}
	for name, n := range allNormalizers() {
		for _, in := range inputs {
			once := n.Normalize(in)
			if twice := n.Normalize(once); twice != once {
				t.Errorf("%s: Normalize not idempotent for %q: %U then %U", name, in, []rune(once), []rune(twice))
			}
		}
	}
}

func TestNormalizeLeavesNoCoveredCharacters(t *testing.T) {
	in := "\u0643\u064A\u0647\u200C\u0626\u0650\u064C"
	for name, n := range allNormalizers() {
		out := n.Normalize(in)
		for _, r := range out {
			if r == arabicKaf || r == arabicYeh || r == zwnj || unicode.Is(unicode.Mn, r) {
				t.Errorf("%s: output %U still contains %U", name, []rune(out), r)
			}
		}
	}
}

func FuzzNormalize(f *testing.F) {
	f.Add("ئەمە دەقێکی کوردییە.")
	f.Add("\u0643\u064A\u0647\u200C")
	f.Add("caf\u00E9")

	sorani := NewSoraniNormalizer()
	fast := NewFastNormalizer()

	f.Fuzz(func(t *testing.T, in string) {
		if !utf8.ValidString(in) {
			t.Skip()
		}
		once := sorani.Normalize(in)
		if twice := sorani.Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
		if other := fast.Normalize(in); other != once {
			t.Fatalf("normalizers disagree on %q: %q vs %q", in, once, other)
		}
		for _, r := range once {
			if unicode.Is(unicode.Mn, r) {
				t.Fatalf("non-spacing mark %U left in %q", r, once)
			}
		}
	})
}
