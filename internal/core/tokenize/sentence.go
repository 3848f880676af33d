package tokenize

import "strings"

// SentenceScanner splits normalized text into sentences incrementally.
// Feeding a text in any number of pieces yields the same sentences as
// feeding it whole. The zero value is ready to use.
type SentenceScanner struct {
	// run holds the text since the last terminator
	run strings.Builder
	// seen holds all text fed before the first sentence was found
	seen  strings.Builder
	found bool
}

// Feed consumes the next piece of text and returns the sentences it completes.
func (s *SentenceScanner) Feed(text string) []string {
	var sentences []string
	start := 0

	// Terminators are ASCII, so a byte scan never splits a rune.
	for i := 0; i < len(text); i++ {
		if !IsTerminator(text[i]) {
			continue
		}
		if i == start && s.run.Len() == 0 {
			// terminator without preceding text
			start = i + 1
			continue
		}

		s.run.WriteString(text[start : i+1])
		if sentence := strings.TrimSpace(s.run.String()); sentence != "" {
			sentences = append(sentences, sentence)
		}
		s.run.Reset()
		start = i + 1

		if !s.found {
			s.found = true
			s.seen.Reset()
		}
	}

	s.run.WriteString(text[start:])
	if !s.found {
		s.seen.WriteString(text)
	}

	return sentences
}

// Finish ends the input and returns the fallback sentence, if any: the whole
// trimmed text when no terminator closed a sentence. The scanner is reset.
func (s *SentenceScanner) Finish() []string {
	defer s.Reset()

	if s.found {
		return nil
	}
	if whole := strings.TrimSpace(s.seen.String()); whole != "" {
		return []string{whole}
	}
	return nil
}

// Reset clears all state so the scanner can be reused.
func (s *SentenceScanner) Reset() {
	s.run.Reset()
	s.seen.Reset()
	s.found = false
}
