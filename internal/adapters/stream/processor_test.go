package stream

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/logger"
	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/normalizer"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/stem"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/tokenize"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const sample = "كتێبەکان زۆرن. ئەمە دەقێکی\nکوردییە! دەکردەکان\u200Cو\n\nنەخوارد؟ کۆتایی"

func newTestProcessor(t *testing.T) (*Processor, *tokenize.Tokenizer, *stem.Stemmer) {
	t.Helper()
	log, err := logger.NewDiscardLogger()
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	tok := tokenize.NewTokenizer(normalizer.NewSoraniNormalizer())
	st := stem.NewStemmer()
	return NewProcessor(log, tok, st), tok, st
}

func collect(t *testing.T, p *Processor, input string, mode ports.StreamingMode) []string {
	t.Helper()
	var items []string
	res, err := p.ProcessStream(context.Background(), strings.NewReader(input), mode, func(item string) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		t.Fatalf("ProcessStream(%s) failed: %v", mode, err)
	}
	if res.Items != len(items) {
		t.Errorf("result counted %d items, emitted %d", res.Items, len(items))
	}
	if res.BytesProcessed != int64(len(input)) {
		t.Errorf("expected %d bytes processed, got %d", len(input), res.BytesProcessed)
	}
	if res.Mode != mode.String() {
		t.Errorf("expected mode %q, got %q", mode.String(), res.Mode)
	}
	return items
}

func TestProcessStreamMatchesBatch(t *testing.T) {
	p, tok, st := newTestProcessor(t)

	inputs := []string{
		sample,
		"",
		"\n\n",
		"no terminator at all",
		"یەک. دوو! سێ؟",
		"Hi!! there.\ntail",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if diff := cmp.Diff(tok.Tokenize(input), collect(t, p, input, ports.TokenByToken), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("tokens mismatch (-batch +stream):\n%s", diff)
			}
			if diff := cmp.Diff(tok.SentenceTokenize(input), collect(t, p, input, ports.SentenceBySentence), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("sentences mismatch (-batch +stream):\n%s", diff)
			}
			if diff := cmp.Diff(st.StemAll(tok.Tokenize(input)), collect(t, p, input, ports.StemByStem), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("stems mismatch (-batch +stream):\n%s", diff)
			}
		})
	}
}

func TestProcessStreamSmallReads(t *testing.T) {
	p, tok, _ := newTestProcessor(t)
	p.WithBufferSize(16)

	var items []string
	_, err := p.ProcessStream(context.Background(), iotest.OneByteReader(strings.NewReader(sample)), ports.SentenceBySentence, func(item string) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		t.Fatalf("ProcessStream failed: %v", err)
	}
	if diff := cmp.Diff(tok.SentenceTokenize(sample), items); diff != "" {
		t.Errorf("sentences mismatch (-batch +stream):\n%s", diff)
	}
}

func TestProcessStreamLines(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	res, err := p.ProcessStream(context.Background(), strings.NewReader("a\nb\nc"), ports.TokenByToken, func(string) error { return nil })
	if err != nil {
		t.Fatalf("ProcessStream failed: %v", err)
	}
	if res.Lines != 3 {
		t.Errorf("expected 3 lines, got %d", res.Lines)
	}
}

func TestProcessStreamErrors(t *testing.T) {
	p, _, _ := newTestProcessor(t)
	noop := func(string) error { return nil }

	t.Run("nil reader", func(t *testing.T) {
		if _, err := p.ProcessStream(context.Background(), nil, ports.TokenByToken, noop); !errors.Is(err, ErrNilReader) {
			t.Errorf("expected ErrNilReader, got %v", err)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		if _, err := p.ProcessStream(context.Background(), strings.NewReader("x"), ports.StreamingMode(42), noop); err == nil {
			t.Error("expected error for unknown mode")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := p.ProcessStream(ctx, strings.NewReader(sample), ports.TokenByToken, noop); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("read error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := p.ProcessStream(context.Background(), iotest.ErrReader(boom), ports.TokenByToken, noop)
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped read error, got %v", err)
		}
	})

	t.Run("emit error stops processing", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		_, err := p.ProcessStream(context.Background(), strings.NewReader(sample), ports.TokenByToken, func(string) error {
			calls++
			return stop
		})
		if !errors.Is(err, stop) {
			t.Errorf("expected emit error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected processing to stop after first emit, got %d calls", calls)
		}
	})
}

func TestProcessStreamWithWriter(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	var out bytes.Buffer
	res, err := p.ProcessStreamWithWriter(context.Background(), strings.NewReader("كتێبەکان زۆرن"), &out, ports.StemByStem)
	if err != nil {
		t.Fatalf("ProcessStreamWithWriter failed: %v", err)
	}
	if out.String() != "کتێب\nزۆرن\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if res.Items != 2 {
		t.Errorf("expected 2 items, got %d", res.Items)
	}
}
