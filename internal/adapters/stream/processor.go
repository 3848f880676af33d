package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/tokenize"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
)

const (
	// DefaultBufferSize defines the default read buffer size
	DefaultBufferSize = 64 * 1024 // 64KB

	// ContextCheckFrequency defines how often to check for context cancellation
	ContextCheckFrequency = 256 // lines
)

// ErrNilReader is returned when a stream is processed without a reader.
var ErrNilReader = errors.New("nil reader provided")

// Processor processes text streams line by line. Normalization never spans a
// line break and no word contains one, so per-line processing yields the same
// tokens and stems as processing the whole text; sentences are carried across
// lines by a tokenize.SentenceScanner.
type Processor struct {
	logger     ports.Logger
	tokenizer  *tokenize.Tokenizer
	stemmer    ports.Stemmer
	bufferSize int
}

// NewProcessor creates a new stream processor
func NewProcessor(logger ports.Logger, tokenizer *tokenize.Tokenizer, stemmer ports.Stemmer) *Processor {
	return &Processor{
		logger:     logger,
		tokenizer:  tokenizer,
		stemmer:    stemmer,
		bufferSize: DefaultBufferSize,
	}
}

// WithBufferSize sets a custom read buffer size for the processor
func (p *Processor) WithBufferSize(size int) *Processor {
	if size > 0 {
		p.bufferSize = size
	}
	return p
}

// ProcessStream reads reader to the end and passes every item produced by
// mode to emit, in order.
func (p *Processor) ProcessStream(
	ctx context.Context,
	reader io.Reader,
	mode ports.StreamingMode,
	emit ports.EmitFunc,
) (domain.StreamResult, error) {
	startTime := time.Now()
	result := domain.StreamResult{Mode: mode.String()}

	if reader == nil {
		p.logger.Error("Nil reader provided")
		return result, ErrNilReader
	}
	if mode < ports.TokenByToken || mode > ports.StemByStem {
		return result, fmt.Errorf("unsupported streaming mode %d", mode)
	}

	send := func(item string) error {
		result.Items++
		return emit(item)
	}

	normalizer := p.tokenizer.Normalizer()
	var scanner tokenize.SentenceScanner
	br := bufio.NewReaderSize(reader, p.bufferSize)

	for {
		if result.Lines%ContextCheckFrequency == 0 {
			select {
			case <-ctx.Done():
				p.logger.Warn("Processing cancelled by context", "error", ctx.Err())
				return result, ctx.Err()
			default:
			}
		}

		line, err := br.ReadString('\n')
		if len(line) > 0 {
			result.BytesProcessed += int64(len(line))
			result.Lines++

			if perr := p.processLine(normalizer.Normalize(line), mode, &scanner, send); perr != nil {
				return result, perr
			}
		}

		if err != nil {
			if err != io.EOF {
				p.logger.Warn("Error reading from input", "error", err)
				return result, fmt.Errorf("reading stream: %w", err)
			}
			break
		}
	}

	if mode == ports.SentenceBySentence {
		for _, sentence := range scanner.Finish() {
			if err := send(sentence); err != nil {
				return result, err
			}
		}
	}

	result.ProcessingTime = time.Since(startTime)
	p.logger.Debug("Stream processing completed",
		"mode", result.Mode,
		"items", result.Items,
		"lines", result.Lines,
		"bytes_processed", result.BytesProcessed,
		"duration", result.ProcessingTime,
	)

	return result, nil
}

func (p *Processor) processLine(
	normalized string,
	mode ports.StreamingMode,
	scanner *tokenize.SentenceScanner,
	send func(string) error,
) error {
	switch mode {
	case ports.SentenceBySentence:
		for _, sentence := range scanner.Feed(normalized) {
			if err := send(sentence); err != nil {
				return err
			}
		}
	case ports.StemByStem:
		for _, tok := range p.tokenizer.TokensNormalized(normalized) {
			if err := send(p.stemmer.Stem(tok.Text)); err != nil {
				return err
			}
		}
	default:
		for _, tok := range p.tokenizer.TokensNormalized(normalized) {
			if err := send(tok.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessStreamWithWriter writes every produced item to writer followed by a newline.
// Sentences that span lines keep their inner line breaks.
func (p *Processor) ProcessStreamWithWriter(
	ctx context.Context,
	reader io.Reader,
	writer io.Writer,
	mode ports.StreamingMode,
) (domain.StreamResult, error) {
	bw := bufio.NewWriter(writer)

	result, err := p.ProcessStream(ctx, reader, mode, func(item string) error {
		if _, err := bw.WriteString(item); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return result, err
	}

	if err := bw.Flush(); err != nil {
		return result, fmt.Errorf("flushing output: %w", err)
	}
	return result, nil
}
