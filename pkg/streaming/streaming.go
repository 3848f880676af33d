// Package streaming tokenizes, sentence-splits and stems Sorani text read
// from an io.Reader without holding the whole input in memory. Its output is
// identical to the batch functions of the root package on the same text.
package streaming

import (
	"context"
	"io"
	"strings"

	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/logger"
	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/normalizer"
	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/stream"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/stem"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/tokenize"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"github.com/baditaflorin/l"
)

// StreamingMode selects what is emitted for the input
type StreamingMode = ports.StreamingMode

const (
	// TokenByToken emits every word
	TokenByToken = ports.TokenByToken
	// SentenceBySentence emits every sentence
	SentenceBySentence = ports.SentenceBySentence
	// StemByStem emits the stem of every word
	StemByStem = ports.StemByStem
)

// ParseMode converts "tokens", "sentences" or "stems" to a StreamingMode.
func ParseMode(name string) (StreamingMode, error) {
	return ports.ParseStreamingMode(name)
}

// StreamResult summarizes a processed stream
type StreamResult struct {
	Mode           string
	Items          int
	Lines          int
	BytesProcessed int64
	ProcessingTime string // Duration as string for easy display
}

// Streamer processes text streams
type Streamer struct {
	processor  *stream.Processor
	logger     ports.Logger
	ownsLogger bool
}

// StreamingOption defines a functional option for configuring a Streamer
type StreamingOption func(*streamingConfig)

type streamingConfig struct {
	BufferSize   int
	Logger       ports.Logger
	Normalizer   ports.Normalizer
	LatinStemmer string
}

// WithStreamingLogger sets a custom logger
func WithStreamingLogger(l l.Logger) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.Logger = logger.FromExisting(l)
	}
}

// WithStreamingNormalizer sets a custom normalizer
func WithStreamingNormalizer(normalizer ports.Normalizer) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.Normalizer = normalizer
	}
}

// WithFastNormalizer sets the allocation-efficient normalizer.
func WithFastNormalizer() StreamingOption {
	return func(cfg *streamingConfig) {
		normFactory := normalizer.NewNormalizerFactory()
		cfg.Normalizer = normFactory.CreateNormalizer(normalizer.FastNormalizerType)
	}
}

// WithLatinStemmer stems Latin-script words with the Snowball stemmer for language
func WithLatinStemmer(language string) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.LatinStemmer = language
	}
}

// WithBufferSize sets the read buffer size
func WithBufferSize(size int) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.BufferSize = size
	}
}

// NewStreamer creates a new Streamer. Without a logger option it logs to stdout.
func NewStreamer(opts ...StreamingOption) (*Streamer, error) {
	config := &streamingConfig{
		BufferSize: stream.DefaultBufferSize,
	}

	for _, opt := range opts {
		opt(config)
	}

	ownsLogger := false
	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
		ownsLogger = true
	}

	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewSoraniNormalizer()
	}

	var stemmer ports.Stemmer = stem.NewStemmer()
	if config.LatinStemmer != "" {
		mixed, err := stem.NewMixedStemmer(stem.NewStemmer(), config.LatinStemmer)
		if err != nil {
			if ownsLogger {
				config.Logger.Close()
			}
			return nil, err
		}
		stemmer = mixed
	}

	processor := stream.NewProcessor(
		config.Logger,
		tokenize.NewTokenizer(config.Normalizer),
		stemmer,
	).WithBufferSize(config.BufferSize)

	return &Streamer{
		processor:  processor,
		logger:     config.Logger,
		ownsLogger: ownsLogger,
	}, nil
}

// ProcessStream calls emit for every item of reader, in order. An error
// returned by emit stops processing and is returned.
func (s *Streamer) ProcessStream(ctx context.Context, reader io.Reader, mode StreamingMode, emit func(item string) error) (StreamResult, error) {
	res, err := s.processor.ProcessStream(ctx, reader, mode, emit)
	return convertResult(res), err
}

// ProcessStreamWithWriter writes every item of reader to writer, one per line.
func (s *Streamer) ProcessStreamWithWriter(ctx context.Context, reader io.Reader, writer io.Writer, mode StreamingMode) (StreamResult, error) {
	res, err := s.processor.ProcessStreamWithWriter(ctx, reader, writer, mode)
	return convertResult(res), err
}

// Collect processes text and returns every item.
func (s *Streamer) Collect(ctx context.Context, text string, mode StreamingMode) ([]string, error) {
	items := []string{}
	_, err := s.processor.ProcessStream(ctx, strings.NewReader(text), mode, func(item string) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Close releases the logger if the Streamer created it.
func (s *Streamer) Close() error {
	if !s.ownsLogger {
		return nil
	}
	return s.logger.Close()
}

func convertResult(res domain.StreamResult) StreamResult {
	return StreamResult{
		Mode:           res.Mode,
		Items:          res.Items,
		Lines:          res.Lines,
		BytesProcessed: res.BytesProcessed,
		ProcessingTime: res.ProcessingTime.String(),
	}
}
