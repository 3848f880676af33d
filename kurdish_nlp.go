// Package kurdishnlp provides text normalization, tokenization, sentence
// splitting and light stemming for Sorani Kurdish written in Arabic script.
//
// The package-level functions use the default components and never log.
// A Pipeline adds logging, concurrent batch analysis and optional warm-up:
//
//	p, err := kurdishnlp.New(kurdishnlp.WithFastNormalizer())
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//	res, err := p.Analyze(ctx, "ئەمە دەقێکی کوردییە.")
package kurdishnlp

import (
	"context"

	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/logger"
	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/normalizer"
	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/stream"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/analysis"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/stem"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/tokenize"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"github.com/baditaflorin/go_kurdish_nlp/internal/warmup"
	"github.com/baditaflorin/l"
)

// Token is a word located in normalized text.
type Token = domain.Token

// Analysis is the result of running the whole pipeline over one text.
type Analysis = domain.Analysis

// Normalizer rewrites text into canonical Sorani form.
type Normalizer = ports.Normalizer

// WarmupConfig configures Pipeline warm-up.
type WarmupConfig = warmup.WarmupConfig

var (
	defaultTokenizer = tokenize.NewTokenizer(normalizer.NewSoraniNormalizer())
	defaultStemmer   = stem.NewStemmer()
)

// Normalize returns text in canonical Sorani form.
func Normalize(text string) string {
	return defaultTokenizer.Normalizer().Normalize(text)
}

// Tokenize normalizes text and returns its words in order.
func Tokenize(text string) []string {
	return defaultTokenizer.Tokenize(text)
}

// SentenceTokenize normalizes text and splits it into sentences.
func SentenceTokenize(text string) []string {
	return defaultTokenizer.SentenceTokenize(text)
}

// Stem strips at most one known prefix and one known suffix from word.
func Stem(word string) string {
	return defaultStemmer.Stem(word)
}

// Pipeline bundles the normalizer, tokenizer, stemmer and analyzer behind a
// single logger. It is safe for concurrent use.
type Pipeline struct {
	logger     ports.Logger
	ownsLogger bool
	normalizer ports.Normalizer
	tokenizer  *tokenize.Tokenizer
	stemmer    ports.BatchStemmer
	analyzer   *analysis.Analyzer
	processor  *stream.Processor
	warmed     bool
}

// Option defines a functional option for configuring a Pipeline.
type Option func(*pipelineConfig)

type pipelineConfig struct {
	Logger       ports.Logger
	Normalizer   ports.Normalizer
	Workers      int
	LatinStemmer string
	WarmUp       bool
	WarmUpConfig warmup.WarmupConfig
}

// WithLogger sets a custom logger. The caller keeps ownership of it.
func WithLogger(lg l.Logger) Option {
	return func(cfg *pipelineConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(cfg *pipelineConfig) {
		cfg.Normalizer = n
	}
}

// WithFastNormalizer sets the allocation-efficient normalizer.
func WithFastNormalizer() Option {
	return func(cfg *pipelineConfig) {
		cfg.Normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(normalizer.FastNormalizerType)
	}
}

// WithWorkers bounds how many texts AnalyzeBatch processes concurrently.
func WithWorkers(n int) Option {
	return func(cfg *pipelineConfig) {
		cfg.Workers = n
	}
}

// WithLatinStemmer stems Latin-script words with the Snowball stemmer for
// language, e.g. "english". Other words keep the Sorani stemmer.
func WithLatinStemmer(language string) Option {
	return func(cfg *pipelineConfig) {
		cfg.LatinStemmer = language
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *pipelineConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config WarmupConfig) Option {
	return func(cfg *pipelineConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// New creates a new Pipeline.
func New(opts ...Option) (*Pipeline, error) {
	config := &pipelineConfig{
		Workers:      analysis.DefaultConfig().Workers,
		WarmUpConfig: warmup.DefaultWarmupConfig(),
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

	tokenizer := tokenize.NewTokenizer(config.Normalizer)

	fail := func(err error) (*Pipeline, error) {
		if ownsLogger {
			config.Logger.Close()
		}
		return nil, err
	}

	var stemmer ports.BatchStemmer = stem.NewStemmer()
	if config.LatinStemmer != "" {
		mixed, err := stem.NewMixedStemmer(stem.NewStemmer(), config.LatinStemmer)
		if err != nil {
			return fail(err)
		}
		stemmer = mixed
	}

	analyzer, err := analysis.NewAnalyzer(analysis.Config{Workers: config.Workers}, config.Logger, tokenizer, stemmer)
	if err != nil {
		return fail(err)
	}

	p := &Pipeline{
		logger:     config.Logger,
		ownsLogger: ownsLogger,
		normalizer: config.Normalizer,
		tokenizer:  tokenizer,
		stemmer:    stemmer,
		analyzer:   analyzer,
		processor:  stream.NewProcessor(config.Logger, tokenizer, stemmer),
	}

	if config.WarmUp {
		p.WarmUp(context.Background(), config.WarmUpConfig)
	}

	return p, nil
}

// Normalize returns text in canonical Sorani form.
func (p *Pipeline) Normalize(text string) string {
	return p.normalizer.Normalize(text)
}

// Tokenize normalizes text and returns its words in order.
func (p *Pipeline) Tokenize(text string) []string {
	return p.tokenizer.Tokenize(text)
}

// Tokens is Tokenize with positions and byte offsets into the normalized text.
func (p *Pipeline) Tokens(text string) []Token {
	return p.tokenizer.Tokens(text)
}

// SentenceTokenize normalizes text and splits it into sentences.
func (p *Pipeline) SentenceTokenize(text string) []string {
	return p.tokenizer.SentenceTokenize(text)
}

// Stem strips at most one known prefix and one known suffix from word.
func (p *Pipeline) Stem(word string) string {
	return p.stemmer.Stem(word)
}

// StemAll stems every word.
func (p *Pipeline) StemAll(words []string) []string {
	return p.stemmer.StemAll(words)
}

// Analyze runs the whole pipeline over text.
func (p *Pipeline) Analyze(ctx context.Context, text string) (Analysis, error) {
	return p.analyzer.Analyze(ctx, text)
}

// AnalyzeBatch analyzes texts concurrently and returns results in input order.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, texts []string) ([]Analysis, error) {
	return p.analyzer.AnalyzeBatch(ctx, texts)
}

// WarmUp performs system warm-up to optimize performance.
func (p *Pipeline) WarmUp(ctx context.Context, config WarmupConfig) {
	if p.warmed {
		p.logger.Debug("System already warmed up, skipping")
		return
	}

	warmupMgr := warmup.NewManager(p.logger, config)
	warmupMgr.RegisterNormalizer(p.normalizer)
	warmupMgr.RegisterTokenizer(p.tokenizer)
	warmupMgr.RegisterStemmer(p.stemmer)
	warmupMgr.RegisterAnalyzer(p.analyzer)
	warmupMgr.RegisterStreamProcessor(p.processor)

	warmupMgr.WarmUp(ctx)
	p.warmed = true
}

// Close releases the logger if the Pipeline created it.
func (p *Pipeline) Close() error {
	if !p.ownsLogger {
		return nil
	}
	return p.logger.Close()
}
