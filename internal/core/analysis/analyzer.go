// Package analysis composes normalization, tokenization and stemming into a
// single pass over a text, and runs that pass over batches of texts.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/tokenize"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the analyzer.
type Config struct {
	// Workers bounds how many texts AnalyzeBatch processes at once.
	Workers int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	return nil
}

// Analyzer runs the full pipeline over texts.
type Analyzer struct {
	config    Config
	logger    ports.Logger
	tokenizer *tokenize.Tokenizer
	stemmer   ports.Stemmer
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(config Config, logger ports.Logger, tokenizer *tokenize.Tokenizer, stemmer ports.Stemmer) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Analyzer{
		config:    config,
		logger:    logger,
		tokenizer: tokenizer,
		stemmer:   stemmer,
	}, nil
}

// Analyze normalizes text once, then tokenizes, splits sentences and stems
// every word. It fails only when ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	if err := a.checkContext(ctx); err != nil {
		return domain.Analysis{}, err
	}

	a.logger.Debug("Starting analysis", "bytes", len(text))

	normalized := a.tokenizer.Normalizer().Normalize(text)
	tokens := a.tokenizer.TokensNormalized(normalized)
	sentences := a.tokenizer.SentencesNormalized(normalized)

	a.logger.Debug("Tokenized text",
		"tokens", len(tokens),
		"sentences", len(sentences),
	)

	if err := a.checkContext(ctx); err != nil {
		return domain.Analysis{}, err
	}

	words := make([]string, len(tokens))
	stems := make([]string, len(tokens))
	stripped := 0
	unique := make(map[string]struct{}, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
		stems[i] = a.stemmer.Stem(tok.Text)
		if stems[i] != tok.Text {
			stripped++
		}
		unique[stems[i]] = struct{}{}
	}

	details := map[string]interface{}{
		"normalization_changed": normalized != text,
		"stemmed_words":         stripped,
		"unique_stems":          len(unique),
	}

	a.logger.Debug("Analysis completed",
		"tokens", len(tokens),
		"sentences", len(sentences),
		"details", details,
	)

	return domain.Analysis{
		Normalized:    normalized,
		Tokens:        tokens,
		Words:         words,
		Sentences:     sentences,
		Stems:         stems,
		TokenCount:    len(tokens),
		SentenceCount: len(sentences),
		Details:       details,
	}, nil
}

// AnalyzeBatch analyzes independent texts concurrently, at most Workers at a
// time. Results are in input order. The first failure cancels the rest.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) ([]domain.Analysis, error) {
	a.logger.Info("Starting batch analysis",
		"texts", len(texts),
		"workers", a.config.Workers,
	)

	results := make([]domain.Analysis, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, text := range texts {
		g.Go(func() error {
			res, err := a.Analyze(gctx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("Batch analysis failed", "error", err)
		return nil, err
	}

	a.logger.Info("Batch analysis completed", "texts", len(texts))
	return results, nil
}

func (a *Analyzer) checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		a.logger.Warn("Analysis cancelled", "error", ctx.Err())
		return ctx.Err()
	default:
		return nil
	}
}
