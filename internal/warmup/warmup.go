package warmup

import (
	"context"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup, in bytes
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     1000,
		SampleTextSize: 1000,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	normalizers []ports.Normalizer
	tokenizers  []ports.Tokenizer
	stemmers    []ports.Stemmer
	analyzers   []ports.Analyzer
	processors  []ports.StreamProcessor
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// RegisterTokenizer adds a tokenizer to be warmed up
func (wm *Manager) RegisterTokenizer(tok ports.Tokenizer) {
	wm.tokenizers = append(wm.tokenizers, tok)
}

// RegisterStemmer adds a stemmer to be warmed up
func (wm *Manager) RegisterStemmer(st ports.Stemmer) {
	wm.stemmers = append(wm.stemmers, st)
}

// RegisterAnalyzer adds an analyzer to be warmed up
func (wm *Manager) RegisterAnalyzer(a ports.Analyzer) {
	wm.analyzers = append(wm.analyzers, a)
}

// RegisterStreamProcessor adds a stream processor to be warmed up
func (wm *Manager) RegisterStreamProcessor(proc ports.StreamProcessor) {
	wm.processors = append(wm.processors, proc)
}

// Components returns the number of registered components.
func (wm *Manager) Components() int {
	return len(wm.normalizers) + len(wm.tokenizers) + len(wm.stemmers) +
		len(wm.analyzers) + len(wm.processors)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", wm.Components(),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	sample := GenerateSampleText(wm.config.SampleTextSize)
	words := strings.Fields(sample)

	if len(wm.normalizers) > 0 {
		wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))
		wm.run(warmupCtx, wm.config.Iterations, func(int) {
			for _, n := range wm.normalizers {
				_ = n.Normalize(sample)
			}
		})
	}

	if len(wm.tokenizers) > 0 {
		wm.logger.Debug("Warming up tokenizers", "count", len(wm.tokenizers))
		wm.run(warmupCtx, wm.config.Iterations, func(j int) {
			for _, tok := range wm.tokenizers {
				if j%2 == 0 {
					_ = tok.Tokens(sample)
				} else {
					_ = tok.SentenceTokenize(sample)
				}
			}
		})
	}

	if len(wm.stemmers) > 0 {
		wm.logger.Debug("Warming up stemmers", "count", len(wm.stemmers))
		wm.run(warmupCtx, wm.config.Iterations, func(int) {
			for _, st := range wm.stemmers {
				for _, w := range words {
					_ = st.Stem(w)
				}
			}
		})
	}

	if len(wm.analyzers) > 0 {
		wm.logger.Debug("Warming up analyzers", "count", len(wm.analyzers))
		wm.run(warmupCtx, wm.config.Iterations/10, func(int) { // full pipeline is heavier
			for _, a := range wm.analyzers {
				_, _ = a.Analyze(warmupCtx, sample)
			}
		})
	}

	if len(wm.processors) > 0 {
		wm.logger.Debug("Warming up stream processors", "count", len(wm.processors))
		wm.run(warmupCtx, wm.config.Iterations/10, func(j int) {
			for _, proc := range wm.processors {
				// cycle through modes
				mode := ports.StreamingMode(j % 3)
				_, _ = proc.ProcessStreamWithWriter(warmupCtx, strings.NewReader(sample), io.Discard, mode)
			}
		})
	}

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// run calls fn iterations times on each of Concurrency goroutines, stopping
// early when ctx is done.
func (wm *Manager) run(ctx context.Context, iterations int, fn func(iteration int)) {
	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				fn(j)
			}
		}()
	}

	wg.Wait()
}

var sampleWords = []string{
	"ئەمە", "دەقێکی", "کوردییە.", "كتێبەکان", "لەسەر", "مێزەکەن",
	"منداڵەکان", "دەخوێنن!", "هەڵگرت", "نەخوارد", "ڕاکرد", "دەکەن؟",
	"زمانی", "کوردی", "خوێندکارەکانیش", "دێن.", "hello", "world", "٢٠٢٤",
}

// GenerateSampleText creates Sorani sample text of at most size bytes. It
// mixes sentence terminators, prefixed and suffixed words, and characters the
// normalizer rewrites.
func GenerateSampleText(size int) string {
	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			if i%7 == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(sampleWords[i%len(sampleWords)])
	}

	result := sb.String()
	if len(result) <= size {
		return result
	}
	// trim back to a rune boundary
	cut := size
	for cut > 0 && !utf8.RuneStart(result[cut]) {
		cut--
	}
	return result[:cut]
}
