// Package server exposes the text pipeline over HTTP using fasthttp.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/normalizer"
	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/stream"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/analysis"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/stem"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/tokenize"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// Config holds configuration for the HTTP handlers.
type Config struct {
	// Workers bounds concurrent analyses within one /batch request
	Workers int
	// FastNormalizer selects the allocation-efficient normalizer
	FastNormalizer bool
	// LatinStemmer names a Snowball language for Latin-script words, empty to disable
	LatinStemmer string
	// RequestTimeout bounds JSON endpoints
	RequestTimeout time.Duration
	// StreamTimeout bounds /stream
	StreamTimeout time.Duration
	// MaxBatchTexts limits the number of texts in one /batch request
	MaxBatchTexts int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        analysis.DefaultConfig().Workers,
		RequestTimeout: 30 * time.Second,
		StreamTimeout:  60 * time.Second,
		MaxBatchTexts:  1000,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	if c.RequestTimeout <= 0 || c.StreamTimeout <= 0 {
		return errors.New("timeouts must be greater than 0")
	}
	if c.MaxBatchTexts <= 0 {
		return errors.New("max batch texts must be greater than 0")
	}
	return nil
}

// Server routes requests to the pipeline components.
type Server struct {
	config     Config
	logger     ports.Logger
	normalizer ports.Normalizer
	tokenizer  *tokenize.Tokenizer
	stemmer    ports.BatchStemmer
	analyzer   *analysis.Analyzer
	processor  *stream.Processor
}

// New creates a new Server.
func New(config Config, logger ports.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	normType := normalizer.SoraniNormalizerType
	if config.FastNormalizer {
		normType = normalizer.FastNormalizerType
	}
	norm := normalizer.NewNormalizerFactory().CreateNormalizer(normType)

	tokenizer := tokenize.NewTokenizer(norm)

	var stemmer ports.BatchStemmer = stem.NewStemmer()
	if config.LatinStemmer != "" {
		mixed, err := stem.NewMixedStemmer(stem.NewStemmer(), config.LatinStemmer)
		if err != nil {
			return nil, err
		}
		stemmer = mixed
	}

	analyzer, err := analysis.NewAnalyzer(analysis.Config{Workers: config.Workers}, logger, tokenizer, stemmer)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:     config,
		logger:     logger,
		normalizer: norm,
		tokenizer:  tokenizer,
		stemmer:    stemmer,
		analyzer:   analyzer,
		processor:  stream.NewProcessor(logger, tokenizer, stemmer),
	}, nil
}

// Analyzer returns the analyzer, for warm-up registration.
func (s *Server) Analyzer() *analysis.Analyzer { return s.analyzer }

// Tokenizer returns the tokenizer, for warm-up registration.
func (s *Server) Tokenizer() *tokenize.Tokenizer { return s.tokenizer }

// Stemmer returns the stemmer, for warm-up registration.
func (s *Server) Stemmer() ports.BatchStemmer { return s.stemmer }

// Processor returns the stream processor, for warm-up registration.
func (s *Server) Processor() *stream.Processor { return s.processor }

// TextRequest is the body of the single-text endpoints
type TextRequest struct {
	Text *string `json:"text"`
}

// StemRequest is the body of /stem. Words takes precedence over Text.
type StemRequest struct {
	Words []string `json:"words"`
	Text  *string  `json:"text"`
}

// BatchRequest is the body of /batch
type BatchRequest struct {
	Texts []string `json:"texts"`
}

// NormalizeResponse is returned by /normalize
type NormalizeResponse struct {
	Normalized string `json:"normalized"`
	Changed    bool   `json:"changed"`
}

// TokenizeResponse is returned by /tokenize
type TokenizeResponse struct {
	Tokens  []string       `json:"tokens"`
	Offsets []domain.Token `json:"offsets"`
	Count   int            `json:"count"`
}

// SentencesResponse is returned by /sentences
type SentencesResponse struct {
	Sentences []string `json:"sentences"`
	Count     int      `json:"count"`
}

// StemResponse is returned by /stem
type StemResponse struct {
	Words []string `json:"words"`
	Stems []string `json:"stems"`
}

// BatchResponse is returned by /batch
type BatchResponse struct {
	Results        []domain.Analysis `json:"results"`
	Count          int               `json:"count"`
	ProcessingTime string            `json:"processing_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler is the main fasthttp request handler
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	requestID := string(ctx.Request.Header.Peek(RequestIDHeader))
	if requestID == "" {
		requestID = uuid.NewString()
	}

	// Set common headers
	ctx.Response.Header.Set(RequestIDHeader, requestID)
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "KurdishNLPServer")

	// Route based on path
	switch string(ctx.Path()) {
	case "/health":
		s.handleHealthCheck(ctx)
	case "/normalize":
		s.handleText(ctx, s.normalize)
	case "/tokenize":
		s.handleText(ctx, s.tokenize)
	case "/sentences":
		s.handleText(ctx, s.sentences)
	case "/analyze":
		s.handleText(ctx, s.analyze)
	case "/stem":
		s.handleStem(ctx)
	case "/batch":
		s.handleBatch(ctx)
	case "/stream":
		s.handleStream(ctx)
	default:
		s.writeJSONError(ctx, fasthttp.StatusNotFound, "Not found")
	}

	// Log request
	s.logger.Info("Request processed",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

func (s *Server) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		s.writeJSONError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleText decodes a TextRequest and passes its text to op.
func (s *Server) handleText(ctx *fasthttp.RequestCtx, op func(context.Context, string) (interface{}, error)) {
	if !s.requirePost(ctx) {
		return
	}

	var req TextRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeJSONError(ctx, fasthttp.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Text == nil {
		s.writeJSONError(ctx, fasthttp.StatusBadRequest, "text is required")
		return
	}

	c, cancel := context.WithTimeout(context.Background(), s.config.RequestTimeout)
	defer cancel()

	response, err := op(c, *req.Text)
	if err != nil {
		s.logger.Error("Request failed", "path", string(ctx.Path()), "error", err)
		s.writeJSONError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
		return
	}

	s.writeJSONResponse(ctx, response)
}

func (s *Server) normalize(_ context.Context, text string) (interface{}, error) {
	normalized := s.normalizer.Normalize(text)
	return NormalizeResponse{Normalized: normalized, Changed: normalized != text}, nil
}

func (s *Server) tokenize(_ context.Context, text string) (interface{}, error) {
	tokens := s.tokenizer.Tokens(text)
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
	}
	return TokenizeResponse{Tokens: words, Offsets: tokens, Count: len(tokens)}, nil
}

func (s *Server) sentences(_ context.Context, text string) (interface{}, error) {
	sentences := s.tokenizer.SentenceTokenize(text)
	return SentencesResponse{Sentences: sentences, Count: len(sentences)}, nil
}

func (s *Server) analyze(ctx context.Context, text string) (interface{}, error) {
	return s.analyzer.Analyze(ctx, text)
}

func (s *Server) handleStem(ctx *fasthttp.RequestCtx) {
	if !s.requirePost(ctx) {
		return
	}

	var req StemRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeJSONError(ctx, fasthttp.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	words := req.Words
	switch {
	case words != nil:
	case req.Text != nil:
		words = s.tokenizer.Tokenize(*req.Text)
	default:
		s.writeJSONError(ctx, fasthttp.StatusBadRequest, "words or text is required")
		return
	}

	s.writeJSONResponse(ctx, StemResponse{Words: words, Stems: s.stemmer.StemAll(words)})
}

func (s *Server) handleBatch(ctx *fasthttp.RequestCtx) {
	if !s.requirePost(ctx) {
		return
	}

	var req BatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeJSONError(ctx, fasthttp.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Texts == nil {
		s.writeJSONError(ctx, fasthttp.StatusBadRequest, "texts is required")
		return
	}
	if len(req.Texts) > s.config.MaxBatchTexts {
		s.writeJSONError(ctx, fasthttp.StatusRequestEntityTooLarge,
			fmt.Sprintf("at most %d texts per batch", s.config.MaxBatchTexts))
		return
	}

	c, cancel := context.WithTimeout(context.Background(), s.config.RequestTimeout)
	defer cancel()

	startTime := time.Now()
	results, err := s.analyzer.AnalyzeBatch(c, req.Texts)
	if err != nil {
		s.logger.Error("Batch failed", "error", err)
		s.writeJSONError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
		return
	}

	s.writeJSONResponse(ctx, BatchResponse{
		Results:        results,
		Count:          len(results),
		ProcessingTime: time.Since(startTime).String(),
	})
}

// handleStream processes a raw text body and returns one item per line.
func (s *Server) handleStream(ctx *fasthttp.RequestCtx) {
	if !s.requirePost(ctx) {
		return
	}

	modeName := string(ctx.QueryArgs().Peek("mode"))
	if modeName == "" {
		modeName = ports.TokenByToken.String()
	}
	mode, err := ports.ParseStreamingMode(modeName)
	if err != nil {
		s.writeJSONError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	body := ctx.PostBody()
	if len(body) > 0 {
		if mime := mimetype.Detect(body); !isText(mime) {
			s.writeJSONError(ctx, fasthttp.StatusUnsupportedMediaType,
				"Unsupported content type: "+mime.String())
			return
		}
	}

	c, cancel := context.WithTimeout(context.Background(), s.config.StreamTimeout)
	defer cancel()

	var out bytes.Buffer
	result, err := s.processor.ProcessStreamWithWriter(c, bytes.NewReader(body), &out, mode)
	if err != nil {
		s.logger.Error("Stream processing failed", "mode", modeName, "error", err)
		s.writeJSONError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
		return
	}

	ctx.Response.Header.Set("Content-Type", "text/plain; charset=utf-8")
	ctx.Response.Header.Set("X-Items", strconv.Itoa(result.Items))
	ctx.Response.Header.Set("X-Lines", strconv.Itoa(result.Lines))
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(out.Bytes())
}

// isText reports whether mime or any of its ancestors is a text type.
func isText(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return false
}

func (s *Server) requirePost(ctx *fasthttp.RequestCtx) bool {
	if !ctx.IsPost() {
		s.writeJSONError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// writeJSONResponse writes a JSON response to the context
func (s *Server) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("Error marshaling JSON response", "error", err)
		s.writeJSONError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (s *Server) writeJSONError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetStatusCode(status)

	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		s.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}
