package server

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/logger"
	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/valyala/fasthttp"
)

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	log, err := logger.NewDiscardLogger()
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, log)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func do(s *Server, method, uri, body string, headers map[string]string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	req.SetBodyString(body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.Handler(ctx)
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), v); err != nil {
		t.Fatalf("decoding %q: %v", ctx.Response.Body(), err)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	for _, fast := range []bool{false, true} {
		s := newTestServer(t, func(c *Config) { c.FastNormalizer = fast })

		ctx := do(s, "POST", "/normalize", `{"text":"كوردي"}`, nil)
		if ctx.Response.StatusCode() != fasthttp.StatusOK {
			t.Fatalf("fast=%v: unexpected status %d", fast, ctx.Response.StatusCode())
		}
		var resp NormalizeResponse
		decode(t, ctx, &resp)
		if resp.Normalized != "کوردی" || !resp.Changed {
			t.Errorf("fast=%v: unexpected response %+v", fast, resp)
		}
	}
}

func TestTokenizeEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	ctx := do(s, "POST", "/tokenize", `{"text":"ئەمە دەقێکی کوردییە."}`, nil)
	var resp TokenizeResponse
	decode(t, ctx, &resp)

	if diff := cmp.Diff([]string{"ئەمە", "دەقێکی", "کوردییە"}, resp.Tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if resp.Count != 3 || len(resp.Offsets) != 3 || resp.Offsets[1].Position != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestSentencesEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	ctx := do(s, "POST", "/sentences", `{"text":"یەک. دوو! سێ؟"}`, nil)
	var resp SentencesResponse
	decode(t, ctx, &resp)

	if diff := cmp.Diff([]string{"یەک.", "دوو!"}, resp.Sentences); diff != "" {
		t.Errorf("sentences mismatch (-want +got):\n%s", diff)
	}
}

func TestStemEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name      string
		body      string
		wantWords []string
		wantStems []string
	}{
		{
			name:      "words",
			body:      `{"words":["کتێبەکان","نەخوارد"]}`,
			wantWords: []string{"کتێبەکان", "نەخوارد"},
			wantStems: []string{"کتێب", "خوارد"},
		},
		{
			name:      "text",
			body:      `{"text":"هەڵگرت کوردی"}`,
			wantWords: []string{"هەڵگرت", "کوردی"},
			wantStems: []string{"گرت", "کورد"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(s, "POST", "/stem", tt.body, nil)
			var resp StemResponse
			decode(t, ctx, &resp)
			if diff := cmp.Diff(tt.wantWords, resp.Words); diff != "" {
				t.Errorf("words mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantStems, resp.Stems); diff != "" {
				t.Errorf("stems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	ctx := do(s, "POST", "/analyze", `{"text":"كتێبەکان زۆرن."}`, nil)
	var resp domain.Analysis
	decode(t, ctx, &resp)

	if resp.Normalized != "کتێبەکان زۆرن." || resp.TokenCount != 2 || resp.SentenceCount != 1 {
		t.Errorf("unexpected analysis %+v", resp)
	}
	if diff := cmp.Diff([]string{"کتێب", "زۆرن"}, resp.Stems); diff != "" {
		t.Errorf("stems mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchEndpoint(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.MaxBatchTexts = 3 })

	ctx := do(s, "POST", "/batch", `{"texts":["یەک","دوو","سێ"]}`, nil)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("unexpected status %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp BatchResponse
	decode(t, ctx, &resp)
	if resp.Count != 3 {
		t.Fatalf("expected 3 results, got %d", resp.Count)
	}
	for i, want := range []string{"یەک", "دوو", "سێ"} {
		if resp.Results[i].Normalized != want {
			t.Errorf("result %d: got %q, want %q", i, resp.Results[i].Normalized, want)
		}
	}

	ctx = do(s, "POST", "/batch", `{"texts":["a","b","c","d"]}`, nil)
	if ctx.Response.StatusCode() != fasthttp.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", ctx.Response.StatusCode())
	}
}

func TestStreamEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		uri  string
		body string
		want string
	}{
		{"default mode", "/stream", "كتێبەکان زۆرن", "کتێبەکان\nزۆرن\n"},
		{"stems", "/stream?mode=stems", "كتێبەکان زۆرن", "کتێب\nزۆرن\n"},
		{"sentences", "/stream?mode=sentences", "یەک. دوو\nسێ! چوار", "یەک.\nدوو\nسێ!\n"},
		{"empty body", "/stream?mode=tokens", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(s, "POST", tt.uri, tt.body, nil)
			if ctx.Response.StatusCode() != fasthttp.StatusOK {
				t.Fatalf("unexpected status %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
			}
			if got := string(ctx.Response.Body()); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !strings.HasPrefix(string(ctx.Response.Header.ContentType()), "text/plain") {
				t.Errorf("unexpected content type %q", ctx.Response.Header.ContentType())
			}
		})
	}
}

func TestErrors(t *testing.T) {
	s := newTestServer(t, nil)
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

	tests := []struct {
		name   string
		method string
		uri    string
		body   string
		status int
	}{
		{"unknown path", "GET", "/nope", "", fasthttp.StatusNotFound},
		{"wrong method", "GET", "/normalize", "", fasthttp.StatusMethodNotAllowed},
		{"health wrong method", "POST", "/health", "", fasthttp.StatusMethodNotAllowed},
		{"bad json", "POST", "/tokenize", "{", fasthttp.StatusBadRequest},
		{"missing text", "POST", "/analyze", "{}", fasthttp.StatusBadRequest},
		{"stem without input", "POST", "/stem", "{}", fasthttp.StatusBadRequest},
		{"batch without texts", "POST", "/batch", "{}", fasthttp.StatusBadRequest},
		{"unknown stream mode", "POST", "/stream?mode=words", "x", fasthttp.StatusBadRequest},
		{"binary stream", "POST", "/stream", png, fasthttp.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(s, tt.method, tt.uri, tt.body, nil)
			if ctx.Response.StatusCode() != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, ctx.Response.StatusCode())
			}
			var resp ErrorResponse
			decode(t, ctx, &resp)
			if resp.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	ctx := do(s, "GET", "/health", "", nil)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("unexpected status %d", ctx.Response.StatusCode())
	}
	if id := ctx.Response.Header.Peek(RequestIDHeader); len(id) != 36 {
		t.Errorf("expected generated UUID request id, got %q", id)
	}

	ctx = do(s, "GET", "/health", "", map[string]string{RequestIDHeader: "abc-123"})
	if id := string(ctx.Response.Header.Peek(RequestIDHeader)); id != "abc-123" {
		t.Errorf("expected echoed request id, got %q", id)
	}
}

func TestLatinStemmer(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.LatinStemmer = "english" })

	ctx := do(s, "POST", "/stem", `{"words":["running","کتێبەکان"]}`, nil)
	var resp StemResponse
	decode(t, ctx, &resp)
	if diff := cmp.Diff([]string{"run", "کتێب"}, resp.Stems); diff != "" {
		t.Errorf("stems mismatch (-want +got):\n%s", diff)
	}

	log, err := logger.NewDiscardLogger()
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	defer log.Close()
	cfg := DefaultConfig()
	cfg.LatinStemmer = "klingon"
	if _, err := New(cfg, log); err == nil {
		t.Error("expected error for unknown stemmer language")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.MaxBatchTexts = 0
	if _, err := New(bad, nil); err == nil {
		t.Error("expected New to reject invalid config")
	}
}
