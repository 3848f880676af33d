package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/go_kurdish_nlp/internal/adapters/logger"
	"github.com/baditaflorin/go_kurdish_nlp/internal/config"
	"github.com/baditaflorin/go_kurdish_nlp/internal/ports"
	"github.com/baditaflorin/go_kurdish_nlp/internal/server"
	"github.com/baditaflorin/go_kurdish_nlp/internal/warmup"
	"github.com/valyala/fasthttp"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(2)
	}

	log, err := createLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Kurdish NLP HTTP server",
		"port", cfg.Port,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"concurrency", cfg.Concurrency,
		"workers", cfg.Workers,
		"fast_normalizer", cfg.FastNormalizer,
		"latin_stemmer", cfg.LatinStemmer,
	)

	srvConfig := server.DefaultConfig()
	srvConfig.Workers = cfg.Workers
	srvConfig.FastNormalizer = cfg.FastNormalizer
	srvConfig.LatinStemmer = cfg.LatinStemmer

	handler, err := server.New(srvConfig, log)
	if err != nil {
		log.Error("Failed to initialize handlers", "error", err)
		os.Exit(1)
	}

	if cfg.WarmUp {
		warmUp(log, handler)
	}

	// Create HTTP server with fasthttp
	srv := &fasthttp.Server{
		Handler:               handler.Handler,
		Name:                  "KurdishNLPServer",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		MaxRequestBodySize:    cfg.MaxRequestSize,
		Concurrency:           cfg.Concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxConnsPerIP:         0, // unlimited
		MaxRequestsPerConn:    0, // unlimited
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("Server listening", "address", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Error("Server error", "error", err)
		return
	}

	<-idleConnsClosed
	log.Info("Server stopped")
}

func warmUp(log ports.Logger, handler *server.Server) {
	mgr := warmup.NewManager(log, warmup.DefaultWarmupConfig())
	mgr.RegisterNormalizer(handler.Tokenizer().Normalizer())
	mgr.RegisterTokenizer(handler.Tokenizer())
	mgr.RegisterStemmer(handler.Stemmer())
	mgr.RegisterAnalyzer(handler.Analyzer())
	mgr.RegisterStreamProcessor(handler.Processor())
	mgr.WarmUp(context.Background())

	log.Info("Handlers warmed up", "cpus", runtime.NumCPU())
}

// createLogger creates a JSON logger writing to logFile, or stdout when empty
func createLogger(logFile string) (ports.Logger, error) {
	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	cfg := logger.DefaultConfig(output)
	cfg.JsonFormat = true
	cfg.MaxFileSize = 100 * 1024 * 1024 // 100MB

	log, err := logger.NewCustomStdLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}
