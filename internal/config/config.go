// Package config loads the HTTP server configuration. Values come from the
// defaults, then a .env file, then KNLP_* environment variables, then
// command-line flags, each layer overriding the previous one.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB
	DefaultConcurrency    = 0                // 0 means use GOMAXPROCS
)

// Config stores runtime configuration for the server.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int
	Concurrency    int
	// Workers bounds concurrent analyses within one /batch request.
	Workers        int
	WarmUp         bool
	LogFile        string
	FastNormalizer bool
	// LatinStemmer names a Snowball language for Latin-script words
	LatinStemmer string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           DefaultPort,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		MaxRequestSize: DefaultMaxRequestSize,
		Concurrency:    DefaultConcurrency,
		Workers:        runtime.NumCPU(),
		WarmUp:         true,
	}
}

// Load reads .env from the working directory if present, then the
// environment, then parses args as flags.
func Load(args []string) (Config, error) {
	return LoadFrom(".env", args)
}

// LoadFrom is Load with an explicit env file. A missing file is not an error.
func LoadFrom(envFile string, args []string) (Config, error) {
	if envFile != "" {
		// Load .env file if it exists (useful for development)
		_ = godotenv.Load(envFile)
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("kurdish-nlp-server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	fs.IntVar(&cfg.MaxRequestSize, "max-request-size", cfg.MaxRequestSize, "Maximum request size in bytes")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent analyses per batch request")
	fs.BoolVar(&cfg.WarmUp, "warm-up", cfg.WarmUp, "Perform system warm-up on startup")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (empty = stdout)")
	fs.BoolVar(&cfg.FastNormalizer, "fast", cfg.FastNormalizer, "Use the allocation-efficient normalizer")
	fs.StringVar(&cfg.LatinStemmer, "latin-stemmer", cfg.LatinStemmer, "Snowball language for Latin-script words (empty = disabled)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if c.MaxRequestSize <= 0 {
		return errors.New("max request size must be greater than 0")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency cannot be negative")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.Port, err = envInt("KNLP_PORT", c.Port); err != nil {
		return err
	}
	if c.ReadTimeout, err = envDuration("KNLP_READ_TIMEOUT", c.ReadTimeout); err != nil {
		return err
	}
	if c.WriteTimeout, err = envDuration("KNLP_WRITE_TIMEOUT", c.WriteTimeout); err != nil {
		return err
	}
	if c.MaxRequestSize, err = envInt("KNLP_MAX_REQUEST_SIZE", c.MaxRequestSize); err != nil {
		return err
	}
	if c.Concurrency, err = envInt("KNLP_CONCURRENCY", c.Concurrency); err != nil {
		return err
	}
	if c.Workers, err = envInt("KNLP_WORKERS", c.Workers); err != nil {
		return err
	}
	if c.WarmUp, err = envBool("KNLP_WARM_UP", c.WarmUp); err != nil {
		return err
	}
	if c.FastNormalizer, err = envBool("KNLP_FAST_NORMALIZER", c.FastNormalizer); err != nil {
		return err
	}
	c.LogFile = getEnv("KNLP_LOG_FILE", c.LogFile)
	c.LatinStemmer = getEnv("KNLP_LATIN_STEMMER", c.LatinStemmer)
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	val := getEnv(key, "")
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	val := getEnv(key, "")
	if val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
