package jobmatch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	index           string
	candidateWindow int

	apiKey         string
	baseURL        string
	primaryModel   string
	fallbackModel  string
	llmTimeout     time.Duration
	validateOutput bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithIndex overrides the search index name. Default: jobmatch:jobs:idx.
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithCandidateWindow sets how many ranked candidates are fetched before
// the internship post-filter. Default: 100.
func WithCandidateWindow(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.candidateWindow = n
	})
}

// WithLLM sets the OpenAI-compatible credential and endpoint.
// An empty baseURL uses OpenRouter. Without a key, Match reports the missing credential.
func WithLLM(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.baseURL = baseURL
	})
}

// WithModels sets the primary and fallback model ids. An empty fallback disables fallback.
// Without this option both default models are used.
func WithModels(primary, fallback string) Option {
	return optionFunc(func(c *clientConfig) {
		c.primaryModel = primary
		c.fallbackModel = fallback
	})
}

// WithLLMTimeout bounds each completion call. Default: 60s.
func WithLLMTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmTimeout = d
	})
}

// WithValidation toggles verdict validation and repair. Default: enabled.
func WithValidation(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.validateOutput = enabled
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
