package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the jobmatch configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	LLM      LLMConfig      `yaml:"llm"`
	Auth     AuthConfig     `yaml:"auth"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds job search settings.
type SearchConfig struct {
	Index           string `yaml:"index"`
	CandidateWindow int    `yaml:"candidate_window"`
}

// LLMConfig holds chat completion settings.
type LLMConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	PrimaryModel   string  `yaml:"primary_model"`
	FallbackModel  string  `yaml:"fallback_model"`
	Temperature    float32 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSec     int     `yaml:"timeout_sec"`
	ValidateOutput *bool   `yaml:"validate_output"` // default: true
	CacheTTLSec    int     `yaml:"cache_ttl_sec"`   // 0 = cache disabled
}

// MaxSequentialLLMCalls bounds the LLM calls one match request can make:
// primary, fallback and one repair.
const MaxSequentialLLMCalls = 3

// matchOverheadSec covers the search round-trips and writing the response.
const matchOverheadSec = 10

// MatchBudgetSec is the worst-case duration of a match request in seconds.
// The HTTP write timeout must not be shorter, or the client loses the
// analysis to a dropped connection.
func (c LLMConfig) MatchBudgetSec() int {
	return MaxSequentialLLMCalls*c.TimeoutSec + matchOverheadSec
}

// IngestConfig holds corpus loader settings.
type IngestConfig struct {
	BatchSize int `yaml:"batch_size"`
	Workers   int `yaml:"workers"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first, if present.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data, decodes it, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.Index == "" {
		c.Search.Index = "jobmatch:jobs:idx"
	}
	if c.Search.CandidateWindow <= 0 {
		c.Search.CandidateWindow = 100
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if c.LLM.PrimaryModel == "" {
		c.LLM.PrimaryModel = "deepseek/deepseek-r1-distill-llama-70b:free"
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.1
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = c.LLM.MatchBudgetSec() + 10
	}
	if c.LLM.ValidateOutput == nil {
		v := true
		c.LLM.ValidateOutput = &v
	}
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = 100
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 4
	}
}

// Validate checks the configuration for correctness.
// A missing LLM credential is not an error: search keeps working without it.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %g", c.LLM.Temperature)
	}
	if c.LLM.CacheTTLSec < 0 {
		return fmt.Errorf("llm.cache_ttl_sec must not be negative, got %d", c.LLM.CacheTTLSec)
	}
	if budget := c.LLM.MatchBudgetSec(); c.HTTP.WriteTimeoutSec < budget {
		return fmt.Errorf(
			"http.write_timeout_sec must be at least %d (%d x llm.timeout_sec + %ds), got %d",
			budget, MaxSequentialLLMCalls, matchOverheadSec, c.HTTP.WriteTimeoutSec,
		)
	}
	if c.LLM.FallbackModel != "" && c.LLM.FallbackModel == c.LLM.PrimaryModel {
		return fmt.Errorf("llm.fallback_model must differ from llm.primary_model")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
