package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-env")
	cfg := validConfig()

	if cfg.Search.Index != "jobmatch:jobs:idx" || cfg.Search.CandidateWindow != 100 {
		t.Errorf("unexpected search defaults %+v", cfg.Search)
	}
	if cfg.LLM.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("base_url = %s", cfg.LLM.BaseURL)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Errorf("api_key = %q, want value from OPENROUTER_API_KEY", cfg.LLM.APIKey)
	}
	if cfg.LLM.TimeoutSec != 60 || cfg.LLM.MaxTokens != 2048 {
		t.Errorf("unexpected llm defaults %+v", cfg.LLM)
	}
	if cfg.LLM.ValidateOutput == nil || !*cfg.LLM.ValidateOutput {
		t.Error("validate_output must default to true")
	}
	if cfg.LLM.CacheTTLSec != 0 {
		t.Error("cache must be disabled by default")
	}
	if cfg.Ingest.BatchSize != 100 {
		t.Errorf("batch_size = %d", cfg.Ingest.BatchSize)
	}
	if cfg.HTTP.WriteTimeoutSec != 200 {
		t.Errorf("write_timeout_sec = %d, want 200", cfg.HTTP.WriteTimeoutSec)
	}
}

func TestApplyDefaults_WriteTimeoutCoversMatchBudget(t *testing.T) {
	tests := []struct {
		name       string
		llmTimeout int
		want       int
	}{
		{"default llm timeout", 0, 200},
		{"short llm timeout", 20, 80},
		{"long llm timeout", 120, 380},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				HTTP:     HTTPConfig{Port: 8080},
				Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
				LLM:      LLMConfig{TimeoutSec: tt.llmTimeout},
			}
			cfg.ApplyDefaults()

			if cfg.HTTP.WriteTimeoutSec != tt.want {
				t.Errorf("write_timeout_sec = %d, want %d", cfg.HTTP.WriteTimeoutSec, tt.want)
			}
			if cfg.HTTP.WriteTimeoutSec < MaxSequentialLLMCalls*cfg.LLM.TimeoutSec {
				t.Error("write timeout shorter than primary + fallback + repair")
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("derived config must validate: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing llm key is fine", func(c *Config) { c.LLM.APIKey = "" }, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port must be between 1 and 65535, got 0"},
		{"no addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs is required"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature must be between 0 and 2, got 3"},
		{"negative ttl", func(c *Config) { c.LLM.CacheTTLSec = -1 }, "llm.cache_ttl_sec must not be negative, got -1"},
		{"same models", func(c *Config) { c.LLM.FallbackModel = c.LLM.PrimaryModel }, "llm.fallback_model must differ from llm.primary_model"},
		{"write timeout below match budget", func(c *Config) { c.HTTP.WriteTimeoutSec = 90 },
			"http.write_timeout_sec must be at least 190 (3 x llm.timeout_sec + 10s), got 90"},
		{"write timeout at match budget", func(c *Config) { c.HTTP.WriteTimeoutSec = 190 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("got %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("JOBMATCH_TEST_KEY", "sk-yaml")
	data := []byte(`
http:
  port: ${JOBMATCH_TEST_PORT:-9090}
database:
  addrs: ["localhost:6379"]
llm:
  api_key: ${JOBMATCH_TEST_KEY}
  fallback_model: meta-llama/llama-3.3-70b-instruct:free
  validate_output: false
  cache_ttl_sec: 3600
auth:
  api_keys: ["k1", "k2"]
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.LLM.APIKey != "sk-yaml" {
		t.Errorf("api_key = %q", cfg.LLM.APIKey)
	}
	if *cfg.LLM.ValidateOutput {
		t.Error("validate_output must stay false when set")
	}
	if cfg.LLM.CacheTTLSec != 3600 || len(cfg.Auth.APIKeys) != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := []byte("http:\n  port: 8181\ndatabase:\n  addrs: [\"redis:6379\"]\n")
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), body, 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8181 || cfg.Database.Addrs[0] != "redis:6379" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q", got)
	}
}
