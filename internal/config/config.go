// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	Retrieval  RetrievalConfig `yaml:"retrieval"`
	Pipeline   PipelineConfig  `yaml:"pipeline"`
	LLM        LLMConfig       `yaml:"llm"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int  `yaml:"port"`
	RequireAuth bool `yaml:"require_auth"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RetrievalConfig struct {
	Mode              string  `yaml:"mode"` // agent, direct
	AgentURL          string  `yaml:"agent_url"`
	UserAgent         string  `yaml:"user_agent"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	MaxBodyBytes      int64   `yaml:"max_body_bytes"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	CacheTTLSeconds   int     `yaml:"cache_ttl_seconds"`
}

// Timeout is the per-request HTTP timeout for retrieval calls.
func (c *RetrievalConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL is how long preview pages stay cached.
func (c *RetrievalConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

type PipelineConfig struct {
	RetrievalBudgetSeconds int  `yaml:"retrieval_budget_seconds"`
	HeartbeatSeconds       int  `yaml:"heartbeat_seconds"`
	DevMode                bool `yaml:"dev_mode"`
}

// RetrievalBudget is the fixed ceiling on the external retrieval call.
func (c *PipelineConfig) RetrievalBudget() time.Duration {
	return time.Duration(c.RetrievalBudgetSeconds) * time.Second
}

// HeartbeatInterval is the cadence of "still working" events while the
// retrieval call is in flight.
func (c *PipelineConfig) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatSeconds) * time.Second
}

type LLMConfig struct {
	Provider  string `yaml:"provider"` // "", openai, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	OllamaURL string `yaml:"ollama_url"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"default_requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			RequireAuth: false,
		},
		Database: DatabaseConfig{
			Path: "./data/credo.db",
		},
		Retrieval: RetrievalConfig{
			Mode:              "direct",
			UserAgent:         "credo/1.0 (+https://github.com/shopcheck/credo)",
			TimeoutSeconds:    10,
			MaxBodyBytes:      2 << 20,
			RequestsPerSecond: 1,
			Burst:             2,
			CacheTTLSeconds:   60,
		},
		Pipeline: PipelineConfig{
			RetrievalBudgetSeconds: 10,
			HeartbeatSeconds:       2,
			DevMode:                false,
		},
		LLM: LLMConfig{
			Provider: "",
			Model:    "gpt-4o-mini",
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Credo Configuration
# See documentation for all options

server:
  port: 8080
  require_auth: false

database:
  path: ./data/credo.db

retrieval:
  mode: direct  # direct or agent
  # agent_url: http://localhost:9090/retrieve
  user_agent: "credo/1.0 (+https://github.com/shopcheck/credo)"
  timeout_seconds: 10
  max_body_bytes: 2097152
  requests_per_second: 1
  burst: 2
  cache_ttl_seconds: 60

pipeline:
  retrieval_budget_seconds: 10
  heartbeat_seconds: 2
  dev_mode: false  # restrict analysis to the built-in sample listings

llm:
  provider: ""  # "", openai, ollama; empty disables the insight summarizer
  model: gpt-4o-mini
  api_key: ${OPENAI_API_KEY}
  # For Ollama (local):
  # provider: ollama
  # model: llama3
  # ollama_url: http://localhost:11434

rate_limits:
  default_requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Retrieval.Mode != "direct" && c.Retrieval.Mode != "agent" {
		return fmt.Errorf("unsupported retrieval mode: %s", c.Retrieval.Mode)
	}
	if c.Retrieval.Mode == "agent" && c.Retrieval.AgentURL == "" {
		return fmt.Errorf("retrieval mode 'agent' requires agent_url")
	}

	switch c.LLM.Provider {
	case "", "ollama":
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("OpenAI API key is required")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
