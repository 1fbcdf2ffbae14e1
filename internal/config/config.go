// Package config loads triagez settings from defaults, an optional YAML
// file, a .env file and TRIAGEZ_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/triagez/internal/llm"
	"github.com/abhisek/triagez/internal/logging"
	"github.com/abhisek/triagez/internal/policy"
)

// EnvPrefix prefixes every environment override, e.g. TRIAGEZ_RANKER_BASE_URL.
const EnvPrefix = "TRIAGEZ"

// Explanation sources.
const (
	ExplainLLM     = "llm"
	ExplainService = "service"
	ExplainNone    = "none"
)

// Config is the fully resolved application configuration.
type Config struct {
	Ranker  RankerConfig
	Cache   CacheConfig
	Explain ExplainConfig
	LLM     llm.Config
	Policy  policy.Thresholds
	Log     logging.Options
	Metrics MetricsConfig

	// DB is the SQLite path. Empty means store.DefaultDBPath.
	DB string

	// File is the config file that was read, if any.
	File string
}

// RankerConfig points at the candidate scoring service.
type RankerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig enables the redis ranking cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// ExplainConfig selects where explanations come from.
type ExplainConfig struct {
	Source string

	// Fallback is set when explain.source was left unset and no provider
	// key was found, so explanations were turned off instead of failing.
	Fallback string
}

// MetricsConfig enables the /metrics listener when Addr is set.
type MetricsConfig struct {
	Addr string
}

func setDefaults(v *viper.Viper) {
	th := policy.DefaultThresholds()
	lc := llm.DefaultConfig()

	v.SetDefault("ranker.base_url", "http://localhost:5000")
	v.SetDefault("ranker.timeout", 30*time.Second)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("llm.provider", lc.Provider)
	v.SetDefault("llm.timeout", lc.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", lc.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", lc.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", lc.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", lc.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", lc.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", lc.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", lc.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", lc.Retry.Multiplier)

	v.SetDefault("policy.relevance_floor", th.RelevanceFloor)
	v.SetDefault("policy.confidence_ceiling", th.ConfidenceCeiling)
	v.SetDefault("policy.max_questions", th.MaxQuestions)
	v.SetDefault("policy.max_negative_streak", th.MaxNegativeStreak)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("db", "")
	v.SetDefault("metrics.addr", "")
}

// Load resolves configuration. path names an explicit YAML file; when empty,
// triagez.yaml is looked up in the working directory and the user config
// directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("triagez")
		v.AddConfigPath(".")
		if dir := userConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := fromViper(v)
	cfg.File = v.ConfigFileUsed()

	// An unset source means "llm if a key is available". Only an explicit
	// llm source makes a missing key a validation error.
	implicit := cfg.Explain.Source == ""
	if implicit {
		cfg.Explain.Source = ExplainLLM
	}

	if cfg.Explain.Source == ExplainLLM && !hasLLMKey(cfg.LLM) {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.Timeout = cfg.LLM.Timeout
			discovered.Retry = cfg.LLM.Retry
			cfg.LLM = discovered
		}
	}

	if implicit && !hasLLMKey(cfg.LLM) {
		cfg.Explain.Source = ExplainNone
		cfg.Explain.Fallback = fmt.Sprintf("no API key for llm provider %q", cfg.LLM.Provider)
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Ranker: RankerConfig{
			BaseURL: v.GetString("ranker.base_url"),
			Timeout: v.GetDuration("ranker.timeout"),
		},
		Cache: CacheConfig{
			RedisURL: v.GetString("cache.redis_url"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Explain: ExplainConfig{
			Source: strings.ToLower(v.GetString("explain.source")),
		},
		LLM: llm.Config{
			Provider: v.GetString("llm.provider"),
			Anthropic: llm.AnthropicConfig{
				APIKey:  v.GetString("llm.anthropic.api_key"),
				Model:   v.GetString("llm.anthropic.model"),
				BaseURL: v.GetString("llm.anthropic.base_url"),
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			Gemini: llm.GeminiConfig{
				APIKey:  v.GetString("llm.gemini.api_key"),
				Model:   v.GetString("llm.gemini.model"),
				BaseURL: v.GetString("llm.gemini.base_url"),
			},
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("llm.openrouter.api_key"),
				Model:   v.GetString("llm.openrouter.model"),
				BaseURL: v.GetString("llm.openrouter.base_url"),
			},
			Retry: llm.RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
				Multiplier:  v.GetFloat64("llm.retry.multiplier"),
			},
			Timeout: v.GetDuration("llm.timeout"),
		},
		Policy: policy.Thresholds{
			RelevanceFloor:    v.GetFloat64("policy.relevance_floor"),
			ConfidenceCeiling: v.GetFloat64("policy.confidence_ceiling"),
			MaxQuestions:      v.GetInt("policy.max_questions"),
			MaxNegativeStreak: v.GetInt("policy.max_negative_streak"),
		},
		Log: logging.Options{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		Metrics: MetricsConfig{
			Addr: v.GetString("metrics.addr"),
		},
		DB: v.GetString("db"),
	}
}

// Validate checks everything an interview needs.
func (c *Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	u, err := url.Parse(c.Ranker.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ranker.base_url %q is not an absolute URL", c.Ranker.BaseURL)
	}
	if c.Ranker.Timeout <= 0 {
		return fmt.Errorf("ranker.timeout must be positive, got %s", c.Ranker.Timeout)
	}

	switch c.Explain.Source {
	case ExplainLLM:
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("llm: %w", err)
		}
	case ExplainService, ExplainNone:
	default:
		return fmt.Errorf("explain.source must be one of llm, service, none; got %q", c.Explain.Source)
	}
	return nil
}

func hasLLMKey(c llm.Config) bool {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// loadDotEnv reads .env from the working directory. Variables already set in
// the environment win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "triagez")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "triagez")
}
