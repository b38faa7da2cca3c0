// Package config loads quizgen's settings from an optional YAML file,
// QUIZGEN_* environment variables, and built-in defaults, in that order of
// increasing precedence for the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/ratelimit"
	"github.com/abhisek/quizgen/internal/sessions"
)

// EnvPrefix prefixes every environment override, e.g. QUIZGEN_QUIZ_DAILY_LIMIT.
const EnvPrefix = "QUIZGEN"

// DefaultGenerateTimeout bounds a quiz generation when llm.timeout is unset.
const DefaultGenerateTimeout = 90 * time.Second

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the complete application configuration.
type Config struct {
	LLM    LLMSection    `mapstructure:"llm" yaml:"llm"`
	Quiz   QuizSection   `mapstructure:"quiz" yaml:"quiz"`
	Server ServerSection `mapstructure:"server" yaml:"server"`
	Store  StoreSection  `mapstructure:"store" yaml:"store"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

// LLMSection selects and tunes the LLM provider.
type LLMSection struct {
	Provider   string        `mapstructure:"provider" yaml:"provider"`
	Model      string        `mapstructure:"model" yaml:"model"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// QuizSection shapes generated quizzes and the daily cap.
type QuizSection struct {
	QuestionCount  int    `mapstructure:"question_count" yaml:"question_count"`
	Language       string `mapstructure:"language" yaml:"language"`
	ShuffleOptions bool   `mapstructure:"shuffle_options" yaml:"shuffle_options"`
	DailyLimit     int    `mapstructure:"daily_limit" yaml:"daily_limit"`
}

// ServerSection configures `quizgen serve`.
type ServerSection struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	CORSOrigins    []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	SessionTTL     time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// StoreSection chooses where sessions and quota counters live.
type StoreSection struct {
	Backend       string `mapstructure:"backend" yaml:"backend"`
	DBPath        string `mapstructure:"db_path" yaml:"db_path"`
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", DefaultGenerateTimeout.String())
	v.SetDefault("llm.max_retries", 3)

	v.SetDefault("quiz.question_count", 5)
	v.SetDefault("quiz.language", "English")
	v.SetDefault("quiz.shuffle_options", false)
	v.SetDefault("quiz.daily_limit", ratelimit.DefaultLimit)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.session_ttl", sessions.DefaultTTL.String())
	v.SetDefault("server.request_timeout", "30s")

	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.db_path", "")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. An explicit path must exist; otherwise
// quizgen.yaml is searched in the working directory and the user config
// directory, and its absence is not an error.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quizgen")
		v.AddConfigPath(".")
		if dir := userConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// userConfigDir returns $XDG_CONFIG_HOME/quizgen or ~/.config/quizgen.
func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "quizgen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quizgen")
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Quiz.QuestionCount < 1 || c.Quiz.QuestionCount > 20 {
		return fmt.Errorf("quiz.question_count must be between 1 and 20, got %d", c.Quiz.QuestionCount)
	}
	if strings.TrimSpace(c.Quiz.Language) == "" {
		return errors.New("quiz.language must not be empty")
	}
	if c.Quiz.DailyLimit < 0 {
		return fmt.Errorf("quiz.daily_limit must not be negative, got %d", c.Quiz.DailyLimit)
	}
	switch c.Store.Backend {
	case BackendSQLite, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("store.backend must be one of sqlite, memory, redis, got %q", c.Store.Backend)
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("server.session_ttl must be positive")
	}
	return nil
}

// LLMConfig maps the llm section onto a provider configuration. Without a
// configured provider the first standard API key variable found decides.
func (c *Config) LLMConfig() llm.Config {
	var cfg llm.Config
	if c.LLM.Provider == "" {
		discovered, ok := llm.DiscoverConfig()
		if ok {
			cfg = discovered
		} else {
			cfg = llm.DefaultConfig()
		}
	} else {
		cfg = llm.DefaultConfig()
		cfg.Provider = c.LLM.Provider
		cfg.SetAPIKey(envKey(cfg.Provider))
	}

	if c.LLM.APIKey != "" {
		cfg.SetAPIKey(c.LLM.APIKey)
	}
	if c.LLM.Model != "" {
		cfg.SetModel(c.LLM.Model)
	}
	if c.LLM.BaseURL != "" {
		switch cfg.Provider {
		case llm.ProviderOpenAI:
			cfg.OpenAI.BaseURL = c.LLM.BaseURL
		case llm.ProviderAnthropic:
			cfg.Anthropic.BaseURL = c.LLM.BaseURL
		case llm.ProviderOpenRouter:
			cfg.OpenRouter.BaseURL = c.LLM.BaseURL
		}
	}
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	if c.LLM.MaxRetries > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxRetries
	}
	return cfg
}

// GenerateTimeout is the deadline for one quiz generation, retries included.
func (c *Config) GenerateTimeout() time.Duration {
	if c.LLM.Timeout > 0 {
		return c.LLM.Timeout
	}
	return DefaultGenerateTimeout
}

func envKey(provider string) string {
	for _, name := range llm.KeyEnvVars(provider) {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
