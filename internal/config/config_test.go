package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizgen/internal/llm"
)

// clearEnv isolates a test from the caller's API keys and config files.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, p := range []string{llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderOpenRouter} {
		for _, name := range llm.KeyEnvVars(p) {
			t.Setenv(name, "")
		}
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quizgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.Quiz.QuestionCount)
	assert.Equal(t, "English", cfg.Quiz.Language)
	assert.Equal(t, 50, cfg.Quiz.DailyLimit)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 90*time.Second, cfg.GenerateTimeout())
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Equal(t, 50, cfg.Quiz.DailyLimit)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
llm:
  provider: openai
  model: gpt-4.1-mini
  api_key: sk-from-file-0123456789
  timeout: 45s
quiz:
  question_count: 7
  language: Korean
  shuffle_options: true
  daily_limit: 10
server:
  addr: 127.0.0.1:9000
  cors_origins: ["http://localhost:3000"]
store:
  backend: redis
  redis_addr: redis:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 7, cfg.Quiz.QuestionCount)
	assert.Equal(t, "Korean", cfg.Quiz.Language)
	assert.True(t, cfg.Quiz.ShuffleOptions)
	assert.Equal(t, 10, cfg.Quiz.DailyLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "quiz:\n  daily_limit: 10\n")
	t.Setenv("QUIZGEN_QUIZ_DAILY_LIMIT", "3")
	t.Setenv("QUIZGEN_STORE_BACKEND", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Quiz.DailyLimit)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestGenerateTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUIZGEN_LLM_TIMEOUT", "1s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.GenerateTimeout())

	cfg.LLM.Timeout = 0
	assert.Equal(t, DefaultGenerateTimeout, cfg.GenerateTimeout())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero questions", "quiz:\n  question_count: 0\n"},
		{"too many questions", "quiz:\n  question_count: 50\n"},
		{"negative limit", "quiz:\n  daily_limit: -1\n"},
		{"unknown backend", "store:\n  backend: mongo\n"},
		{"blank language", "quiz:\n  language: \"  \"\n"},
		{"bad yaml", "quiz: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLLMConfig(t *testing.T) {
	t.Run("discovers provider from env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

		cfg := Default().LLMConfig()
		assert.Equal(t, llm.ProviderAnthropic, cfg.Provider)
		assert.Equal(t, "sk-ant-test", cfg.APIKey())
	})

	t.Run("falls back to gemini without keys", func(t *testing.T) {
		clearEnv(t)

		cfg := Default().LLMConfig()
		assert.Equal(t, llm.ProviderGemini, cfg.Provider)
		assert.Error(t, cfg.Validate())
	})

	t.Run("explicit provider reads its env key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("OPENAI_API_KEY", "sk-openai")

		c := Default()
		c.LLM.Provider = llm.ProviderOpenAI
		cfg := c.LLMConfig()
		assert.Equal(t, llm.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "sk-openai", cfg.APIKey())
	})

	t.Run("google key serves gemini", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg := Default().LLMConfig()
		assert.Equal(t, llm.ProviderGemini, cfg.Provider)
		assert.Equal(t, "google-key", cfg.APIKey())
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)

		c := Default()
		c.LLM.Provider = llm.ProviderOpenRouter
		c.LLM.APIKey = "or-key"
		c.LLM.Model = "anthropic/claude-3.5-haiku"
		c.LLM.BaseURL = "http://proxy.local/v1"
		c.LLM.Timeout = 5 * time.Second
		c.LLM.MaxRetries = 1

		cfg := c.LLMConfig()
		assert.Equal(t, "or-key", cfg.OpenRouter.APIKey)
		assert.Equal(t, "anthropic/claude-3.5-haiku", cfg.OpenRouter.Model)
		assert.Equal(t, "http://proxy.local/v1", cfg.OpenRouter.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 1, cfg.Retry.MaxAttempts)
		assert.NoError(t, cfg.Validate())
	})
}

func TestCheckAPIKey(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"missing", "", []string{"GOOGLE_API_KEY is missing or empty"}},
		{"fine", "AIzaSyA-1234567890abcdefghijklmnop", nil},
		{"placeholder", "YOUR_GEMINI_API_KEY_HERE", []string{"GOOGLE_API_KEY still contains placeholder text"}},
		{"whitespace", " AIzaSyA-1234567890abcdefghijklmnop ", []string{"GOOGLE_API_KEY has leading or trailing whitespace"}},
		{"quotes", `"AIzaSyA-1234567890abcdefghijklmnop"`, []string{"GOOGLE_API_KEY contains quote characters; check how it was set"}},
		{"short", "abc123", []string{"GOOGLE_API_KEY looks too short (6 characters)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAPIKey("GOOGLE_API_KEY", tt.value))
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "****", Mask("short"))
	assert.Equal(t, "sk-a...wxyz", Mask("sk-abcdefghijklmnopqrstuvwxyz"))
}

func TestRedacted(t *testing.T) {
	c := Default()
	c.LLM.APIKey = "sk-abcdefghijklmnopqrstuvwxyz"
	c.Store.RedisPassword = "hunter2"
	c.Server.CORSOrigins = []string{"http://a"}

	r := c.Redacted()
	assert.Equal(t, "sk-a...wxyz", r.LLM.APIKey)
	assert.Equal(t, "****", r.Store.RedisPassword)
	assert.Equal(t, "sk-abcdefghijklmnopqrstuvwxyz", c.LLM.APIKey, "original is untouched")

	r.Server.CORSOrigins[0] = "http://b"
	assert.Equal(t, "http://a", c.Server.CORSOrigins[0])
}

func TestYAMLRendersDurations(t *testing.T) {
	out, err := yaml.Marshal(Default())
	require.NoError(t, err)

	var back map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "1m0s", back["llm"]["timeout"])
	assert.Equal(t, "2h0m0s", back["server"]["session_ttl"])
	assert.Equal(t, 50, back["quiz"]["daily_limit"])
	assert.NotContains(t, back, "File")
}
