package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCanedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_LastCall(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}, MockResponse{Content: json.RawMessage(`{}`)})
	if _, ok := mock.LastCall(); ok {
		t.Fatal("expected no call yet")
	}

	_, _ = mock.Generate(context.Background(), Request{System: "first"})
	_, _ = mock.Generate(context.Background(), Request{System: "second"})

	last, ok := mock.LastCall()
	if !ok || last.System != "second" {
		t.Fatalf("expected last call 'second', got %q (ok=%v)", last.System, ok)
	}
}

func TestMockJSON(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]any{"status": "ok"}))
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"status":"ok"}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}

	if r := MockJSON(func() {}); r.Err == nil {
		t.Fatal("expected an encoding error for a func value")
	}
}

func TestMockProvider_DelayHonoursContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "quiz-gen")
	if p := PurposeFrom(ctx); p != "quiz-gen" {
		t.Fatalf("expected 'quiz-gen', got %q", p)
	}
}

func TestTopicContext(t *testing.T) {
	ctx := context.Background()
	if got := TopicFrom(ctx); got != "" {
		t.Fatalf("expected empty topic, got %q", got)
	}
	ctx = WithTopic(ctx, "volcanoes")
	if got := TopicFrom(ctx); got != "volcanoes" {
		t.Fatalf("expected 'volcanoes', got %q", got)
	}
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, k := range keyEnv {
		for _, v := range k.vars {
			t.Setenv(v, "")
		}
	}
}

func TestDiscoverConfig(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		clearKeyEnv(t)
		if _, ok := DiscoverConfig(); ok {
			t.Fatal("expected no provider")
		}
	})

	t.Run("google key selects gemini", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("GOOGLE_API_KEY", "g-key")
		t.Setenv("OPENAI_API_KEY", "o-key")
		cfg, ok := DiscoverConfig()
		if !ok || cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("gemini key wins over google key", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("GEMINI_API_KEY", "primary")
		t.Setenv("GOOGLE_API_KEY", "secondary")
		cfg, _ := DiscoverConfig()
		if cfg.APIKey() != "primary" {
			t.Fatalf("APIKey() = %q, want primary", cfg.APIKey())
		}
	})

	t.Run("openrouter last", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("OPENROUTER_API_KEY", "or-key")
		cfg, ok := DiscoverConfig()
		if !ok || cfg.Provider != ProviderOpenRouter || cfg.OpenRouter.APIKey != "or-key" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})
}

func TestConfig_SetModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.SetModel("gpt-4.1-mini")
	if cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Fatalf("OpenAI.Model = %q", cfg.OpenAI.Model)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Fatalf("other providers must be untouched, Gemini.Model = %q", cfg.Gemini.Model)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "openrouter with key",
			cfg:     Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
