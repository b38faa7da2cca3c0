package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/ratelimit"
	"github.com/abhisek/quizgen/internal/sessions"
	"github.com/abhisek/quizgen/internal/store"
)

const redisKeyPrefix = "quizgen:"

// backend holds the stores selected by store.backend.
type backend struct {
	counter   ratelimit.AtomicStore
	sessions  sessions.Store
	eventRepo store.EventRepo // nil for the memory backend
	closers   []func() error
}

// Close releases the store and redis connections.
func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// openBackend opens the stores for kind, or for store.backend when kind is
// empty. LLM events go to SQLite for both the sqlite and redis backends.
func openBackend(cmd *cobra.Command, cfg *config.Config, kind string) (*backend, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if kind == "" {
		kind = cfg.Store.Backend
	}

	b := &backend{}
	ttl := cfg.Server.SessionTTL

	switch kind {
	case config.BackendMemory:
		b.counter = ratelimit.NewMemoryStore(nil)
		b.sessions = sessions.NewMemoryStore(ttl, nil)
		return b, nil

	case config.BackendSQLite, config.BackendRedis:
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	b.closers = append(b.closers, st.Close)
	b.eventRepo = st.EventRepo()

	if kind == config.BackendSQLite {
		b.counter = st.QuotaRepo()
		b.sessions = sessions.NewMemoryStore(ttl, nil)
		return b, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Store.RedisAddr,
		Password: cfg.Store.RedisPassword,
		DB:       cfg.Store.RedisDB,
	})
	b.closers = append(b.closers, client.Close)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Store.RedisAddr, err)
	}
	b.counter = ratelimit.NewRedisStore(client, redisKeyPrefix)
	b.sessions = sessions.NewRedisStore(client, ttl)
	return b, nil
}

// runtime is everything a quiz-running command needs, built from config.
type runtime struct {
	*backend
	svc *quizflow.Service
}

// buildRuntime wires the backend, LLM provider, and generator into a
// quizflow.Service. A non-empty kind overrides store.backend.
func buildRuntime(cmd *cobra.Command, cfg *config.Config, kind string) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := openBackend(cmd, cfg, kind)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), b.eventRepo)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("LLM provider: %w (run `quizgen doctor` to check your setup)", err)
	}

	gen := quizgen.New(provider, generatorConfig(cfg))
	return &runtime{backend: b, svc: newService(cfg, b, gen)}, nil
}

// newService applies the quiz limits and llm.timeout to a flow over b.
func newService(cfg *config.Config, b *backend, gen quizgen.Generator) *quizflow.Service {
	limiter := ratelimit.New(b.counter, cfg.Quiz.DailyLimit)
	return quizflow.New(gen, limiter, b.sessions, quizflow.WithGenerateTimeout(cfg.GenerateTimeout()))
}

// generatorConfig applies the quiz section to the generator defaults.
func generatorConfig(cfg *config.Config) quizgen.Config {
	gc := quizgen.DefaultConfig()
	gc.QuestionCount = cfg.Quiz.QuestionCount
	gc.Language = cfg.Quiz.Language
	gc.ShuffleOptions = cfg.Quiz.ShuffleOptions
	return gc
}
