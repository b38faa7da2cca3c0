package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/quizgen/internal/quiz"
)

// KeyPrefix namespaces session keys in Redis.
const KeyPrefix = "quizgen:session:"

// RedisStore keeps sessions in Redis as JSON, so any server instance can
// continue a user's quiz.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore returns a RedisStore. A non-positive ttl uses DefaultTTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, id string) (*quiz.Session, error) {
	key := KeyPrefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	var data quiz.SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return quiz.Restore(data)
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, id string, s *quiz.Session) error {
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, KeyPrefix+id, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (r *RedisStore) Clear(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, KeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
