package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementBelowScript increments KEYS[1] unless it already holds ARGV[1]
// or more, then refreshes its expiry to ARGV[2] milliseconds. It returns
// {count, allowed}.
var incrementBelowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return {current, 0}
end
current = redis.call('INCR', KEYS[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return {current, 1}
`)

// RedisStore is an AtomicStore shared by every process pointing at the same
// Redis database.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a RedisStore that namespaces keys with prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string, def int) (int, error) {
	n, err := r.client.Get(ctx, r.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return def, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key string, value int, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

// IncrementBelow implements AtomicStore.
func (r *RedisStore) IncrementBelow(ctx context.Context, key string, limit int, ttl time.Duration) (int, bool, error) {
	res, err := incrementBelowScript.Run(ctx, r.client, []string{r.key(key)}, limit, max(ttl.Milliseconds(), 1)).Int64Slice()
	if err != nil {
		return 0, false, err
	}
	if len(res) != 2 {
		return 0, false, errors.New("unexpected script reply")
	}
	return int(res[0]), res[1] == 1, nil
}
