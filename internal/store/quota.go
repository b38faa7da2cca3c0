package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizgen/internal/ratelimit"
)

var _ ratelimit.AtomicStore = (*QuotaRepo)(nil)

// QuotaRepo persists expiring integer counters in the quota_counters table.
// It lets the daily generation cap survive restarts of a single-host
// deployment.
type QuotaRepo struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

func newQuotaRepo(db *sql.DB) *QuotaRepo {
	return &QuotaRepo{db: db, now: time.Now}
}

// WithClock overrides the time source used to judge expiry.
func (r *QuotaRepo) WithClock(now func() time.Time) *QuotaRepo {
	r.now = now
	return r
}

// Get returns the counter for key, or def when it is absent or expired.
func (r *QuotaRepo) Get(ctx context.Context, key string, def int) (int, error) {
	query, args := builder().Select("value").
		From(entsql.Table(quotaTableName)).
		Where(entsql.And(
			entsql.EQ("name", key),
			entsql.GT("expires_at", r.now().UnixMilli()),
		)).
		Query()

	var v int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get quota %s: %w", key, err)
	}
	return v, nil
}

// Set stores value under key until ttl elapses.
func (r *QuotaRepo) Set(ctx context.Context, key string, value int, ttl time.Duration) error {
	expires := r.now().Add(ttl).UnixMilli()
	query, args := builder().Insert(quotaTableName).
		Columns("name", "value", "expires_at").
		Values(key, value, expires).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set quota %s: %w", key, err)
	}
	return nil
}

// incrementBelowSQL restarts an expired counter at 1 and otherwise bumps it
// only while it is below the limit. No row comes back when the limit holds.
const incrementBelowSQL = `INSERT INTO quota_counters (name, value, expires_at) VALUES (?, 1, ?)
ON CONFLICT(name) DO UPDATE SET
	value = CASE WHEN quota_counters.expires_at <= ? THEN 1 ELSE quota_counters.value + 1 END,
	expires_at = excluded.expires_at
WHERE quota_counters.expires_at <= ? OR quota_counters.value < ?
RETURNING value`

// IncrementBelow atomically increments key when it is below limit.
func (r *QuotaRepo) IncrementBelow(ctx context.Context, key string, limit int, ttl time.Duration) (int, bool, error) {
	if limit <= 0 {
		return 0, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	nowMs := now.UnixMilli()
	expires := now.Add(ttl).UnixMilli()

	var v int
	err := r.db.QueryRowContext(ctx, incrementBelowSQL, key, expires, nowMs, nowMs, limit).Scan(&v)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, sql.ErrNoRows):
		cur, err := r.Get(ctx, key, 0)
		if err != nil {
			return 0, false, err
		}
		return cur, false, nil
	default:
		return 0, false, fmt.Errorf("increment quota %s: %w", key, err)
	}
}
