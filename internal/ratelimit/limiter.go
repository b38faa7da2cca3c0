// Package ratelimit enforces the daily cap on quiz generations shared by all
// users. Counts live in a pluggable key-value Store under a per-day key whose
// expiry is the next local midnight.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// KeyPrefix prefixes the per-day counter key.
const KeyPrefix = "quiz_generation_count_"

// DefaultLimit is the daily generation cap when none is configured.
const DefaultLimit = 50

// ErrQuotaExceeded is matched by every *QuotaExceededError.
var ErrQuotaExceeded = errors.New("daily quiz generation limit reached")

// QuotaExceededError reports that the cap for the current day is used up.
type QuotaExceededError struct {
	Limit   int
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s (%d per day, resets %s)", ErrQuotaExceeded, e.Limit, e.ResetAt.Format(time.RFC3339))
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// Store is a key-value store of integer counters with expiring entries.
type Store interface {
	// Get returns the value for key, or def when the key is absent or expired.
	Get(ctx context.Context, key string, def int) (int, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value int, ttl time.Duration) error
}

// AtomicStore is a Store that can increment a counter and check it against a
// limit in one indivisible step, across processes where the backend allows.
type AtomicStore interface {
	Store

	// IncrementBelow increments key when its current value is below limit
	// and refreshes its ttl. It returns the new value and true, or the
	// unchanged value and false when the limit is already reached.
	IncrementBelow(ctx context.Context, key string, limit int, ttl time.Duration) (int, bool, error)
}

// Usage is a snapshot of today's quota.
type Usage struct {
	Count     int       `json:"count"`
	Limit     int       `json:"limit"` // 0 means unlimited
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source. The clock's location decides where
// the day boundary falls.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// Limiter checks and consumes the daily generation quota.
type Limiter struct {
	store Store
	limit int
	now   func() time.Time

	// mu serializes get/compare/set for stores without an atomic primitive.
	mu sync.Mutex
}

// New returns a Limiter over store allowing limit generations per day.
// A limit of zero or less disables the cap.
func New(store Store, limit int, opts ...Option) *Limiter {
	l := &Limiter{store: store, limit: limit, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the configured daily cap.
func (l *Limiter) Limit() int {
	return l.limit
}

// Acquire consumes one generation from today's quota. When the cap is
// reached it returns a *QuotaExceededError and leaves the count unchanged.
func (l *Limiter) Acquire(ctx context.Context) (Usage, error) {
	now := l.now()
	key := DayKey(now)
	ttl := UntilMidnight(now)
	reset := now.Add(ttl)

	if l.limit <= 0 {
		return l.acquireUnlimited(ctx, key, ttl, reset)
	}

	if as, ok := l.store.(AtomicStore); ok {
		count, allowed, err := as.IncrementBelow(ctx, key, l.limit, ttl)
		if err != nil {
			return Usage{}, fmt.Errorf("increment quota: %w", err)
		}
		u := l.usage(count, reset)
		if !allowed {
			return u, &QuotaExceededError{Limit: l.limit, ResetAt: reset}
		}
		return u, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	count, err := l.store.Get(ctx, key, 0)
	if err != nil {
		return Usage{}, fmt.Errorf("read quota: %w", err)
	}
	if count >= l.limit {
		return l.usage(count, reset), &QuotaExceededError{Limit: l.limit, ResetAt: reset}
	}
	if err := l.store.Set(ctx, key, count+1, ttl); err != nil {
		return Usage{}, fmt.Errorf("write quota: %w", err)
	}
	return l.usage(count+1, reset), nil
}

// acquireUnlimited still counts generations so usage stays visible.
func (l *Limiter) acquireUnlimited(ctx context.Context, key string, ttl time.Duration, reset time.Time) (Usage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	count, err := l.store.Get(ctx, key, 0)
	if err != nil {
		return Usage{}, fmt.Errorf("read quota: %w", err)
	}
	if err := l.store.Set(ctx, key, count+1, ttl); err != nil {
		return Usage{}, fmt.Errorf("write quota: %w", err)
	}
	return l.usage(count+1, reset), nil
}

// Usage reports today's consumption without changing it.
func (l *Limiter) Usage(ctx context.Context) (Usage, error) {
	now := l.now()
	count, err := l.store.Get(ctx, DayKey(now), 0)
	if err != nil {
		return Usage{}, fmt.Errorf("read quota: %w", err)
	}
	return l.usage(count, now.Add(UntilMidnight(now))), nil
}

func (l *Limiter) usage(count int, reset time.Time) Usage {
	u := Usage{Count: count, Limit: l.limit, ResetAt: reset}
	if l.limit > 0 {
		u.Remaining = max(l.limit-count, 0)
	}
	return u
}

// DayKey returns the counter key for the calendar day containing t.
func DayKey(t time.Time) string {
	return KeyPrefix + t.Format("2006-01-02")
}

// UntilMidnight returns the time left until the next midnight in t's
// location. It is recomputed on every write so a counter started at 23:59
// expires a minute later.
func UntilMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
	return next.Sub(t)
}
