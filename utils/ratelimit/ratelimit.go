// Package ratelimit bounds how many contact submissions a single client may
// send per fixed window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one Allow call. RetryAfter is only set on denial.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type entry struct {
	count   int
	resetAt time.Time
}

// Memory is a per-process fixed window limiter. It never persists and resets on restart.
type Memory struct {
	window time.Duration
	max    int
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

type Option func(*Memory)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

func NewMemory(window time.Duration, limit int, opts ...Option) *Memory {
	m := &Memory{
		window:  window,
		max:     limit,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow starts a new window when none is open for key, otherwise counts the
// attempt. Once the count reaches max further attempts are denied and not counted.
// Expired entries of every key are evicted on each call.
func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, e := range m.entries {
		if !now.Before(e.resetAt) {
			delete(m.entries, k)
		}
	}

	e, ok := m.entries[key]
	if !ok {
		m.entries[key] = &entry{count: 1, resetAt: now.Add(m.window)}
		return Decision{Allowed: true}, nil
	}

	if e.count >= m.max {
		return Decision{Allowed: false, RetryAfter: m.window}, nil
	}
	e.count++
	return Decision{Allowed: true}, nil
}

// Len is the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Counter is the subset of the redis repository the shared limiter needs.
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
}

// Redis shares one fixed window across every instance through a Redis counter.
type Redis struct {
	counter Counter
	window  time.Duration
	max     int
}

func NewRedis(counter Counter, window time.Duration, limit int) *Redis {
	return &Redis{counter: counter, window: window, max: limit}
}

// Allow reads the counter first so denied attempts are not counted. Two
// instances racing past the read can admit one extra request; the increment
// result still caps it.
func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	counterKey := "ratelimit:contact:" + key
	current, err := r.counter.Count(ctx, counterKey)
	if err != nil {
		return Decision{}, err
	}
	if current >= int64(r.max) {
		return Decision{Allowed: false, RetryAfter: r.window}, nil
	}

	n, err := r.counter.IncrWithTTL(ctx, counterKey, r.window)
	if err != nil {
		return Decision{}, err
	}
	if n > int64(r.max) {
		return Decision{Allowed: false, RetryAfter: r.window}, nil
	}
	return Decision{Allowed: true}, nil
}
