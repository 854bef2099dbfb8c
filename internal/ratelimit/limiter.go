// Package ratelimit provides a fixed-window request counter keyed by a
// client fingerprint. The backing store is injected so the limiter can run
// against an in-process map or a shared Redis instance.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter reports whether a client may perform another request in the
// current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config holds fixed-window parameters
type Config struct {
	Limit  int
	Window time.Duration
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// memoryLimiter implements Limiter with an in-process map
type memoryLimiter struct {
	cfg     Config
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

// NewMemoryLimiter creates an in-process fixed-window limiter
func NewMemoryLimiter(cfg Config) Limiter {
	return &memoryLimiter{
		cfg:     cfg,
		windows: make(map[string]*memoryWindow),
	}
}

// Allow counts a request against the key's current window
func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &memoryWindow{count: 1, resetAt: now.Add(l.cfg.Window)}
		return true, nil
	}

	w.count++
	return w.count <= l.cfg.Limit, nil
}
