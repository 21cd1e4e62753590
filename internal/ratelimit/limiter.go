// Package ratelimit provides in-memory rate limiting for login attempts.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using the system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	MaxAttempts int           // Failed attempts before lockout (default: 5)
	Window      time.Duration // Window over which attempts are counted (default: 15m)
	Lockout     time.Duration // Lockout duration after max attempts (default: 5m)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
		Lockout:     5 * time.Minute,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// entry tracks failure counts and timestamps per identifier.
type entry struct {
	count    int
	firstAt  time.Time
	lockedAt time.Time // zero if not locked
}

// Limiter tracks failed login attempts per identifier.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.Mutex
	// Keyed by hash of identifier
	byID map[string]*entry
}

func New(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	clock := config.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Limiter{
		config: config,
		clock:  clock,
		byID:   make(map[string]*entry),
	}
}

// hashKey avoids storing raw identifiers in memory.
func hashKey(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])
}

// Check reports whether a login attempt for identifier is currently allowed.
func (l *Limiter) Check(identifier string) LimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	e, ok := l.byID[hashKey(identifier)]
	if !ok {
		return LimitResult{Allowed: true}
	}

	if !e.lockedAt.IsZero() {
		remaining := l.config.Lockout - now.Sub(e.lockedAt)
		if remaining > 0 {
			return LimitResult{Allowed: false, RetryAfter: remaining}
		}
	}
	return LimitResult{Allowed: true}
}

// RecordFailure counts a failed attempt and starts a lockout when the
// window's budget is spent.
func (l *Limiter) RecordFailure(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	key := hashKey(identifier)
	e, ok := l.byID[key]
	if !ok || now.Sub(e.firstAt) > l.config.Window {
		l.byID[key] = &entry{count: 1, firstAt: now}
		return
	}

	e.count++
	if e.count >= l.config.MaxAttempts {
		e.lockedAt = now
		e.count = 0
		e.firstAt = now
	}
}

// RecordSuccess clears any accumulated failures for identifier.
func (l *Limiter) RecordSuccess(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byID, hashKey(identifier))
}
