package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory. A bucket
// holds Max tokens and refills at Max per Window. Buckets idle for a whole
// window are full again and get dropped on the next sweep.
type MemoryLimiter struct {
	policy Policy
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func NewMemory(p Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy:    p,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (int, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		every := rate.Every(l.policy.Window / time.Duration(max(l.policy.Max, 1)))
		b = &bucket{limiter: rate.NewLimiter(every, l.policy.Max)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	if !b.limiter.AllowN(now, 1) {
		return 0, ErrRateLimited
	}
	return int(b.limiter.TokensAt(now)), nil
}

func (l *MemoryLimiter) Policy() Policy {
	return l.policy
}

// sweep drops idle buckets at most once per window. Caller holds mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.policy.Window {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.policy.Window {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
