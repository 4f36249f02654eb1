// Package ratelimit counts requests per client key within a window. The
// Redis implementation shares counters across server instances; the memory
// implementation is used when no Redis address is configured.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// Policy is a named request budget: at most Max requests per Window.
type Policy struct {
	Name   string
	Max    int
	Window time.Duration
}

// Limiter decides whether one more request for key fits the budget. Allow
// returns the number of requests left in the window, or ErrRateLimited.
type Limiter interface {
	Allow(ctx context.Context, key string) (remaining int, err error)
	Policy() Policy
}
