// Package ratelimit guards the validation endpoint with a sliding-window
// request limiter. The engine's duplicate-description pass is quadratic in
// batch size, so an interactive deployment needs both a batch cap and a
// request cap in front of it.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one limiter check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per key over a sliding window. Implementations:
// in-memory for single-instance deployments, Redis for distributed ones.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
