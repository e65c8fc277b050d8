// Package ratelimit provides the pacing strategies used between outbound
// requests: a no-op, a randomized jitter delay, and a token-bucket limiter.
package ratelimit

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Delayer blocks until the next request may proceed or ctx is done.
type Delayer interface {
	Wait(ctx context.Context) error
}

// None never blocks. Tests use it to keep runs instant and deterministic.
type None struct{}

// Wait returns immediately unless ctx is already done.
func (None) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Jitter sleeps for a random duration in [Min, Max). A zero Max disables it.
type Jitter struct {
	Min time.Duration
	Max time.Duration
	// Rand returns a float in [0, 1); nil uses math/rand/v2.
	Rand func() float64
}

// NewJitter returns a Jitter delay, swapping min and max when reversed.
func NewJitter(min, max time.Duration) *Jitter {
	if max < min {
		min, max = max, min
	}
	return &Jitter{Min: min, Max: max}
}

// Next returns the next delay without sleeping.
func (j *Jitter) Next() time.Duration {
	if j.Max <= 0 {
		return 0
	}
	if j.Max <= j.Min {
		return j.Min
	}
	f := rand.Float64
	if j.Rand != nil {
		f = j.Rand
	}
	span := float64(j.Max - j.Min)
	return j.Min + time.Duration(span*f())
}

// Wait sleeps for Next() or until ctx is done.
func (j *Jitter) Wait(ctx context.Context) error {
	d := j.Next()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Limiter caps throughput across all callers with a token bucket.
// It is safe for concurrent use by multiple goroutines.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter creates a limiter allowing rps requests per second with the given
// burst. If rps is <= 0, the limiter does not block.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return &Limiter{}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.lim == nil {
		return ctx.Err()
	}
	return l.lim.Wait(ctx)
}
