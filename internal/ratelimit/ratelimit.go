// Package ratelimit spaces outbound LLM calls to stay under the provider's
// free-tier request quota.
package ratelimit

import (
	"context"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Limiter enforces a minimum interval between consecutive calls. It is
// intended for single-goroutine pipeline use; callers needing concurrent
// access must serialize around it.
type Limiter struct {
	minInterval time.Duration
	lastCall    time.Time
	clock       Clock
}

// NewLimiter returns a limiter spacing calls at least minInterval apart.
// The first call is never delayed.
func NewLimiter(minInterval time.Duration) *Limiter {
	return NewLimiterWithClock(minInterval, realClock{})
}

// NewLimiterWithClock is NewLimiter with an explicit time source.
func NewLimiterWithClock(minInterval time.Duration, clock Clock) *Limiter {
	return &Limiter{minInterval: minInterval, clock: clock}
}

// Wait blocks until the minimum interval since the previous call has
// elapsed, then records the call. It returns early with the context's
// error if ctx is canceled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	if !l.lastCall.IsZero() {
		elapsed := l.clock.Now().Sub(l.lastCall)
		if wait := l.minInterval - elapsed; wait > 0 {
			if err := l.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	l.lastCall = l.clock.Now()
	return nil
}
