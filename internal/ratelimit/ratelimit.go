// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit enforces a minimum interval between successive calls
// made by one collector.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter spaces calls so that no two completed Wait calls are closer
// together than the configured minimum interval. A single instance is safe
// for concurrent callers; concurrent Wait calls serialize, with no fairness
// guarantee beyond mutual exclusion.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	// now and sleep are swapped out by tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New returns a Limiter with the given minimum interval. A non-positive
// interval disables waiting.
func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		interval: minInterval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// PerMinute returns a Limiter derived from a requests-per-minute budget.
func PerMinute(rpm float64) *Limiter {
	if rpm <= 0 {
		return New(0)
	}
	return New(time.Duration(float64(time.Minute) / rpm))
}

// PerSecond returns a Limiter derived from a requests-per-second budget.
func PerSecond(rps float64) *Limiter {
	if rps <= 0 {
		return New(0)
	}
	return New(time.Duration(float64(time.Second) / rps))
}

// Interval returns the configured minimum interval.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until at least the minimum interval has elapsed since the
// previous completed call, then records the call time. The lock is held
// across the sleep so that concurrent callers serialize and the recorded
// call times keep their spacing.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.interval <= 0 {
		l.last = l.now()
		return
	}

	if !l.last.IsZero() {
		if remaining := l.interval - l.now().Sub(l.last); remaining > 0 {
			l.sleep(remaining)
		}
	}
	l.last = l.now()
}
