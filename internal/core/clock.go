package core

import (
	"sync"
	"time"

	"dischargecore/pkg/domain"
)

// Clock supplies the current tick. The core consults it once per
// invocation and never assumes a unit beyond monotonic non-decrease.
type Clock interface {
	Now() domain.Ticks
}

// SystemClock reads wall-clock seconds since the Unix epoch.
type SystemClock struct{}

// Now returns the current Unix timestamp in seconds.
func (SystemClock) Now() domain.Ticks { return domain.Ticks(time.Now().Unix()) }

// ManualClock is a settable clock for tests and deterministic replays.
type ManualClock struct {
	mu  sync.Mutex
	now domain.Ticks
}

// NewManualClock returns a manual clock starting at now.
func NewManualClock(now domain.Ticks) *ManualClock {
	return &ManualClock{now: now}
}

// Now returns the clock's current tick.
func (c *ManualClock) Now() domain.Ticks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now. Moving backwards is the caller's mistake;
// the clock does not guard against it.
func (c *ManualClock) Set(now domain.Ticks) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Advance moves the clock forward by delta ticks.
func (c *ManualClock) Advance(delta domain.Ticks) {
	c.mu.Lock()
	c.now += delta
	c.mu.Unlock()
}
