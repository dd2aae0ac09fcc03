package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a settable wall clock for tests.
//
// It satisfies clock.Clock. Time only moves when Set or Advance is called,
// so "today" is stable for the whole test.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewDeterministicClock creates a clock stopped at now.
func NewDeterministicClock(now time.Time) *DeterministicClock {
	return &DeterministicClock{now: now}
}

// NewDeterministicClockOn creates a clock stopped at 10:00 local time on
// the given YYYY-MM-DD day. Panics on a malformed date.
func NewDeterministicClockOn(day string) *DeterministicClock {
	t, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		panic(err)
	}
	return NewDeterministicClock(t.Add(10 * time.Hour))
}

// Now returns the current stopped time.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *DeterministicClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *DeterministicClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
