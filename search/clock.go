package search

import (
	"sync"
	"time"
)

// Clock is the solver's only source of time.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// ManualClock is a deterministic clock. Every call to Now advances it by
// Step, so a search polling it behaves as if each node took Step to expand.
type ManualClock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

func NewManualClock(step time.Duration) *ManualClock {
	return &ManualClock{now: time.Unix(0, 0), Step: step}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
