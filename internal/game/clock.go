package game

import "time"

// Clock turns wall time into frame deltas. Deltas are capped so a hitch
// cannot push the simulation through thin floors.
type Clock struct {
	now      func() time.Time
	last     time.Time
	maxDelta float64
	paused   bool
}

// NewClock returns a clock capping deltas at maxDelta seconds.
func NewClock(maxDelta float64) *Clock {
	return &Clock{now: time.Now, maxDelta: maxDelta}
}

// Tick returns the seconds elapsed since the previous tick. The first tick,
// and every tick while paused, returns 0.
func (c *Clock) Tick() float64 {
	now := c.now()
	last := c.last
	c.last = now
	if last.IsZero() || c.paused {
		return 0
	}
	dt := now.Sub(last).Seconds()
	if dt < 0 {
		return 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		dt = c.maxDelta
	}
	return dt
}

func (c *Clock) Pause()       { c.paused = true }
func (c *Clock) Resume()      { c.paused = false }
func (c *Clock) Paused() bool { return c.paused }
