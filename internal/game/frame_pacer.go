package game

import "time"

// pausedLimit caps the frame rate while the simulation is paused.
const pausedLimit = 30

// FramePacer sleeps between frames to hold a target frame rate.
type FramePacer struct {
	limit int
	next  time.Time
}

// NewFramePacer returns a pacer targeting fps frames per second. A limit of
// zero or less disables pacing.
func NewFramePacer(fps int) *FramePacer {
	return &FramePacer{limit: fps}
}

func (f *FramePacer) Limit() int { return f.limit }

func (f *FramePacer) SetLimit(fps int) {
	f.limit = fps
	f.next = time.Time{}
}

// Wait blocks until the next frame is due. Sleeps coarsely and spins for the
// last stretch, which keeps high caps accurate.
func (f *FramePacer) Wait(paused bool) {
	limit := f.limit
	if paused && (limit <= 0 || limit > pausedLimit) {
		limit = pausedLimit
	}
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// resync after a hitch instead of racing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
