package game

import (
	"context"
	"testing"
	"time"

	"blockworld/internal/input"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockCapsDelta(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClock(0.1)
	c.now = ft.now

	assert.Zero(t, c.Tick(), "first tick has no reference point")

	ft.advance(16 * time.Millisecond)
	assert.InDelta(t, 0.016, c.Tick(), 1e-9)

	ft.advance(2 * time.Second)
	assert.Equal(t, 0.1, c.Tick())

	c.Pause()
	ft.advance(50 * time.Millisecond)
	assert.Zero(t, c.Tick())
	assert.True(t, c.Paused())

	c.Resume()
	ft.advance(20 * time.Millisecond)
	assert.InDelta(t, 0.02, c.Tick(), 1e-9, "time spent paused is not replayed")
}

func TestClockIgnoresBackwardsTime(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClock(0.1)
	c.now = ft.now
	c.Tick()
	ft.advance(-time.Second)
	assert.Zero(t, c.Tick())
}

func TestFramePacer(t *testing.T) {
	p := NewFramePacer(0)
	start := time.Now()
	for range 100 {
		p.Wait(false)
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	p.SetLimit(500)
	assert.Equal(t, 500, p.Limit())
	start = time.Now()
	for range 5 {
		p.Wait(false)
	}
	assert.GreaterOrEqual(t, time.Since(start), 8*time.Millisecond)
}

func TestAppRunsScript(t *testing.T) {
	s := newSession(t, flatConfig())
	var seen []uint64
	app := NewApp(s, 0, func(frame uint64, _ *input.Manager, _ *Session) {
		seen = append(seen, frame)
	}, zaptest.NewLogger(t))
	app.StatsEvery = 2

	require.NoError(t, app.Run(context.Background(), 5))
	assert.Equal(t, []uint64{0, 1, 2, 3, 4}, seen)
	assert.Equal(t, uint64(5), s.Stats().Frames)
}

func TestAppStopsOnCancel(t *testing.T) {
	s := newSession(t, flatConfig())
	ctx, cancel := context.WithCancel(context.Background())
	app := NewApp(s, 0, func(frame uint64, _ *input.Manager, _ *Session) {
		if frame == 2 {
			cancel()
		}
	}, nil)

	err := app.Run(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(3), s.Stats().Frames)
}

func TestAppPause(t *testing.T) {
	s := newSession(t, flatConfig())
	app := NewApp(s, 0, nil, nil)
	app.Pause()
	assert.True(t, app.Clock().Paused())
	assert.True(t, app.Session().Paused())
	app.Resume()
	assert.False(t, app.Session().Paused())
}

func TestAppFeedsScriptInput(t *testing.T) {
	s := newSession(t, flatConfig())
	settle(s)
	start := s.Actor().Position

	app := NewApp(s, 0, func(frame uint64, in *input.Manager, _ *Session) {
		if frame == 0 {
			in.Press(input.ActionMoveForward)
		}
	}, nil)
	app.clock.now = stepClock(20 * time.Millisecond)

	require.NoError(t, app.Run(context.Background(), 30))
	assert.Less(t, s.Actor().Position.Z(), start.Z()-3)
	assert.True(t, app.Input().IsActive(input.ActionMoveForward))
	assert.False(t, app.Input().JustPressed(input.ActionMoveForward), "edges cleared after each frame")
}

// stepClock returns a time source advancing by d on every call.
func stepClock(d time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(d)
		return t
	}
}
