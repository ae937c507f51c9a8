package game

import (
	"context"
	"time"

	"blockworld/internal/input"
	"blockworld/internal/profiling"

	"go.uber.org/zap"
)

// Script drives the session between frames by pressing actions, standing
// in for a player. It may also aim the actor directly.
type Script func(frame uint64, in *input.Manager, s *Session)

// App runs a session frame by frame: clock, script, input, simulation,
// pacing.
type App struct {
	log     *zap.Logger
	session *Session
	input   *input.Manager
	clock   *Clock
	pacer   *FramePacer
	script  Script

	// StatsEvery logs session stats every n frames; 0 disables.
	StatsEvery uint64
	// SlowFrame logs the top profiled tasks of frames slower than this.
	SlowFrame time.Duration
}

func NewApp(s *Session, fps int, script Script, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		log:       log,
		session:   s,
		input:     input.NewManager(),
		clock:     NewClock(s.World().Config().Physics.MaxFrameDelta),
		pacer:     NewFramePacer(fps),
		script:    script,
		SlowFrame: 16 * time.Millisecond,
	}
}

func (a *App) Session() *Session     { return a.session }
func (a *App) Clock() *Clock         { return a.clock }
func (a *App) Input() *input.Manager { return a.input }

func (a *App) Pause() {
	a.clock.Pause()
	a.session.Pause()
}

func (a *App) Resume() {
	a.clock.Resume()
	a.session.Resume()
}

// Run ticks until frames have run (0 runs until ctx ends). It returns
// ctx.Err() when cancelled.
func (a *App) Run(ctx context.Context, frames uint64) error {
	for i := uint64(0); frames == 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.tick(i)
	}
	a.log.Info("run finished", a.session.Stats().Fields()...)
	return nil
}

func (a *App) tick(frame uint64) {
	profiling.ResetFrame()
	start := time.Now()

	dt := a.clock.Tick()
	if a.script != nil {
		a.script(frame, a.input, a.session)
	}
	a.session.HandleInput(a.input)
	a.session.Frame(dt)
	a.input.PostUpdate()

	if took := time.Since(start); a.SlowFrame > 0 && took > a.SlowFrame {
		fields := []zap.Field{
			zap.Duration("took", took),
			zap.Duration("world", profiling.SumWithPrefix("world.")),
			zap.Duration("physics", profiling.SumWithPrefix("physics.")),
		}
		a.log.Warn("slow frame", append(fields, profiling.Fields(5)...)...)
	}
	if a.StatsEvery > 0 && (frame+1)%a.StatsEvery == 0 {
		a.log.Info("stats", a.session.Stats().Fields()...)
	}

	a.pacer.Wait(a.session.Paused())
}
