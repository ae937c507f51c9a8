package game

import (
	"errors"
	"fmt"

	"blockworld/internal/block"
	"blockworld/internal/config"
	"blockworld/internal/input"
	"blockworld/internal/metrics"
	"blockworld/internal/physics"
	"blockworld/internal/profiling"
	"blockworld/internal/world"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

var (
	ErrNoTarget       = errors.New("game: no block in reach")
	ErrBlockedByActor = errors.New("game: placement overlaps the actor")
)

// Stats is a snapshot of the session for logging and tests.
type Stats struct {
	Frames    uint64
	Substeps  int // during the last frame
	Chunks    int
	Pending   int
	Instances int
	Edits     int
	Position  mgl64.Vec3
	OnGround  bool
	Paused    bool
	Waiting   bool // actor's chunk not installed yet
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) { s.metrics = c }
}

// WithSpawn sets the column the actor respawns over.
func WithSpawn(x, z int) Option {
	return func(s *Session) { s.spawnX, s.spawnZ = x, z }
}

// Session ties a streamed world, the physics system and one actor together.
// It is driven from a single goroutine.
type Session struct {
	log     *zap.Logger
	metrics *metrics.Collector

	world   *world.Manager
	physics *physics.System
	actor   *physics.Actor

	spawnX, spawnZ int
	selected       block.ID
	frames         uint64
	substeps       int
	waiting        bool
	paused         bool
}

// NewSession loads the world around the spawn column and drops the actor
// above it.
func NewSession(cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{log: zap.NewNop(), selected: block.Stone}
	for _, o := range opts {
		o(s)
	}

	w, err := world.NewManager(cfg,
		world.WithLogger(s.log.Named("world")),
		world.WithMetrics(s.metrics))
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	s.world = w
	s.physics = physics.NewSystem(cfg.Physics, s.metrics)
	s.actor = physics.NewActor(cfg.Actor, mgl64.Vec3{})
	s.Respawn()
	return s, nil
}

func (s *Session) World() *world.Manager    { return s.world }
func (s *Session) Physics() *physics.System { return s.physics }
func (s *Session) Actor() *physics.Actor    { return s.actor }
func (s *Session) Paused() bool             { return s.paused }

// SetInput replaces the actor's movement intent.
func (s *Session) SetInput(in physics.Input) {
	s.actor.Input = in
}

// Look points the actor. Pitch is clamped just short of straight up/down.
func (s *Session) Look(yaw, pitch float64) {
	const limit = 1.5690308719637473 // 89.9 degrees
	s.actor.Yaw = yaw
	s.actor.Pitch = max(-limit, min(pitch, limit))
}

// Select sets the kind placed by the place action.
func (s *Session) Select(id block.ID) { s.selected = id }

func (s *Session) Selected() block.ID { return s.selected }

// HandleInput applies one frame of actions: pause and respawn edges,
// movement, then one dig and one place per press.
func (s *Session) HandleInput(im *input.Manager) {
	if im.JustPressed(input.ActionPause) {
		if s.paused {
			s.Resume()
		} else {
			s.Pause()
		}
	}
	if s.paused {
		return
	}
	if im.JustPressed(input.ActionRespawn) {
		s.Respawn()
	}

	s.SetInput(im.Movement())

	if im.JustPressed(input.ActionDig) {
		if _, at, err := s.Dig(); err != nil {
			s.log.Debug("dig rejected", zap.Ints("at", at[:]), zap.Error(err))
		}
	}
	if im.JustPressed(input.ActionPlace) {
		if at, err := s.Place(s.selected); err != nil {
			s.log.Debug("place rejected", zap.Ints("at", at[:]), zap.Error(err))
		}
	}
}

// Frame advances the session by delta seconds: the world window follows the
// actor first, then physics consumes the time. Physics waits while the
// actor's chunk is still generating.
func (s *Session) Frame(delta float64) {
	defer profiling.Track("game.Frame")()
	s.frames++
	s.substeps = 0
	if s.paused {
		return
	}

	s.world.Update(s.actor.Position)

	x, y, z := world.BlockCoord(s.actor.Position)
	cc, _ := s.world.WorldToChunk(x, y, z)
	if _, ok := s.world.Chunk(cc); !ok {
		if !s.waiting {
			s.log.Debug("waiting for chunk under actor", zap.Stringer("chunk", cc))
		}
		s.waiting = true
		return
	}
	s.waiting = false
	s.substeps = s.physics.Update(delta, s.actor, s.world)
}

// Pause freezes physics and streaming. Buffered physics time is dropped.
func (s *Session) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.physics.Pause()
	s.log.Info("session paused")
}

func (s *Session) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.physics.Resume()
	s.log.Info("session resumed")
}

// Respawn drops the actor above the highest ground block of the spawn
// column. Clouds are ignored; before the spawn chunk has generated the
// unedited surface height is used.
func (s *Session) Respawn() {
	probe := mgl64.Vec3{float64(s.spawnX), 0, float64(s.spawnZ)}
	s.world.Update(probe)

	ground := s.groundAt(s.spawnX, s.spawnZ)
	y := float64(ground) + 0.5 + s.actor.Height/2 + 0.5
	s.actor.Teleport(mgl64.Vec3{float64(s.spawnX), y, float64(s.spawnZ)})
	s.log.Info("actor spawned",
		zap.Int("x", s.spawnX), zap.Float64("y", y), zap.Int("z", s.spawnZ))
}

func (s *Session) groundAt(x, z int) int {
	y, _, err := s.world.TopSolid(x, z, block.Cloud)
	if err != nil {
		return s.world.SurfaceHeight(x, z)
	}
	return max(y, 0)
}

// Target casts the actor's view ray.
func (s *Session) Target() physics.RaycastResult {
	return physics.Raycast(s.actor.Eye(), s.actor.Look(),
		physics.MinReachDistance, physics.MaxReachDistance, s.world)
}

// Dig removes the block under the crosshair.
func (s *Session) Dig() (block.ID, [3]int, error) {
	t := s.Target()
	if !t.Hit {
		return block.Empty, [3]int{}, ErrNoTarget
	}
	p := t.HitPosition
	id, err := s.world.RemoveBlock(p[0], p[1], p[2])
	if err != nil {
		return block.Empty, p, err
	}
	s.log.Debug("dig", zap.Stringer("block", id), zap.Ints("at", p[:]))
	return id, p, nil
}

// Place puts id into the open cell in front of the targeted block.
func (s *Session) Place(id block.ID) ([3]int, error) {
	t := s.Target()
	if !t.Hit || !t.HasAdjacent {
		return [3]int{}, ErrNoTarget
	}
	p := t.AdjacentPosition

	probe := *s.actor
	if len(physics.NarrowPhase([][3]int{p}, &probe)) > 0 {
		return p, ErrBlockedByActor
	}
	if err := s.world.AddBlock(p[0], p[1], p[2], id); err != nil {
		return p, err
	}
	s.log.Debug("place", zap.Stringer("block", id), zap.Ints("at", p[:]))
	return p, nil
}

func (s *Session) Stats() Stats {
	return Stats{
		Frames:    s.frames,
		Substeps:  s.substeps,
		Chunks:    len(s.world.LoadedCoords()),
		Pending:   s.world.Pending(),
		Instances: s.world.InstanceCount(),
		Edits:     s.world.Overlay().Len(),
		Position:  s.actor.Position,
		OnGround:  s.actor.OnGround,
		Paused:    s.paused,
		Waiting:   s.waiting,
	}
}

// Fields renders stats as log fields.
func (st Stats) Fields() []zap.Field {
	return []zap.Field{
		zap.Uint64("frames", st.Frames),
		zap.Int("chunks", st.Chunks),
		zap.Int("pending", st.Pending),
		zap.Int("instances", st.Instances),
		zap.Int("edits", st.Edits),
		zap.Float64s("position", st.Position[:]),
		zap.Bool("onGround", st.OnGround),
		zap.Bool("paused", st.Paused),
	}
}

func (s *Session) Close() {
	s.world.Close()
}
