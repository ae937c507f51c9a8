package physics

import (
	"blockworld/internal/config"
	"blockworld/internal/metrics"
	"blockworld/internal/profiling"
)

// System advances actors at a fixed sub-step rate independent of the frame
// rate.
type System struct {
	gravity     float64
	step        float64
	accumulator float64
	paused      bool

	metrics *metrics.Collector
}

// NewSystem builds a system from the physics parameters. m may be nil.
func NewSystem(p config.PhysicsParams, m *metrics.Collector) *System {
	rate := p.SimulationRate
	if rate <= 0 {
		rate = 200
	}
	return &System{
		gravity: p.Gravity,
		step:    1 / float64(rate),
		metrics: m,
	}
}

// StepSize is the fixed sub-step in seconds.
func (s *System) StepSize() float64 { return s.step }

// Accumulator is the simulated time not yet consumed by a sub-step.
func (s *System) Accumulator() float64 { return s.accumulator }

func (s *System) Paused() bool { return s.paused }

// Pause stops simulation and drops buffered time so nothing is replayed on
// resume.
func (s *System) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.accumulator = 0
}

func (s *System) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.accumulator = 0
}

// Update adds delta seconds to the accumulator and runs as many whole
// sub-steps as fit. It returns the number of sub-steps run.
func (s *System) Update(delta float64, a *Actor, w BlockSource) int {
	if s.paused || delta <= 0 {
		return 0
	}
	defer profiling.Track("physics.Update")()

	s.accumulator += delta
	n := 0
	for s.accumulator >= s.step {
		s.Step(a, w)
		s.accumulator -= s.step
		n++
	}
	s.metrics.Substeps(n)
	return n
}

// Step runs one sub-step: gravity, input integration, collision detection
// and resolution, in that order.
func (s *System) Step(a *Actor, w BlockSource) []Collision {
	if !a.OnGround {
		a.Velocity[1] -= s.gravity * s.step
	} else if a.Velocity[1] < 0 {
		a.Velocity[1] = 0
	}

	a.applyInputs(s.step)

	a.OnGround = false
	collisions := NarrowPhase(BroadPhase(a, w), a)
	if len(collisions) > 0 {
		Resolve(collisions, a)
	}
	return collisions
}
