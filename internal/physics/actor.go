package physics

import (
	"math"

	"blockworld/internal/config"

	"github.com/go-gl/mathgl/mgl64"
)

// Input is the movement intent for the next sub-step. Forward and Right are
// in [-1, 1]; Jump is consumed when it takes effect.
type Input struct {
	Forward float64
	Right   float64
	Jump    bool
}

// Actor is a vertical cylinder standing in the voxel world. Position is the
// cylinder centre, so it spans Height/2 above and below it.
type Actor struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3 // world space
	Yaw      float64    // radians, 0 faces -Z
	Pitch    float64    // radians, positive looks up
	Input    Input
	OnGround bool

	Radius    float64
	Height    float64
	MaxSpeed  float64
	JumpSpeed float64
}

func NewActor(p config.ActorParams, pos mgl64.Vec3) *Actor {
	return &Actor{
		Position:  pos,
		Radius:    p.Radius,
		Height:    p.Height,
		MaxSpeed:  p.MaxSpeed,
		JumpSpeed: p.JumpSpeed,
	}
}

// Bottom is the world Y of the actor's feet.
func (a *Actor) Bottom() float64 {
	return a.Position[1] - a.Height/2
}

// Eye is the world position at the top of the cylinder.
func (a *Actor) Eye() mgl64.Vec3 {
	return a.Position.Add(mgl64.Vec3{0, a.Height / 2, 0})
}

// Forward is the horizontal unit vector the actor faces.
func (a *Actor) Forward() mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(a.Yaw), 0, -math.Cos(a.Yaw)}
}

// Right is the horizontal unit vector to the actor's right.
func (a *Actor) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(a.Yaw), 0, -math.Sin(a.Yaw)}
}

// Look is the unit view direction including pitch.
func (a *Actor) Look() mgl64.Vec3 {
	cp := math.Cos(a.Pitch)
	return mgl64.Vec3{-math.Sin(a.Yaw) * cp, math.Sin(a.Pitch), -math.Cos(a.Yaw) * cp}
}

// applyInputs sets horizontal velocity from the input, starts a jump when
// grounded and integrates the position over dt.
func (a *Actor) applyInputs(dt float64) {
	dir := a.Right().Mul(a.Input.Right).Add(a.Forward().Mul(a.Input.Forward))
	if l := dir.Len(); l > 1 {
		dir = dir.Mul(1 / l)
	}
	a.Velocity[0] = dir[0] * a.MaxSpeed
	a.Velocity[2] = dir[2] * a.MaxSpeed

	if a.OnGround && a.Input.Jump {
		a.Velocity[1] = a.JumpSpeed
		a.OnGround = false
		a.Input.Jump = false
	}

	a.Position = a.Position.Add(a.Velocity.Mul(dt))
}

// Teleport moves the actor and stops it.
func (a *Actor) Teleport(pos mgl64.Vec3) {
	a.Position = pos
	a.Velocity = mgl64.Vec3{}
	a.OnGround = false
}
