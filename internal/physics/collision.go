package physics

import (
	"errors"
	"math"
	"slices"

	"blockworld/internal/block"
	"blockworld/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// BlockSource answers block occupancy queries in world coordinates.
// *world.Manager implements it.
type BlockSource interface {
	BlockAt(x, y, z int) (block.ID, error)
}

// contactEpsilon keeps a resting actor in contact with the floor it was just
// pushed onto despite rounding.
const contactEpsilon = 1e-6

// occupied treats unloaded chunks as walls so the actor cannot fall into
// terrain that has not been generated yet. Heights outside the world column
// are open.
func occupied(w BlockSource, x, y, z int) bool {
	id, err := w.BlockAt(x, y, z)
	switch {
	case err == nil:
		return !id.IsEmpty()
	case errors.Is(err, world.ErrChunkNotLoaded):
		return true
	default:
		return false
	}
}

// Collision is one actor/block contact.
type Collision struct {
	Block   [3]int
	Contact mgl64.Vec3 // closest point of the block to the actor axis
	Normal  mgl64.Vec3 // unit push-out direction
	Overlap float64
}

// BroadPhase lists occupied blocks that may touch the actor's bounding box.
func BroadPhase(a *Actor, w BlockSource) [][3]int {
	p := a.Position
	minX, maxX := int(math.Floor(p[0]-a.Radius)), int(math.Ceil(p[0]+a.Radius))
	minY, maxY := int(math.Floor(p[1]-a.Height/2)), int(math.Ceil(p[1]+a.Height/2))
	minZ, maxZ := int(math.Floor(p[2]-a.Radius)), int(math.Ceil(p[2]+a.Radius))

	var out [][3]int
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if occupied(w, x, y, z) {
					out = append(out, [3]int{x, y, z})
				}
			}
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// closestPoint returns the point of the unit cube centred at b closest to
// the actor centre.
func closestPoint(a *Actor, b [3]int) mgl64.Vec3 {
	p := a.Position
	return mgl64.Vec3{
		clamp(p[0], float64(b[0])-0.5, float64(b[0])+0.5),
		clamp(p[1], float64(b[1])-0.5, float64(b[1])+0.5),
		clamp(p[2], float64(b[2])-0.5, float64(b[2])+0.5),
	}
}

// inCylinder reports whether q lies inside the actor's cylinder.
func inCylinder(a *Actor, q mgl64.Vec3) bool {
	d := q.Sub(a.Position)
	return math.Abs(d[1]) <= a.Height/2+contactEpsilon && d[0]*d[0]+d[2]*d[2] < a.Radius*a.Radius
}

// NarrowPhase tests each candidate cube against the actor cylinder and
// returns the contacts. Contacts resolved upwards set OnGround.
func NarrowPhase(candidates [][3]int, a *Actor) []Collision {
	var out []Collision
	for _, b := range candidates {
		cp := closestPoint(a, b)
		if !inCylinder(a, cp) {
			continue
		}
		d := cp.Sub(a.Position)
		radial := math.Hypot(d[0], d[2])
		overlapY := a.Height/2 - math.Abs(d[1])
		overlapXZ := a.Radius - radial

		c := Collision{Block: b, Contact: cp}
		if overlapY < overlapXZ || radial == 0 {
			// block below pushes up, block above pushes down
			ny := 1.0
			if d[1] > 0 {
				ny = -1
			}
			c.Normal = mgl64.Vec3{0, ny, 0}
			c.Overlap = overlapY
			if ny > 0 {
				a.OnGround = true
			}
		} else {
			c.Normal = mgl64.Vec3{-d[0] / radial, 0, -d[2] / radial}
			c.Overlap = overlapXZ
		}
		out = append(out, c)
	}
	return out
}

// Resolve pushes the actor out of each contact, least penetrating first, and
// cancels its velocity along the contact normal. Each push uses the depth
// left after the earlier ones, so contacts sharing a face move the actor once.
func Resolve(collisions []Collision, a *Actor) {
	slices.SortFunc(collisions, func(x, y Collision) int {
		switch {
		case x.Overlap < y.Overlap:
			return -1
		case x.Overlap > y.Overlap:
			return 1
		}
		return 0
	})

	for _, c := range collisions {
		depth, ok := penetration(a, c)
		if !ok {
			continue
		}
		if depth > 0 {
			a.Position = a.Position.Add(c.Normal.Mul(depth))
		}
		a.Velocity = a.Velocity.Sub(c.Normal.Mul(a.Velocity.Dot(c.Normal)))
	}
}

// penetration measures how deep the actor still sits in c's block along
// c.Normal from its current position. ok is false once an earlier push has
// moved the actor out of contact; a resting contact reports ok with a depth
// of zero or just below.
func penetration(a *Actor, c Collision) (depth float64, ok bool) {
	cp := closestPoint(a, c.Block)
	if !inCylinder(a, cp) {
		return 0, false
	}
	d := cp.Sub(a.Position)
	if c.Normal[1] != 0 {
		return a.Height/2 - math.Abs(d[1]), true
	}
	return a.Radius - math.Hypot(d[0], d[2]), true
}
