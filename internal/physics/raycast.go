package physics

import (
	"errors"

	"blockworld/internal/profiling"
	"blockworld/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0

	rayStep = 0.02
)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int // last open block before the hit
	HasAdjacent      bool
	Distance         float64
	Hit              bool
}

// Raycast marches from start along direction in small steps and reports
// the first occupied block. Unloaded chunks end the ray without a hit.
func Raycast(start, direction mgl64.Vec3, minDist, maxDist float64, w BlockSource) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	dir := direction
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	} else {
		return RaycastResult{}
	}

	steps := int(maxDist / rayStep)
	var result RaycastResult

	for i := 0; i <= steps; i++ {
		dist := float64(i) * rayStep
		if dist < minDist {
			continue
		}

		x, y, z := world.BlockCoord(start.Add(dir.Mul(dist)))
		pos := [3]int{x, y, z}
		if result.HasAdjacent && pos == result.AdjacentPosition {
			continue
		}

		id, err := w.BlockAt(x, y, z)
		if errors.Is(err, world.ErrChunkNotLoaded) {
			return RaycastResult{}
		}
		if err == nil && !id.IsEmpty() {
			result.HitPosition = pos
			result.Distance = dist
			result.Hit = true
			return result
		}

		result.AdjacentPosition = pos
		result.HasAdjacent = true
	}

	return RaycastResult{}
}
