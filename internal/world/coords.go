package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ChunkCoord addresses a chunk on the horizontal chunk grid.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// LocalCoord addresses a voxel inside a chunk.
type LocalCoord struct {
	X, Y, Z int
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// ChunkOf returns the chunk containing world column (x, z).
func ChunkOf(x, z, width, depth int) ChunkCoord {
	return ChunkCoord{X: floorDiv(x, width), Z: floorDiv(z, depth)}
}

// BlockCoord converts a continuous world position to the integer block that
// contains it. Blocks are centred on integer coordinates.
func BlockCoord(p mgl64.Vec3) (x, y, z int) {
	return int(math.Floor(p[0] + 0.5)), int(math.Floor(p[1] + 0.5)), int(math.Floor(p[2] + 0.5))
}

// neighbours lists the six face-adjacent offsets.
var neighbours = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}
