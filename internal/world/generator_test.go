package world

import (
	"crypto/sha256"
	"math"
	"testing"

	"blockworld/internal/block"
	"blockworld/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainConfig generates dirt and grass only: no water, trees, clouds,
// variation or reachable resources.
func plainConfig(w, h, d int) *config.Config {
	cfg := config.Preset(config.PresetLow)
	cfg.World.Seed = 3608
	cfg.Chunk = config.ChunkSize{Width: w, Height: h, Depth: d}
	cfg.World.Terrain.WaterOffset = 0
	cfg.Resources = config.ResourceSet{
		"stone": {Scale: config.Vec3{X: 10, Y: 10, Z: 10}, Scarcity: 1.1},
	}
	cfg.Trees.Frequency = 0
	cfg.Clouds.Density = 0
	cfg.Seasons["summer"] = config.Season{VariationThreshold: 1, VariationHeight: 0}
	return cfg
}

func generate(t testing.TB, cfg *config.Config, cc ChunkCoord) *Chunk {
	t.Helper()
	g, err := NewGenerator(cfg)
	require.NoError(t, err)
	c := NewChunk(cc, cfg.Chunk)
	g.Generate(c, nil)
	return c
}

// hashChunkBlocks computes a SHA-256 hash of all block ids in a chunk
func hashChunkBlocks(c *Chunk) [32]byte {
	h := sha256.New()
	c.Cells(func(_, _, _ int, cell Cell) {
		h.Write([]byte{byte(cell.ID)})
	})
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestPlainTerrainColumns(t *testing.T) {
	cfg := plainConfig(4, 4, 4)
	g, err := NewGenerator(cfg)
	require.NoError(t, err)

	c := NewChunk(ChunkCoord{}, cfg.Chunk)
	g.Generate(c, nil)

	for x := range 4 {
		for z := range 4 {
			h := g.HeightAt(x, z)
			require.GreaterOrEqual(t, h, 0)
			require.Less(t, h, 4)
			for y := range 4 {
				cell, _ := c.GetBlock(x, y, z)
				switch {
				case y == 0:
					assert.Equal(t, block.Bedrock, cell.ID, "floor at (%d,%d)", x, z)
				case y < h:
					assert.Equal(t, block.Dirt, cell.ID, "fill at (%d,%d,%d)", x, y, z)
				case y == h:
					assert.Equal(t, block.Grass, cell.ID, "surface at (%d,%d,%d)", x, y, z)
				default:
					assert.Equal(t, block.Empty, cell.ID, "air at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
	checkInstances(t, c)
}

func TestHeightClamped(t *testing.T) {
	cfg := plainConfig(8, 8, 8)
	cfg.World.Terrain.Offset = 3
	g, err := NewGenerator(cfg)
	require.NoError(t, err)
	assert.Equal(t, 7, g.HeightAt(11, -4))

	cfg.World.Terrain.Offset = -3
	g, err = NewGenerator(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, g.HeightAt(11, -4))
}

func TestGenerationDeterministic(t *testing.T) {
	cfg := config.Preset(config.PresetLow)
	cfg.World.Seed = 12345
	cfg.Trees.Frequency = 0.2
	cfg.Clouds.Density = 0.5

	for _, cc := range []ChunkCoord{{0, 0}, {-3, 2}, {7, -9}} {
		a := generate(t, cfg, cc)
		b := generate(t, cfg, cc)
		assert.Equal(t, hashChunkBlocks(a), hashChunkBlocks(b), "chunk %v", cc)
	}

	other := cfg.Clone()
	other.World.Seed = 54321
	assert.NotEqual(t,
		hashChunkBlocks(generate(t, cfg, ChunkCoord{})),
		hashChunkBlocks(generate(t, other, ChunkCoord{})))
}

func TestValueNoiseBackend(t *testing.T) {
	cfg := config.Preset(config.PresetLow)
	cfg.Noise.Kind = "value"
	a := generate(t, cfg, ChunkCoord{X: 1, Z: 1})
	b := generate(t, cfg, ChunkCoord{X: 1, Z: 1})
	assert.Equal(t, hashChunkBlocks(a), hashChunkBlocks(b))

	cfg.Noise.Kind = "simplex"
	_, err := NewGenerator(cfg)
	assert.Error(t, err)
}

func TestUnknownResourceRejected(t *testing.T) {
	cfg := plainConfig(4, 4, 4)
	cfg.Resources["dirt"] = config.ResourceParams{Scale: config.Vec3{X: 1, Y: 1, Z: 1}, Scarcity: 0}
	_, err := NewGenerator(cfg)
	assert.Error(t, err)
}

func TestResourcesFirstMatchWins(t *testing.T) {
	cfg := plainConfig(6, 8, 6)
	cfg.World.Terrain.Offset = 2 // every column reaches the top
	cfg.Resources = config.ResourceSet{
		"coalOre": {Scale: config.Vec3{X: 7, Y: 7, Z: 7}, Scarcity: -2},
		"goldOre": {Scale: config.Vec3{X: 7, Y: 7, Z: 7}, Scarcity: -2},
	}
	c := generate(t, cfg, ChunkCoord{})

	for x := range 6 {
		for z := range 6 {
			for y := 1; y < 7; y++ {
				cell, _ := c.GetBlock(x, y, z)
				require.Equal(t, block.CoalOre, cell.ID, "(%d,%d,%d)", x, y, z)
			}
			top, _ := c.GetBlock(x, 7, z)
			assert.Equal(t, block.Grass, top.ID)
		}
	}
}

func TestBeachSand(t *testing.T) {
	cfg := plainConfig(4, 8, 4)
	cfg.World.Terrain.WaterOffset = 2 // everything is under the water line
	c := generate(t, cfg, ChunkCoord{})

	c.Cells(func(x, y, z int, cell Cell) {
		if y == 0 || cell.ID.IsEmpty() {
			return
		}
		assert.Equal(t, block.Sand, cell.ID, "(%d,%d,%d)", x, y, z)
	})
}

func TestWinterVariation(t *testing.T) {
	cfg := plainConfig(8, 8, 8)
	cfg.World.Terrain.Offset = 0.6
	cfg.World.Terrain.Magnitude = 0.1
	cfg.Season = "winter"
	c := generate(t, cfg, ChunkCoord{})

	// threshold 0 turns almost every surface block into the variation kind
	variation := 0
	for x := range 8 {
		for z := range 8 {
			for y := 7; y > 0; y-- {
				cell, _ := c.GetBlock(x, y, z)
				if cell.ID.IsEmpty() {
					continue
				}
				if cell.ID == block.GrassVariation {
					variation++
				}
				break
			}
		}
	}
	assert.Greater(t, variation, 56)
}

func TestTreesAndClouds(t *testing.T) {
	cfg := plainConfig(16, 24, 16)
	cfg.World.Terrain.Offset = 0.3
	cfg.World.Terrain.Magnitude = 0.05
	cfg.Trees = config.TreeParams{
		Frequency:   1,
		TrunkHeight: config.IntRange{Min: 3, Max: 3},
		Canopy:      config.CanopyParams{Size: config.IntRange{Min: 2, Max: 2}, Density: 1},
		MinDistance: 4,
	}
	cfg.Clouds = config.CloudParams{Density: 1, Scale: 10}
	c := generate(t, cfg, ChunkCoord{})

	trunks := map[[2]int]bool{}
	leaves := 0
	c.Cells(func(x, y, z int, cell Cell) {
		switch cell.ID {
		case block.Tree:
			trunks[[2]int{x, z}] = true
		case block.Leaves:
			leaves++
		}
	})
	require.NotEmpty(t, trunks)
	assert.Positive(t, leaves)

	for a := range trunks {
		assert.GreaterOrEqual(t, a[0], 2)
		assert.Less(t, a[0], 14)
		for b := range trunks {
			if a == b {
				continue
			}
			far := abs(a[0]-b[0]) > 4 || abs(a[1]-b[1]) > 4
			assert.True(t, far, "trunks %v and %v too close", a, b)
		}
	}

	for x := range 16 {
		for z := range 16 {
			cell, _ := c.GetBlock(x, 23, z)
			assert.Equal(t, block.Cloud, cell.ID)
		}
	}
	checkInstances(t, c)
}

func TestEditsReplayLast(t *testing.T) {
	cfg := plainConfig(4, 4, 4)
	g, err := NewGenerator(cfg)
	require.NoError(t, err)

	edits := map[LocalCoord]block.ID{
		{X: 1, Y: 0, Z: 1}: block.Empty,
		{X: 2, Y: 3, Z: 2}: block.GoldOre,
		{X: 9, Y: 0, Z: 0}: block.Dirt, // outside the chunk, ignored
	}
	c := NewChunk(ChunkCoord{}, cfg.Chunk)
	g.Generate(c, edits)

	cell, _ := c.GetBlock(1, 0, 1)
	assert.Equal(t, block.Empty, cell.ID)
	cell, _ = c.GetBlock(2, 3, 2)
	assert.Equal(t, block.GoldOre, cell.ID)
	assert.NotEqual(t, NoSlot, cell.Slot)
	checkInstances(t, c)
}

func TestTreeChanceIsCoherent(t *testing.T) {
	for _, kind := range []string{"perlin", "value"} {
		cfg := plainConfig(8, 8, 8)
		cfg.Noise.Kind = kind
		g, err := NewGenerator(cfg)
		require.NoError(t, err)
		again, err := NewGenerator(cfg)
		require.NoError(t, err)

		var step float64
		n := 0
		for x := -32; x < 32; x++ {
			for z := -4; z < 4; z++ {
				v := g.TreeChance(x, z)
				require.GreaterOrEqual(t, v, 0.0)
				require.LessOrEqual(t, v, 1.0)
				require.Equal(t, v, again.TreeChance(x, z))
				step += math.Abs(g.TreeChance(x+1, z) - v)
				n++
			}
		}
		// neighbouring columns see nearly the same chance, so trees cluster
		assert.Less(t, step/float64(n), 0.15, kind)
	}
}

func BenchmarkGenerate(b *testing.B) {
	cfg := config.Default()
	g, err := NewGenerator(cfg)
	require.NoError(b, err)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := NewChunk(ChunkCoord{X: i % 7, Z: i % 5}, cfg.Chunk)
		g.Generate(c, nil)
	}
}
