package world

import (
	"fmt"
	"math"
	"math/rand/v2"

	"blockworld/internal/block"
	"blockworld/internal/config"
	"blockworld/internal/noise"
	"blockworld/internal/profiling"
)

// Seed salts, one per generation pass.
const (
	saltTerrain = iota + 1
	saltClouds
	saltTrees
	saltVariation
	saltResources = 100
)

type vein struct {
	id       block.ID
	scale    config.Vec3
	scarcity float64
	src      noise.Source
}

// Generator turns world parameters and a seed into chunk contents. It holds
// no mutable state after construction and may be shared by workers.
type Generator struct {
	seed    int64
	size    config.ChunkSize
	terrain config.TerrainParams
	trees   config.TreeParams
	clouds  config.CloudParams
	season  config.Season

	heightNoise noise.Source
	cloudNoise  noise.Source
	treeNoise   noise.Source
	veins       []vein

	treeSeed      int64
	variationSeed int64
	waterHeight   int
}

// NewGenerator builds a generator from cfg. Resources are placed in the
// block registry order so the first matching vein wins.
func NewGenerator(cfg *config.Config) (*Generator, error) {
	seed := cfg.World.Seed
	kind := cfg.Noise.Kind

	heightNoise, err := noise.New(kind, noise.Derive(seed, saltTerrain))
	if err != nil {
		return nil, fmt.Errorf("world: terrain noise: %w", err)
	}
	cloudNoise, err := noise.New(kind, noise.Derive(seed, saltClouds))
	if err != nil {
		return nil, fmt.Errorf("world: cloud noise: %w", err)
	}
	treeNoise, err := noise.New(kind, noise.Derive(seed, saltTrees))
	if err != nil {
		return nil, fmt.Errorf("world: tree noise: %w", err)
	}

	g := &Generator{
		seed:          seed,
		size:          cfg.Chunk,
		terrain:       cfg.World.Terrain,
		trees:         cfg.Trees,
		clouds:        cfg.Clouds,
		season:        cfg.ActiveSeason(),
		heightNoise:   heightNoise,
		cloudNoise:    cloudNoise,
		treeNoise:     treeNoise,
		treeSeed:      noise.Derive(seed, saltTrees),
		variationSeed: noise.Derive(seed, saltVariation),
		waterHeight:   int(math.Floor(cfg.World.Terrain.WaterOffset * float64(cfg.Chunk.Height))),
	}

	for name := range cfg.Resources {
		id, ok := block.ByName(name)
		if k, _ := block.Lookup(id); !ok || !k.IsResource {
			return nil, fmt.Errorf("world: %q is not a resource block", name)
		}
	}
	for i, id := range block.Resources() {
		r, ok := cfg.Resources[id.String()]
		if !ok {
			continue
		}
		src, err := noise.New(kind, noise.Derive(seed, saltResources+uint64(i)))
		if err != nil {
			return nil, fmt.Errorf("world: resource noise: %w", err)
		}
		g.veins = append(g.veins, vein{id: id, scale: r.Scale, scarcity: r.Scarcity, src: src})
	}
	return g, nil
}

// Seed returns the world seed the generator was built with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// HeightAt computes the surface height (block Y) of world column (x, z),
// clamped to the chunk height.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.heightNoise.Noise2D(float64(worldX)/g.terrain.Scale, float64(worldZ)/g.terrain.Scale)
	h := math.Floor(float64(g.size.Height) * (g.terrain.Offset + g.terrain.Magnitude*n))
	if math.IsNaN(h) {
		return 0
	}
	return max(0, min(int(h), g.size.Height-1))
}

// columnMap holds surface heights for a chunk plus a border of r columns.
type columnMap struct {
	r, w    int
	heights []int
}

func (m *columnMap) at(x, z int) int {
	return m.heights[(x+m.r)*m.w+(z+m.r)]
}

func (g *Generator) heightMap(ox, oz int) *columnMap {
	r := g.terrain.BeachRadius
	m := &columnMap{r: r, w: g.size.Depth + 2*r}
	m.heights = make([]int, (g.size.Width+2*r)*m.w)
	for x := -r; x < g.size.Width+r; x++ {
		for z := -r; z < g.size.Depth+r; z++ {
			m.heights[(x+r)*m.w+(z+r)] = g.HeightAt(ox+x, oz+z)
		}
	}
	return m
}

// nearWater reports whether any column within the beach radius lies below
// the water line.
func (g *Generator) nearWater(m *columnMap, x, z int) bool {
	r := g.terrain.BeachRadius
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if m.at(x+dx, z+dz) < g.waterHeight {
				return true
			}
		}
	}
	return false
}

// Generate fills c from scratch and replays edits over it, then builds the
// instance tables. It returns the live instance count. The chunk is not
// marked generated; its owner does that when installing it.
func (g *Generator) Generate(c *Chunk, edits map[LocalCoord]block.ID) int {
	defer profiling.Track("world.Generate")()

	ox, oz := c.Origin()
	heights := g.heightMap(ox, oz)

	g.placeResources(c, ox, oz, heights)
	g.fillColumns(c, ox, oz, heights)
	g.placeTrees(c, ox, oz, heights)
	g.placeClouds(c, ox, oz)

	for lc, id := range edits {
		c.SetBlockID(lc.X, lc.Y, lc.Z, id)
	}
	return c.BuildInstances()
}

// placeResources only samples below the surface: the fill pass overwrites
// the surface and clears everything above it.
func (g *Generator) placeResources(c *Chunk, ox, oz int, m *columnMap) {
	if len(g.veins) == 0 {
		return
	}
	for x := range g.size.Width {
		for z := range g.size.Depth {
			h := m.at(x, z)
			for y := 0; y < h; y++ {
				for _, v := range g.veins {
					s := v.src.Noise3D(
						float64(ox+x)/v.scale.X,
						float64(y)/v.scale.Y,
						float64(oz+z)/v.scale.Z,
					)
					if s > v.scarcity {
						c.SetBlockID(x, y, z, v.id)
						break
					}
				}
			}
		}
	}
}

func (g *Generator) fillColumns(c *Chunk, ox, oz int, m *columnMap) {
	for x := range g.size.Width {
		for z := range g.size.Depth {
			h := m.at(x, z)
			beach := g.nearWater(m, x, z)

			fill, top := block.Dirt, block.Grass
			if beach {
				fill, top = block.Sand, block.Sand
			}
			for y := 0; y < h; y++ {
				if cell, _ := c.GetBlock(x, y, z); cell.ID.IsEmpty() {
					c.SetBlockID(x, y, z, fill)
				}
			}
			c.SetBlockID(x, h, z, top)
			for y := h + 1; y < g.size.Height; y++ {
				c.SetBlockID(x, y, z, block.Empty)
			}

			c.SetBlockID(x, 0, z, block.Bedrock)

			if h > 0 && top == block.Grass &&
				noise.Unit2(g.variationSeed, ox+x, oz+z) > g.season.VariationThreshold &&
				float64(h) > g.season.VariationHeight {
				c.SetBlockID(x, h, z, block.GrassVariation)
			}
		}
	}
}

func (g *Generator) chunkRNG(c ChunkCoord) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(g.treeSeed), uint64(c.X)*341873128712+uint64(c.Z)*132897987541))
}

// treeScale is the tree noise frequency in cycles per block, so groves span
// a few blocks.
const treeScale = 1.0 / 8

// TreeChance is the coherent tree noise at column (x, z) in [0, 1]. A column
// may carry a trunk when it exceeds 1 - frequency.
func (g *Generator) TreeChance(x, z int) float64 {
	n := g.treeNoise.Noise2D(float64(x)*treeScale, float64(z)*treeScale)
	return (n + 1) / 2
}

func (g *Generator) placeTrees(c *Chunk, ox, oz int, m *columnMap) {
	if g.trees.Frequency <= 0 {
		return
	}
	rng := g.chunkRNG(c.Coord)
	margin := g.trees.Canopy.Size.Max

	for x := margin; x < g.size.Width-margin; x++ {
		for z := margin; z < g.size.Depth-margin; z++ {
			if g.TreeChance(ox+x, oz+z) <= 1-g.trees.Frequency {
				continue
			}
			h := m.at(x, z)
			surface, _ := c.GetBlock(x, h, z)
			if surface.ID != block.Grass && surface.ID != block.GrassVariation {
				continue
			}
			if g.trunkNearby(c, x, z) {
				continue
			}
			g.placeTree(c, x, h, z, rng)
		}
	}
}

func (g *Generator) trunkNearby(c *Chunk, x, z int) bool {
	d := g.trees.MinDistance
	for dx := -d; dx <= d; dx++ {
		for dz := -d; dz <= d; dz++ {
			for y := range g.size.Height {
				if cell, ok := c.GetBlock(x+dx, y, z+dz); ok && cell.ID == block.Tree {
					return true
				}
			}
		}
	}
	return false
}

func (g *Generator) placeTree(c *Chunk, x, surface, z int, rng *rand.Rand) {
	tr := g.trees.TrunkHeight
	trunk := tr.Min + rng.IntN(tr.Max-tr.Min+1)
	top := surface + trunk
	for y := surface + 1; y <= top; y++ {
		if cell, ok := c.GetBlock(x, y, z); ok && cell.ID.IsEmpty() {
			c.SetBlockID(x, y, z, block.Tree)
		}
	}

	cs := g.trees.Canopy.Size
	r := cs.Min + rng.IntN(cs.Max-cs.Min+1)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				if dx*dx+dy*dy+dz*dz > r*r {
					continue
				}
				cell, ok := c.GetBlock(x+dx, top+dy, z+dz)
				if !ok || !cell.ID.IsEmpty() {
					continue
				}
				if rng.Float64() < g.trees.Canopy.Density {
					c.SetBlockID(x+dx, top+dy, z+dz, block.Leaves)
				}
			}
		}
	}
}

func (g *Generator) placeClouds(c *Chunk, ox, oz int) {
	if g.clouds.Density <= 0 {
		return
	}
	y := g.size.Height - 1
	for x := range g.size.Width {
		for z := range g.size.Depth {
			n := g.cloudNoise.Noise2D(float64(ox+x)/g.clouds.Scale, float64(oz+z)/g.clouds.Scale)
			if (n+1)/2 <= 1-g.clouds.Density {
				continue
			}
			if cell, _ := c.GetBlock(x, y, z); cell.ID.IsEmpty() {
				c.SetBlockID(x, y, z, block.Cloud)
			}
		}
	}
}
