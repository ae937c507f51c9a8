package config

import "strings"

const (
	PresetLow      = "low"
	PresetModerate = "moderate"
	PresetHigh     = "high"
	PresetUltra    = "ultra"
)

type preset struct {
	scale          float64
	maxBuildHeight int
	chunk          ChunkSize
	drawDistance   int
}

var presets = map[string]preset{
	PresetLow:      {scale: 30, maxBuildHeight: 16, chunk: ChunkSize{16, 8, 16}, drawDistance: 2},
	PresetModerate: {scale: 60, maxBuildHeight: 32, chunk: ChunkSize{32, 16, 32}, drawDistance: 3},
	PresetHigh:     {scale: 60, maxBuildHeight: 32, chunk: ChunkSize{32, 16, 32}, drawDistance: 4},
	PresetUltra:    {scale: 120, maxBuildHeight: 128, chunk: ChunkSize{128, 64, 128}, drawDistance: 4},
}

// PresetNames lists the quality presets from smallest to largest.
func PresetNames() []string {
	return []string{PresetLow, PresetModerate, PresetHigh, PresetUltra}
}

// Default returns the moderate preset.
func Default() *Config {
	return Preset(PresetModerate)
}

// Preset builds the named quality preset. Unknown names fall back to
// moderate.
func Preset(name string) *Config {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		p = presets[PresetModerate]
	}

	const offset = 0.7
	cfg := &Config{
		World: WorldParams{
			Seed: 0,
			Terrain: TerrainParams{
				Scale:       p.scale,
				Magnitude:   0.5,
				Offset:      offset,
				WaterOffset: 0.4,
				BeachRadius: 2,
			},
		},
		Chunk:        p.chunk,
		DrawDistance: p.drawDistance,
		Noise:        NoiseSettings{Kind: "perlin"},
		Resources: ResourceSet{
			"stone":   {Scale: Vec3{52, 35, 40}, Scarcity: 0.59},
			"coalOre": {Scale: Vec3{45, 30, 42}, Scarcity: 0.6},
			"ironOre": {Scale: Vec3{18.9, 54.2, 41}, Scarcity: 0.85},
			"goldOre": {Scale: Vec3{50, 55, 52}, Scarcity: 0.92},
		},
		Trees: TreeParams{
			Frequency:   0.35,
			TrunkHeight: IntRange{Min: 3, Max: 5},
			Canopy:      CanopyParams{Size: IntRange{Min: 2, Max: 3}, Density: 0.6},
			MinDistance: 4,
		},
		Clouds: CloudParams{Density: 0.3, Scale: 30},
		Season: "summer",
		Seasons: map[string]Season{
			"summer": {VariationThreshold: 0.8, VariationHeight: float64(p.chunk.Height) * offset, VariationTexture: "grassVariation"},
			"autumn": {VariationThreshold: 0.8, VariationHeight: float64(p.chunk.Height) * offset, VariationTexture: "autumnGrassVariation"},
			"winter": {VariationThreshold: 0, VariationHeight: 0, VariationTexture: "winterGrass"},
		},
		Limits: Limits{MaxBuildHeight: p.maxBuildHeight, MinMiningDepth: 0},
		Physics: PhysicsParams{
			Gravity:        9.81 * 3.28,
			SimulationRate: 200,
			MaxFrameDelta:  0.1,
		},
		Actor: ActorParams{Radius: 0.5, Height: 1.75, MaxSpeed: 10, JumpSpeed: 10},
		Streaming: StreamingParams{
			Mode:    StreamSync,
			Workers: 2,
		},
	}
	return cfg
}

// MemoryEstimate is a rough sizing of the loaded voxel window.
type MemoryEstimate struct {
	BlocksPerChunk int
	TotalChunks    int
	TotalBlocks    int
	MegaBytes      float64
}

// EstimateMemory sizes the voxel window at 8 bytes per block.
func (c *Config) EstimateMemory() MemoryEstimate {
	side := 2*c.DrawDistance + 1
	perChunk := c.Chunk.Volume()
	est := MemoryEstimate{
		BlocksPerChunk: perChunk,
		TotalChunks:    side * side,
	}
	est.TotalBlocks = est.BlocksPerChunk * est.TotalChunks
	est.MegaBytes = float64(est.TotalBlocks*8) / (1024 * 1024)
	return est
}
