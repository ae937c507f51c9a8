package config

import (
	"errors"
	"fmt"
	"math"
)

// Config holds every tunable of the voxel world. Components copy the parts
// they need at construction time; runtime changes go through
// world.Manager.Reconfigure.
type Config struct {
	World        WorldParams       `yaml:"world"`
	Chunk        ChunkSize         `yaml:"chunk"`
	DrawDistance int               `yaml:"drawDistance"` // in chunks
	Noise        NoiseSettings     `yaml:"noise"`
	Resources    ResourceSet       `yaml:"resources"`
	Trees        TreeParams        `yaml:"trees"`
	Clouds       CloudParams       `yaml:"clouds"`
	Season       string            `yaml:"season"`
	Seasons      map[string]Season `yaml:"seasons"`
	Limits       Limits            `yaml:"limits"`
	Physics      PhysicsParams     `yaml:"physics"`
	Actor        ActorParams       `yaml:"actor"`
	Streaming    StreamingParams   `yaml:"streaming"`
}

type WorldParams struct {
	Seed    int64         `yaml:"seed"`
	Terrain TerrainParams `yaml:"terrain"`
}

type TerrainParams struct {
	Scale       float64 `yaml:"scale"`
	Magnitude   float64 `yaml:"magnitude"`
	Offset      float64 `yaml:"offset"`
	WaterOffset float64 `yaml:"waterOffset"`
	// BeachRadius is how many columns around water get sand instead of
	// dirt and grass.
	BeachRadius int `yaml:"beachRadius"`
}

type ChunkSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Depth  int `yaml:"depth"`
}

// Volume is the number of voxels in one chunk.
func (c ChunkSize) Volume() int {
	return c.Width * c.Height * c.Depth
}

type NoiseSettings struct {
	Kind string `yaml:"kind"` // perlin or value
}

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type ResourceParams struct {
	Scale    Vec3    `yaml:"scale"`
	Scarcity float64 `yaml:"scarcity"`
}

// ResourceSet maps resource block names (stone, coalOre, ...) to vein
// parameters.
type ResourceSet map[string]ResourceParams

type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type CanopyParams struct {
	Size    IntRange `yaml:"size"`
	Density float64  `yaml:"density"`
}

type TreeParams struct {
	Frequency   float64      `yaml:"frequency"`
	TrunkHeight IntRange     `yaml:"trunkHeight"`
	Canopy      CanopyParams `yaml:"canopy"`
	MinDistance int          `yaml:"minDistance"`
}

type CloudParams struct {
	Density float64 `yaml:"density"`
	Scale   float64 `yaml:"scale"`
}

// Season controls the grass variation pass.
type Season struct {
	VariationThreshold float64 `yaml:"variationThreshold"`
	VariationHeight    float64 `yaml:"variationHeight"`
	VariationTexture   string  `yaml:"variationTexture"`
}

type Limits struct {
	MaxBuildHeight int `yaml:"maxBuildHeight"`
	MinMiningDepth int `yaml:"minMiningDepth"`
}

type PhysicsParams struct {
	Gravity        float64 `yaml:"gravity"`
	SimulationRate int     `yaml:"simulationRate"`
	MaxFrameDelta  float64 `yaml:"maxFrameDelta"` // seconds
}

type ActorParams struct {
	Radius    float64 `yaml:"radius"`
	Height    float64 `yaml:"height"`
	MaxSpeed  float64 `yaml:"maxSpeed"`
	JumpSpeed float64 `yaml:"jumpSpeed"`
}

const (
	StreamSync     = "sync"
	StreamDeferred = "deferred"
)

type StreamingParams struct {
	Mode    string `yaml:"mode"`
	Workers int    `yaml:"workers"`
}

// ActiveSeason returns the selected season, falling back to summer.
func (c *Config) ActiveSeason() Season {
	if s, ok := c.Seasons[c.Season]; ok {
		return s
	}
	return c.Seasons["summer"]
}

// Clone returns a deep copy so callers can tweak it without aliasing maps.
func (c *Config) Clone() *Config {
	out := *c
	out.Resources = make(ResourceSet, len(c.Resources))
	for k, v := range c.Resources {
		out.Resources[k] = v
	}
	out.Seasons = make(map[string]Season, len(c.Seasons))
	for k, v := range c.Seasons {
		out.Seasons[k] = v
	}
	return &out
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Chunk.Width >= 1 && c.Chunk.Height >= 2 && c.Chunk.Depth >= 1,
		"chunk: invalid size %dx%dx%d", c.Chunk.Width, c.Chunk.Height, c.Chunk.Depth)
	check(c.DrawDistance >= 0, "drawDistance: must be >= 0, got %d", c.DrawDistance)
	check(c.World.Terrain.Scale > 0, "world.terrain.scale: must be > 0")
	check(c.World.Terrain.BeachRadius >= 0, "world.terrain.beachRadius: must be >= 0")
	for name, r := range c.Resources {
		check(r.Scale.X > 0 && r.Scale.Y > 0 && r.Scale.Z > 0, "resources.%s.scale: components must be > 0", name)
		check(!math.IsNaN(r.Scarcity), "resources.%s.scarcity: NaN", name)
	}
	check(c.Trees.TrunkHeight.Min >= 0 && c.Trees.TrunkHeight.Min <= c.Trees.TrunkHeight.Max,
		"trees.trunkHeight: invalid range [%d,%d]", c.Trees.TrunkHeight.Min, c.Trees.TrunkHeight.Max)
	check(c.Trees.Canopy.Size.Min >= 0 && c.Trees.Canopy.Size.Min <= c.Trees.Canopy.Size.Max,
		"trees.canopy.size: invalid range [%d,%d]", c.Trees.Canopy.Size.Min, c.Trees.Canopy.Size.Max)
	check(c.Trees.MinDistance >= 0, "trees.minDistance: must be >= 0")
	check(c.Clouds.Scale > 0, "clouds.scale: must be > 0")
	check(c.Limits.MinMiningDepth <= c.Limits.MaxBuildHeight,
		"limits: minMiningDepth %d above maxBuildHeight %d", c.Limits.MinMiningDepth, c.Limits.MaxBuildHeight)
	check(c.Physics.SimulationRate > 0, "physics.simulationRate: must be > 0")
	check(c.Physics.MaxFrameDelta > 0, "physics.maxFrameDelta: must be > 0")
	check(c.Actor.Radius > 0 && c.Actor.Height > 0, "actor: radius and height must be > 0")
	check(c.Streaming.Mode == StreamSync || c.Streaming.Mode == StreamDeferred,
		"streaming.mode: want %q or %q, got %q", StreamSync, StreamDeferred, c.Streaming.Mode)
	if _, ok := c.Seasons[c.Season]; !ok {
		errs = append(errs, fmt.Errorf("season: unknown season %q", c.Season))
	}

	return errors.Join(errs...)
}
