package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// ErrUnknownKind is returned by New for an unrecognised backend name.
var ErrUnknownKind = errors.New("noise: unknown kind")

const (
	KindPerlin = "perlin"
	KindValue  = "value"
)

// Source samples seeded coherent noise. Implementations are pure: the same
// seed and coordinates always yield the same value in [-1, 1].
type Source interface {
	Noise2D(x, y float64) float64
	Noise3D(x, y, z float64) float64
}

// New builds a Source of the named kind.
func New(kind string, seed int64) (Source, error) {
	switch kind {
	case KindPerlin, "":
		return NewPerlin(seed), nil
	case KindValue:
		return NewValue(seed), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

// Perlin wraps go-perlin with the smoothing the terrain presets were tuned for.
type Perlin struct {
	p *perlin.Perlin
}

func NewPerlin(seed int64) *Perlin {
	alpha := 2.0  // smoothing
	beta := 2.0   // harmonic scaling
	n := int32(3) // octaves
	return &Perlin{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

func (s *Perlin) Noise2D(x, y float64) float64 {
	return clamp(s.p.Noise2D(x, y))
}

func (s *Perlin) Noise3D(x, y, z float64) float64 {
	return clamp(s.p.Noise3D(x, y, z))
}

// Value is hash-lattice value noise summed over octaves.
type Value struct {
	seed        int64
	octaves     int
	persistence float64
	lacunarity  float64
}

func NewValue(seed int64) *Value {
	return &Value{seed: seed, octaves: 4, persistence: 0.5, lacunarity: 2.0}
}

func (s *Value) Noise2D(x, y float64) float64 {
	return octave2D(x, y, s.seed, s.octaves, s.persistence, s.lacunarity)*2 - 1
}

func (s *Value) Noise3D(x, y, z float64) float64 {
	return octave3D(x, y, z, s.seed, s.octaves, s.persistence, s.lacunarity)*2 - 1
}

// Derive mixes a purpose salt into seed so independent passes do not share
// a noise field.
func Derive(seed int64, salt uint64) int64 {
	return int64(mix(uint64(seed) ^ (salt * 0x9E3779B97F4A7C15)))
}

// Unit2 returns a deterministic value in [0, 1) for an integer column.
func Unit2(seed int64, x, z int) float64 {
	return float64(hash2(int64(x), int64(z), seed)>>11) / float64(1<<53)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
