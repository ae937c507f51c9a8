package worldmap

import (
	"bytes"
	"image"
	"image/color"
	"slices"
	"testing"

	"blockworld/internal/block"
	"blockworld/internal/config"
	"blockworld/internal/world"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stripes has grass at y=5 everywhere and a cloud at y=15 over even x.
type stripes struct {
	cfg    *config.Config
	coords []world.ChunkCoord
}

func newStripes(coords ...world.ChunkCoord) *stripes {
	cfg := config.Preset(config.PresetLow)
	cfg.Chunk = config.ChunkSize{Width: 4, Height: 16, Depth: 4}
	return &stripes{cfg: cfg, coords: coords}
}

func (s *stripes) Config() *config.Config           { return s.cfg }
func (s *stripes) LoadedCoords() []world.ChunkCoord { return s.coords }

func (s *stripes) TopSolid(x, z int, skip ...block.ID) (int, block.ID, error) {
	if x%2 == 0 && !slices.Contains(skip, block.Cloud) {
		return 15, block.Cloud, nil
	}
	return 5, block.Grass, nil
}

func TestRenderBoundsAndOrigin(t *testing.T) {
	src := newStripes(world.ChunkCoord{X: -1, Z: 0}, world.ChunkCoord{X: 1, Z: 1})
	m, err := Render(src, Options{Scale: 3})
	require.NoError(t, err)

	assert.Equal(t, -4, m.OriginX)
	assert.Equal(t, 0, m.OriginZ)
	assert.Equal(t, image.Rect(0, 0, 12*3, 8*3), m.Image.Bounds())

	grass := shade(DefaultPalette()[block.Grass], 5, 16)
	p := m.Pixel(-3, 1)
	assert.Equal(t, grass, m.Image.RGBAAt(p.X, p.Y))
	assert.Equal(t, grass, m.Image.RGBAAt(p.X+2, p.Y+2), "scaled pixel covers its block")

	// chunk (0,0) is not loaded
	gap := m.Pixel(1, 1)
	assert.Zero(t, m.Image.RGBAAt(gap.X, gap.Y).A)
}

func TestRenderClouds(t *testing.T) {
	src := newStripes(world.ChunkCoord{})
	ground, err := Render(src, Options{})
	require.NoError(t, err)
	sky, err := Render(src, Options{Clouds: true})
	require.NoError(t, err)

	pal := DefaultPalette()
	assert.Equal(t, shade(pal[block.Grass], 5, 16), ground.Image.RGBAAt(0, 0))
	assert.Equal(t, shade(pal[block.Cloud], 15, 16), sky.Image.RGBAAt(0, 0))
	assert.Equal(t, sky.Image.RGBAAt(1, 0), ground.Image.RGBAAt(1, 0))
}

func TestShade(t *testing.T) {
	c := color.RGBA{200, 100, 50, 255}
	assert.Equal(t, color.RGBA{120, 60, 30, 255}, shade(c, 0, 11))
	assert.Equal(t, c, shade(c, 10, 11))
	assert.Equal(t, uint8(255), shade(color.RGBA{}, 10, 11).R, "unknown kinds are flagged magenta")
}

func TestRenderNothingLoaded(t *testing.T) {
	_, err := Render(newStripes(), Options{})
	assert.ErrorIs(t, err, ErrNothingLoaded)
}

func TestRenderLabel(t *testing.T) {
	src := newStripes(world.ChunkCoord{}, world.ChunkCoord{X: 1}, world.ChunkCoord{X: 2})
	plain, err := Render(src, Options{Scale: 8})
	require.NoError(t, err)
	labelled, err := Render(src, Options{Scale: 8, Label: "seed 42"})
	require.NoError(t, err)

	assert.NotEqual(t, plain.Image.Pix, labelled.Image.Pix)
}

func TestRenderManagerAndEncode(t *testing.T) {
	cfg := config.Preset(config.PresetLow)
	cfg.Chunk = config.ChunkSize{Width: 8, Height: 16, Depth: 8}
	cfg.DrawDistance = 1
	cfg.World.Terrain.Offset = 0.5
	cfg.World.Terrain.Magnitude = 0
	cfg.World.Terrain.WaterOffset = 0
	cfg.Trees.Frequency = 0
	cfg.Clouds.Density = 0
	cfg.Seasons["summer"] = config.Season{VariationThreshold: 1}

	m, err := world.NewManager(cfg, world.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	defer m.Close()
	m.Update(mgl64.Vec3{})

	wm, err := Render(m, Options{Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 48, 48), wm.Image.Bounds())
	assert.Equal(t, -8, wm.OriginX)

	p := wm.Pixel(0, 0)
	assert.Equal(t, shade(DefaultPalette()[block.Grass], 8, 16), wm.Image.RGBAAt(p.X, p.Y))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, wm.Image))
	assert.Equal(t, "BM", string(buf.Bytes()[:2]))
}
