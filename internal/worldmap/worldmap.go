// Package worldmap renders a top-down picture of the loaded chunk window.
package worldmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"blockworld/internal/block"
	"blockworld/internal/config"
	"blockworld/internal/profiling"
	"blockworld/internal/world"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var ErrNothingLoaded = errors.New("worldmap: no chunks loaded")

// Source is the part of the world manager the map reads.
type Source interface {
	Config() *config.Config
	LoadedCoords() []world.ChunkCoord
	TopSolid(x, z int, skip ...block.ID) (int, block.ID, error)
}

// Palette maps block kinds to map colours.
type Palette map[block.ID]color.RGBA

func DefaultPalette() Palette {
	return Palette{
		block.Bedrock:        {40, 40, 40, 255},
		block.Grass:          {95, 159, 53, 255},
		block.GrassVariation: {130, 170, 60, 255},
		block.Dirt:           {134, 96, 67, 255},
		block.Sand:           {219, 207, 163, 255},
		block.Tree:           {102, 81, 51, 255},
		block.Leaves:         {48, 110, 36, 255},
		block.Cloud:          {240, 240, 245, 255},
		block.Stone:          {125, 125, 125, 255},
		block.CoalOre:        {60, 60, 60, 255},
		block.IronOre:        {175, 140, 110, 255},
		block.GoldOre:        {230, 200, 70, 255},
	}
}

type Options struct {
	Scale   int // pixels per column; values below 1 mean 1
	Palette Palette
	Clouds  bool   // draw clouds instead of the ground beneath them
	Label   string // drawn in the top-left corner when set
}

// Map is a rendered image plus the world column at its top-left pixel.
type Map struct {
	Image            *image.RGBA
	OriginX, OriginZ int
	Scale            int
}

// Pixel returns the top-left pixel of world column (x, z).
func (m *Map) Pixel(x, z int) image.Point {
	return image.Pt((x-m.OriginX)*m.Scale, (z-m.OriginZ)*m.Scale)
}

// Render draws one pixel per loaded column, coloured by its top block and
// shaded by height, then scales the result. Unloaded columns stay
// transparent.
func Render(src Source, opts Options) (*Map, error) {
	defer profiling.Track("worldmap.Render")()

	coords := src.LoadedCoords()
	if len(coords) == 0 {
		return nil, ErrNothingLoaded
	}
	cfg := src.Config()
	cw, ch, cd := cfg.Chunk.Width, cfg.Chunk.Height, cfg.Chunk.Depth

	minC, maxC := coords[0], coords[0]
	for _, c := range coords[1:] {
		minC.X, minC.Z = min(minC.X, c.X), min(minC.Z, c.Z)
		maxC.X, maxC.Z = max(maxC.X, c.X), max(maxC.Z, c.Z)
	}
	ox, oz := minC.X*cw, minC.Z*cd
	base := image.NewRGBA(image.Rect(0, 0, (maxC.X-minC.X+1)*cw, (maxC.Z-minC.Z+1)*cd))

	pal := opts.Palette
	if pal == nil {
		pal = DefaultPalette()
	}
	var skip []block.ID
	if !opts.Clouds {
		skip = append(skip, block.Cloud)
	}

	for _, c := range coords {
		for lx := range cw {
			for lz := range cd {
				wx, wz := c.X*cw+lx, c.Z*cd+lz
				y, id, err := src.TopSolid(wx, wz, skip...)
				if err != nil {
					return nil, fmt.Errorf("worldmap: column (%d,%d): %w", wx, wz, err)
				}
				if y < 0 {
					continue
				}
				base.SetRGBA(wx-ox, wz-oz, shade(pal[id], y, ch))
			}
		}
	}

	scale := max(opts.Scale, 1)
	out := base
	if scale > 1 {
		b := base.Bounds()
		out = image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(out, out.Bounds(), base, b, draw.Src, nil)
	}

	if opts.Label != "" {
		if err := drawLabel(out, opts.Label); err != nil {
			return nil, err
		}
	}
	return &Map{Image: out, OriginX: ox, OriginZ: oz, Scale: scale}, nil
}

// shade darkens low columns: brightness runs from 60% at y=0 to 100% at the
// top of the chunk.
func shade(c color.RGBA, y, height int) color.RGBA {
	if c.A == 0 {
		c = color.RGBA{255, 0, 255, 255}
	}
	f := 0.6 + 0.4*float64(y)/float64(max(height-1, 1))
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: 255,
	}
}

func drawLabel(dst draw.Image, label string) error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(4, 4+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(label)
	return nil
}

// Encode writes img as a BMP.
func Encode(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("worldmap: encode: %w", err)
	}
	return nil
}
