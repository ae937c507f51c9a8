package main

import (
	"flag"
	"fmt"
	"os"

	"blockworld/internal/config"
	"blockworld/internal/world"
	"blockworld/internal/worldmap"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

var (
	configPath   = flag.String("config", "", "YAML config file (defaults to $"+config.EnvPath+")")
	presetName   = flag.String("preset", "", "quality preset used when no config file is given")
	seed         = flag.Int64("seed", 0, "override the world seed")
	originX      = flag.Int("x", 0, "world X the window is centred on")
	originZ      = flag.Int("z", 0, "world Z the window is centred on")
	drawDistance = flag.Int("dd", -1, "override the draw distance in chunks")
	scale        = flag.Int("scale", 2, "pixels per block column")
	clouds       = flag.Bool("clouds", false, "draw clouds")
	out          = flag.String("out", "world.bmp", "output file")
)

func main() {
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(func() { _ = log.Sync() })

	if err := run(log); err != nil {
		log.Error("worldmap", zap.Error(err))
		closer.Fatalln(err)
	}
	closer.Close()
}

func run(log *zap.Logger) error {
	var cfg *config.Config
	if *configPath == "" && *presetName != "" {
		cfg = config.Preset(*presetName)
	} else {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.World.Seed = *seed
		}
	})
	if *drawDistance >= 0 {
		cfg.DrawDistance = *drawDistance
	}
	// the map needs every chunk generated before it renders
	cfg.Streaming.Mode = config.StreamSync

	m, err := world.NewManager(cfg, world.WithLogger(log.Named("world")))
	if err != nil {
		return err
	}
	defer m.Close()
	m.Update(mgl64.Vec3{float64(*originX), 0, float64(*originZ)})

	wm, err := worldmap.Render(m, worldmap.Options{
		Scale:  *scale,
		Clouds: *clouds,
		Label:  fmt.Sprintf("seed %d  (%d,%d)", cfg.World.Seed, *originX, *originZ),
	})
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := worldmap.Encode(f, wm.Image); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	b := wm.Image.Bounds()
	log.Info("map written",
		zap.String("file", *out),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
		zap.Int("chunks", len(m.LoadedCoords())),
		zap.Int("instances", m.InstanceCount()))
	return nil
}
