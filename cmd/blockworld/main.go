package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"blockworld/internal/config"
	"blockworld/internal/game"
	"blockworld/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

var (
	configPath  = flag.String("config", "", "YAML config file (defaults to $"+config.EnvPath+")")
	presetName  = flag.String("preset", "", "quality preset used when no config file is given: low, moderate, high, ultra")
	frames      = flag.Uint64("frames", 600, "frames to simulate; 0 runs until interrupted")
	fps         = flag.Int("fps", 60, "target frame rate; 0 runs unpaced")
	metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	logLevel    = flag.String("log-level", "info", "debug, info, warn or error")
	devLogs     = flag.Bool("dev", false, "human readable logs")
	seed        = flag.Int64("seed", 0, "override the world seed")
	statsEvery  = flag.Uint64("stats-every", 120, "log session stats every n frames")
)

func main() {
	flag.Parse()

	log, err := newLogger(*logLevel, *devLogs)
	if err != nil {
		closer.Fatalln(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Error("load config", zap.Error(err))
		closer.Fatalln(err)
	}
	est := cfg.EstimateMemory()
	log.Info("config loaded",
		zap.Int64("seed", cfg.World.Seed),
		zap.Int("drawDistance", cfg.DrawDistance),
		zap.Int("chunks", est.TotalChunks),
		zap.Float64("estimatedMB", est.MegaBytes),
		zap.String("streaming", cfg.Streaming.Mode))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.NewCollector(reg)
	if err != nil {
		closer.Fatalln(err)
	}
	srv := serveMetrics(log, reg, *metricsAddr)

	session, err := game.NewSession(cfg, game.WithLogger(log), game.WithMetrics(m))
	if err != nil {
		log.Error("new session", zap.Error(err))
		closer.Fatalln(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-done
		session.Close()
		if srv != nil {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}
		log.Info("bye")
		_ = log.Sync()
	})

	app := game.NewApp(session, *fps, wander(), log)
	app.StatsEvery = *statsEvery

	go func() {
		err := app.Run(ctx, *frames)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("run", zap.Error(err))
		}
		close(done)
		// cleanup waits on done, so the loop must have finished first
		closer.Close()
	}()
	closer.Hold()
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath == "" && *presetName != "" {
		cfg = config.Preset(*presetName)
	} else {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.World.Seed = *seed
		}
	})
	return cfg, cfg.Validate()
}

func newLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if dev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	return zc.Build()
}

func serveMetrics(log *zap.Logger, reg *prometheus.Registry, addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}
