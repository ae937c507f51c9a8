// Package metrics exposes Prometheus instrumentation for the voxel world.
//
// All methods are safe on a nil *Collector so components can be built
// without metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blockworld"

// Collector groups the world and physics metrics.
type Collector struct {
	chunksLoaded    prometheus.Gauge
	renderInstances prometheus.Gauge
	chunkLoads      prometheus.Counter
	chunkUnloads    prometheus.Counter
	chunkGen        prometheus.Histogram
	blockEdits      *prometheus.CounterVec
	substeps        prometheus.Counter
}

// NewCollector creates the metrics and registers them on reg. A nil reg
// gets a private registry.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		chunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Chunks currently installed in the visibility window.",
		}),
		renderInstances: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "render_instances",
			Help:      "Live render instances across all loaded chunks.",
		}),
		chunkLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_loads_total",
			Help:      "Chunks generated and installed.",
		}),
		chunkUnloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_unloads_total",
			Help:      "Chunks disposed after leaving the window.",
		}),
		chunkGen: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_generation_seconds",
			Help:      "Time spent generating one chunk.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		blockEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_edits_total",
			Help:      "Block add/remove requests by outcome.",
		}, []string{"op", "result"}),
		substeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "physics_substeps_total",
			Help:      "Fixed physics sub-steps simulated.",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.chunksLoaded, c.renderInstances, c.chunkLoads, c.chunkUnloads,
		c.chunkGen, c.blockEdits, c.substeps,
	} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// ChunkLoaded records one installed chunk and how long it took to generate.
func (c *Collector) ChunkLoaded(took time.Duration) {
	if c == nil {
		return
	}
	c.chunkLoads.Inc()
	c.chunkGen.Observe(took.Seconds())
}

func (c *Collector) ChunkUnloaded() {
	if c == nil {
		return
	}
	c.chunkUnloads.Inc()
}

// SetWindow publishes the loaded chunk count and their live instance total.
func (c *Collector) SetWindow(chunks, instances int) {
	if c == nil {
		return
	}
	c.chunksLoaded.Set(float64(chunks))
	c.renderInstances.Set(float64(instances))
}

// BlockEdit counts an edit request. op is "add" or "remove".
func (c *Collector) BlockEdit(op, result string) {
	if c == nil {
		return
	}
	c.blockEdits.WithLabelValues(op, result).Inc()
}

func (c *Collector) Substeps(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.substeps.Add(float64(n))
}
