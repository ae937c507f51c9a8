package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ChunkLoaded(3 * time.Millisecond)
	c.ChunkLoaded(time.Millisecond)
	c.ChunkUnloaded()
	c.SetWindow(8, 1200)
	c.BlockEdit("add", "ok")
	c.BlockEdit("add", "occupied")
	c.BlockEdit("add", "ok")
	c.Substeps(200)
	c.Substeps(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.chunkLoads))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.chunkUnloads))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.chunksLoaded))
	assert.Equal(t, 1200.0, testutil.ToFloat64(c.renderInstances))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.blockEdits.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.blockEdits.WithLabelValues("add", "occupied")))
	assert.Equal(t, 200.0, testutil.ToFloat64(c.substeps))
	assert.Equal(t, 1, testutil.CollectAndCount(c.chunkGen))
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)
	_, err = NewCollector(reg)
	require.Error(t, err)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ChunkLoaded(time.Second)
		c.ChunkUnloaded()
		c.SetWindow(1, 1)
		c.BlockEdit("remove", "ok")
		c.Substeps(3)
	})
}

func TestPrivateRegistry(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	require.NotNil(t, c)
}
