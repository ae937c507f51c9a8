package world

import (
	"fmt"
	"slices"
	"time"

	"blockworld/internal/block"
	"blockworld/internal/config"
	"blockworld/internal/metrics"
	"blockworld/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Manager owns the loaded chunk window around an observer and routes world
// coordinate queries and edits to chunks. It is not safe for concurrent
// use: updates, edits and physics queries run on one goroutine.
type Manager struct {
	log     *zap.Logger
	metrics *metrics.Collector

	cfg      *config.Config
	gen      *Generator
	overlay  *EditOverlay
	chunks   map[ChunkCoord]*Chunk
	streamer *streamer

	observer  mgl64.Vec3
	center    ChunkCoord
	hasCenter bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// WithOverlay shares an existing edit overlay.
func WithOverlay(o *EditOverlay) Option {
	return func(m *Manager) {
		if o != nil {
			m.overlay = o
		}
	}
}

// NewManager validates cfg and builds an empty manager. Nothing is loaded
// until the first Update.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	m := &Manager{
		log:     zap.NewNop(),
		cfg:     cfg.Clone(),
		overlay: NewEditOverlay(),
		chunks:  make(map[ChunkCoord]*Chunk),
	}
	for _, opt := range opts {
		opt(m)
	}

	gen, err := NewGenerator(m.cfg)
	if err != nil {
		return nil, err
	}
	m.gen = gen
	m.startStreamer()
	return m, nil
}

func (m *Manager) startStreamer() {
	if m.cfg.Streaming.Mode != config.StreamDeferred {
		return
	}
	side := 2*m.cfg.DrawDistance + 1
	m.streamer = newStreamer(m.cfg.Streaming.Workers, side*side)
}

func (m *Manager) stopStreamer() {
	if m.streamer == nil {
		return
	}
	m.streamer.close()
	m.streamer = nil
}

// Config returns a copy of the active configuration.
func (m *Manager) Config() *config.Config {
	return m.cfg.Clone()
}

// Generator exposes the active terrain generator.
func (m *Manager) Generator() *Generator {
	return m.gen
}

// Overlay exposes the edit overlay.
func (m *Manager) Overlay() *EditOverlay {
	return m.overlay
}

// WorldToChunk resolves a world block coordinate to its chunk and local
// coordinate. Local coordinates are never negative.
func (m *Manager) WorldToChunk(x, y, z int) (ChunkCoord, LocalCoord) {
	w, d := m.cfg.Chunk.Width, m.cfg.Chunk.Depth
	cc := ChunkCoord{X: floorDiv(x, w), Z: floorDiv(z, d)}
	return cc, LocalCoord{X: floorMod(x, w), Y: y, Z: floorMod(z, d)}
}

// ChunkToWorld is the inverse of WorldToChunk.
func (m *Manager) ChunkToWorld(cc ChunkCoord, lc LocalCoord) (x, y, z int) {
	return cc.X*m.cfg.Chunk.Width + lc.X, lc.Y, cc.Z*m.cfg.Chunk.Depth + lc.Z
}

func (m *Manager) observerChunk(p mgl64.Vec3) ChunkCoord {
	x, _, z := BlockCoord(p)
	return ChunkOf(x, z, m.cfg.Chunk.Width, m.cfg.Chunk.Depth)
}

func (m *Manager) inWindow(cc ChunkCoord) bool {
	dd := m.cfg.DrawDistance
	return m.hasCenter && abs(cc.X-m.center.X) <= dd && abs(cc.Z-m.center.Z) <= dd
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Update streams the window of (2*drawDistance+1)^2 chunks around observer:
// finished background chunks are installed, chunks outside the window are
// disposed and missing ones are generated or queued.
func (m *Manager) Update(observer mgl64.Vec3) {
	defer profiling.Track("world.Update")()

	m.observer = observer
	m.center = m.observerChunk(observer)
	m.hasCenter = true

	if m.streamer != nil {
		if dropped := m.streamer.drain(m.install); dropped > 0 {
			m.log.Debug("dropped stale chunk results", zap.Int("count", dropped))
		}
	}

	for cc, c := range m.chunks {
		if !m.inWindow(cc) {
			m.unload(cc, c)
		}
	}
	if m.streamer != nil {
		for _, cc := range m.PendingCoords() {
			if !m.inWindow(cc) {
				m.streamer.cancel(cc)
				m.log.Debug("cancelled chunk generation", zap.Int("cx", cc.X), zap.Int("cz", cc.Z))
			}
		}
	}

	dd := m.cfg.DrawDistance
	for dx := -dd; dx <= dd; dx++ {
		for dz := -dd; dz <= dd; dz++ {
			cc := ChunkCoord{X: m.center.X + dx, Z: m.center.Z + dz}
			if _, ok := m.chunks[cc]; ok {
				continue
			}
			if m.streamer != nil && m.streamer.isPending(cc) {
				continue
			}
			m.load(cc)
		}
	}

	m.metrics.SetWindow(len(m.chunks), m.InstanceCount())
}

func (m *Manager) load(cc ChunkCoord) {
	c := NewChunk(cc, m.cfg.Chunk)
	edits := m.overlay.ChunkEdits(cc)

	if m.streamer != nil {
		if !m.streamer.request(c, m.gen, edits) {
			m.log.Debug("generation queue full", zap.Int("cx", cc.X), zap.Int("cz", cc.Z))
		}
		return
	}

	start := time.Now()
	m.gen.Generate(c, edits)
	m.install(c, time.Since(start))
}

func (m *Manager) install(c *Chunk, elapsed time.Duration) {
	if !m.inWindow(c.Coord) {
		c.Dispose()
		return
	}
	c.markGenerated()
	m.chunks[c.Coord] = c
	m.metrics.ChunkLoaded(elapsed)
	m.log.Debug("chunk loaded",
		zap.Int("cx", c.Coord.X), zap.Int("cz", c.Coord.Z),
		zap.Int("instances", c.InstanceCount()),
		zap.Duration("took", elapsed))
}

func (m *Manager) unload(cc ChunkCoord, c *Chunk) {
	c.Dispose()
	delete(m.chunks, cc)
	m.metrics.ChunkUnloaded()
	m.log.Debug("chunk unloaded", zap.Int("cx", cc.X), zap.Int("cz", cc.Z))
}

// Chunk returns the installed chunk at cc. Chunks still generating are not
// returned.
func (m *Manager) Chunk(cc ChunkCoord) (*Chunk, bool) {
	c, ok := m.chunks[cc]
	return c, ok
}

// LoadedCoords returns the installed chunk coordinates in a stable order.
func (m *Manager) LoadedCoords() []ChunkCoord {
	out := make([]ChunkCoord, 0, len(m.chunks))
	for cc := range m.chunks {
		out = append(out, cc)
	}
	sortCoords(out)
	return out
}

// PendingCoords returns the coordinates queued for background generation.
func (m *Manager) PendingCoords() []ChunkCoord {
	if m.streamer == nil {
		return nil
	}
	out := make([]ChunkCoord, 0, m.streamer.pendingCount())
	for cc := range m.streamer.pending {
		out = append(out, cc)
	}
	sortCoords(out)
	return out
}

// Pending is the number of chunks still generating.
func (m *Manager) Pending() int {
	if m.streamer == nil {
		return 0
	}
	return m.streamer.pendingCount()
}

func sortCoords(cs []ChunkCoord) {
	slices.SortFunc(cs, func(a, b ChunkCoord) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Z - b.Z
	})
}

// resolve finds the generated chunk and local coordinate of a world block.
func (m *Manager) resolve(x, y, z int) (*Chunk, LocalCoord, error) {
	if y < 0 || y >= m.cfg.Chunk.Height {
		return nil, LocalCoord{}, ErrOutOfBounds
	}
	cc, lc := m.WorldToChunk(x, y, z)
	c, ok := m.chunks[cc]
	if !ok || !c.Generated() {
		return nil, lc, ErrChunkNotLoaded
	}
	return c, lc, nil
}

// BlockAt returns the block at a world coordinate. Unloaded or still
// generating chunks yield ErrChunkNotLoaded; heights outside the chunk
// column yield ErrOutOfBounds.
func (m *Manager) BlockAt(x, y, z int) (block.ID, error) {
	c, lc, err := m.resolve(x, y, z)
	if err != nil {
		return block.Empty, err
	}
	cell, _ := c.GetBlock(lc.X, lc.Y, lc.Z)
	return cell.ID, nil
}

// CellAt is BlockAt with the render slot.
func (m *Manager) CellAt(x, y, z int) (Cell, error) {
	c, lc, err := m.resolve(x, y, z)
	if err != nil {
		return Cell{Slot: NoSlot}, err
	}
	cell, _ := c.GetBlock(lc.X, lc.Y, lc.Z)
	return cell, nil
}

// AddBlock places id at a world coordinate. Rejected edits leave the world
// untouched.
func (m *Manager) AddBlock(x, y, z int, id block.ID) (err error) {
	defer func() { m.metrics.BlockEdit("add", editResult(err)) }()

	if y > m.cfg.Limits.MaxBuildHeight {
		return ErrAboveBuildLimit
	}
	c, lc, err := m.resolve(x, y, z)
	if err != nil {
		return err
	}
	if err := c.AddBlock(lc.X, lc.Y, lc.Z, id); err != nil {
		return err
	}
	m.overlay.Set(c.Coord, lc, id)
	m.ripple(x, y, z)
	return nil
}

// RemoveBlock empties a world coordinate and returns the removed id.
func (m *Manager) RemoveBlock(x, y, z int) (removed block.ID, err error) {
	defer func() { m.metrics.BlockEdit("remove", editResult(err)) }()

	if y < m.cfg.Limits.MinMiningDepth {
		return block.Empty, ErrBelowMiningDepth
	}
	c, lc, err := m.resolve(x, y, z)
	if err != nil {
		return block.Empty, err
	}
	removed, err = c.RemoveBlock(lc.X, lc.Y, lc.Z)
	if err != nil {
		return block.Empty, err
	}
	m.overlay.Set(c.Coord, lc, block.Empty)
	m.ripple(x, y, z)
	return removed, nil
}

// ripple re-evaluates the six neighbours of an edited block, crossing chunk
// borders. Unloaded neighbours are skipped.
func (m *Manager) ripple(x, y, z int) {
	for _, d := range neighbours {
		nx, ny, nz := x+d[0], y+d[1], z+d[2]
		c, lc, err := m.resolve(nx, ny, nz)
		if err != nil {
			continue
		}
		c.RefreshInstance(lc.X, lc.Y, lc.Z)
	}
}

// InstanceCount totals live render instances over installed chunks.
func (m *Manager) InstanceCount() int {
	n := 0
	for _, c := range m.chunks {
		n += c.InstanceCount()
	}
	return n
}

// RenderTables groups the live instance tables of all installed chunks by
// block kind.
func (m *Manager) RenderTables() map[block.ID][]*InstanceTable {
	out := make(map[block.ID][]*InstanceTable)
	for _, cc := range m.LoadedCoords() {
		for _, t := range m.chunks[cc].Tables() {
			out[t.Kind()] = append(out[t.Kind()], t)
		}
	}
	return out
}

// SurfaceHeight returns the generated surface height of a world column,
// ignoring edits.
func (m *Manager) SurfaceHeight(x, z int) int {
	return m.gen.HeightAt(x, z)
}

// TopSolid returns the highest non-empty block of a loaded column, passing
// over any kind listed in skip. y is -1 for an empty column.
func (m *Manager) TopSolid(x, z int, skip ...block.ID) (y int, id block.ID, err error) {
	for y = m.cfg.Chunk.Height - 1; y >= 0; y-- {
		id, err = m.BlockAt(x, y, z)
		if err != nil {
			return 0, block.Empty, err
		}
		if !id.IsEmpty() && !slices.Contains(skip, id) {
			return y, id, nil
		}
	}
	return -1, block.Empty, nil
}

// Reconfigure replaces the world parameters and regenerates every loaded
// chunk. A changed seed clears the edit overlay.
func (m *Manager) Reconfigure(cfg *config.Config) error {
	return m.reconfigure(cfg, false)
}

// reconfigure swaps in cfg and regenerates the loaded window. The overlay is
// cleared first when the seed changes or dropEdits is set, so regenerated
// chunks never replay edits the overlay no longer holds.
func (m *Manager) reconfigure(cfg *config.Config, dropEdits bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	next := cfg.Clone()
	gen, err := NewGenerator(next)
	if err != nil {
		return err
	}

	reseeded := next.World.Seed != m.cfg.World.Seed
	m.stopStreamer()
	for cc, c := range m.chunks {
		m.unload(cc, c)
	}
	if reseeded || dropEdits {
		m.overlay.Clear()
	}

	m.cfg = next
	m.gen = gen
	m.startStreamer()
	m.log.Info("world reconfigured",
		zap.Int64("seed", next.World.Seed),
		zap.Bool("reseeded", reseeded),
		zap.Bool("editsDropped", reseeded || dropEdits),
		zap.Int("drawDistance", next.DrawDistance),
		zap.String("streaming", next.Streaming.Mode))

	if m.hasCenter {
		m.Update(m.observer)
	}
	return nil
}

// Reseed regenerates the world from seed and drops every edit, even when
// seed is the current one.
func (m *Manager) Reseed(seed int64) error {
	cfg := m.cfg.Clone()
	cfg.World.Seed = seed
	return m.reconfigure(cfg, true)
}

// Center returns the chunk the window is centred on, and false before the
// first Update.
func (m *Manager) Center() (ChunkCoord, bool) {
	return m.center, m.hasCenter
}

// Close stops background generation and disposes all chunks.
func (m *Manager) Close() {
	m.stopStreamer()
	for cc, c := range m.chunks {
		c.Dispose()
		delete(m.chunks, cc)
	}
	m.metrics.SetWindow(0, 0)
}
