package world

import (
	"fmt"

	"blockworld/internal/block"
	"blockworld/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// NoSlot marks a cell without a render instance.
const NoSlot = -1

// Cell is one voxel: its block id and its slot in the kind's instance table.
type Cell struct {
	ID   block.ID
	Slot int
}

// Chunk is a fixed-size column of voxels on the chunk grid. It owns its
// voxel array and its instance tables; nothing else mutates them.
type Chunk struct {
	Coord ChunkCoord

	width, height, depth int
	cells                []Cell
	tables               []*InstanceTable // indexed by block.ID, created lazily
	generated            bool
}

// NewChunk allocates an empty, ungenerated chunk.
func NewChunk(coord ChunkCoord, size config.ChunkSize) *Chunk {
	c := &Chunk{
		Coord:  coord,
		width:  size.Width,
		height: size.Height,
		depth:  size.Depth,
		cells:  make([]Cell, size.Volume()),
		tables: make([]*InstanceTable, block.Count()),
	}
	for i := range c.cells {
		c.cells[i].Slot = NoSlot
	}
	return c
}

func (c *Chunk) String() string {
	return "chunk" + c.Coord.String()
}

// Size returns the chunk extent.
func (c *Chunk) Size() config.ChunkSize {
	return config.ChunkSize{Width: c.width, Height: c.height, Depth: c.depth}
}

// Origin is the world coordinate of local (0, 0, 0).
func (c *Chunk) Origin() (x, z int) {
	return c.Coord.X * c.width, c.Coord.Z * c.depth
}

// index converts local coordinates (x, y, z) → flat index
func (c *Chunk) index(x, y, z int) int {
	return x*c.height*c.depth + y*c.depth + z
}

func (c *Chunk) local(i int) (x, y, z int) {
	z = i % c.depth
	y = (i / c.depth) % c.height
	x = i / (c.depth * c.height)
	return x, y, z
}

func (c *Chunk) inBounds(x, y, z int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height && z >= 0 && z < c.depth
}

// GetBlock returns the cell at local (x, y, z); ok is false outside the chunk.
func (c *Chunk) GetBlock(x, y, z int) (Cell, bool) {
	if c.cells == nil || !c.inBounds(x, y, z) {
		return Cell{Slot: NoSlot}, false
	}
	return c.cells[c.index(x, y, z)], true
}

// idAt treats anything outside the chunk as empty.
func (c *Chunk) idAt(x, y, z int) block.ID {
	if !c.inBounds(x, y, z) {
		return block.Empty
	}
	return c.cells[c.index(x, y, z)].ID
}

// SetBlockID overwrites the id of a voxel. A render instance held under the
// old id is released; callers refresh instances afterwards.
func (c *Chunk) SetBlockID(x, y, z int, id block.ID) bool {
	if c.cells == nil || !c.inBounds(x, y, z) {
		return false
	}
	i := c.index(x, y, z)
	if c.cells[i].ID == id {
		return true
	}
	c.deleteInstance(i)
	c.cells[i].ID = id
	return true
}

// IsObscured reports whether all six neighbours are non-empty. Neighbours
// outside the chunk count as empty, so edge voxels are never obscured.
func (c *Chunk) IsObscured(x, y, z int) bool {
	for _, d := range neighbours {
		if c.idAt(x+d[0], y+d[1], z+d[2]).IsEmpty() {
			return false
		}
	}
	return true
}

func (c *Chunk) table(id block.ID) *InstanceTable {
	t := c.tables[id]
	if t == nil {
		t = newInstanceTable(id, len(c.cells))
		c.tables[id] = t
	}
	return t
}

// AddBlockInstance gives a non-empty voxel a render instance. It returns
// false when the voxel is empty, out of bounds or already has one.
func (c *Chunk) AddBlockInstance(x, y, z int) bool {
	if c.cells == nil || !c.inBounds(x, y, z) {
		return false
	}
	return c.addInstance(c.index(x, y, z))
}

func (c *Chunk) addInstance(i int) bool {
	cell := &c.cells[i]
	if cell.ID.IsEmpty() || cell.Slot != NoSlot {
		return false
	}
	x, y, z := c.local(i)
	ox, oz := c.Origin()
	slot, ok := c.table(cell.ID).push(i, mgl32.Vec3{float32(ox + x), float32(y), float32(oz + z)})
	if !ok {
		return false
	}
	cell.Slot = slot
	return true
}

// DeleteBlockInstance releases the voxel's render instance. The last live
// instance of the same kind moves into the freed slot and its voxel is
// repointed.
func (c *Chunk) DeleteBlockInstance(x, y, z int) bool {
	if c.cells == nil || !c.inBounds(x, y, z) {
		return false
	}
	return c.deleteInstance(c.index(x, y, z))
}

func (c *Chunk) deleteInstance(i int) bool {
	cell := &c.cells[i]
	if cell.Slot == NoSlot {
		return false
	}
	t := c.tables[cell.ID]
	if owner, moved := t.remove(cell.Slot); moved {
		c.cells[owner].Slot = cell.Slot
	}
	cell.Slot = NoSlot
	return true
}

// RefreshInstance makes the voxel's render instance match the obscured rule:
// exposed non-empty voxels have one, everything else has none.
func (c *Chunk) RefreshInstance(x, y, z int) {
	if c.cells == nil || !c.inBounds(x, y, z) {
		return
	}
	i := c.index(x, y, z)
	if c.cells[i].ID.IsEmpty() || c.IsObscured(x, y, z) {
		c.deleteInstance(i)
		return
	}
	c.addInstance(i)
}

// AddBlock places id into an empty voxel and refreshes the voxel itself.
// Neighbour visibility is the caller's job.
func (c *Chunk) AddBlock(x, y, z int, id block.ID) error {
	if id.IsEmpty() || !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidBlock, id)
	}
	cell, ok := c.GetBlock(x, y, z)
	if !ok {
		return ErrOutOfBounds
	}
	if !cell.ID.IsEmpty() {
		return ErrOccupied
	}
	c.SetBlockID(x, y, z, id)
	c.RefreshInstance(x, y, z)
	return nil
}

// RemoveBlock empties a non-empty voxel and drops its render instance.
func (c *Chunk) RemoveBlock(x, y, z int) (block.ID, error) {
	cell, ok := c.GetBlock(x, y, z)
	if !ok {
		return block.Empty, ErrOutOfBounds
	}
	if cell.ID.IsEmpty() {
		return block.Empty, ErrAlreadyEmpty
	}
	if k, ok := block.Lookup(cell.ID); ok && k.Indestructible {
		return cell.ID, ErrIndestructible
	}
	c.SetBlockID(x, y, z, block.Empty)
	return cell.ID, nil
}

// BuildInstances rebuilds every instance table from the voxel array and
// returns the live instance count.
func (c *Chunk) BuildInstances() int {
	for _, t := range c.tables {
		if t != nil {
			t.Reset()
		}
	}
	for i := range c.cells {
		c.cells[i].Slot = NoSlot
	}

	for i := range c.cells {
		if c.cells[i].ID.IsEmpty() {
			continue
		}
		x, y, z := c.local(i)
		if c.IsObscured(x, y, z) {
			continue
		}
		c.addInstance(i)
	}
	return c.InstanceCount()
}

// InstanceCount is the live instance total over all kinds.
func (c *Chunk) InstanceCount() int {
	n := 0
	for _, t := range c.tables {
		if t != nil {
			n += t.Len()
		}
	}
	return n
}

// Tables returns the non-empty instance tables.
func (c *Chunk) Tables() []*InstanceTable {
	out := make([]*InstanceTable, 0, 8)
	for _, t := range c.tables {
		if t != nil && t.Len() > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Table returns the instance table for id, or nil if none was ever needed.
func (c *Chunk) Table(id block.ID) *InstanceTable {
	if !id.Valid() {
		return nil
	}
	return c.tables[id]
}

// Generated reports whether generation, edit replay and the instance build
// have all completed.
func (c *Chunk) Generated() bool {
	return c.generated
}

func (c *Chunk) markGenerated() {
	c.generated = true
}

// Dispose releases the instance tables and the voxel array.
func (c *Chunk) Dispose() {
	for i, t := range c.tables {
		if t != nil {
			t.release()
			c.tables[i] = nil
		}
	}
	c.cells = nil
	c.generated = false
}

// Cells calls fn for every voxel in x, y, z order.
func (c *Chunk) Cells(fn func(x, y, z int, cell Cell)) {
	for i, cell := range c.cells {
		x, y, z := c.local(i)
		fn(x, y, z, cell)
	}
}
