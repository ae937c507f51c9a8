package world

import (
	"blockworld/internal/block"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceTable is the render-instance list of one block kind inside one
// chunk. Entries [0, Len) are live and contiguous; removal swaps the last
// entry into the hole.
type InstanceTable struct {
	kind      block.ID
	bound     int
	positions []mgl32.Vec3
	owners    []int // cell index owning each slot
}

func newInstanceTable(kind block.ID, bound int) *InstanceTable {
	return &InstanceTable{kind: kind, bound: bound}
}

// Kind is the block kind drawn by this table.
func (t *InstanceTable) Kind() block.ID { return t.kind }

// Len is the live instance count.
func (t *InstanceTable) Len() int { return len(t.positions) }

// Cap is the most instances the table may ever hold.
func (t *InstanceTable) Cap() int { return t.bound }

// At returns the world position stored in slot i.
func (t *InstanceTable) At(i int) mgl32.Vec3 { return t.positions[i] }

// Positions returns the live transforms. The slice is only valid until the
// next mutation of the owning chunk.
func (t *InstanceTable) Positions() []mgl32.Vec3 { return t.positions }

// push appends a transform for the cell at owner and returns its slot.
func (t *InstanceTable) push(owner int, pos mgl32.Vec3) (int, bool) {
	if len(t.positions) >= t.bound {
		return NoSlot, false
	}
	t.positions = append(t.positions, pos)
	t.owners = append(t.owners, owner)
	return len(t.positions) - 1, true
}

// remove drops slot. When a different entry had to be moved into slot, the
// moved entry's owning cell index is returned with moved == true.
func (t *InstanceTable) remove(slot int) (movedOwner int, moved bool) {
	last := len(t.positions) - 1
	if slot < 0 || slot > last {
		return 0, false
	}
	if slot != last {
		t.positions[slot] = t.positions[last]
		t.owners[slot] = t.owners[last]
		movedOwner, moved = t.owners[slot], true
	}
	t.positions = t.positions[:last]
	t.owners = t.owners[:last]
	return movedOwner, moved
}

// Reset empties the table, keeping its backing storage.
func (t *InstanceTable) Reset() {
	t.positions = t.positions[:0]
	t.owners = t.owners[:0]
}

func (t *InstanceTable) release() {
	t.positions = nil
	t.owners = nil
}
