package world

import "blockworld/internal/block"

// EditOverlay records player edits per chunk so regenerated chunks replay
// them. Entries are only added or overwritten; Clear is for reseeding.
type EditOverlay struct {
	edits map[ChunkCoord]map[LocalCoord]block.ID
	n     int
}

func NewEditOverlay() *EditOverlay {
	return &EditOverlay{edits: make(map[ChunkCoord]map[LocalCoord]block.ID)}
}

// Set records id at (chunk, local), replacing any earlier edit.
func (o *EditOverlay) Set(chunk ChunkCoord, local LocalCoord, id block.ID) {
	m := o.edits[chunk]
	if m == nil {
		m = make(map[LocalCoord]block.ID)
		o.edits[chunk] = m
	}
	if _, ok := m[local]; !ok {
		o.n++
	}
	m[local] = id
}

func (o *EditOverlay) Get(chunk ChunkCoord, local LocalCoord) (block.ID, bool) {
	id, ok := o.edits[chunk][local]
	return id, ok
}

func (o *EditOverlay) Contains(chunk ChunkCoord, local LocalCoord) bool {
	_, ok := o.edits[chunk][local]
	return ok
}

// Len is the number of recorded voxels.
func (o *EditOverlay) Len() int {
	return o.n
}

func (o *EditOverlay) Clear() {
	clear(o.edits)
	o.n = 0
}

// ChunkEdits copies the edits of one chunk. Generation jobs get a copy so
// the overlay itself is only touched by its owner.
func (o *EditOverlay) ChunkEdits(chunk ChunkCoord) map[LocalCoord]block.ID {
	src := o.edits[chunk]
	if len(src) == 0 {
		return nil
	}
	out := make(map[LocalCoord]block.ID, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
