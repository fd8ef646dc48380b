package cellar

import "unsafe"

// DefaultChunkCapacity is the default fixed row capacity of a Chunk: a power
// of two, as spec §3 requires.
const DefaultChunkCapacity = 4096

// column is one component's storage within a Chunk: its provider/handle pair
// plus its two per-row tick arrays.
type column struct {
	componentID ComponentID
	size        int
	provider    StorageProvider
	handle      ChunkHandle
	addedTick   []uint64
	changedTick []uint64
}

// Chunk is a fixed-capacity slab holding an entity-ID column, one column per
// archetype component, and each column's added/changed tick arrays (spec
// §3/§4.4). Rows are densely packed [0, count); row removal swaps the last
// occupied row into the removed slot.
type Chunk struct {
	capacity int
	count    int
	entities []EntityID
	columns  []column
}

func newChunk(capacity int, descs []ComponentDescriptor) *Chunk {
	entities := make([]EntityID, capacity)
	cols := make([]column, len(descs))
	for i, d := range descs {
		cols[i] = column{
			componentID: d.ID,
			size:        d.Size,
			provider:    d.Provider,
			handle:      d.Provider.AllocChunk(d.Size, capacity),
			addedTick:   make([]uint64, capacity),
			changedTick: make([]uint64, capacity),
		}
	}
	return &Chunk{capacity: capacity, entities: entities, columns: cols}
}

// Count returns the number of occupied rows.
func (c *Chunk) Count() int { return c.count }

// Capacity returns the chunk's fixed row capacity.
func (c *Chunk) Capacity() int { return c.capacity }

// Full reports whether the chunk has no room for another row.
func (c *Chunk) Full() bool { return c.count >= c.capacity }

// Empty reports whether the chunk currently holds no rows.
func (c *Chunk) Empty() bool { return c.count == 0 }

// Entities returns the occupied portion of the entity-ID column.
func (c *Chunk) Entities() []EntityID { return c.entities[:c.count] }

// free releases every column's backing storage via its provider.
func (c *Chunk) free() {
	for i := range c.columns {
		c.columns[i].provider.FreeChunk(c.columns[i].handle)
	}
}

// appendRow appends entity at row count and returns that row.
func (c *Chunk) appendRow(id EntityID) int {
	row := c.count
	c.entities[row] = id
	c.count++
	return row
}

// removeRow swap-with-last removes row: every column is copied from the
// last occupied row into row (via each column's provider), the entity ID and
// both tick arrays are copied the same way, and count is decremented.
// Returns whether a swap actually happened (false when row was already the
// last occupied row); the moved entity is then the one now at row.
func (c *Chunk) removeRow(row int) (moved bool) {
	last := c.count - 1
	if row != last {
		c.entities[row] = c.entities[last]
		for i := range c.columns {
			col := &c.columns[i]
			col.provider.Copy(col.handle, last, col.handle, row, col.size)
			col.addedTick[row] = col.addedTick[last]
			col.changedTick[row] = col.changedTick[last]
		}
		moved = true
	}
	c.count--
	return moved
}

// rowPtr returns the row pointer for the column at colIdx.
func (c *Chunk) rowPtr(colIdx, row int) unsafe.Pointer {
	col := &c.columns[colIdx]
	return col.provider.RowPtr(col.handle, row, col.size)
}

// writeComponent writes src into row of the column at colIdx and stamps its
// changed tick.
func (c *Chunk) writeComponent(colIdx, row int, src unsafe.Pointer, tick uint64) {
	col := &c.columns[colIdx]
	col.provider.Write(col.handle, row, src, col.size)
	col.changedTick[row] = tick
}

// stampAdded sets the added tick for the column at colIdx, row.
func (c *Chunk) stampAdded(colIdx, row int, tick uint64) {
	c.columns[colIdx].addedTick[row] = tick
}

// copyComponentTo copies one row of the column at colIdx into dst's column
// at dstColIdx, dstRow. Both columns must be for the same component (so they
// share a provider and size).
func (c *Chunk) copyComponentTo(colIdx, row int, dst *Chunk, dstColIdx, dstRow int) {
	sc := &c.columns[colIdx]
	dc := &dst.columns[dstColIdx]
	sc.provider.Copy(sc.handle, row, dc.handle, dstRow, sc.size)
}
