package cellar

import "unsafe"

// QueryIter walks a Query's matched archetypes one non-empty chunk at a
// time. It exposes per-term column base pointers and tick arrays for the
// chunk currently under the cursor; callers loop rows themselves and decide
// how to interpret Changed/Added ticks (spec §4.6 Design Notes: "Do NOT
// pre-filter rows... expose tick arrays and let the client loop branch"),
// mirroring the advance-loop shape of warehouse's Cursor.Next/advance.
type QueryIter struct {
	query       *Query
	archIdx     int
	chunkIdx    int
	tickAtStart uint64

	currentArchetype *Archetype
	currentChunk     *Chunk
	colIdx           []int
}

// Next advances to the next non-empty chunk across the query's matched
// archetypes, returning false once exhausted. On exhaustion it stamps the
// query's lastRunTick to the tick observed when this iterator was created,
// so a subsequent Changed/Added comparison only sees writes that happened
// strictly after this full pass started.
func (it *QueryIter) Next() bool {
	for {
		it.chunkIdx++
		if it.archIdx < 0 || it.chunkIdx >= len(it.currentArchetype.chunks) {
			it.archIdx++
			it.chunkIdx = 0
			if it.archIdx >= len(it.query.matchedArchetypes) {
				it.currentArchetype = nil
				it.currentChunk = nil
				it.query.lastRunTick = it.tickAtStart
				return false
			}
			it.currentArchetype = it.query.matchedArchetypes[it.archIdx]
			it.colIdx = it.query.archetypeColumnIdx[it.archIdx]
			if len(it.currentArchetype.chunks) == 0 {
				it.chunkIdx = -1
				continue
			}
		}
		chunk := it.currentArchetype.chunks[it.chunkIdx]
		if chunk.Empty() {
			continue
		}
		it.currentChunk = chunk
		return true
	}
}

// Count returns the occupied row count of the chunk currently under the
// cursor.
func (it *QueryIter) Count() int {
	if it.currentChunk == nil {
		return 0
	}
	return it.currentChunk.Count()
}

// Entities returns the entity IDs of the chunk currently under the cursor.
func (it *QueryIter) Entities() []EntityID {
	if it.currentChunk == nil {
		return nil
	}
	return it.currentChunk.Entities()
}

// Column returns the base pointer (row 0) of termIndex's column in the
// current chunk, or nil if termIndex is Optional and absent from this
// archetype.
func (it *QueryIter) Column(termIndex int) unsafe.Pointer {
	col := it.colIdx[termIndex]
	if col < 0 {
		return nil
	}
	return it.currentChunk.rowPtr(col, 0)
}

// ColumnIndex returns the current archetype's column position for c, or -1
// if c is not part of it (e.g. an Optional term absent here).
func (it *QueryIter) ColumnIndex(c ComponentID) int {
	return it.currentArchetype.ColumnIndex(c)
}

// AddedTicks returns the current chunk's added-tick array for termIndex, or
// nil if absent (Optional, not present).
func (it *QueryIter) AddedTicks(termIndex int) []uint64 {
	col := it.colIdx[termIndex]
	if col < 0 {
		return nil
	}
	return it.currentChunk.columns[col].addedTick
}

// ChangedTicks returns the current chunk's changed-tick array for termIndex,
// or nil if absent (Optional, not present).
func (it *QueryIter) ChangedTicks(termIndex int) []uint64 {
	col := it.colIdx[termIndex]
	if col < 0 {
		return nil
	}
	return it.currentChunk.columns[col].changedTick
}

// StorageProvider returns the provider backing termIndex's column in the
// current chunk, or nil if absent.
func (it *QueryIter) StorageProvider(termIndex int) StorageProvider {
	col := it.colIdx[termIndex]
	if col < 0 {
		return nil
	}
	return it.currentChunk.columns[col].provider
}

// LastRunTick exposes the query's last-run tick for callers comparing
// AddedTicks/ChangedTicks against the PREVIOUS run rather than this one.
// While this pass is in progress it is the value query.LastRunTick() had
// before the pass; once Next has returned false it is this pass's start tick.
func (it *QueryIter) LastRunTick() uint64 { return it.query.lastRunTick }
