package cellar

import "github.com/TheBitDrifter/mask"

// ArchetypeID uniquely identifies an archetype within its ArchetypeGraph.
type ArchetypeID uint32

// archetypeEdge caches the neighbor archetype reached by adding or removing
// one component, populated lazily on first use (spec §4.4/§9, and grounded
// on delaneyj-arche's archetypeNode.toAdd/toRemove, which warehouse itself
// lacks).
type archetypeEdge struct {
	addTarget    *Archetype
	removeTarget *Archetype
}

// Archetype is the ordered set of component IDs (sorted ascending, which
// defines column order within its chunks) shared by a group of entities. It
// owns a list of fixed-capacity chunks and caches per-component transition
// edges to neighbor archetypes (spec §3/§4.4/§4.5).
type Archetype struct {
	id                ArchetypeID
	components        []ComponentID // sorted ascending
	componentDescs    []ComponentDescriptor
	columnIndex       map[ComponentID]int
	chunkCapacity     int
	chunks            []*Chunk
	mask              mask.Mask
	edges             map[ComponentID]*archetypeEdge
	structuralVersion uint64
}

func newArchetype(id ArchetypeID, descs []ComponentDescriptor, chunkCapacity int) *Archetype {
	components := make([]ComponentID, len(descs))
	columnIndex := make(map[ComponentID]int, len(descs))
	var m mask.Mask
	for i, d := range descs {
		components[i] = d.ID
		columnIndex[d.ID] = i
		m.Mark(uint32(d.ID))
	}
	return &Archetype{
		id:             id,
		components:     components,
		componentDescs: descs,
		columnIndex:    columnIndex,
		chunkCapacity:  chunkCapacity,
		mask:           m,
		edges:          make(map[ComponentID]*archetypeEdge),
	}
}

// ID returns the archetype's identity within its graph.
func (a *Archetype) ID() ArchetypeID { return a.id }

// Components returns the archetype's sorted component-ID signature.
func (a *Archetype) Components() []ComponentID { return a.components }

// Has reports whether c is part of this archetype's signature.
func (a *Archetype) Has(c ComponentID) bool {
	_, ok := a.columnIndex[c]
	return ok
}

// ColumnIndex returns c's column position, or -1 if c is not part of this
// archetype.
func (a *Archetype) ColumnIndex(c ComponentID) int {
	if idx, ok := a.columnIndex[c]; ok {
		return idx
	}
	return -1
}

// Chunks returns the archetype's chunk list in allocation order.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

// edgeFor returns (creating if absent) the cached edge entry for component c.
func (a *Archetype) edgeFor(c ComponentID) *archetypeEdge {
	e, ok := a.edges[c]
	if !ok {
		e = &archetypeEdge{}
		a.edges[c] = e
	}
	return e
}

// reserveRow appends a row for entity, allocating a new chunk if the last
// chunk is full (or none exist yet), and returns its (chunkIdx, row).
func (a *Archetype) reserveRow(entity EntityID) (chunkIdx, row int) {
	if len(a.chunks) == 0 || a.chunks[len(a.chunks)-1].Full() {
		a.chunks = append(a.chunks, newChunk(a.chunkCapacity, a.componentDescs))
		a.structuralVersion++
	}
	chunkIdx = len(a.chunks) - 1
	row = a.chunks[chunkIdx].appendRow(entity)
	a.structuralVersion++
	return chunkIdx, row
}

// removeRow swap-with-last removes chunkIdx's row. If another entity was
// moved into that row, movedEntity/moved report which and that it happened;
// the caller MUST update that entity's directory location.
func (a *Archetype) removeRow(chunkIdx, row int) (movedEntity EntityID, moved bool) {
	chunk := a.chunks[chunkIdx]
	moved = chunk.removeRow(row)
	if moved {
		movedEntity = chunk.entities[row]
	}
	a.structuralVersion++
	return movedEntity, moved
}

// pruneEmptyChunks frees and drops every chunk with no occupied rows,
// compacting the chunk list. Nothing in this package calls it:
// World.RemoveEmptyArchetypes drops whole empty archetypes and leaves the
// chunk lists of the archetypes it keeps as they are.
func (a *Archetype) pruneEmptyChunks() {
	kept := a.chunks[:0]
	pruned := false
	for _, c := range a.chunks {
		if c.Empty() {
			c.free()
			pruned = true
			continue
		}
		kept = append(kept, c)
	}
	a.chunks = kept
	if pruned {
		a.structuralVersion++
	}
}

// allChunksEmpty reports whether every chunk (if any) holds no rows.
func (a *Archetype) allChunksEmpty() bool {
	for _, c := range a.chunks {
		if !c.Empty() {
			return false
		}
	}
	return true
}

func mergeSortedComponent(ids []ComponentID, add ComponentID) []ComponentID {
	result := make([]ComponentID, 0, len(ids)+1)
	inserted := false
	for _, id := range ids {
		if !inserted && add < id {
			result = append(result, add)
			inserted = true
		}
		result = append(result, id)
	}
	if !inserted {
		result = append(result, add)
	}
	return result
}

func removeSortedComponent(ids []ComponentID, rem ComponentID) []ComponentID {
	result := make([]ComponentID, 0, len(ids))
	for _, id := range ids {
		if id != rem {
			result = append(result, id)
		}
	}
	return result
}
