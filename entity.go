package cellar

import "math"

// EntityID is a 64-bit opaque handle split into a 32-bit index (low bits)
// and a 16-bit generation (next bits up); the remaining bits are reserved
// and always zero. The null entity is the all-zero handle.
type EntityID uint64

// NullEntity is the all-zero handle; it is never live.
const NullEntity EntityID = 0

const maxGeneration uint16 = math.MaxUint16

func newEntityID(index uint32, generation uint16) EntityID {
	return EntityID(index) | EntityID(generation)<<32
}

// Index returns the entity's directory slot index.
func (e EntityID) Index() uint32 { return uint32(e) }

// Generation returns the entity's generation counter.
func (e EntityID) Generation() uint16 { return uint16(e >> 32) }

// entityLocation is where a live entity currently lives: which archetype,
// which of its chunks, and which row within that chunk.
type entityLocation struct {
	archetype *Archetype
	chunkIdx  int
	row       int
}

// EntityDirectory allocates entity IDs with generation counters, maps live
// entities to their (archetype, chunk, row), and recycles freed indices. See
// spec §4.1.
type EntityDirectory struct {
	generations []uint16
	locations   []entityLocation
	live        []bool
	freeList    []uint32
}

// NewEntityDirectory creates an empty directory. Index 0 is reserved for the
// null entity and is never allocated.
func NewEntityDirectory() *EntityDirectory {
	return &EntityDirectory{
		generations: []uint16{0},
		locations:   []entityLocation{{}},
		live:        []bool{false},
	}
}

// New allocates a fresh entity index (reusing a freed one if available) and
// marks it live with a zero-valued location; the caller is responsible for
// calling SetLocation once the entity has a home row. New never fails:
// allocation failure is treated as fatal (spec §7, OutOfMemory).
func (d *EntityDirectory) New() EntityID {
	var idx uint32
	if n := len(d.freeList); n > 0 {
		idx = d.freeList[n-1]
		d.freeList = d.freeList[:n-1]
	} else {
		idx = uint32(len(d.generations))
		d.generations = append(d.generations, 0)
		d.locations = append(d.locations, entityLocation{})
		d.live = append(d.live, false)
	}
	d.live[idx] = true
	return newEntityID(idx, d.generations[idx])
}

// NewWithID reserves a specific externally chosen entity ID. Per the pinned
// open question (SPEC_FULL.md §9): fails with IndexLiveError if the index is
// currently live; fails with StaleGenerationError if the index is free but
// the requested generation is not strictly newer than the directory's
// current generation for that index; index 0 always fails with
// ReservedIndexError.
func (d *EntityDirectory) NewWithID(id EntityID) (EntityID, error) {
	idx := id.Index()
	gen := id.Generation()
	if idx == 0 {
		return NullEntity, ReservedIndexError{}
	}
	if int(idx) < len(d.generations) {
		if d.live[idx] {
			return NullEntity, IndexLiveError{Index: idx}
		}
		if d.generations[idx] >= gen {
			return NullEntity, StaleGenerationError{Index: idx, RequestedGen: gen, HaveGen: d.generations[idx]}
		}
		d.removeFromFreeList(idx)
		d.generations[idx] = gen
		d.live[idx] = true
		return id, nil
	}
	for uint32(len(d.generations)) <= idx {
		d.freeList = append(d.freeList, uint32(len(d.generations)))
		d.generations = append(d.generations, 0)
		d.locations = append(d.locations, entityLocation{})
		d.live = append(d.live, false)
	}
	d.removeFromFreeList(idx)
	d.generations[idx] = gen
	d.live[idx] = true
	return id, nil
}

func (d *EntityDirectory) removeFromFreeList(idx uint32) {
	for i, v := range d.freeList {
		if v == idx {
			d.freeList = append(d.freeList[:i], d.freeList[i+1:]...)
			return
		}
	}
}

// Delete releases the entity's slot if it is live; it is a silent no-op
// otherwise. The generation is bumped (wrapping never happens: once a
// generation reaches its maximum, the index is retired and never reused).
func (d *EntityDirectory) Delete(id EntityID) {
	idx := id.Index()
	if !d.isLiveIndexGen(idx, id.Generation()) {
		return
	}
	d.live[idx] = false
	d.locations[idx] = entityLocation{}
	if d.generations[idx] == maxGeneration {
		return // retired: never placed back on the free list
	}
	d.generations[idx]++
	d.freeList = append(d.freeList, idx)
}

// IsLive reports whether id's slot is occupied and its generation matches.
func (d *EntityDirectory) IsLive(id EntityID) bool {
	return d.isLiveIndexGen(id.Index(), id.Generation())
}

func (d *EntityDirectory) isLiveIndexGen(idx uint32, gen uint16) bool {
	if idx == 0 || int(idx) >= len(d.generations) {
		return false
	}
	return d.live[idx] && d.generations[idx] == gen
}

// Locate returns id's current location; ok is false when id is not live.
func (d *EntityDirectory) Locate(id EntityID) (entityLocation, bool) {
	idx := id.Index()
	if !d.isLiveIndexGen(idx, id.Generation()) {
		return entityLocation{}, false
	}
	return d.locations[idx], true
}

// SetLocation updates id's (archetype, chunk, row). Callers MUST call this
// after every relocation, including the relocation of a swapped-in entity
// during swap-with-last row removal (spec §4.1's testable invariant).
func (d *EntityDirectory) SetLocation(id EntityID, loc entityLocation) {
	idx := id.Index()
	if !d.isLiveIndexGen(idx, id.Generation()) {
		return
	}
	d.locations[idx] = loc
}
