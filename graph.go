package cellar

import "hash/fnv"

// ArchetypeGraph owns every Archetype created for a World, keyed by the
// FNV-1a hash of its sorted component-ID signature (spec §4.5). Hash
// collisions are resolved by a full sorted-slice equality check against the
// (short) bucket list.
type ArchetypeGraph struct {
	nextID            ArchetypeID
	byHash            map[uint64][]*Archetype
	all               []*Archetype
	structuralVersion uint64
	registry          *ComponentRegistry
	chunkCapacity     int
}

func newArchetypeGraph(registry *ComponentRegistry, chunkCapacity int) *ArchetypeGraph {
	return &ArchetypeGraph{
		byHash:        make(map[uint64][]*Archetype),
		registry:      registry,
		chunkCapacity: chunkCapacity,
	}
}

// signatureHash computes the FNV-1a hash of a sorted component-ID list.
func signatureHash(ids []ComponentID) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 4)
	for _, id := range ids {
		buf[0] = byte(id)
		buf[1] = byte(id >> 8)
		buf[2] = byte(id >> 16)
		buf[3] = byte(id >> 24)
		h.Write(buf)
	}
	return h.Sum64()
}

func sortedEqual(a, b []ComponentID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// All returns every archetype currently known to the graph.
func (g *ArchetypeGraph) All() []*Archetype { return g.all }

// Find returns the archetype whose signature is exactly ids (already sorted
// ascending), if one exists.
func (g *ArchetypeGraph) Find(ids []ComponentID) (*Archetype, bool) {
	hash := signatureHash(ids)
	for _, a := range g.byHash[hash] {
		if sortedEqual(a.components, ids) {
			return a, true
		}
	}
	return nil, false
}

// FindOrCreate returns the archetype whose signature is exactly ids (already
// sorted ascending), creating it (and bumping structuralVersion) if absent.
func (g *ArchetypeGraph) FindOrCreate(ids []ComponentID) *Archetype {
	if a, ok := g.Find(ids); ok {
		return a
	}
	descs := make([]ComponentDescriptor, len(ids))
	for i, id := range ids {
		descs[i] = g.registry.Descriptor(id)
	}
	a := newArchetype(g.nextID, descs, g.chunkCapacity)
	g.nextID++
	hash := signatureHash(ids)
	g.byHash[hash] = append(g.byHash[hash], a)
	g.all = append(g.all, a)
	g.structuralVersion++
	return a
}

// PruneEmpty removes every archetype (other than the empty-signature root,
// which callers should keep reachable via World.emptyArchetype) whose chunks
// are all empty, freeing their storage. Returns the number removed.
func (g *ArchetypeGraph) PruneEmpty(keep *Archetype) int {
	removed := 0
	kept := g.all[:0]
	for _, a := range g.all {
		if a != keep && len(a.components) > 0 && a.allChunksEmpty() {
			for _, c := range a.chunks {
				c.free()
			}
			hash := signatureHash(a.components)
			bucket := g.byHash[hash]
			for i, cand := range bucket {
				if cand == a {
					bucket = append(bucket[:i], bucket[i+1:]...)
					break
				}
			}
			if len(bucket) == 0 {
				delete(g.byHash, hash)
			} else {
				g.byHash[hash] = bucket
			}
			removed++
			continue
		}
		kept = append(kept, a)
	}
	g.all = kept
	if removed > 0 {
		g.structuralVersion++
	}
	return removed
}
