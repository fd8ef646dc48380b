package cellar

import "unsafe"

// WorldOptions configures a new World.
type WorldOptions struct {
	// ChunkCapacity is the fixed row capacity of every archetype's chunks.
	// Defaults to DefaultChunkCapacity if zero.
	ChunkCapacity int
	// MaxComponents bounds how many distinct components may be registered.
	// Defaults to 256 if zero.
	MaxComponents int
}

// World owns every entity, archetype, and component registered against it:
// the single embeddable runtime instance the spec describes (spec §1/§4).
type World struct {
	tick          uint64
	registry      *ComponentRegistry
	directory     *EntityDirectory
	graph         *ArchetypeGraph
	emptyArchetype *Archetype
	events        WorldEvents
	applyingDepth int

	parentComp   ComponentID
	childrenComp ComponentID

	chunkCapacity int
}

// NewWorld constructs a World and registers its built-in hierarchy
// components (Parent, Children; spec §4.8).
func NewWorld(opts WorldOptions) *World {
	if opts.ChunkCapacity <= 0 {
		opts.ChunkCapacity = DefaultChunkCapacity
	}
	if opts.MaxComponents <= 0 {
		opts.MaxComponents = 256
	}

	registry := NewComponentRegistry(opts.MaxComponents)
	w := &World{
		registry:      registry,
		directory:     NewEntityDirectory(),
		chunkCapacity: opts.ChunkCapacity,
		events:        Config.events,
	}
	w.graph = newArchetypeGraph(registry, opts.ChunkCapacity)
	w.emptyArchetype = w.graph.FindOrCreate(nil)

	parentComp, err := registry.Register("__Parent", int(unsafe.Sizeof(EntityID(0))), nil)
	if err != nil {
		panic(err)
	}
	childrenComp, err := registry.Register("__Children", int(unsafe.Sizeof(childrenCell{})), childrenSliceProvider{})
	if err != nil {
		panic(err)
	}
	w.parentComp = parentComp
	w.childrenComp = childrenComp
	return w
}

// Tick returns the world's current logical tick.
func (w *World) Tick() uint64 { return w.tick }

// Update advances the world's logical tick by one (spec §4.6: ticks drive
// Changed/Added comparisons).
func (w *World) Update() { w.tick++ }

// EntityCount returns the number of currently-live entities.
func (w *World) EntityCount() int {
	n := 0
	for _, live := range w.directory.live {
		if live {
			n++
		}
	}
	return n
}

// RegisterComponent registers a new component by name and byte size, using
// the world's default storage provider unless provider is non-nil.
func (w *World) RegisterComponent(name string, size int, provider StorageProvider) (ComponentID, error) {
	return w.registry.Register(name, size, provider)
}

// LookupComponent returns the ComponentID registered under name, if any.
func (w *World) LookupComponent(name string) (ComponentID, bool) {
	return w.registry.Lookup(name)
}

// DefaultStorageProvider returns the world's default (flat buffer) storage
// provider.
func (w *World) DefaultStorageProvider() StorageProvider {
	return w.registry.DefaultStorageProvider()
}

// EntityNew allocates a fresh entity with no components, placed in the empty
// archetype.
func (w *World) EntityNew() EntityID {
	id := w.directory.New()
	chunkIdx, row := w.emptyArchetype.reserveRow(id)
	w.directory.SetLocation(id, entityLocation{archetype: w.emptyArchetype, chunkIdx: chunkIdx, row: row})
	return id
}

// EntityNewWithID allocates id specifically, failing per the pinned
// entity_new_with_id Open Question resolution (SPEC_FULL.md §9) if index 0
// is requested, if the index is currently live, or if the requested
// generation is not strictly newer than the index's current generation.
func (w *World) EntityNewWithID(id EntityID) (EntityID, error) {
	got, err := w.directory.NewWithID(id)
	if err != nil {
		return NullEntity, err
	}
	chunkIdx, row := w.emptyArchetype.reserveRow(got)
	w.directory.SetLocation(got, entityLocation{archetype: w.emptyArchetype, chunkIdx: chunkIdx, row: row})
	return got, nil
}

// EntityExists reports whether id currently refers to a live entity (same
// index AND generation).
func (w *World) EntityExists(id EntityID) bool {
	return w.directory.IsLive(id)
}

// EntityDelete destroys id: detaches it from the hierarchy, removes its row
// (swap-with-last, relocating whichever entity got swapped in), and releases
// its directory slot (retired only once its generation is exhausted).
func (w *World) EntityDelete(id EntityID) {
	if !w.directory.IsLive(id) {
		return
	}
	w.detachFromHierarchyOnDelete(id)

	loc, ok := w.directory.Locate(id)
	if ok {
		w.removeRowAndRelocate(loc.archetype, loc.chunkIdx, loc.row)
	}
	w.directory.Delete(id)
}

// removeRowAndRelocate removes the row at (chunkIdx,row) in a, firing
// OnRowRemoved and updating the directory entry of whichever entity was
// swapped into that slot (if any).
func (w *World) removeRowAndRelocate(a *Archetype, chunkIdx, row int) {
	movedEntity, moved := a.removeRow(chunkIdx, row)
	w.fireRowRemoved(a, chunkIdx, row)
	if moved {
		w.directory.SetLocation(movedEntity, entityLocation{archetype: a, chunkIdx: chunkIdx, row: row})
	}
}

// Has reports whether entity id currently carries component c.
func (w *World) Has(id EntityID, c ComponentID) bool {
	loc, ok := w.directory.Locate(id)
	if !ok {
		return false
	}
	return loc.archetype.Has(c)
}

// Get returns a pointer to entity id's value for component c, or nil, false
// if absent.
func (w *World) Get(id EntityID, c ComponentID) (unsafe.Pointer, bool) {
	loc, ok := w.directory.Locate(id)
	if !ok {
		return nil, false
	}
	colIdx := loc.archetype.ColumnIndex(c)
	if colIdx < 0 {
		return nil, false
	}
	chunk := loc.archetype.chunks[loc.chunkIdx]
	return chunk.rowPtr(colIdx, loc.row), true
}

// Set writes src into entity id's value for component c, inserting c (and
// performing the archetype transition) if id does not already carry it. src
// may be nil only when c is a zero-sized tag component.
func (w *World) Set(id EntityID, c ComponentID, src unsafe.Pointer) error {
	loc, ok := w.directory.Locate(id)
	if !ok {
		return nil
	}
	colIdx := loc.archetype.ColumnIndex(c)
	if colIdx >= 0 {
		chunk := loc.archetype.chunks[loc.chunkIdx]
		chunk.writeComponent(colIdx, loc.row, src, w.tick)
		w.fireComponentWritten(id, c)
		return nil
	}
	newLoc, err := w.transitionAdd(id, loc, c, src)
	if err != nil {
		return err
	}
	w.directory.SetLocation(id, newLoc)
	w.fireComponentWritten(id, c)
	return nil
}

// AddTag sets a zero-sized tag component on id (equivalent to Set with a nil
// source).
func (w *World) AddTag(id EntityID, c ComponentID) error {
	return w.Set(id, c, nil)
}

// MarkChanged re-stamps component c's changed tick on id to the current
// tick, without altering its value. No-op if id does not carry c.
func (w *World) MarkChanged(id EntityID, c ComponentID) {
	loc, ok := w.directory.Locate(id)
	if !ok {
		return
	}
	colIdx := loc.archetype.ColumnIndex(c)
	if colIdx < 0 {
		return
	}
	loc.archetype.chunks[loc.chunkIdx].columns[colIdx].changedTick[loc.row] = w.tick
}

// transitionAdd moves entity id from its current archetype to the one
// obtained by adding c to its signature, copying every surviving column
// (preserving addedTick, but re-stamping changedTick = w.tick for every
// carried-over column per spec §4.4 step 4), writing src into the new
// column, and swap-with-last removing the vacated row.
func (w *World) transitionAdd(id EntityID, loc entityLocation, c ComponentID, src unsafe.Pointer) (entityLocation, error) {
	srcArch := loc.archetype
	edge := srcArch.edgeFor(c)
	dstArch := edge.addTarget
	if dstArch == nil {
		newSig := mergeSortedComponent(srcArch.components, c)
		dstArch = w.graph.FindOrCreate(newSig)
		edge.addTarget = dstArch
		dstArch.edgeFor(c).removeTarget = srcArch
	}

	dstChunkIdx, dstRow := dstArch.reserveRow(id)
	dstChunk := dstArch.chunks[dstChunkIdx]
	srcChunk := srcArch.chunks[loc.chunkIdx]

	for _, comp := range srcArch.components {
		srcCol := srcArch.ColumnIndex(comp)
		dstCol := dstArch.ColumnIndex(comp)
		srcChunk.copyComponentTo(srcCol, loc.row, dstChunk, dstCol, dstRow)
		dstChunk.columns[dstCol].addedTick[dstRow] = srcChunk.columns[srcCol].addedTick[loc.row]
		dstChunk.columns[dstCol].changedTick[dstRow] = w.tick
	}

	newCol := dstArch.ColumnIndex(c)
	dstChunk.writeComponent(newCol, dstRow, src, w.tick)
	dstChunk.stampAdded(newCol, dstRow, w.tick)

	w.fireRowInserted(dstArch, dstChunkIdx, dstRow)
	w.removeRowAndRelocate(srcArch, loc.chunkIdx, loc.row)

	return entityLocation{archetype: dstArch, chunkIdx: dstChunkIdx, row: dstRow}, nil
}

// Unset removes component c from entity id, transitioning it to the
// archetype obtained by dropping c from its signature (spec §4.4: "Remove
// component is the mirror operation"). No-op if id does not carry c.
// Surviving columns keep addedTick but get changedTick re-stamped to
// w.tick, the same as the insert-side transition.
func (w *World) Unset(id EntityID, c ComponentID) {
	loc, ok := w.directory.Locate(id)
	if !ok {
		return
	}
	srcArch := loc.archetype
	if !srcArch.Has(c) {
		return
	}

	edge := srcArch.edgeFor(c)
	dstArch := edge.removeTarget
	if dstArch == nil {
		newSig := removeSortedComponent(srcArch.components, c)
		dstArch = w.graph.FindOrCreate(newSig)
		edge.removeTarget = dstArch
		dstArch.edgeFor(c).addTarget = srcArch
	}

	dstChunkIdx, dstRow := dstArch.reserveRow(id)
	dstChunk := dstArch.chunks[dstChunkIdx]
	srcChunk := srcArch.chunks[loc.chunkIdx]

	for _, comp := range dstArch.components {
		srcCol := srcArch.ColumnIndex(comp)
		dstCol := dstArch.ColumnIndex(comp)
		srcChunk.copyComponentTo(srcCol, loc.row, dstChunk, dstCol, dstRow)
		dstChunk.columns[dstCol].addedTick[dstRow] = srcChunk.columns[srcCol].addedTick[loc.row]
		dstChunk.columns[dstCol].changedTick[dstRow] = w.tick
	}

	w.fireRowInserted(dstArch, dstChunkIdx, dstRow)
	w.removeRowAndRelocate(srcArch, loc.chunkIdx, loc.row)

	w.directory.SetLocation(id, entityLocation{archetype: dstArch, chunkIdx: dstChunkIdx, row: dstRow})
}

// RemoveEmptyArchetypes sweeps the archetype graph, freeing chunk storage
// for archetypes with no occupied rows. Returns the number removed.
func (w *World) RemoveEmptyArchetypes() int {
	return w.graph.PruneEmpty(w.emptyArchetype)
}

// Clear despawns every live entity (detaching hierarchy links along the
// way) and prunes the now-empty archetypes, leaving registered components
// and the tick counter untouched (spec §6 world_clear).
func (w *World) Clear() {
	live := make([]EntityID, 0, w.EntityCount())
	for idx, alive := range w.directory.live {
		if !alive || idx == 0 {
			continue
		}
		live = append(live, newEntityID(uint32(idx), w.directory.generations[idx]))
	}
	for _, id := range live {
		w.EntityDelete(id)
	}
	w.graph.PruneEmpty(w.emptyArchetype)
}

func (w *World) fireRowInserted(a *Archetype, chunkIdx, row int) {
	if w.events.OnRowInserted != nil {
		w.events.OnRowInserted(w, a, chunkIdx, row)
	}
}

func (w *World) fireRowRemoved(a *Archetype, chunkIdx, row int) {
	if w.events.OnRowRemoved != nil {
		w.events.OnRowRemoved(w, a, chunkIdx, row)
	}
}

func (w *World) fireComponentWritten(id EntityID, c ComponentID) {
	if w.events.OnComponentWritten != nil {
		w.events.OnComponentWritten(w, id, c)
	}
}
