package cellar

import "testing"

func TestArchetypeGraph_FindOrCreateIsIdempotent(t *testing.T) {
	r := NewComponentRegistry(8)
	a, _ := r.Register("A", 4, nil)
	b, _ := r.Register("B", 4, nil)
	g := newArchetypeGraph(r, DefaultChunkCapacity)

	sig := []ComponentID{a, b}
	arch1 := g.FindOrCreate(sig)
	arch2 := g.FindOrCreate(sig)
	if arch1 != arch2 {
		t.Fatalf("expected FindOrCreate to return the same archetype for an identical signature")
	}
	if len(g.All()) != 1 {
		t.Fatalf("expected exactly one archetype, got %d", len(g.All()))
	}
}

func TestArchetypeGraph_StructuralVersionBumpsOnCreate(t *testing.T) {
	r := NewComponentRegistry(8)
	a, _ := r.Register("A", 4, nil)
	g := newArchetypeGraph(r, DefaultChunkCapacity)

	before := g.structuralVersion
	g.FindOrCreate([]ComponentID{a})
	if g.structuralVersion <= before {
		t.Fatalf("expected structuralVersion to advance after creating a new archetype")
	}

	before = g.structuralVersion
	g.FindOrCreate([]ComponentID{a})
	if g.structuralVersion != before {
		t.Fatalf("expected structuralVersion to stay put when no new archetype is created")
	}
}

func TestArchetypeGraph_PruneEmptyRemovesVacatedArchetypes(t *testing.T) {
	w, pos, _ := newTestWorld(t)
	e := w.EntityNew()
	if err := pos.Set(w, e, Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := len(w.graph.All())
	w.EntityDelete(e)
	removed := w.RemoveEmptyArchetypes()
	if removed == 0 {
		t.Fatalf("expected at least one archetype to be pruned")
	}
	if len(w.graph.All()) != before-removed {
		t.Fatalf("expected archetype count to drop by %d, got %d remaining (was %d)", removed, len(w.graph.All()), before)
	}
}
