package cellar

import "testing"

func TestCommandBuffer_DespawnSkipsLaterOpsOnSameEntity(t *testing.T) {
	w, pos, _ := newTestWorld(t)
	e := w.EntityNew()
	if err := pos.Set(w, e, Position{X: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cb := Factory.NewCommandBuffer(w)
	cb.Despawn(e)
	cb.Remove(e, pos.ID())

	if err := cb.Apply(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.EntityExists(e) {
		t.Fatalf("expected e to be despawned")
	}
}

func TestCommandBuffer_RejectsNestedApply(t *testing.T) {
	w, _, _ := newTestWorld(t)
	outer := Factory.NewCommandBuffer(w)
	w.applyingDepth++
	err := outer.Apply()
	w.applyingDepth--
	if err == nil {
		t.Fatalf("expected NestedApplyError when Apply runs while already applying")
	}
	if _, ok := err.(NestedApplyError); !ok {
		t.Fatalf("expected NestedApplyError, got %T", err)
	}
}

func TestCommandBuffer_RemoveQueuedAgainstExistingEntity(t *testing.T) {
	w, pos, vel := newTestWorld(t)
	e := w.EntityNew()
	if err := pos.Set(w, e, Position{X: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := vel.Set(w, e, Velocity{X: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cb := Factory.NewCommandBuffer(w)
	cb.Remove(e, vel.ID())
	if err := cb.Apply(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vel.Has(w, e) {
		t.Fatalf("expected Velocity to be removed")
	}
	if !pos.Has(w, e) {
		t.Fatalf("expected Position to survive the removal transition")
	}
}
