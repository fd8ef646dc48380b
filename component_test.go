package cellar

import "testing"

func TestComponentRegistry_RegisterIsIdempotentOnMatchingSize(t *testing.T) {
	r := NewComponentRegistry(8)

	id1, err := r.Register("Position", 16, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := r.Register("Position", 16, nil)
	if err != nil {
		t.Fatalf("unexpected error on re-register: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected idempotent registration to return the same ID, got %d and %d", id1, id2)
	}
}

func TestComponentRegistry_RegisterRejectsSizeMismatch(t *testing.T) {
	r := NewComponentRegistry(8)
	if _, err := r.Register("Position", 16, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := r.Register("Position", 8, nil)
	if err == nil {
		t.Fatalf("expected DuplicateNameError on size mismatch")
	}
	if _, ok := err.(DuplicateNameError); !ok {
		t.Fatalf("expected DuplicateNameError, got %T", err)
	}
}

func TestComponentRegistry_LookupAndDescriptor(t *testing.T) {
	r := NewComponentRegistry(8)
	id, err := r.Register("Velocity", 8, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := r.Lookup("Velocity")
	if !ok || got != id {
		t.Fatalf("expected Lookup to find ID %d, got %d, %v", id, got, ok)
	}

	desc := r.Descriptor(id)
	if desc.Name != "Velocity" || desc.Size != 8 {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
}

func TestComponentRegistry_CapacityBounded(t *testing.T) {
	r := NewComponentRegistry(1)
	if _, err := r.Register("A", 4, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Register("B", 4, nil); err == nil {
		t.Fatalf("expected an error once the registry is at capacity")
	}
}
