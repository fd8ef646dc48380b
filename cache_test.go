package cellar

import "testing"

func TestSimpleCache_RegisterAndLookup(t *testing.T) {
	c := NewSimpleCache[string](4)

	idx, err := c.Register("a", "alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := c.GetIndex("a"); !ok || got != idx {
		t.Fatalf("expected GetIndex(\"a\") == %d, got %d, %v", idx, got, ok)
	}
	if *c.GetItem(idx) != "alpha" {
		t.Fatalf("expected item %q, got %q", "alpha", *c.GetItem(idx))
	}
}

func TestSimpleCache_RejectsOverCapacity(t *testing.T) {
	c := NewSimpleCache[int](2)
	if _, err := c.Register("a", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Register("b", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Register("c", 3); err == nil {
		t.Fatalf("expected an error once the cache is at capacity")
	}
}
