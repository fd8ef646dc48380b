package cellar

import "testing"

func TestHierarchy_AddChildSetsParentAndChildren(t *testing.T) {
	w := Factory.NewWorld(WorldOptions{})
	parent := w.EntityNew()
	child := w.EntityNew()

	if err := w.AddChild(parent, child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := w.GetParent(child)
	if !ok || got != parent {
		t.Fatalf("expected child's parent to be %v, got %v, ok=%v", parent, got, ok)
	}
	children := w.GetChildren(parent)
	if len(children) != 1 || children[0] != child {
		t.Fatalf("expected parent's children to be [%v], got %v", child, children)
	}
}

func TestHierarchy_ReparentDetachesFromPreviousParent(t *testing.T) {
	w := Factory.NewWorld(WorldOptions{})
	p1 := w.EntityNew()
	p2 := w.EntityNew()
	child := w.EntityNew()

	if err := w.AddChild(p1, child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AddChild(p2, child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.ChildCount(p1) != 0 {
		t.Fatalf("expected p1 to have no children after reparenting, got %d", w.ChildCount(p1))
	}
	if w.ChildCount(p2) != 1 {
		t.Fatalf("expected p2 to have one child, got %d", w.ChildCount(p2))
	}
}

func TestHierarchy_RejectsCycle(t *testing.T) {
	w := Factory.NewWorld(WorldOptions{})
	p := w.EntityNew()
	c := w.EntityNew()
	gc := w.EntityNew()

	if err := w.AddChild(p, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AddChild(c, gc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := w.AddChild(gc, p)
	if err == nil {
		t.Fatalf("expected WouldCycleError when re-parenting an ancestor under its own descendant")
	}
	if _, ok := err.(WouldCycleError); !ok {
		t.Fatalf("expected WouldCycleError, got %T", err)
	}
}

func TestHierarchy_DeleteDetachesLinks(t *testing.T) {
	w := Factory.NewWorld(WorldOptions{})
	parent := w.EntityNew()
	child := w.EntityNew()
	if err := w.AddChild(parent, child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w.EntityDelete(child)

	if w.ChildCount(parent) != 0 {
		t.Fatalf("expected parent to have no children after child deletion, got %d", w.ChildCount(parent))
	}
}

func TestHierarchy_DepthAndTraversal(t *testing.T) {
	w := Factory.NewWorld(WorldOptions{})
	root := w.EntityNew()
	mid := w.EntityNew()
	leaf := w.EntityNew()

	if err := w.AddChild(root, mid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AddChild(mid, leaf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if depth := w.HierarchyDepth(leaf); depth != 2 {
		t.Fatalf("expected depth 2, got %d", depth)
	}

	var visited []EntityID
	w.TraverseChildren(root, func(e EntityID) { visited = append(visited, e) }, true)
	if len(visited) != 2 || visited[0] != mid || visited[1] != leaf {
		t.Fatalf("expected traversal order [mid, leaf], got %v", visited)
	}
}
