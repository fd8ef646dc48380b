package cellar

import "unsafe"

// GetParent returns e's parent entity, if any (spec §4.8).
func (w *World) GetParent(e EntityID) (EntityID, bool) {
	ptr, ok := w.Get(e, w.parentComp)
	if !ok {
		return NullEntity, false
	}
	parent := *(*EntityID)(ptr)
	if parent == NullEntity {
		return NullEntity, false
	}
	return parent, true
}

// HasParent reports whether e currently has a parent.
func (w *World) HasParent(e EntityID) bool {
	_, ok := w.GetParent(e)
	return ok
}

// GetChildren returns a read-only copy of e's children, in attach order.
func (w *World) GetChildren(e EntityID) []EntityID {
	cell := w.getChildrenCell(e)
	if cell == nil {
		return nil
	}
	out := make([]EntityID, len(cell.list))
	copy(out, cell.list)
	return out
}

// ChildCount returns the number of direct children of e.
func (w *World) ChildCount(e EntityID) int {
	cell := w.getChildrenCell(e)
	if cell == nil {
		return 0
	}
	return len(cell.list)
}

func (w *World) getChildrenCell(e EntityID) *childrenCell {
	ptr, ok := w.Get(e, w.childrenComp)
	if !ok {
		return nil
	}
	return (*childrenCell)(ptr)
}

// AddChild attaches child under parent, detaching it from any previous
// parent first. Rejected with WouldCycleError if child is already an
// ancestor of parent (spec §4.8 scenario: a cycle would be formed by
// re-parenting an ancestor under its own descendant).
func (w *World) AddChild(parent, child EntityID) error {
	if parent == child {
		return WouldCycleError{Parent: parent, Child: child}
	}
	if w.IsAncestorOf(child, parent) {
		return WouldCycleError{Parent: parent, Child: child}
	}

	if prevParent, ok := w.GetParent(child); ok {
		w.removeFromChildrenList(prevParent, child)
	}

	w.setParentComponent(child, parent)
	w.appendChild(parent, child)
	return nil
}

// RemoveChild detaches child from parent, if that link currently exists.
func (w *World) RemoveChild(parent, child EntityID) error {
	current, ok := w.GetParent(child)
	if !ok || current != parent {
		return nil
	}
	w.removeFromChildrenList(parent, child)
	w.Unset(child, w.parentComp)
	return nil
}

// RemoveAllChildren detaches every direct child of parent.
func (w *World) RemoveAllChildren(parent EntityID) {
	cell := w.getChildrenCell(parent)
	if cell == nil {
		return
	}
	children := append([]EntityID(nil), cell.list...)
	for _, c := range children {
		w.Unset(c, w.parentComp)
	}
	w.Unset(parent, w.childrenComp)
}

// IsAncestorOf reports whether ancestor is found by walking descendant's
// Parent chain upward.
func (w *World) IsAncestorOf(ancestor, descendant EntityID) bool {
	current := descendant
	for {
		parent, ok := w.GetParent(current)
		if !ok {
			return false
		}
		if parent == ancestor {
			return true
		}
		current = parent
	}
}

// IsDescendantOf reports whether ancestor is found by walking descendant's
// Parent chain upward (the mirror of IsAncestorOf).
func (w *World) IsDescendantOf(descendant, ancestor EntityID) bool {
	return w.IsAncestorOf(ancestor, descendant)
}

// HierarchyDepth returns the number of Parent links between e and the root
// of its tree (0 for a root entity).
func (w *World) HierarchyDepth(e EntityID) int {
	depth := 0
	current := e
	for {
		parent, ok := w.GetParent(current)
		if !ok {
			return depth
		}
		depth++
		current = parent
	}
}

// TraverseChildren visits e's direct children in attach order, calling
// visit(c) for each; if recursive, each child's subtree is visited
// depth-first before moving to the next sibling.
func (w *World) TraverseChildren(e EntityID, visit func(EntityID), recursive bool) {
	cell := w.getChildrenCell(e)
	if cell == nil {
		return
	}
	for _, c := range cell.list {
		visit(c)
		if recursive {
			w.TraverseChildren(c, visit, true)
		}
	}
}

// TraverseAncestors walks e's Parent chain upward, calling visit(p) for each
// ancestor in order from nearest to farthest.
func (w *World) TraverseAncestors(e EntityID, visit func(EntityID)) {
	current := e
	for {
		parent, ok := w.GetParent(current)
		if !ok {
			return
		}
		visit(parent)
		current = parent
	}
}

func (w *World) setParentComponent(child, parent EntityID) {
	_ = w.Set(child, w.parentComp, unsafe.Pointer(&parent))
}

func (w *World) appendChild(parent, child EntityID) {
	cell := w.getChildrenCell(parent)
	if cell == nil {
		newCell := childrenCell{list: []EntityID{child}}
		_ = w.Set(parent, w.childrenComp, unsafe.Pointer(&newCell))
		return
	}
	for _, existing := range cell.list {
		if existing == child {
			return
		}
	}
	cell.list = append(cell.list, child)
}

func (w *World) removeFromChildrenList(parent, child EntityID) {
	cell := w.getChildrenCell(parent)
	if cell == nil {
		return
	}
	for i, existing := range cell.list {
		if existing == child {
			cell.list = append(cell.list[:i], cell.list[i+1:]...)
			return
		}
	}
}

// detachFromHierarchyOnDelete severs e's Parent/Children links before its
// row is removed (spec §4.8: deleting an entity must not leave dangling
// references in its former parent's or children's records).
func (w *World) detachFromHierarchyOnDelete(e EntityID) {
	if parent, ok := w.GetParent(e); ok {
		w.removeFromChildrenList(parent, e)
	}
	if cell := w.getChildrenCell(e); cell != nil {
		for _, c := range cell.list {
			w.Unset(c, w.parentComp)
		}
	}
}
