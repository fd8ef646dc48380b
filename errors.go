package cellar

import "fmt"

// DuplicateNameError is returned by RegisterComponent when a name is already
// registered with a different size.
type DuplicateNameError struct {
	Name          string
	ExistingSize  int
	RequestedSize int
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf(
		"component %q already registered with size %d bytes (requested %d bytes)",
		e.Name, e.ExistingSize, e.RequestedSize,
	)
}

// InvalidQueryError is returned by Query.Build when terms contradict (a
// component appears as both With/Changed/Added and Without).
type InvalidQueryError struct {
	Component ComponentID
}

func (e InvalidQueryError) Error() string {
	return fmt.Sprintf("component %d appears in both With and Without", e.Component)
}

// WouldCycleError is returned by AddChild when the proposed link would make
// the hierarchy cyclic.
type WouldCycleError struct {
	Parent, Child EntityID
}

func (e WouldCycleError) Error() string {
	return fmt.Sprintf("making %v a child of %v would create a hierarchy cycle", e.Child, e.Parent)
}

// NestedApplyError is returned by CommandBuffer.Apply when called while an
// apply is already in progress on the same world.
type NestedApplyError struct{}

func (e NestedApplyError) Error() string {
	return "command buffer apply called while an apply is already in progress"
}

// IndexLiveError is returned by World.EntityNewWithID when the requested
// index is already occupied by a live entity.
type IndexLiveError struct {
	Index uint32
}

func (e IndexLiveError) Error() string {
	return fmt.Sprintf("entity index %d is already live", e.Index)
}

// StaleGenerationError is returned by World.EntityNewWithID when the
// requested generation is not newer than the directory's current generation
// for that index.
type StaleGenerationError struct {
	Index              uint32
	RequestedGen, HaveGen uint16
}

func (e StaleGenerationError) Error() string {
	return fmt.Sprintf(
		"entity index %d: requested generation %d is not newer than current generation %d",
		e.Index, e.RequestedGen, e.HaveGen,
	)
}

// ReservedIndexError is returned by World.EntityNewWithID for index 0, which
// is reserved for the null entity.
type ReservedIndexError struct{}

func (e ReservedIndexError) Error() string {
	return "entity index 0 is reserved for the null entity"
}
