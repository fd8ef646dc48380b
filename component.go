package cellar

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// ComponentID is a dense, small, registration-order component identifier.
type ComponentID uint32

// ComponentDescriptor is the registry's record for one component: its dense
// ID, its (unique) name, its byte size (0 marks a tag component, carrying no
// column), and the storage vtable backing its column.
type ComponentDescriptor struct {
	ID       ComponentID
	Name     string
	Size     int
	Provider StorageProvider
}

// ComponentRegistry assigns dense component IDs, records per-component size
// and storage vtable, and exposes name→ID lookup (spec §4.2).
type ComponentRegistry struct {
	cache           *SimpleCache[ComponentDescriptor]
	defaultProvider StorageProvider
}

// NewComponentRegistry creates a registry that can hold at most maxComponents
// distinct components.
func NewComponentRegistry(maxComponents int) *ComponentRegistry {
	return &ComponentRegistry{
		cache:           NewSimpleCache[ComponentDescriptor](maxComponents),
		defaultProvider: defaultStorageProvider{},
	}
}

// Register assigns the next dense ID to name, or returns the existing ID if
// name is already registered with a matching size (idempotent). A mismatched
// size fails with DuplicateNameError. A nil provider uses the registry's
// default (flat buffer) provider.
func (r *ComponentRegistry) Register(name string, size int, provider StorageProvider) (ComponentID, error) {
	if idx, ok := r.cache.GetIndex(name); ok {
		existing := r.cache.GetItem(idx)
		if existing.Size != size {
			return 0, DuplicateNameError{Name: name, ExistingSize: existing.Size, RequestedSize: size}
		}
		return existing.ID, nil
	}
	if provider == nil {
		provider = r.defaultProvider
	}
	idx, err := r.cache.Register(name, ComponentDescriptor{Name: name, Size: size, Provider: provider})
	if err != nil {
		return 0, err
	}
	desc := r.cache.GetItem(idx)
	desc.ID = ComponentID(idx)
	return desc.ID, nil
}

// Lookup returns the ComponentID registered under name, if any.
func (r *ComponentRegistry) Lookup(name string) (ComponentID, bool) {
	idx, ok := r.cache.GetIndex(name)
	if !ok {
		return 0, false
	}
	return ComponentID(idx), true
}

// Descriptor returns the descriptor for id. Callers must only pass IDs
// obtained from Register/Lookup on the same registry; an out-of-range id
// indicates an internal bookkeeping bug, not a recoverable caller error, so
// it panics with a traced error rather than returning one (same treatment
// warehouse gives its own internal invariant violations).
func (r *ComponentRegistry) Descriptor(id ComponentID) ComponentDescriptor {
	if uint32(id) >= uint32(r.cache.Len()) {
		panic(bark.AddTrace(fmt.Errorf("component registry: id %d out of range (%d registered)", id, r.cache.Len())))
	}
	return *r.cache.GetItem32(uint32(id))
}

// DefaultStorageProvider returns the registry's default (flat contiguous
// buffer) storage provider.
func (r *ComponentRegistry) DefaultStorageProvider() StorageProvider {
	return r.defaultProvider
}
