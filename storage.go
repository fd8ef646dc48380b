package cellar

import "unsafe"

// ChunkHandle is the opaque, per-chunk, per-column storage handle a
// StorageProvider hands back from AllocChunk and consumes in every other
// method. Its concrete type is provider-defined.
type ChunkHandle = any

// StorageProvider is the pluggable column-storage vtable (spec §4.3):
// allocate/free a per-chunk column buffer, address a row, write into a row,
// copy a row between chunks, and swap two rows in place. Implementations
// MUST tolerate size == 0 (tag components) by returning a stable non-nil
// sentinel from RowPtr and making every other method a no-op.
type StorageProvider interface {
	AllocChunk(size, capacity int) ChunkHandle
	FreeChunk(h ChunkHandle)
	RowPtr(h ChunkHandle, row, size int) unsafe.Pointer
	Write(h ChunkHandle, row int, src unsafe.Pointer, size int)
	Copy(srcH ChunkHandle, srcRow int, dstH ChunkHandle, dstRow int, size int)
	Swap(h ChunkHandle, rowA, rowB int, size int)
}

// tagSentinel is the stable non-null pointer returned by RowPtr for
// zero-sized (tag) components, whose presence is recorded solely by
// archetype membership.
var tagSentinel = &struct{}{}

// defaultStorageProvider is the default StorageProvider: a flat contiguous
// byte buffer of size*capacity bytes, in the spirit of delaneyj-arche's
// unsafe-pointer row layout (archetype.go's layout/archetypeAccess), but
// bounded to a fixed capacity instead of an unbounded growable buffer.
type defaultStorageProvider struct{}

type byteBuffer struct {
	data []byte
}

func (defaultStorageProvider) AllocChunk(size, capacity int) ChunkHandle {
	if size == 0 {
		return tagSentinel
	}
	return &byteBuffer{data: make([]byte, size*capacity)}
}

func (defaultStorageProvider) FreeChunk(h ChunkHandle) {}

func (defaultStorageProvider) RowPtr(h ChunkHandle, row, size int) unsafe.Pointer {
	if size == 0 {
		return unsafe.Pointer(tagSentinel)
	}
	b := h.(*byteBuffer)
	return unsafe.Pointer(&b.data[row*size])
}

func (p defaultStorageProvider) Write(h ChunkHandle, row int, src unsafe.Pointer, size int) {
	if size == 0 {
		return
	}
	dst := p.RowPtr(h, row, size)
	dstSlice := unsafe.Slice((*byte)(dst), size)
	srcSlice := unsafe.Slice((*byte)(src), size)
	copy(dstSlice, srcSlice)
}

func (p defaultStorageProvider) Copy(srcH ChunkHandle, srcRow int, dstH ChunkHandle, dstRow int, size int) {
	if size == 0 {
		return
	}
	src := p.RowPtr(srcH, srcRow, size)
	dst := p.RowPtr(dstH, dstRow, size)
	dstSlice := unsafe.Slice((*byte)(dst), size)
	srcSlice := unsafe.Slice((*byte)(src), size)
	copy(dstSlice, srcSlice)
}

func (p defaultStorageProvider) Swap(h ChunkHandle, rowA, rowB int, size int) {
	if size == 0 || rowA == rowB {
		return
	}
	a := unsafe.Slice((*byte)(p.RowPtr(h, rowA, size)), size)
	b := unsafe.Slice((*byte)(p.RowPtr(h, rowB, size)), size)
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

// childrenCell is the logical value type for the built-in Children
// component: an ordered, duplicate-free list of child entities.
type childrenCell struct {
	list []EntityID
}

// childrenSliceStore is the per-chunk handle for childrenSliceProvider: a
// native Go slice of cells, one per row, pre-sized to the chunk's capacity
// so row pointers stay stable for the chunk's whole lifetime.
type childrenSliceStore struct {
	cells []childrenCell
}

// childrenSliceProvider is a host-language-managed StorageProvider (spec
// §4.3/§9, "Pluggable storage for non-POD data"): Children holds a
// variable-length, GC-visible slice of entity IDs, which cannot live inside
// a flat byte buffer without breaking Go's pointer-safety guarantees. It
// keeps its own side table of childrenCell values keyed by row, exactly the
// pattern the design notes describe.
type childrenSliceProvider struct{}

func (childrenSliceProvider) AllocChunk(size, capacity int) ChunkHandle {
	return &childrenSliceStore{cells: make([]childrenCell, capacity)}
}

func (childrenSliceProvider) FreeChunk(h ChunkHandle) {}

func (childrenSliceProvider) RowPtr(h ChunkHandle, row, size int) unsafe.Pointer {
	s := h.(*childrenSliceStore)
	return unsafe.Pointer(&s.cells[row])
}

func (childrenSliceProvider) Write(h ChunkHandle, row int, src unsafe.Pointer, size int) {
	s := h.(*childrenSliceStore)
	if src == nil {
		s.cells[row] = childrenCell{}
		return
	}
	s.cells[row] = *(*childrenCell)(src)
}

func (childrenSliceProvider) Copy(srcH ChunkHandle, srcRow int, dstH ChunkHandle, dstRow int, size int) {
	src := srcH.(*childrenSliceStore)
	dst := dstH.(*childrenSliceStore)
	dst.cells[dstRow] = src.cells[srcRow]
}

func (childrenSliceProvider) Swap(h ChunkHandle, rowA, rowB int, size int) {
	s := h.(*childrenSliceStore)
	s.cells[rowA], s.cells[rowB] = s.cells[rowB], s.cells[rowA]
}
