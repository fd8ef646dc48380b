package cellar

import "unsafe"

type opKind uint8

const (
	opDespawn opKind = iota
	opInsert
	opRemove
)

type bufferedOp struct {
	kind      opKind
	entity    EntityID
	component ComponentID
	data      []byte
}

// CommandBuffer queues structural mutations for deferred, FIFO application
// (spec §4.7), grounded on warehouse's operation_queue.go
// (entityOperationsQueue.ProcessAll / EntityOperation.Apply) and on
// ooftn-ecs's Commands.Flush despawn-skip semantics. Spawn() is NOT
// deferred: it allocates the entity ID immediately (as warehouse's
// NewEntityOperation and ooftn's Commands.spawns both do) so callers can
// queue further Insert/Remove ops against it within the same batch.
type CommandBuffer struct {
	world *World
	ops   []bufferedOp
}

// BeginDeferred opens a new CommandBuffer against w.
func (w *World) BeginDeferred() *CommandBuffer {
	return &CommandBuffer{world: w}
}

// Spawn allocates a bare entity (no components) immediately and returns its
// ID, so it can be the target of subsequent Insert calls in this batch.
func (cb *CommandBuffer) Spawn() EntityID {
	return cb.world.EntityNew()
}

// Despawn queues id for destruction. If id is despawned more than once, or
// has further ops queued against it, those ops are skipped on Apply once the
// despawn has run (spec §4.7 edge case).
func (cb *CommandBuffer) Despawn(id EntityID) {
	cb.ops = append(cb.ops, bufferedOp{kind: opDespawn, entity: id})
}

// Insert queues c's insertion on id using data as the raw component bytes
// (size must match the component's registered size; a zero-length data is
// valid only for a tag component).
func (cb *CommandBuffer) Insert(id EntityID, c ComponentID, data []byte) {
	cb.ops = append(cb.ops, bufferedOp{kind: opInsert, entity: id, component: c, data: data})
}

// Remove queues c's removal from id.
func (cb *CommandBuffer) Remove(id EntityID, c ComponentID) {
	cb.ops = append(cb.ops, bufferedOp{kind: opRemove, entity: id, component: c})
}

// Apply replays every queued op in FIFO order against the world. Ops
// targeting an entity that was despawned earlier in this same batch (or no
// longer exists at all) are silently skipped, matching ooftn-ecs's Flush
// despawn-vs-moved bookkeeping. Reentrant Apply calls (an op triggering
// another Apply) fail with NestedApplyError.
func (cb *CommandBuffer) Apply() error {
	if cb.world.applyingDepth > 0 {
		return NestedApplyError{}
	}
	cb.world.applyingDepth++
	defer func() { cb.world.applyingDepth-- }()

	despawned := make(map[EntityID]bool)
	for _, op := range cb.ops {
		if despawned[op.entity] {
			continue
		}
		if !cb.world.EntityExists(op.entity) {
			continue
		}
		switch op.kind {
		case opDespawn:
			cb.world.EntityDelete(op.entity)
			despawned[op.entity] = true
		case opInsert:
			desc := cb.world.registry.Descriptor(op.component)
			if desc.Size == 0 {
				if err := cb.world.AddTag(op.entity, op.component); err != nil {
					return err
				}
				continue
			}
			if len(op.data) != desc.Size {
				continue
			}
			ptr := unsafe.Pointer(&op.data[0])
			if err := cb.world.Set(op.entity, op.component, ptr); err != nil {
				return err
			}
		case opRemove:
			cb.world.Unset(op.entity, op.component)
		}
	}
	cb.ops = nil
	return nil
}

// EndDeferred applies cb and discards it. Equivalent to cb.Apply().
func (w *World) EndDeferred(cb *CommandBuffer) error {
	return cb.Apply()
}
