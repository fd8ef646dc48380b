/*
Package cellar is an embeddable, archetype-based Entity Component System (ECS)
core.

Cellar stores heterogeneous per-entity data in column-oriented chunks grouped
by component-set identity ("archetypes"), and answers filtered queries over
those chunks with zero-copy access. On top of that core it provides a
deferred command buffer for structural mutations and a parent/child hierarchy
relation.

Core Concepts:

  - Entity: a 64-bit handle (index + generation) identifying a row across
    archetype moves.
  - Component: a fixed-size (possibly zero) per-entity datum, identified by a
    dense ComponentID.
  - Archetype: the canonical sorted set of component IDs present on a group
    of entities, holding an ordered list of fixed-capacity Chunks.
  - Query: a compiled set of With/Without/Optional/Changed/Added terms plus a
    cached list of matching archetypes.

Basic Usage:

	world := cellar.Factory.NewWorld(cellar.WorldOptions{})

	position, _ := cellar.RegisterComponent[Position](world, "Position")
	velocity, _ := cellar.RegisterComponent[Velocity](world, "Velocity")

	e := world.EntityNew()
	position.Set(world, e, Position{X: 1, Y: 2})
	velocity.Set(world, e, Velocity{X: 3, Y: 4})

	q, _ := cellar.Factory.NewQuery().With(position.ID()).With(velocity.ID()).Build(world)
	for it := q.Iter(); it.Next(); {
		for row := 0; row < it.Count(); row++ {
			pos := position.GetFromIter(it, 0, row)
			vel := velocity.GetFromIter(it, 1, row)
			pos.X += vel.X
			pos.Y += vel.Y
		}
	}

Cellar is the storage core underneath a scheduler/app layer (stages, systems,
observers); that layer is not part of this package.
*/
package cellar
