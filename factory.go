package cellar

// factory is the package-level entry point for constructing Worlds,
// Queries, and CommandBuffers, in the style of warehouse's package-level
// Factory value (factory.go).
type factory struct{}

// Factory is the default construction entry point.
var Factory factory

// NewWorld constructs a World with the given options.
func (f factory) NewWorld(opts WorldOptions) *World {
	return NewWorld(opts)
}

// NewQuery starts a new, unbound query builder.
func (f factory) NewQuery() *Query {
	return NewQueryBuilder()
}

// NewCommandBuffer opens a new CommandBuffer against w.
func (f factory) NewCommandBuffer(w *World) *CommandBuffer {
	return w.BeginDeferred()
}
