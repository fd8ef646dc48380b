package cellar

import "github.com/TheBitDrifter/mask"

// TermKind distinguishes the five kinds of query term (spec §4.6).
type TermKind uint8

const (
	TermWith TermKind = iota
	TermWithout
	TermOptional
	TermChanged
	TermAdded
)

type term struct {
	kind      TermKind
	component ComponentID
}

// Query is a reusable, cached archetype matcher plus a list of result
// columns to bind (spec §4.6). Built once via Factory.NewQuery()...Build(w),
// then iterated repeatedly with Iter(); the matched-archetype list is only
// recomputed when the owning World's ArchetypeGraph.structuralVersion has
// advanced since the last match, mirroring warehouse's Cursor/Storage
// relationship but keyed off an explicit version counter instead of a full
// rescan every call.
type Query struct {
	world *World

	terms []term

	requiredMask mask.Mask
	excludedMask mask.Mask

	// resultTerms are the With/Optional/Changed/Added terms, in the order
	// their columns are exposed through QueryIter (Without contributes no
	// column).
	resultTerms []term

	matchedArchetypes  []*Archetype
	archetypeColumnIdx [][]int // per matched archetype, per resultTerms index

	graphVersionSeen uint64
	lastRunTick      uint64

	// cachedIter is the query-owned QueryIter borrowed by IterCached, so
	// repeated iteration allocates nothing (spec §4.6/§6: "query_iter_cached
	// (borrow query-internal iterator)").
	cachedIter QueryIter
}

// NewQueryBuilder starts a fresh, unbound query builder.
func NewQueryBuilder() *Query {
	return &Query{}
}

func (q *Query) with(kind TermKind, c ComponentID) *Query {
	q.terms = append(q.terms, term{kind: kind, component: c})
	return q
}

// With requires c to be present on matching archetypes and exposes its
// column.
func (q *Query) With(c ComponentID) *Query { return q.with(TermWith, c) }

// Without excludes archetypes carrying c. Contributes no result column.
func (q *Query) Without(c ComponentID) *Query { return q.with(TermWithout, c) }

// Optional requires nothing but exposes c's column when present (nil base
// pointer when absent from the matched archetype).
func (q *Query) Optional(c ComponentID) *Query { return q.with(TermOptional, c) }

// Changed requires c present, and additionally exposes c's changed-tick
// array so callers can filter rows changed since the query's last run.
func (q *Query) Changed(c ComponentID) *Query { return q.with(TermChanged, c) }

// Added requires c present, and additionally exposes c's added-tick array.
func (q *Query) Added(c ComponentID) *Query { return q.with(TermAdded, c) }

// Build validates the term set and binds the query to world, ready for
// Iter(). A component required by both With/Changed/Added and excluded by
// Without is a contradiction and fails with InvalidQueryError.
func (q *Query) Build(w *World) (*Query, error) {
	required := map[ComponentID]bool{}
	excluded := map[ComponentID]bool{}
	for _, t := range q.terms {
		if t.kind == TermWithout {
			excluded[t.component] = true
		} else if t.kind != TermOptional {
			required[t.component] = true
		}
	}
	for c := range required {
		if excluded[c] {
			return nil, InvalidQueryError{Component: c}
		}
	}

	q.world = w
	q.resultTerms = q.resultTerms[:0]
	for _, t := range q.terms {
		switch t.kind {
		case TermWith, TermOptional, TermChanged, TermAdded:
			q.resultTerms = append(q.resultTerms, t)
			if t.kind != TermOptional {
				q.requiredMask.Mark(uint32(t.component))
			}
		case TermWithout:
			q.excludedMask.Mark(uint32(t.component))
		}
	}
	q.graphVersionSeen = 0 // force rebuild on first Iter
	return q, nil
}

func (q *Query) matches(a *Archetype) bool {
	if !a.mask.ContainsAll(q.requiredMask) {
		return false
	}
	if !a.mask.ContainsNone(q.excludedMask) {
		return false
	}
	return true
}

// revalidate recomputes the matched-archetype list and per-archetype column
// bindings if the graph has changed since the last call.
func (q *Query) revalidate() {
	current := q.world.graph.structuralVersion
	if current == q.graphVersionSeen && q.matchedArchetypes != nil {
		return
	}
	q.matchedArchetypes = q.matchedArchetypes[:0]
	q.archetypeColumnIdx = q.archetypeColumnIdx[:0]
	for _, a := range q.world.graph.All() {
		if !q.matches(a) {
			continue
		}
		cols := make([]int, len(q.resultTerms))
		for i, t := range q.resultTerms {
			cols[i] = a.ColumnIndex(t.component)
		}
		q.matchedArchetypes = append(q.matchedArchetypes, a)
		q.archetypeColumnIdx = append(q.archetypeColumnIdx, cols)
	}
	q.graphVersionSeen = current
}

// Iter starts a fresh traversal over the query's currently matched
// archetypes, allocating a new QueryIter.
func (q *Query) Iter() *QueryIter {
	q.revalidate()
	return &QueryIter{
		query:       q,
		archIdx:     -1,
		chunkIdx:    -1,
		tickAtStart: q.world.tick,
	}
}

// IterCached starts a fresh traversal reusing the query's own internal
// QueryIter instead of allocating a new one. The returned pointer is only
// valid until the next call to IterCached on the same query (spec §4.6/§6's
// "query_iter_cached" zero-allocation entry point).
func (q *Query) IterCached() *QueryIter {
	q.revalidate()
	q.cachedIter = QueryIter{
		query:       q,
		archIdx:     -1,
		chunkIdx:    -1,
		tickAtStart: q.world.tick,
	}
	return &q.cachedIter
}

// LastRunTick returns the tick observed at the start of the query's previous
// fully-drained iteration (0 if it has never been run to completion).
func (q *Query) LastRunTick() uint64 { return q.lastRunTick }

// TermCount returns the number of result-bearing terms (With/Optional/
// Changed/Added), i.e. the valid range of QueryIter's termIndex arguments.
func (q *Query) TermCount() int { return len(q.resultTerms) }
