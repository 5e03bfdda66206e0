package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// ComponentValue pairs a component identity with the value a spawn or
// add_component call should write into its column; Value may be nil to
// leave the column at its zero value.
type ComponentValue struct {
	Component Component
	Value     any
}

// World is the structural-mutation surface: entity lifecycle, component
// attachment, and the GC queues that keep pages dense. It is not safe for
// concurrent structural mutation from multiple goroutines within a tick -
// the engine scheduler owns exclusive access for the duration of a tick,
// per the single-threaded cooperative concurrency model.
type World struct {
	registry *ComponentRegistry
	entities *entityStore
	domains  map[SemanticDomain]*domainStore
	bitsets  map[SemanticDomain]*domainBitset
	planner  *queryPlanner
	gc       gcQueues

	lockDepth int
	opQueue   []func(*World) error
}

// Lock marks the World as under active iteration: structural mutation
// calls queue instead of applying immediately, the same
// locked-storage/operation-queue pattern warehouse uses to keep a
// Cursor's page list and row indices stable while it runs.
func (w *World) Lock() { w.lockDepth++ }

// Unlock releases one iteration lock; once the depth reaches zero, every
// queued mutation is applied in order.
func (w *World) Unlock() error {
	if w.lockDepth == 0 {
		return nil
	}
	w.lockDepth--
	if w.lockDepth > 0 {
		return nil
	}
	queue := w.opQueue
	w.opQueue = nil
	for _, op := range queue {
		if err := op(w); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) locked() bool { return w.lockDepth > 0 }

// NewWorld builds an empty World. queryPlanCacheSize bounds the number of
// distinct requested-type-tuples the query planner remembers; a query for
// a tuple evicted from cache is simply replanned, never wrong, only
// slower.
func NewWorld(registry *ComponentRegistry, queryPlanCacheSize int) *World {
	w := &World{
		registry: registry,
		entities: newEntityStore(),
		domains:  make(map[SemanticDomain]*domainStore),
		bitsets:  make(map[SemanticDomain]*domainBitset),
		planner:  newQueryPlanner(registry, queryPlanCacheSize),
	}
	return w
}

func (w *World) domainStoreFor(domain SemanticDomain) *domainStore {
	ds, ok := w.domains[domain]
	if !ok {
		ds = newDomainStore(domain)
		w.domains[domain] = ds
		w.bitsets[domain] = newDomainBitset()
	}
	return ds
}

// Registry exposes the component registry so callers can register
// components against this World's domains before spawning.
func (w *World) Registry() *ComponentRegistry { return w.registry }

// Spawn creates a new entity and attaches the given component bundle,
// partitioning it across however many domains the bundle's components
// were registered into - one new/existing page row per touched domain.
func (w *World) Spawn(bundle ...ComponentValue) (EntityID, error) {
	id := w.entities.create()
	byDomain := make(map[SemanticDomain][]ComponentValue)
	for _, cv := range bundle {
		d, ok := w.registry.DomainOf(cv.Component)
		if !ok {
			return NilEntity, bark.AddTrace(fmt.Errorf("ecs: spawn with unregistered component %v", cv.Component.Type()))
		}
		byDomain[d] = append(byDomain[d], cv)
	}
	for domain, cvs := range byDomain {
		ds := w.domainStoreFor(domain)
		comps := make([]Component, len(cvs))
		values := make(map[uint32]any, len(cvs))
		for i, cv := range cvs {
			comps[i] = cv.Component
			if cv.Value != nil {
				values[cv.Component.ID()] = cv.Value
			}
		}
		page, err := ds.pageFor(comps)
		if err != nil {
			return NilEntity, err
		}
		row, err := ds.pushRow(page, id, values)
		if err != nil {
			return NilEntity, err
		}
		w.entities.setLocation(id, domain, location{archetype: page, row: row})
		w.bitsets[domain].set(id.Index)
	}
	return id, nil
}

// Despawn marks every domain location an entity occupies as a pending
// orphan and invalidates the handle immediately; the rows themselves are
// compacted later by RunGC under budget. A stale handle is a silent
// no-op: it returns nil, not an error, since the entity it named is
// already gone.
func (w *World) Despawn(id EntityID) error {
	if w.locked() {
		w.opQueue = append(w.opQueue, func(w *World) error { return w.Despawn(id) })
		return nil
	}
	locs, ok := w.entities.destroy(id)
	if !ok {
		return nil
	}
	for domain, loc := range locs {
		w.bitsets[domain].clear(id.Index)
		w.retireOrphan(domain, loc)
	}
	return nil
}

// AddComponent attaches one more component to a live entity, migrating its
// row within that component's domain to the (possibly new) page matching
// the resulting signature. This never touches the entity's data in other
// domains. A stale handle is a silent no-op: it returns nil, not an
// error.
func (w *World) AddComponent(id EntityID, cv ComponentValue) error {
	if w.locked() {
		w.opQueue = append(w.opQueue, func(w *World) error { return w.AddComponent(id, cv) })
		return nil
	}
	if !w.entities.valid(id) {
		return nil
	}
	domain, ok := w.registry.DomainOf(cv.Component)
	if !ok {
		return bark.AddTrace(fmt.Errorf("ecs: add_component with unregistered component %v", cv.Component.Type()))
	}
	locs, _ := w.entities.locationsOf(id)
	loc, hasDomain := locs[domain]

	var existing []Component
	values := make(map[uint32]any)
	if hasDomain {
		if containsID(loc.archetype.signature, cv.Component.ID()) {
			return bark.AddTrace(ComponentExistsError{Component: cv.Component})
		}
		for _, c := range componentsOf(loc.archetype) {
			existing = append(existing, c)
			if col, ok := readRow(loc.archetype.tbl, loc.row, c); ok {
				values[c.ID()] = col
			}
		}
	}
	existing = append(existing, cv.Component)
	if cv.Value != nil {
		values[cv.Component.ID()] = cv.Value
	}

	ds := w.domainStoreFor(domain)
	newPage, err := ds.pageFor(existing)
	if err != nil {
		return err
	}
	newRow, err := ds.pushRow(newPage, id, values)
	if err != nil {
		return err
	}
	if hasDomain {
		w.retireHole(domain, loc)
	}
	w.entities.setLocation(id, domain, location{archetype: newPage, row: newRow})
	w.bitsets[domain].set(id.Index)
	return nil
}

// RemoveComponent detaches one component from a live entity, migrating
// its row within that component's domain to the page matching the
// remaining signature. Removing the last component of a domain is
// equivalent to RemoveComponentDomain. A stale handle is a silent
// no-op: it returns nil, not an error.
func (w *World) RemoveComponent(id EntityID, c Component) error {
	if w.locked() {
		w.opQueue = append(w.opQueue, func(w *World) error { return w.RemoveComponent(id, c) })
		return nil
	}
	if !w.entities.valid(id) {
		return nil
	}
	domain, ok := w.registry.DomainOf(c)
	if !ok {
		return bark.AddTrace(fmt.Errorf("ecs: remove_component with unregistered component %v", c.Type()))
	}
	locs, _ := w.entities.locationsOf(id)
	loc, hasDomain := locs[domain]
	if !hasDomain || !containsID(loc.archetype.signature, c.ID()) {
		return bark.AddTrace(ComponentNotFoundError{Component: c})
	}

	remaining := make([]Component, 0, len(loc.archetype.signature)-1)
	values := make(map[uint32]any)
	for _, existing := range componentsOf(loc.archetype) {
		if existing.ID() == c.ID() {
			continue
		}
		remaining = append(remaining, existing)
		if v, ok := readRow(loc.archetype.tbl, loc.row, existing); ok {
			values[existing.ID()] = v
		}
	}

	if len(remaining) == 0 {
		_, err := w.RemoveComponentDomain(id, domain)
		return err
	}

	ds := w.domainStoreFor(domain)
	newPage, err := ds.pageFor(remaining)
	if err != nil {
		return err
	}
	newRow, err := ds.pushRow(newPage, id, values)
	if err != nil {
		return err
	}
	w.retireHole(domain, loc)
	w.entities.setLocation(id, domain, location{archetype: newPage, row: newRow})
	return nil
}

// RemoveComponentDomain drops every component an entity has in one domain
// in O(1): the row is retired to the orphan queue and the domain's
// location entry is cleared outright, with no migration to compute. A
// stale handle is a silent no-op: it returns the zero PageIndex and nil,
// not an error.
func (w *World) RemoveComponentDomain(id EntityID, domain SemanticDomain) (PageIndex, error) {
	if w.locked() {
		w.opQueue = append(w.opQueue, func(w *World) error {
			_, err := w.RemoveComponentDomain(id, domain)
			return err
		})
		return PageIndex{}, nil
	}
	if !w.entities.valid(id) {
		return PageIndex{}, nil
	}
	locs, _ := w.entities.locationsOf(id)
	loc, ok := locs[domain]
	if !ok {
		return PageIndex{}, bark.AddTrace(DomainNotPresentError{Domain: domain})
	}
	w.retireOrphan(domain, loc)
	w.entities.clearLocation(id, domain)
	w.bitsets[domain].clear(id.Index)
	return PageIndex{PageID: loc.archetype.id, Row: loc.row}, nil
}

// retireOrphan tombstones a row whose entire domain footprint is gone
// (despawn, remove_component_domain) and enqueues it to pending_orphans,
// the queue RunGC's Cleanup loop drains first.
func (w *World) retireOrphan(domain SemanticDomain, loc location) {
	loc.archetype.tombstone(loc.row)
	w.gc.enqueueOrphan(domain, loc.archetype, loc.row)
}

// retireHole tombstones a row vacated by a migration (add_component/
// remove_component): the entity is still live in this domain, just on
// a different page now, so the old row is left in the dense table -
// excluded from query iteration by its tombstone bit - until RunGC's
// Vacuum loop swap-removes it under budget.
func (w *World) retireHole(domain SemanticDomain, loc location) {
	loc.archetype.tombstone(loc.row)
	w.gc.enqueueHole(domain, loc.archetype, loc.row)
}

// PageIndex identifies a row within a domain's page set, for callers
// (e.g. the GC work plan) that need to name a location without holding a
// pointer into internal state.
type PageIndex struct {
	PageID uint32
	Row    int
}

// Query compiles (or retrieves from cache) a plan for the components
// named by node and returns a Cursor ready to iterate matches.
func (w *World) Query(node QueryNode) (*Cursor, error) {
	comps := allComponents(node)
	plan, err := w.planner.planFor(comps)
	if err != nil {
		return nil, err
	}
	if _, ok := w.domains[plan.DriverDomain]; !ok {
		w.domainStoreFor(plan.DriverDomain)
	}
	return newCursor(w, node, plan), nil
}

// NewQuery returns a query builder scoped to domain, mirroring
// warehouse's Factory.NewQuery but requiring the caller to name the
// domain the leaf components were registered into (And/Or/Not nodes
// evaluate against that domain's page masks).
func (w *World) NewQuery(domain SemanticDomain) Query {
	return Query{domain: w.domainStoreFor(domain)}
}

func containsID(sig []uint32, id uint32) bool {
	for _, s := range sig {
		if s == id {
			return true
		}
	}
	return false
}

func componentsOf(p *pageArchetype) []Component {
	return p.components
}
