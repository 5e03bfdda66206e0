package ecs

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// pageArchetype is one domain's archetype page: a dense table.Table keyed
// by the sorted signature of the components it stores, plus our own
// parallel entity-identity column (table.Table knows rows, not our
// EntityID type). Row i of entities always names the occupant of row i of
// tbl, so any row move we make on tbl we mirror here too.
type pageArchetype struct {
	id         uint32
	domain     SemanticDomain
	signature  []uint32 // sorted component IDs, used for signature matching by queries and mutations
	sigMask    mask.Mask
	components []Component // typed identities, needed to migrate existing values on add/remove
	tbl        table.Table
	entities   []EntityID

	// tombstoned marks rows whose occupant has already moved off this
	// page (a migration's old row, or a despawn/remove_component_domain
	// row) but hasn't been swap-removed yet - kept dense so the row's
	// column data stays valid to read until GC gets to it, but excluded
	// from query iteration. Always the same length as entities.
	tombstoned []bool
}

func (p *pageArchetype) Length() int {
	return len(p.entities)
}

// tombstone marks row as no longer live without touching the dense
// table - the row's columns stay in place until RunGC swap-removes it
// under budget.
func (p *pageArchetype) tombstone(row int) {
	p.tombstoned[row] = true
}

// isTombstoned reports whether row has been marked dead and should be
// skipped by query iteration.
func (p *pageArchetype) isTombstoned(row int) bool {
	return row >= 0 && row < len(p.tombstoned) && p.tombstoned[row]
}

// swapRemove drops row, moving the last row into its place (if row wasn't
// already last) so the page stays dense. Returns the entity that ended up
// at `row` after the swap (NilEntity if the page is now empty or row was
// last); callers should check isTombstoned(row) afterward before treating
// the moved entity as a live row needing a location fixup, since the row
// swapped in may itself have been a still-pending tombstone.
func (p *pageArchetype) swapRemove(row int) (moved EntityID, hadSwap bool) {
	last := len(p.entities) - 1
	if row < 0 || row > last {
		return NilEntity, false
	}
	entry, err := p.tbl.Entry(row)
	if err != nil {
		panic(fmt.Errorf("ecs: page %d row %d: %w", p.id, row, err))
	}
	if _, err := p.tbl.DeleteEntries(int(entry.ID())); err != nil {
		panic(fmt.Errorf("ecs: page %d delete row %d: %w", p.id, row, err))
	}
	if row == last {
		p.entities = p.entities[:last]
		p.tombstoned = p.tombstoned[:last]
		return NilEntity, false
	}
	p.entities[row] = p.entities[last]
	p.tombstoned[row] = p.tombstoned[last]
	p.entities = p.entities[:last]
	p.tombstoned = p.tombstoned[:last]
	return p.entities[row], true
}

// domainStore owns every page for one SemanticDomain: its own
// table.Schema/table.EntryIndex (so row-index bits never collide across
// domains) and the archetype cache keyed by the component-set mask, the
// same pattern warehouse's storage.go uses for its single global schema.
type domainStore struct {
	domain      SemanticDomain
	schema      table.Schema
	entryIndex  table.EntryIndex
	nextPageID  uint32
	byMask      map[mask.Mask]*pageArchetype
	pages       []*pageArchetype
}

func newDomainStore(domain SemanticDomain) *domainStore {
	return &domainStore{
		domain:     domain,
		schema:     table.Factory.NewSchema(),
		entryIndex: table.Factory.NewEntryIndex(),
		nextPageID: 1,
		byMask:     make(map[mask.Mask]*pageArchetype),
	}
}

func signatureOf(comps []Component) []uint32 {
	sig := make([]uint32, len(comps))
	for i, c := range comps {
		sig[i] = c.ID()
	}
	sort.Slice(sig, func(i, j int) bool { return sig[i] < sig[j] })
	return sig
}

// pageFor returns the page holding exactly this component set, creating it
// if no prior entity has ever needed that signature in this domain.
func (ds *domainStore) pageFor(comps []Component) (*pageArchetype, error) {
	var m mask.Mask
	elementTypes := make([]table.ElementType, len(comps))
	for i, c := range comps {
		ds.schema.Register(c)
		m.Mark(ds.schema.RowIndexFor(c))
		elementTypes[i] = c
	}
	if p, ok := ds.byMask[m]; ok {
		return p, nil
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(ds.schema).
		WithEntryIndex(ds.entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, fmt.Errorf("ecs: build page for domain %v: %w", ds.domain, err)
	}
	p := &pageArchetype{
		id:         ds.nextPageID,
		domain:     ds.domain,
		signature:  signatureOf(comps),
		sigMask:    m,
		components: append([]Component(nil), comps...),
		tbl:        tbl,
	}
	ds.nextPageID++
	ds.byMask[m] = p
	ds.pages = append(ds.pages, p)
	return p, nil
}

// removePage drops an emptied page from the archetype cache and from the
// domain's page list (a linear scan), the "remove_component_domain" orphaning behavior C6 calls for: once a
// page has zero live rows it no longer needs to be considered by any
// future page-signature lookup or query plan.
func (ds *domainStore) removePage(p *pageArchetype) {
	delete(ds.byMask, p.sigMask)
	for i, candidate := range ds.pages {
		if candidate == p {
			ds.pages[i] = ds.pages[len(ds.pages)-1]
			ds.pages = ds.pages[:len(ds.pages)-1]
			break
		}
	}
}

// pushRow appends one row to page, appends id to its entity mirror, and
// writes any supplied initial values into their matching columns.
func (ds *domainStore) pushRow(page *pageArchetype, id EntityID, values map[uint32]any) (int, error) {
	entries, err := page.tbl.NewEntries(1)
	if err != nil {
		return 0, fmt.Errorf("ecs: push row in domain %v: %w", ds.domain, err)
	}
	row := entries[0].Index()
	page.entities = append(page.entities, id)
	page.tombstoned = append(page.tombstoned, false)
	for _, value := range values {
		if err := writeRow(page.tbl, row, value); err != nil {
			return row, err
		}
	}
	return row, nil
}

// writeRow sets the column whose element type matches value's type, the
// same reflect-based row assignment warehouse's AddComponentWithValue
// uses.
func writeRow(tbl table.Table, row int, value any) error {
	valueType := reflect.TypeOf(value)
	for _, col := range tbl.Rows() {
		if col.Type().Elem() == valueType {
			reflect.Value(col).Index(row).Set(reflect.ValueOf(value))
			return nil
		}
	}
	return fmt.Errorf("ecs: no column of type %v in this page", valueType)
}

// readRow reads the current value of component c's column at row out of
// tbl, used when migrating an entity's existing values to a new page on
// add_component/remove_component.
func readRow(tbl table.Table, row int, c Component) (any, bool) {
	wantType := c.Type()
	for _, col := range tbl.Rows() {
		if col.Type().Elem() == wantType {
			return reflect.Value(col).Index(row).Interface(), true
		}
	}
	return nil, false
}
