package ecs

import "github.com/TheBitDrifter/table"

// Cursor iterates the entities matched by a query, either over one
// domain's pages directly (Native) or over a driver domain's pages
// filtered by peer-domain membership and page signature (Transversal).
type Cursor struct {
	world *World
	node  QueryNode
	plan  *QueryPlan

	pages   []*pageArchetype
	pageIdx int
	row     int // index into the current page's rows; -1 before the first Next()

	initialized bool
	closed      bool
}

func newCursor(world *World, node QueryNode, plan *QueryPlan) *Cursor {
	return &Cursor{world: world, node: node, plan: plan, row: -1}
}

func (c *Cursor) init() {
	if c.initialized {
		return
	}
	c.world.Lock()
	ds := c.world.domains[c.plan.DriverDomain]
	for _, p := range ds.pages {
		if matchesSignature(p, c.plan.ByDomain[c.plan.DriverDomain]) {
			c.pages = append(c.pages, p)
		}
	}
	c.initialized = true
}

// Close releases the iteration lock this cursor holds on its World,
// flushing any structural mutation queued while it was locked. Next()
// calls Close automatically once exhausted; callers that break out of a
// Next() loop early must call Close themselves.
func (c *Cursor) Close() error {
	if c.closed || !c.initialized {
		return nil
	}
	c.closed = true
	return c.world.Unlock()
}

// Next advances to the next matching entity, returning false once
// exhausted. Rows consumed by Next are stable until the next structural
// mutation, matching the teacher's single-threaded-per-tick iteration
// contract.
func (c *Cursor) Next() bool {
	c.init()
	for {
		c.row++
		if c.pageIdx >= len(c.pages) {
			c.Close()
			return false
		}
		p := c.pages[c.pageIdx]
		if c.row >= p.Length() {
			c.pageIdx++
			c.row = -1
			continue
		}
		if p.isTombstoned(c.row) {
			continue
		}
		if c.plan.Mode == ModeNative {
			if c.node != nil && !c.node.evaluate(p.sigMask) {
				continue
			}
			return true
		}
		if c.passesTransversal(p.entities[c.row]) {
			return true
		}
	}
}

// passesTransversal checks that the candidate entity also has a footprint
// in every peer domain and that, once there, its page satisfies the
// peer-domain component requirements.
func (c *Cursor) passesTransversal(id EntityID) bool {
	for _, peer := range c.plan.PeerDomains {
		bs := c.world.bitsets[peer]
		if bs == nil || !bs.contains(id.Index) {
			return false
		}
		loc, ok := c.world.entities.locationsOf(id)
		if !ok {
			return false
		}
		peerLoc, ok := loc[peer]
		if !ok {
			return false
		}
		if !matchesSignature(peerLoc.archetype, c.plan.ByDomain[peer]) {
			return false
		}
	}
	return true
}

// Table returns the table.Table backing the current row, for use with
// AccessibleComponent.Get/GetFromCursor.
func (c *Cursor) Table() table.Table {
	return c.pages[c.pageIdx].tbl
}

// Row returns the current row index within Table().
func (c *Cursor) Row() int {
	return c.row
}

// Entity returns the EntityID occupying the current row.
func (c *Cursor) Entity() EntityID {
	return c.pages[c.pageIdx].entities[c.row]
}

// TotalMatched counts matches without moving the cursor's position, then
// closes the cursor, releasing its World lock.
func (c *Cursor) TotalMatched() int {
	c.init()
	total := 0
	for _, p := range c.pages {
		if c.plan.Mode == ModeNative {
			if c.node == nil || c.node.evaluate(p.sigMask) {
				for row := range p.entities {
					if !p.isTombstoned(row) {
						total++
					}
				}
			}
			continue
		}
		for row, id := range p.entities {
			if !p.isTombstoned(row) && c.passesTransversal(id) {
				total++
			}
		}
	}
	c.Close()
	return total
}

func matchesSignature(p *pageArchetype, required []Component) bool {
	need := make(map[uint32]bool, len(required))
	for _, c := range required {
		need[c.ID()] = true
	}
	for id := range need {
		found := false
		for _, s := range p.signature {
			if s == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
