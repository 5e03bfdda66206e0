package ecs

import "sort"

// tombstoneRow names a row inside a page that's been marked dead but not
// yet swap-removed: either a fully orphaned row (the entity's entire
// footprint in that domain is gone - despawn, remove_component_domain)
// or a hole left behind by a migration (add_component/remove_component)
// inside an otherwise still-live archetype.
type tombstoneRow struct {
	domain    SemanticDomain
	archetype *pageArchetype
	row       int
}

// gcQueues holds the two work queues the collector drains each tick:
// pendingOrphans (despawn, remove_component_domain - rows whose entity
// has no footprint left in that domain at all) and pendingHoles (rows
// tombstoned by a migration that's still live elsewhere on a new page).
type gcQueues struct {
	pendingOrphans []tombstoneRow
	pendingHoles   []tombstoneRow
}

func (q *gcQueues) enqueueOrphan(domain SemanticDomain, p *pageArchetype, row int) {
	q.pendingOrphans = append(q.pendingOrphans, tombstoneRow{domain: domain, archetype: p, row: row})
}

func (q *gcQueues) enqueueHole(domain SemanticDomain, p *pageArchetype, row int) {
	q.pendingHoles = append(q.pendingHoles, tombstoneRow{domain: domain, archetype: p, row: row})
}

func (q *gcQueues) backlog() int {
	return len(q.pendingOrphans) + len(q.pendingHoles)
}

// GCStats reports what one RunGC budget actually accomplished, for the
// garbage-collection agent's status report.
type GCStats struct {
	OrphansCompacted int
	HolesCompacted   int
	PendingOrphans   int
	PendingHoles     int
}

// sortDescendingPerPage groups rows by page, taking pages in the order
// they first appear in rows, and within any one page puts the highest
// row index first. swapRemove always moves a page's current last row
// into the slot being vacated; processing a page's pending rows top-down
// means every remaining entry for that page is still below the page's
// current length when its turn comes.
func sortDescendingPerPage(rows []tombstoneRow) {
	rank := make(map[*pageArchetype]int)
	for _, r := range rows {
		if _, ok := rank[r.archetype]; !ok {
			rank[r.archetype] = len(rank)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].archetype != rows[j].archetype {
			return rank[rows[i].archetype] < rank[rows[j].archetype]
		}
		return rows[i].row > rows[j].row
	})
}

// drainQueue swap-removes up to (budget-spent) rows from the front of
// rows, fixing up whatever live entity gets swapped into each vacated
// slot. A row swapped in that's itself still tombstoned (pending in the
// other queue) is left marked dead rather than treated as live; the
// queued entry naming its old index is repointed at its new one, so its
// own turn still compacts it.
func drainQueue(w *World, rows []tombstoneRow, budget int, spent *int, compacted *int) []tombstoneRow {
	sortDescendingPerPage(rows)
	for len(rows) > 0 && *spent < budget {
		r := rows[0]
		rows = rows[1:]
		moved, hadSwap := r.archetype.swapRemove(r.row)
		if hadSwap && !r.archetype.isTombstoned(r.row) {
			w.entities.setLocation(moved, r.domain, location{archetype: r.archetype, row: r.row})
		} else if hadSwap {
			from := r.archetype.Length()
			for _, q := range [][]tombstoneRow{w.gc.pendingOrphans, w.gc.pendingHoles} {
				for i := range q {
					if q[i].archetype == r.archetype && q[i].row == from {
						q[i].row = r.row
					}
				}
			}
		}
		if r.archetype.Length() == 0 {
			w.domains[r.domain].removePage(r.archetype)
		}
		*compacted++
		*spent++
	}
	return rows
}

// RunGC drains up to budget units of work from the pending queues,
// always fully draining pending_orphans before starting on pending_holes
// (the Cleanup loop, then the Vacuum loop - a page can't be considered
// for eviction from its domain store until every row referencing it,
// orphan or hole, is gone). Quiescence (both queues empty) is idempotent
// and cheap to call.
func (w *World) RunGC(budget int) GCStats {
	var stats GCStats
	spent := 0
	w.gc.pendingOrphans = drainQueue(w, w.gc.pendingOrphans, budget, &spent, &stats.OrphansCompacted)
	w.gc.pendingHoles = drainQueue(w, w.gc.pendingHoles, budget, &spent, &stats.HolesCompacted)
	stats.PendingOrphans = len(w.gc.pendingOrphans)
	stats.PendingHoles = len(w.gc.pendingHoles)
	return stats
}

// GCBacklog reports the total pending orphans plus pending holes, for a
// GC agent deciding how urgently to negotiate for a bigger budget.
func (w *World) GCBacklog() int {
	return w.gc.backlog()
}

// GCQueueDepths reports the two pending queues separately, for telemetry
// that wants to distinguish "rows with no footprint left in the domain"
// from "rows left behind by a migration, live elsewhere."
func (w *World) GCQueueDepths() (pendingHoles, pendingOrphans int) {
	return len(w.gc.pendingHoles), len(w.gc.pendingOrphans)
}

// GCHealth mirrors the garbage-collector agent's status thresholds:
// healthy at zero backlog, degrading as pending work piles up across
// ticks faster than the budget can drain it.
func GCHealth(pending int) float64 {
	switch {
	case pending == 0:
		return 1.0
	case pending < 100:
		return 0.8
	case pending < 500:
		return 0.5
	default:
		return 0.2
	}
}
