// Package ecslane implements the data-plane lane the GC agent dispatches
// to each tick: a stateless swap-remove compaction pass over a World's
// pending holes/orphans, bounded by a work plan the agent computed from
// its negotiated budget.
package ecslane

import (
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/lane"
)

// GcWorkPlan is the typed input the GC agent places into a lane.Context
// for one CompactionLane call: how many queue items it's allowed to
// drain this tick.
type GcWorkPlan struct {
	MaxCleanupPerFrame int
}

// CompactionLane drains a World's GC queues under a work plan. It holds
// no state between calls - every field it needs for one pass comes out
// of the lane.Context handed to Run.
type CompactionLane struct{}

func NewCompactionLane() *CompactionLane { return &CompactionLane{} }

func (l *CompactionLane) Kind() lane.Kind { return lane.KindECSCompaction }
func (l *CompactionLane) Name() string    { return "ecs_compaction" }

// Run executes one bounded compaction pass against world, using the
// MaxCleanupPerFrame found in ctx under the GcWorkPlan key.
func (l *CompactionLane) Run(ctx *lane.Context, world *ecs.World) (ecs.GCStats, error) {
	plan, err := lane.Get[GcWorkPlan](ctx, l.Name())
	if err != nil {
		return ecs.GCStats{}, err
	}
	return world.RunGC(plan.MaxCleanupPerFrame), nil
}
