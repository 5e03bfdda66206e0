// Package ecsgc implements the garbage-collection agent: it offers a
// cleanup-strategy menu scaled from its base budget, then drives
// lanes/ecslane's CompactionLane to drain the World's GC backlog.
package ecsgc

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
	"github.com/khora-engine/khora/lane"
	"github.com/khora-engine/khora/lanes/ecslane"
)

// Tuning constants ported from khora-agents' garbage collector agent:
// the balanced default cleanup rate, and the multiplier/divisor applied
// to it under the high-performance and low-power strategies.
const (
	DefaultMaxCleanupPerFrame      = 10
	HighPerformanceCleanupMultiplier = 3
	LowPowerCleanupDivisor           = 4
)

// Agent is the GC subsystem driver. It holds no ECS state of its own -
// World.RunGC already owns the queues - only the currently applied
// budget and the last status it reported.
type Agent struct {
	log                zerolog.Logger
	lane               *ecslane.CompactionLane
	baseBudget         int
	maxCleanupPerFrame int
	currentStrategy    gorna.StrategyID
	lastStats          ecs.GCStats
}

// New builds a GC agent with the given balanced-strategy cleanup rate
// (typically engine/config.Config.GCBudget); ApplyBudget scales it up or
// down from this base according to whatever strategy the DCC selects.
func New(log zerolog.Logger, baseBudget int) *Agent {
	if baseBudget <= 0 {
		baseBudget = DefaultMaxCleanupPerFrame
	}
	return &Agent{
		log:                log.With().Str("agent", "ecs_gc").Logger(),
		lane:               ecslane.NewCompactionLane(),
		baseBudget:         baseBudget,
		maxCleanupPerFrame: baseBudget,
		currentStrategy:    gorna.StrategyID{Kind: gorna.StrategyBalanced},
	}
}

func (a *Agent) ID() agent.ID { return agent.Ecs }

// Negotiate offers LowPower, Balanced and HighPerformance, with each
// estimated cost scaled from baseBudget by the same divisor/multiplier
// ApplyBudget uses. The menu does not depend on the World's backlog.
func (a *Agent) Negotiate(req gorna.NegotiationRequest) gorna.NegotiationResponse {
	base := time.Microsecond * time.Duration(a.baseBudget)
	return gorna.NegotiationResponse{
		Strategies: []gorna.StrategyOption{
			{
				ID:            gorna.StrategyID{Kind: gorna.StrategyLowPower},
				EstimatedTime: base / LowPowerCleanupDivisor,
			},
			{
				ID:            gorna.StrategyID{Kind: gorna.StrategyBalanced},
				EstimatedTime: base,
			},
			{
				ID:            gorna.StrategyID{Kind: gorna.StrategyHighPerformance},
				EstimatedTime: base * HighPerformanceCleanupMultiplier,
			},
		},
	}
}

// ApplyBudget sets the per-tick cleanup rate for whichever strategy the
// DCC selected.
func (a *Agent) ApplyBudget(budget gorna.ResourceBudget) {
	a.currentStrategy = budget.StrategyID
	switch budget.StrategyID.Kind {
	case gorna.StrategyHighPerformance:
		a.maxCleanupPerFrame = a.baseBudget * HighPerformanceCleanupMultiplier
	case gorna.StrategyLowPower:
		a.maxCleanupPerFrame = a.baseBudget / LowPowerCleanupDivisor
		if a.maxCleanupPerFrame < 1 {
			a.maxCleanupPerFrame = 1
		}
	default:
		a.maxCleanupPerFrame = a.baseBudget
	}
}

// Update is a no-op for this agent: it has no cheap pre-pass, all of its
// work happens in Execute.
func (a *Agent) Update(ctx *ectx.EngineContext) error { return nil }

// Execute dispatches the compaction lane against the live World, bounded
// by the currently applied budget.
func (a *Agent) Execute(ctx *ectx.EngineContext) error {
	laneCtx := lane.NewContext()
	laneCtx.Set(ecslane.GcWorkPlan{MaxCleanupPerFrame: a.maxCleanupPerFrame})
	stats, err := a.lane.Run(laneCtx, ctx.World)
	if err != nil {
		return err
	}
	a.lastStats = stats
	a.log.Debug().
		Int("holes_compacted", stats.HolesCompacted).
		Int("orphans_compacted", stats.OrphansCompacted).
		Int("pending", stats.PendingHoles+stats.PendingOrphans).
		Msg("gc pass complete")
	return nil
}

// ReportStatus derives health from the queue backlog left after the last
// pass, matching ecs.GCHealth's thresholds.
func (a *Agent) ReportStatus() gorna.AgentStatus {
	pending := a.lastStats.PendingHoles + a.lastStats.PendingOrphans
	health := ecs.GCHealth(pending)
	return gorna.AgentStatus{
		AgentID:         a.ID().String(),
		CurrentStrategy: a.currentStrategy,
		HealthScore:     health,
		IsStalled:       health <= 0.2,
		Message:         "",
	}
}
