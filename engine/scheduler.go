// Package engine wires the ECS World, the agent registry and the GORNA
// DCC into the per-tick loop: negotiate budgets, run every agent's
// update pass, then run every agent's execute pass (the Ecs-priority
// agent's execute is what spends the tick's GC compaction budget - see
// agents/ecsgc - so the scheduler itself never calls World.RunGC
// directly). No agent's update or execute for a given tick is cancelled
// partway through - a returned error stops the tick and propagates to
// the caller.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/engine/telemetry"
	"github.com/khora-engine/khora/gorna"
)

// Scheduler drives one World through repeated ticks.
type Scheduler struct {
	world    *ecs.World
	services *ectx.ServiceRegistry
	agents   *agent.Registry
	dcc      *gorna.DCC

	targetLatency time.Duration
	log           zerolog.Logger

	// board and metrics are optional: a Scheduler built without
	// WithTelemetry still ticks correctly, it just has nowhere to
	// publish per-agent health for the /status and /metrics surface.
	board   *telemetry.StatusBoard
	metrics *telemetry.Metrics
}

// New builds a Scheduler. targetLatency is typically sourced from
// engine/config.Config.
func New(world *ecs.World, services *ectx.ServiceRegistry, agents *agent.Registry, dcc *gorna.DCC, targetLatency time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		world:         world,
		services:      services,
		agents:        agents,
		dcc:           dcc,
		targetLatency: targetLatency,
		log:           log,
	}
}

// WithTelemetry attaches a status board and metrics registry; every Tick
// thereafter publishes each agent's AgentStatus and the World's GC
// backlog gauges.
func (s *Scheduler) WithTelemetry(board *telemetry.StatusBoard, metrics *telemetry.Metrics) *Scheduler {
	s.board = board
	s.metrics = metrics
	return s
}

// priorityWeight gives negotiation priority weight decreasing with the
// agent's ID ordering, so Renderer (ID 0) negotiates as the most
// latency-sensitive agent and Asset (highest ID) the least.
func priorityWeight(id agent.ID) float64 {
	const agentCount = 5
	return 1.0 - float64(id)/float64(agentCount)
}

// Tick runs one full pass: negotiate with every agent, apply the decided
// budgets, update, execute, then collect each
// agent's status (GC runs inside the Ecs agent's execute). Agents are
// visited in priority (ID) order for every pass, matching §5's ordering
// guarantee that within one tick writes to a shared domain are already
// serialized by agent priority.
func (s *Scheduler) Tick() error {
	ctx := &ectx.EngineContext{World: s.world, Services: s.services}

	type decision struct {
		a      agent.Agent
		budget gorna.ResourceBudget
	}
	var decisions []decision
	for _, a := range s.agents.All() {
		req := gorna.NegotiationRequest{
			TargetLatency:  s.targetLatency,
			PriorityWeight: priorityWeight(a.ID()),
		}
		resp := a.Negotiate(req)
		if budget, ok := s.dcc.Decide(a.ID().String(), req, resp); ok {
			decisions = append(decisions, decision{a: a, budget: budget})
		}
	}
	for _, d := range decisions {
		d.a.ApplyBudget(d.budget)
	}

	for _, a := range s.agents.All() {
		if err := a.Update(ctx); err != nil {
			return err
		}
	}

	for _, a := range s.agents.All() {
		if err := a.Execute(ctx); err != nil {
			return err
		}
	}

	for _, a := range s.agents.All() {
		status := a.ReportStatus()
		if status.IsStalled {
			s.log.Warn().Str("agent", status.AgentID).Str("message", status.Message).Msg("agent reported stalled")
		}
		if s.board != nil {
			s.board.Report(status)
		}
		if s.metrics != nil {
			s.metrics.AgentHealth.WithLabelValues(status.AgentID).Set(status.HealthScore)
		}
	}

	if s.metrics != nil {
		holes, orphans := s.world.GCQueueDepths()
		s.metrics.GCPendingHoles.Set(float64(holes))
		s.metrics.GCPendingOrphans.Set(float64(orphans))
	}

	return nil
}
