package ecsgc

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
)

func TestEcsGcAgentExecuteDrainsBacklogUnderBudget(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	bundle := components.Register(registry, ecs.DomainSpatial)
	world := ecs.NewWorld(registry, 16)

	var ids []ecs.EntityID
	for i := 0; i < 5; i++ {
		id, err := world.Spawn(ecs.ComponentValue{Component: bundle.Transform.Component, Value: components.Transform{X: float32(i)}})
		if err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	for _, id := range ids {
		if err := world.Despawn(id); err != nil {
			t.Fatalf("Despawn: %v", err)
		}
	}
	if backlog := world.GCBacklog(); backlog != 5 {
		t.Fatalf("backlog = %d, want 5", backlog)
	}

	a := New(zerolog.Nop(), 2)
	if a.ID() != agent.Ecs {
		t.Fatalf("ID() = %v, want Ecs", a.ID())
	}

	ctx := &ectx.EngineContext{World: world, Services: ectx.NewServiceRegistry()}
	if err := a.Execute(ctx); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if a.lastStats.OrphansCompacted != 2 {
		t.Fatalf("OrphansCompacted = %d, want 2 (budget-capped)", a.lastStats.OrphansCompacted)
	}
	if backlog := world.GCBacklog(); backlog != 3 {
		t.Fatalf("backlog after one capped pass = %d, want 3", backlog)
	}

	status := a.ReportStatus()
	if status.HealthScore != ecs.GCHealth(3) {
		t.Fatalf("HealthScore = %v, want %v", status.HealthScore, ecs.GCHealth(3))
	}
	if status.IsStalled {
		t.Fatalf("did not expect IsStalled with a small backlog of 3")
	}

	// Drain the rest; budget under HighPerformance should scale to 2*3=6.
	a.ApplyBudget(gorna.ResourceBudget{StrategyID: gorna.StrategyID{Kind: gorna.StrategyHighPerformance}})
	if a.maxCleanupPerFrame != a.baseBudget*HighPerformanceCleanupMultiplier {
		t.Fatalf("maxCleanupPerFrame = %d, want %d", a.maxCleanupPerFrame, a.baseBudget*HighPerformanceCleanupMultiplier)
	}
	if err := a.Execute(ctx); err != nil {
		t.Fatalf("Execute (second pass): %v", err)
	}
	if backlog := world.GCBacklog(); backlog != 0 {
		t.Fatalf("expected an empty backlog after draining under the scaled budget, got %d", backlog)
	}
	status = a.ReportStatus()
	if status.HealthScore != 1.0 || status.IsStalled {
		t.Fatalf("expected a healthy status once the backlog is drained: %+v", status)
	}
}

func TestEcsGcAgentApplyBudgetLowPowerNeverGoesBelowOne(t *testing.T) {
	a := New(zerolog.Nop(), 1)
	a.ApplyBudget(gorna.ResourceBudget{StrategyID: gorna.StrategyID{Kind: gorna.StrategyLowPower}})
	if a.maxCleanupPerFrame != 1 {
		t.Fatalf("maxCleanupPerFrame = %d, want 1 (floored)", a.maxCleanupPerFrame)
	}
}

func TestEcsGcAgentNewRejectsNonPositiveBudget(t *testing.T) {
	a := New(zerolog.Nop(), 0)
	if a.baseBudget != DefaultMaxCleanupPerFrame {
		t.Fatalf("baseBudget = %d, want default %d", a.baseBudget, DefaultMaxCleanupPerFrame)
	}
}
