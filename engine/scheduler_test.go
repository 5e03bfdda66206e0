package engine

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/engine/telemetry"
	"github.com/khora-engine/khora/gorna"
)

type recordingAgent struct {
	id           agent.ID
	events       *[]string
	status       gorna.AgentStatus
	offerNothing bool
}

func (a recordingAgent) ID() agent.ID { return a.id }

func (a recordingAgent) Negotiate(gorna.NegotiationRequest) gorna.NegotiationResponse {
	*a.events = append(*a.events, a.id.String()+":negotiate")
	if a.offerNothing {
		return gorna.NegotiationResponse{}
	}
	return gorna.NegotiationResponse{
		Strategies: []gorna.StrategyOption{{ID: gorna.StrategyID{Kind: gorna.StrategyBalanced}}},
	}
}

func (a recordingAgent) ApplyBudget(gorna.ResourceBudget) {
	*a.events = append(*a.events, a.id.String()+":apply_budget")
}

func (a recordingAgent) Update(*ectx.EngineContext) error {
	*a.events = append(*a.events, a.id.String()+":update")
	return nil
}

func (a recordingAgent) Execute(*ectx.EngineContext) error {
	*a.events = append(*a.events, a.id.String()+":execute")
	return nil
}

func (a recordingAgent) ReportStatus() gorna.AgentStatus {
	*a.events = append(*a.events, a.id.String()+":report")
	status := a.status
	status.AgentID = a.id.String()
	return status
}

func newScheduler(t *testing.T, events *[]string, statuses map[agent.ID]gorna.AgentStatus) *Scheduler {
	t.Helper()
	registry := agent.NewRegistry()
	for _, id := range []agent.ID{agent.Asset, agent.Renderer, agent.Audio, agent.Ecs, agent.Physics} {
		registry.Register(recordingAgent{id: id, events: events, status: statuses[id]})
	}
	world := ecs.NewWorld(ecs.NewComponentRegistry(), 4)
	return New(world, ectx.NewServiceRegistry(), registry, gorna.NewDCC(zerolog.Nop()), 10*time.Millisecond, zerolog.Nop())
}

func TestTickRunsEachPhaseInPriorityOrderAcrossAllAgents(t *testing.T) {
	var events []string
	s := newScheduler(t, &events, nil)

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	want := []string{
		"renderer:negotiate", "physics:negotiate", "ecs:negotiate", "audio:negotiate", "asset:negotiate",
		"renderer:apply_budget", "physics:apply_budget", "ecs:apply_budget", "audio:apply_budget", "asset:apply_budget",
		"renderer:update", "physics:update", "ecs:update", "audio:update", "asset:update",
		"renderer:execute", "physics:execute", "ecs:execute", "audio:execute", "asset:execute",
		"renderer:report", "physics:report", "ecs:report", "audio:report", "asset:report",
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d:\n%v", len(events), len(want), events)
	}
	for i, e := range want {
		if events[i] != e {
			t.Fatalf("event %d: got %q, want %q", i, events[i], e)
		}
	}
}

func TestTickSkipsApplyBudgetWhenAgentOffersZeroStrategies(t *testing.T) {
	var events []string
	registry := agent.NewRegistry()
	for _, id := range []agent.ID{agent.Asset, agent.Renderer, agent.Audio, agent.Ecs, agent.Physics} {
		registry.Register(recordingAgent{id: id, events: &events, offerNothing: id == agent.Physics})
	}
	world := ecs.NewWorld(ecs.NewComponentRegistry(), 4)
	s := New(world, ectx.NewServiceRegistry(), registry, gorna.NewDCC(zerolog.Nop()), 10*time.Millisecond, zerolog.Nop())

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	for _, e := range events {
		if e == "physics:apply_budget" {
			t.Fatalf("expected physics to be left on its prior budget after a zero-strategy negotiation, but ApplyBudget was called: %v", events)
		}
	}
}

func TestTickWithTelemetryPublishesStatusAndGCGauges(t *testing.T) {
	var events []string
	statuses := map[agent.ID]gorna.AgentStatus{
		agent.Ecs: {HealthScore: 0.5, IsStalled: false},
	}
	s := newScheduler(t, &events, statuses)

	board := telemetry.NewStatusBoard()
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	s.WithTelemetry(board, metrics)

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	snapshot := board.Snapshot()
	if len(snapshot) != 5 {
		t.Fatalf("got %d statuses on the board, want 5", len(snapshot))
	}
	found := false
	for _, st := range snapshot {
		if st.AgentID == agent.Ecs.String() {
			found = true
			if st.HealthScore != 0.5 {
				t.Errorf("ecs HealthScore = %v, want 0.5", st.HealthScore)
			}
		}
	}
	if !found {
		t.Fatalf("ecs agent status not found on the board")
	}
}
