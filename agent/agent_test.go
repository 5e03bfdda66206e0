package agent

import (
	"testing"

	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
)

type fakeAgent struct {
	id ID
}

func (f fakeAgent) ID() ID                                                   { return f.id }
func (f fakeAgent) Negotiate(gorna.NegotiationRequest) gorna.NegotiationResponse { return gorna.NegotiationResponse{} }
func (f fakeAgent) ApplyBudget(gorna.ResourceBudget)                         {}
func (f fakeAgent) Update(*ectx.EngineContext) error                         { return nil }
func (f fakeAgent) Execute(*ectx.EngineContext) error                        { return nil }
func (f fakeAgent) ReportStatus() gorna.AgentStatus                          { return gorna.AgentStatus{AgentID: f.id.String()} }

func TestRegistryOrdersByPriorityRegardlessOfRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fakeAgent{id: Asset})
	reg.Register(fakeAgent{id: Renderer})
	reg.Register(fakeAgent{id: Ecs})
	reg.Register(fakeAgent{id: Physics})
	reg.Register(fakeAgent{id: Audio})

	all := reg.All()
	want := []ID{Renderer, Physics, Ecs, Audio, Asset}
	if len(all) != len(want) {
		t.Fatalf("got %d agents, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID() != id {
			t.Errorf("position %d: got %v, want %v", i, all[i].ID(), id)
		}
	}
}

func TestIDStringNamesEveryPriority(t *testing.T) {
	for _, id := range []ID{Renderer, Physics, Ecs, Audio, Asset} {
		if id.String() == "unknown" {
			t.Errorf("ID %d stringified as unknown", id)
		}
	}
}
