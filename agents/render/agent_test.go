package render

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/engine/ectx"
)

func TestRenderAgentUpdateThenExecutePropagatesAndDraws(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	bundle := components.Register(registry, ecs.DomainSpatial)
	world := ecs.NewWorld(registry, 16)

	parent, err := world.Spawn(
		ecs.ComponentValue{Component: bundle.Transform.Component, Value: components.Transform{X: 10}},
		ecs.ComponentValue{Component: bundle.GlobalTransform.Component},
	)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := world.Spawn(
		ecs.ComponentValue{Component: bundle.Transform.Component, Value: components.Transform{Y: 5}},
		ecs.ComponentValue{Component: bundle.GlobalTransform.Component},
		ecs.ComponentValue{Component: bundle.Parent.Component, Value: components.Parent{Entity: parent}},
	); err != nil {
		t.Fatalf("spawn child: %v", err)
	}

	a := New(zerolog.Nop(), bundle)
	if a.ID() != agent.Renderer {
		t.Fatalf("ID() = %v, want Renderer", a.ID())
	}

	ctx := &ectx.EngineContext{World: world, Services: ectx.NewServiceRegistry()}
	if err := a.Update(ctx); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := a.Execute(ctx); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if a.lastDrawn != 2 {
		t.Fatalf("lastDrawn = %d, want 2", a.lastDrawn)
	}
}
