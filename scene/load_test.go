package scene_test

import (
	"errors"
	"testing"

	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/scene"
)

func TestLoadResolvesForwardParentReferences(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	bundle := components.Register(registry, ecs.DomainSpatial)
	world := ecs.NewWorld(registry, 64)

	reg := scene.NewDeserializerRegistry()
	reg.Register(scene.ComponentCodec{
		TypeName:  "transform",
		Component: bundle.Transform.Component,
		Encode:    func(v any) ([]byte, error) { return nil, nil },
		Decode:    func([]byte) (any, error) { return components.Transform{X: 1}, nil },
	})

	// Child (ref 1) names parent ref 2 before ref 2 appears in the file -
	// a forward reference the two-pass loader must still resolve.
	parentRef := scene.EntityRef(2)
	graph := scene.SceneGraph{
		Entities: []scene.SceneEntity{
			{
				Ref:        1,
				Parent:     &parentRef,
				Components: []scene.ComponentPayload{{TypeName: "transform"}},
			},
			{
				Ref:        2,
				Components: []scene.ComponentPayload{{TypeName: "transform"}},
			},
		},
	}

	ids, err := scene.Load(world, reg, bundle.Parent, graph)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	childID := ids[1]
	parentID := ids[2]

	cur, err := world.Query(world.NewQuery(ecs.DomainSpatial).And(bundle.Parent.Component))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	found := false
	for cur.Next() {
		if cur.Entity() == childID {
			found = true
			got := bundle.Parent.GetFromCursor(cur).Entity
			if got != parentID {
				t.Errorf("child's resolved parent = %v, want %v", got, parentID)
			}
		}
	}
	if !found {
		t.Fatalf("expected the child entity to carry a resolved Parent component")
	}
}

func TestLoadErrorsOnUnresolvableParentRef(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	bundle := components.Register(registry, ecs.DomainSpatial)
	world := ecs.NewWorld(registry, 64)

	reg := scene.NewDeserializerRegistry()
	reg.Register(scene.ComponentCodec{
		TypeName:  "transform",
		Component: bundle.Transform.Component,
		Decode:    func([]byte) (any, error) { return components.Transform{}, nil },
	})

	missing := scene.EntityRef(99)
	graph := scene.SceneGraph{
		Entities: []scene.SceneEntity{
			{Ref: 1, Parent: &missing, Components: []scene.ComponentPayload{{TypeName: "transform"}}},
		},
	}

	if _, err := scene.Load(world, reg, bundle.Parent, graph); err == nil {
		t.Fatalf("expected an error when a scene names a parent ref that never appears")
	}
}

func TestLoadReturnsWorldPopulationFailedForUnregisteredComponent(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	bundle := components.Register(registry, ecs.DomainSpatial)
	world := ecs.NewWorld(registry, 64)

	reg := scene.NewDeserializerRegistry()

	graph := scene.SceneGraph{
		Entities: []scene.SceneEntity{
			{Ref: 1, Components: []scene.ComponentPayload{{TypeName: "unregistered_type"}}},
		},
	}

	_, err := scene.Load(world, reg, bundle.Parent, graph)
	var wpf ecs.WorldPopulationFailedError
	if !errors.As(err, &wpf) {
		t.Fatalf("expected a WorldPopulationFailedError, got %v", err)
	}
	if wpf.TypeName != "unregistered_type" {
		t.Fatalf("TypeName = %q, want %q", wpf.TypeName, "unregistered_type")
	}
}

func TestLoadReturnsInvalidFormatForDuplicateParentAttachment(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	bundle := components.Register(registry, ecs.DomainSpatial)
	world := ecs.NewWorld(registry, 64)

	reg := scene.NewDeserializerRegistry()
	reg.Register(scene.ComponentCodec{
		TypeName:  "transform",
		Component: bundle.Transform.Component,
		Decode:    func([]byte) (any, error) { return components.Transform{}, nil },
	})

	parentRef := scene.EntityRef(3)
	// A malformed payload naming ref 1 twice: both entries spawn into the
	// same final ids[1] slot (the second Spawn's id wins), then pass 2
	// replays SetParent for each entry in turn - the second AddComponent
	// hits a component the first already attached.
	graph := scene.SceneGraph{
		Entities: []scene.SceneEntity{
			{Ref: 1, Parent: &parentRef, Components: []scene.ComponentPayload{{TypeName: "transform"}}},
			{Ref: 1, Parent: &parentRef, Components: []scene.ComponentPayload{{TypeName: "transform"}}},
			{Ref: 3, Components: []scene.ComponentPayload{{TypeName: "transform"}}},
		},
	}

	_, err := scene.Load(world, reg, bundle.Parent, graph)
	var invalid ecs.InvalidFormatError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected an InvalidFormatError for the duplicate parent attachment, got %v", err)
	}
}
