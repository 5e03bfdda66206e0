package scene

import (
	"errors"
	"fmt"

	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
)

// Load materializes graph into world: every entity is spawned first
// (pass 1), then every Parent edge is resolved against the file-local ref
// -> live EntityID map built during pass 1 (pass 2). This two-pass shape
// is required because a SceneEntity's Parent may name a ref that appears
// later in Entities than the child itself. parentComponent is the
// components.Bundle.Parent accessor the caller registered against
// world.Registry() at startup.
func Load(world *ecs.World, registry *DeserializerRegistry, parentComponent ecs.AccessibleComponent[components.Parent], graph SceneGraph) (map[EntityRef]ecs.EntityID, error) {
	ids := make(map[EntityRef]ecs.EntityID, len(graph.Entities))

	for _, e := range graph.Entities {
		bundle := make([]ecs.ComponentValue, 0, len(e.Components))
		for _, payload := range e.Components {
			codec, ok := registry.CodecFor(payload.TypeName)
			if !ok {
				return nil, ecs.WorldPopulationFailedError{TypeName: payload.TypeName}
			}
			value, err := codec.Decode(payload.Data)
			if err != nil {
				return nil, fmt.Errorf("scene: load: decode %q: %w", payload.TypeName, err)
			}
			bundle = append(bundle, ecs.ComponentValue{Component: codec.Component, Value: value})
		}
		id, err := world.Spawn(bundle...)
		if err != nil {
			return nil, fmt.Errorf("scene: load: spawn entity %d: %w", e.Ref, err)
		}
		ids[e.Ref] = id
	}

	for _, e := range graph.Entities {
		if e.Parent == nil {
			continue
		}
		childID, ok := ids[e.Ref]
		if !ok {
			continue
		}
		parentID, ok := ids[*e.Parent]
		if !ok {
			return nil, fmt.Errorf("scene: load: entity %d names unresolved parent ref %d", e.Ref, *e.Parent)
		}
		cv := ecs.ComponentValue{Component: parentComponent.Component, Value: components.Parent{Entity: parentID}}
		if err := world.AddComponent(childID, cv); err != nil {
			var exists ecs.ComponentExistsError
			if errors.As(err, &exists) {
				return nil, ecs.InvalidFormatError{
					Reason: fmt.Sprintf("entity %d already has a parent attached (duplicate SetParent in payload)", e.Ref),
				}
			}
			return nil, fmt.Errorf("scene: load: attach parent to entity %d: %w", e.Ref, err)
		}
	}

	return ids, nil
}
