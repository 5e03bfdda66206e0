package renderlane

import (
	"fmt"

	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
)

// Propagate resolves every entity's GlobalTransform from its local
// Transform and (if any) its Parent's already-resolved GlobalTransform,
// ported from khora-lanes's scene_lane transform_propagation pass. It
// runs in two scans because the ECS cursor only gives sequential access:
// the first scan snapshots every entity's local Transform/Parent into
// plain maps, the second writes the resolved GlobalTransform back
// in-place once every entity (in any iteration order) has been resolved.
func Propagate(world *ecs.World, bundle components.Bundle) error {
	locals := make(map[ecs.EntityID]components.Transform)
	parents := make(map[ecs.EntityID]ecs.EntityID)

	cur, err := world.Query(world.NewQuery(ecs.DomainSpatial).And(bundle.Transform.Component))
	if err != nil {
		return fmt.Errorf("renderlane: propagate: %w", err)
	}
	for cur.Next() {
		id := cur.Entity()
		locals[id] = *bundle.Transform.GetFromCursor(cur)
		if bundle.Parent.CheckCursor(cur) {
			parents[id] = bundle.Parent.GetFromCursor(cur).Entity
		}
	}

	resolved := make(map[ecs.EntityID]components.GlobalTransform, len(locals))
	visiting := make(map[ecs.EntityID]bool, len(locals))
	var resolve func(id ecs.EntityID) (components.GlobalTransform, error)
	resolve = func(id ecs.EntityID) (components.GlobalTransform, error) {
		if g, ok := resolved[id]; ok {
			return g, nil
		}
		local, ok := locals[id]
		if !ok {
			// Parent has no Transform of its own (e.g. it's a pure
			// anchor node): treat it as the coordinate-space origin.
			return components.GlobalTransform{}, nil
		}
		parentID, hasParent := parents[id]
		if !hasParent {
			g := components.GlobalTransform{X: local.X, Y: local.Y, Z: local.Z}
			resolved[id] = g
			return g, nil
		}
		if visiting[id] {
			return components.GlobalTransform{}, fmt.Errorf("renderlane: propagate: cycle detected at entity %v", id)
		}
		visiting[id] = true
		parentGlobal, err := resolve(parentID)
		if err != nil {
			return components.GlobalTransform{}, err
		}
		visiting[id] = false
		g := components.GlobalTransform{
			X: parentGlobal.X + local.X,
			Y: parentGlobal.Y + local.Y,
			Z: parentGlobal.Z + local.Z,
		}
		resolved[id] = g
		return g, nil
	}

	for id := range locals {
		if _, err := resolve(id); err != nil {
			return err
		}
	}

	writeCur, err := world.Query(world.NewQuery(ecs.DomainSpatial).And(bundle.GlobalTransform.Component))
	if err != nil {
		return fmt.Errorf("renderlane: propagate: %w", err)
	}
	for writeCur.Next() {
		id := writeCur.Entity()
		g, ok := resolved[id]
		if !ok {
			continue
		}
		*bundle.GlobalTransform.GetFromCursor(writeCur) = g
	}

	return nil
}
