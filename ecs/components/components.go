// Package components registers the small set of spatial components the
// transform-propagation pass (and scene round-tripping) depends on:
// Parent/Children for the hierarchy, Transform/GlobalTransform for local
// and world-space placement. Supplemented from khora-data's
// ecs/components, dropped by the distilled spec but needed for S4.
package components

import "github.com/khora-engine/khora/ecs"

// Parent names the entity this entity is attached to, by live handle.
// Absence of the component means the entity is a root.
type Parent struct {
	Entity ecs.EntityID
}

// Children lists every entity currently pointing at this one via Parent.
// It is a convenience index, not the source of truth - the propagation
// pass only ever reads Parent; Children exists for callers that want to
// walk top-down without a reverse scan.
type Children struct {
	Entities []ecs.EntityID
}

// Transform is an entity's placement relative to its Parent (or to the
// world if it has none).
type Transform struct {
	X, Y, Z float32
}

// GlobalTransform is Transform resolved to world space by the
// transform-propagation pass; stale until that pass runs for the tick.
type GlobalTransform struct {
	X, Y, Z float32
}

// Velocity is the per-tick rate the physics lane integrates Transform by.
// It carries no force/mass model - physics integration itself is out of
// scope (spec.md §1) - this is the minimal stub state needed to give the
// physics agent/lane pair something real to do each tick.
type Velocity struct {
	X, Y, Z float32
}

// Bundle holds the registered accessors for every component this package
// defines, returned together so a caller registers all of them with one
// call against one World's registry.
type Bundle struct {
	Parent          ecs.AccessibleComponent[Parent]
	Children        ecs.AccessibleComponent[Children]
	Transform       ecs.AccessibleComponent[Transform]
	GlobalTransform ecs.AccessibleComponent[GlobalTransform]
	Velocity        ecs.AccessibleComponent[Velocity]
}

// Register binds every component in this package to domain (Spatial, in
// every shipped caller) against registry. Calling it twice against the
// same registry with the same domain is safe (registration is
// idempotent); calling it against two different registries is how two
// independent Worlds get independent accessors.
func Register(registry *ecs.ComponentRegistry, domain ecs.SemanticDomain) Bundle {
	return Bundle{
		Parent:          ecs.NewComponent[Parent](registry, domain),
		Children:        ecs.NewComponent[Children](registry, domain),
		Transform:       ecs.NewComponent[Transform](registry, domain),
		GlobalTransform: ecs.NewComponent[GlobalTransform](registry, domain),
		Velocity:        ecs.NewComponent[Velocity](registry, domain),
	}
}
