// Package renderlane implements the render subsystem's data-plane lane
// and the transform-propagation pass the render agent runs ahead of it.
// There is no GPU backend in scope (per spec.md §1's Non-goals): the lane
// itself only validates its context and reports how many drawable rows
// it would have extracted, standing in for the real extraction-and-draw
// work a backend would do.
package renderlane

import (
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/lane"
)

// RenderLane extracts GlobalTransform rows for the entities currently
// render-visible and would hand them to a GPU backend; here it only
// counts them, since no backend is wired up.
type RenderLane struct {
	bundle components.Bundle
}

func NewRenderLane(bundle components.Bundle) *RenderLane {
	return &RenderLane{bundle: bundle}
}

func (l *RenderLane) Kind() lane.Kind { return lane.KindRender }
func (l *RenderLane) Name() string    { return "render_extract" }

// Run validates the frame's render targets are present in ctx, then
// counts drawable entities (anything with a resolved GlobalTransform).
// It returns the count instead of touching a backend, since none exists
// in this module's scope.
func (l *RenderLane) Run(ctx *lane.Context, world *ecs.World) (int, error) {
	if _, err := lane.Get[lane.ColorTarget](ctx, l.Name()); err != nil {
		return 0, err
	}
	if _, err := lane.Get[lane.ClearColor](ctx, l.Name()); err != nil {
		return 0, err
	}

	cur, err := world.Query(world.NewQuery(ecs.DomainSpatial).And(l.bundle.GlobalTransform.Component))
	if err != nil {
		return 0, &lane.Error{Lane: l.Name(), Kind: lane.ErrorBackend, Wrapped: err}
	}
	return cur.TotalMatched(), nil
}
