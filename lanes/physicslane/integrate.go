// Package physicslane implements the physics subsystem's data-plane
// lane: velocity integration over Transform. There is no rigid-body
// solver or collision detection in scope (spec.md §1 Non-goals) - this
// is the stub math needed to give the physics agent something real to
// drive each tick, fanned out across batches the way khora-lanes'
// physics lane is documented to use internal parallelism while still
// rejoining before returning control to the agent.
package physicslane

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/lane"
)

const batchSize = 256

// IntegrationLane advances every entity with both Transform and Velocity
// by PhysicsDeltaTime each call.
type IntegrationLane struct {
	bundle components.Bundle
}

func NewIntegrationLane(bundle components.Bundle) *IntegrationLane {
	return &IntegrationLane{bundle: bundle}
}

func (l *IntegrationLane) Kind() lane.Kind { return lane.KindPhysics }
func (l *IntegrationLane) Name() string    { return "physics_integrate" }

type row struct {
	transform *components.Transform
	velocity  components.Velocity
}

// Run integrates every matched row by dt. Rows are collected by a single
// sequential cursor pass (ECS iteration isn't safe to parallelize - see
// ecs.Cursor), then the arithmetic itself is fanned out in batches across
// goroutines since each row's Transform pointer is disjoint memory; Run
// blocks until every batch completes, so the caller never observes a
// partially-integrated tick.
func (l *IntegrationLane) Run(ctx *lane.Context, world *ecs.World) (int, error) {
	dt, err := lane.Get[lane.PhysicsDeltaTime](ctx, l.Name())
	if err != nil {
		return 0, err
	}

	cur, err := world.Query(world.NewQuery(ecs.DomainSpatial).And(
		l.bundle.Transform.Component,
		l.bundle.Velocity.Component,
	))
	if err != nil {
		return 0, &lane.Error{Lane: l.Name(), Kind: lane.ErrorBackend, Wrapped: err}
	}

	var rows []row
	for cur.Next() {
		rows = append(rows, row{
			transform: l.bundle.Transform.GetFromCursor(cur),
			velocity:  *l.bundle.Velocity.GetFromCursor(cur),
		})
	}

	g, _ := errgroup.WithContext(context.Background())
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]
		g.Go(func() error {
			for _, r := range batch {
				r.transform.X += r.velocity.X * float32(dt)
				r.transform.Y += r.velocity.Y * float32(dt)
				r.transform.Z += r.velocity.Z * float32(dt)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, &lane.Error{Lane: l.Name(), Kind: lane.ErrorBackend, Wrapped: err}
	}

	return len(rows), nil
}
