// Package render implements the render subsystem's agent: it runs the
// transform-propagation pass during Update (so every other tick-phase
// observer sees resolved GlobalTransforms), then dispatches the render
// lane during Execute.
package render

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
	"github.com/khora-engine/khora/lane"
	"github.com/khora-engine/khora/lanes/renderlane"
)

type Agent struct {
	log             zerolog.Logger
	bundle          components.Bundle
	lane            *renderlane.RenderLane
	currentStrategy gorna.StrategyID
	lastDrawn       int
	colorTarget     lane.ColorTarget
	depthTarget     lane.DepthTarget
	clearColor      lane.ClearColor
}

func New(log zerolog.Logger, bundle components.Bundle) *Agent {
	return &Agent{
		log:             log.With().Str("agent", "render").Logger(),
		bundle:          bundle,
		lane:            renderlane.NewRenderLane(bundle),
		currentStrategy: gorna.StrategyID{Kind: gorna.StrategyBalanced},
		colorTarget:     lane.ColorTarget(1),
		depthTarget:     lane.DepthTarget(1),
		clearColor:      lane.ClearColor{R: 0, G: 0, B: 0, A: 1},
	}
}

func (a *Agent) ID() agent.ID { return agent.Renderer }

func (a *Agent) Negotiate(req gorna.NegotiationRequest) gorna.NegotiationResponse {
	return gorna.NegotiationResponse{
		Strategies: []gorna.StrategyOption{
			{ID: gorna.StrategyID{Kind: gorna.StrategyLowPower}, EstimatedTime: time.Millisecond},
			{ID: gorna.StrategyID{Kind: gorna.StrategyBalanced}, EstimatedTime: 4 * time.Millisecond},
			{ID: gorna.StrategyID{Kind: gorna.StrategyHighPerformance}, EstimatedTime: 8 * time.Millisecond},
		},
	}
}

func (a *Agent) ApplyBudget(budget gorna.ResourceBudget) {
	a.currentStrategy = budget.StrategyID
}

// Update runs transform propagation so GlobalTransform is current before
// any agent's Execute phase (in particular its own) reads it.
func (a *Agent) Update(ctx *ectx.EngineContext) error {
	return renderlane.Propagate(ctx.World, a.bundle)
}

func (a *Agent) Execute(ctx *ectx.EngineContext) error {
	laneCtx := lane.NewContext()
	laneCtx.Set(a.colorTarget)
	laneCtx.Set(a.depthTarget)
	laneCtx.Set(a.clearColor)
	drawn, err := a.lane.Run(laneCtx, ctx.World)
	if err != nil {
		return err
	}
	a.lastDrawn = drawn
	a.log.Debug().Int("drawn", drawn).Msg("render pass complete")
	return nil
}

func (a *Agent) ReportStatus() gorna.AgentStatus {
	return gorna.AgentStatus{
		AgentID:         a.ID().String(),
		CurrentStrategy: a.currentStrategy,
		HealthScore:     1.0,
		IsStalled:       false,
	}
}
