// Package physics implements the physics subsystem's agent: it applies a
// fixed timestep and dispatches the velocity-integration lane.
package physics

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/ecs/components"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
	"github.com/khora-engine/khora/lane"
	"github.com/khora-engine/khora/lanes/physicslane"
)

const defaultDeltaTime = lane.PhysicsDeltaTime(1.0 / 60.0)

type Agent struct {
	log             zerolog.Logger
	lane            *physicslane.IntegrationLane
	deltaTime       lane.PhysicsDeltaTime
	currentStrategy gorna.StrategyID
	lastIntegrated  int
}

func New(log zerolog.Logger, bundle components.Bundle) *Agent {
	return &Agent{
		log:             log.With().Str("agent", "physics").Logger(),
		lane:            physicslane.NewIntegrationLane(bundle),
		deltaTime:       defaultDeltaTime,
		currentStrategy: gorna.StrategyID{Kind: gorna.StrategyBalanced},
	}
}

func (a *Agent) ID() agent.ID { return agent.Physics }

func (a *Agent) Negotiate(req gorna.NegotiationRequest) gorna.NegotiationResponse {
	return gorna.NegotiationResponse{
		Strategies: []gorna.StrategyOption{
			{ID: gorna.StrategyID{Kind: gorna.StrategyBalanced}, EstimatedTime: 2 * time.Millisecond},
			{ID: gorna.StrategyID{Kind: gorna.StrategyHighPerformance}, EstimatedTime: 3 * time.Millisecond},
		},
	}
}

func (a *Agent) ApplyBudget(budget gorna.ResourceBudget) {
	a.currentStrategy = budget.StrategyID
}

func (a *Agent) Update(ctx *ectx.EngineContext) error { return nil }

func (a *Agent) Execute(ctx *ectx.EngineContext) error {
	laneCtx := lane.NewContext()
	laneCtx.Set(a.deltaTime)
	n, err := a.lane.Run(laneCtx, ctx.World)
	if err != nil {
		return err
	}
	a.lastIntegrated = n
	a.log.Debug().Int("integrated", n).Msg("physics pass complete")
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
