// Package audio implements the audio subsystem's agent: it owns the
// tick's output slot buffer and dispatches the mix lane to fill it.
package audio

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/agent"
	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
	"github.com/khora-engine/khora/lane"
	"github.com/khora-engine/khora/lanes/audiolane"
)

const outputSlotSize = 512

type Agent struct {
	log             zerolog.Logger
	lane            *audiolane.MixLane
	currentStrategy gorna.StrategyID
	lastFilled      int
}

func New(log zerolog.Logger) *Agent {
	return &Agent{
		log:             log.With().Str("agent", "audio").Logger(),
		lane:            audiolane.NewMixLane(outputSlotSize * 4),
		currentStrategy: gorna.StrategyID{Kind: gorna.StrategyBalanced},
	}
}

func (a *Agent) ID() agent.ID { return agent.Audio }

func (a *Agent) Negotiate(req gorna.NegotiationRequest) gorna.NegotiationResponse {
	return gorna.NegotiationResponse{
		Strategies: []gorna.StrategyOption{
			{ID: gorna.StrategyID{Kind: gorna.StrategyBalanced}, EstimatedTime: time.Millisecond},
		},
	}
}

func (a *Agent) ApplyBudget(budget gorna.ResourceBudget) {
	a.currentStrategy = budget.StrategyID
}

func (a *Agent) Update(ctx *ectx.EngineContext) error { return nil }

func (a *Agent) Execute(ctx *ectx.EngineContext) error {
	laneCtx := lane.NewContext()
	laneCtx.Set(lane.AudioOutputSlot{Samples: make([]float32, outputSlotSize)})
	filled, err := a.lane.Run(laneCtx, ctx.World)
	if err != nil {
		return err
	}
	a.lastFilled = filled
	a.log.Debug().Int("filled", filled).Msg("audio pass complete")
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
