package gorna

import (
	"sort"

	"github.com/rs/zerolog"
)

// DCC (Dynamic Compute Coordinator) is the central scheduler that runs
// negotiation for every agent each tick and turns the winning strategy
// option into a ResourceBudget. It holds no per-agent state itself -
// agents are negotiated with one at a time by the engine scheduler, in
// priority order.
type DCC struct {
	log zerolog.Logger
}

// NewDCC builds a DCC that logs strategy decisions under the given
// logger (callers typically pass a logger already tagged with
// component=dcc).
func NewDCC(log zerolog.Logger) *DCC {
	return &DCC{log: log}
}

// Decide applies the DCC's selection policy to a NegotiationResponse:
// pick the highest-quality (highest StrategyKind) option whose estimated
// cost fits within req's constraints and target latency; if nothing fits
// but the agent is must-run, fall back to its cheapest option instead of
// leaving it with no budget at all. The bool reports whether a budget was
// actually decided: it is false both when the agent offered zero
// strategies (a fatal negotiation for that agent - logged, not applied)
// and when nothing fit and the agent wasn't must-run. Either way the
// caller must leave the agent on whatever budget it was already running,
// never overwrite it with the zero value.
func (d *DCC) Decide(agentID string, req NegotiationRequest, resp NegotiationResponse) (ResourceBudget, bool) {
	if len(resp.Strategies) == 0 {
		d.log.Error().Str("agent", agentID).Msg("negotiation proposed zero strategies, leaving agent on its prior budget")
		return ResourceBudget{}, false
	}

	candidates := append([]StrategyOption(nil), resp.Strategies...)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID.Kind > candidates[j].ID.Kind
	})

	for _, opt := range candidates {
		if fits(opt, req) {
			d.log.Info().
				Str("agent", agentID).
				Str("strategy", opt.ID.Kind.String()).
				Dur("estimated_time", opt.EstimatedTime).
				Msg("negotiated strategy")
			return budgetFor(opt, req), true
		}
	}

	if req.Constraints.MustRun {
		cheapest := candidates[0]
		for _, opt := range candidates {
			if opt.EstimatedTime < cheapest.EstimatedTime {
				cheapest = opt
			}
		}
		d.log.Info().
			Str("agent", agentID).
			Str("strategy", cheapest.ID.Kind.String()).
			Msg("must-run agent over budget, falling back to cheapest strategy")
		return budgetFor(cheapest, req), true
	}

	d.log.Debug().Str("agent", agentID).Msg("no strategy fit this tick, agent skipped")
	return ResourceBudget{}, false
}

func fits(opt StrategyOption, req NegotiationRequest) bool {
	if req.TargetLatency > 0 && opt.EstimatedTime > req.TargetLatency {
		return false
	}
	if req.Constraints.MaxVRAMBytes > 0 && opt.EstimatedVRAM > req.Constraints.MaxVRAMBytes {
		return false
	}
	return true
}

func budgetFor(opt StrategyOption, req NegotiationRequest) ResourceBudget {
	return ResourceBudget{
		StrategyID:  opt.ID,
		TimeLimit:   opt.EstimatedTime,
		MemoryLimit: req.Constraints.MaxMemoryBytes,
		ExtraParams: make(map[string]string),
	}
}
