// Package agent defines the Agent contract every subsystem driver (GC,
// render, physics, audio, asset) implements, plus the priority-ordered
// registry the engine scheduler walks each tick.
package agent

import (
	"sort"

	"github.com/khora-engine/khora/engine/ectx"
	"github.com/khora-engine/khora/gorna"
)

// ID names an agent and fixes its default scheduling priority: lower
// values run first in both the update and execute passes, matching
// khora-core's Renderer/Physics/Ecs/Audio/Asset ordering.
type ID uint8

const (
	Renderer ID = iota
	Physics
	Ecs
	Audio
	Asset
)

func (id ID) String() string {
	switch id {
	case Renderer:
		return "renderer"
	case Physics:
		return "physics"
	case Ecs:
		return "ecs"
	case Audio:
		return "audio"
	case Asset:
		return "asset"
	default:
		return "unknown"
	}
}

// Agent is the uniform interface the DCC negotiates with and the
// scheduler drives every tick: negotiate a strategy, receive a budget,
// update (cheap, structural-mutation-safe pass), execute (the strategy's
// actual work), then report status for telemetry and the next
// negotiation round.
type Agent interface {
	ID() ID
	Negotiate(gorna.NegotiationRequest) gorna.NegotiationResponse
	ApplyBudget(gorna.ResourceBudget)
	Update(*ectx.EngineContext) error
	Execute(*ectx.EngineContext) error
	ReportStatus() gorna.AgentStatus
}

// Registry holds every agent the scheduler drives, walked in priority
// (ID) order by every scheduler pass; the negotiation priority weight
// falls as the ID rises (see engine.Scheduler).
type Registry struct {
	agents []Agent
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an agent, keeping the registry sorted by ID so callers
// never have to think about registration order.
func (r *Registry) Register(a Agent) {
	r.agents = append(r.agents, a)
	sort.Slice(r.agents, func(i, j int) bool { return r.agents[i].ID() < r.agents[j].ID() })
}

// All returns every registered agent in priority order.
func (r *Registry) All() []Agent {
	return r.agents
}
