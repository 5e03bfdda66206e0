// Package gorna implements the negotiation protocol agents use to request
// and receive a per-tick resource budget from the central scheduler (the
// DCC): the scheduler sends each agent a request describing the latency
// target and constraints it operates under, the agent proposes
// strategies, then the DCC hands back the budget for whichever strategy
// its policy selects.
package gorna

import "time"

// StrategyID names a strategy an agent proposed during negotiation.
// Custom lets an agent advertise a strategy outside the three built-in
// tiers without the DCC needing to understand it structurally.
type StrategyID struct {
	Kind   StrategyKind
	Custom uint32 // only meaningful when Kind == StrategyCustom
}

type StrategyKind uint8

const (
	StrategyLowPower StrategyKind = iota
	StrategyBalanced
	StrategyHighPerformance
	StrategyCustom
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyLowPower:
		return "low_power"
	case StrategyBalanced:
		return "balanced"
	case StrategyHighPerformance:
		return "high_performance"
	case StrategyCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ResourceConstraints bounds what an agent is allowed to ask for.
// MustRun marks an agent whose work cannot be skipped this tick even
// under a tight budget (e.g. input polling); the DCC falls back to the
// cheapest strategy that still satisfies MustRun rather than denying the
// agent a budget outright.
type ResourceConstraints struct {
	MaxVRAMBytes  uint64
	MaxMemoryBytes uint64
	MustRun       bool
}

// NegotiationRequest is what the DCC sends an agent at the start of
// negotiation: the latency target for the tick, how much this agent's
// priority should weigh against that target, and the hard constraints
// it must not exceed.
type NegotiationRequest struct {
	TargetLatency  time.Duration
	PriorityWeight float64
	Constraints    ResourceConstraints
}

// StrategyOption is one strategy an agent is able to execute this tick,
// with the agent's own estimate of its cost.
type StrategyOption struct {
	ID              StrategyID
	EstimatedTime   time.Duration
	EstimatedVRAM   uint64
}

// NegotiationResponse is an agent's menu of strategies for the DCC to
// choose from.
type NegotiationResponse struct {
	Strategies []StrategyOption
}

// ResourceBudget is what the DCC hands back after picking a strategy: the
// strategy the agent must run this tick plus the limits it was granted.
// ExtraParams carries strategy-specific tuning the DCC doesn't need to
// understand (e.g. a GC agent's max-cleanup-per-frame).
type ResourceBudget struct {
	StrategyID  StrategyID
	TimeLimit   time.Duration
	MemoryLimit uint64
	ExtraParams map[string]string
}

// AgentStatus is what an agent reports back after running its chosen
// strategy, feeding the engine's telemetry (status board and health
// gauge). The DCC does not read it: Decide picks from the agent's menu
// and the request constraints alone.
type AgentStatus struct {
	AgentID        string
	CurrentStrategy StrategyID
	HealthScore    float64
	IsStalled      bool
	Message        string
}
