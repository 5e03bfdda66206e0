package gorna

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testDCC() *DCC {
	return NewDCC(zerolog.Nop())
}

func TestDecidePicksHighestQualityFittingStrategy(t *testing.T) {
	dcc := testDCC()
	req := NegotiationRequest{TargetLatency: 10 * time.Millisecond}
	resp := NegotiationResponse{Strategies: []StrategyOption{
		{ID: StrategyID{Kind: StrategyLowPower}, EstimatedTime: 1 * time.Millisecond},
		{ID: StrategyID{Kind: StrategyBalanced}, EstimatedTime: 5 * time.Millisecond},
		{ID: StrategyID{Kind: StrategyHighPerformance}, EstimatedTime: 50 * time.Millisecond},
	}}

	budget, ok := dcc.Decide("test", req, resp)
	if !ok {
		t.Fatalf("expected a decided budget")
	}
	if budget.StrategyID.Kind != StrategyBalanced {
		t.Fatalf("expected Balanced to win (HighPerformance exceeds target latency), got %v", budget.StrategyID.Kind)
	}
}

func TestDecideFallsBackToCheapestWhenMustRun(t *testing.T) {
	dcc := testDCC()
	req := NegotiationRequest{
		TargetLatency: 1 * time.Millisecond,
		Constraints:   ResourceConstraints{MustRun: true},
	}
	resp := NegotiationResponse{Strategies: []StrategyOption{
		{ID: StrategyID{Kind: StrategyBalanced}, EstimatedTime: 5 * time.Millisecond},
		{ID: StrategyID{Kind: StrategyHighPerformance}, EstimatedTime: 50 * time.Millisecond},
	}}

	budget, ok := dcc.Decide("test", req, resp)
	if !ok {
		t.Fatalf("expected a decided budget")
	}
	if budget.StrategyID.Kind != StrategyBalanced {
		t.Fatalf("expected must-run fallback to pick the cheapest option (Balanced), got %v", budget.StrategyID.Kind)
	}
}

func TestDecideReturnsNoDecisionWhenNothingFitsAndNotMustRun(t *testing.T) {
	dcc := testDCC()
	req := NegotiationRequest{TargetLatency: 1 * time.Millisecond}
	resp := NegotiationResponse{Strategies: []StrategyOption{
		{ID: StrategyID{Kind: StrategyHighPerformance}, EstimatedTime: 50 * time.Millisecond},
	}}

	budget, ok := dcc.Decide("test", req, resp)
	if ok {
		t.Fatalf("expected no decision when nothing fits and the agent isn't must-run, got %+v", budget)
	}
}

func TestDecideReturnsNoDecisionWhenZeroStrategiesOffered(t *testing.T) {
	dcc := testDCC()
	req := NegotiationRequest{TargetLatency: 1 * time.Millisecond}
	resp := NegotiationResponse{}

	budget, ok := dcc.Decide("test", req, resp)
	if ok {
		t.Fatalf("expected no decision for a zero-strategy negotiation response, got %+v", budget)
	}
}

func TestDecideRespectsVRAMConstraint(t *testing.T) {
	dcc := testDCC()
	req := NegotiationRequest{
		TargetLatency: time.Second,
		Constraints:   ResourceConstraints{MaxVRAMBytes: 1024},
	}
	resp := NegotiationResponse{Strategies: []StrategyOption{
		{ID: StrategyID{Kind: StrategyHighPerformance}, EstimatedTime: time.Millisecond, EstimatedVRAM: 4096},
		{ID: StrategyID{Kind: StrategyBalanced}, EstimatedTime: time.Millisecond, EstimatedVRAM: 512},
	}}

	budget, ok := dcc.Decide("test", req, resp)
	if !ok {
		t.Fatalf("expected a decided budget")
	}
	if budget.StrategyID.Kind != StrategyBalanced {
		t.Fatalf("expected Balanced (fits VRAM budget) to win over HighPerformance, got %v", budget.StrategyID.Kind)
	}
}
