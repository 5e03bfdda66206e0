package ecs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// QueryMode selects how a compiled plan walks pages.
type QueryMode int

const (
	// ModeNative means every requested component lives in one domain; the
	// plan is a direct page-signature superset walk over that domain's
	// pages.
	ModeNative QueryMode = iota
	// ModeTransversal means the requested components span more than one
	// domain; the plan drives iteration from the domain of the first
	// requested component and joins peer domains via their membership
	// bitset.
	ModeTransversal
)

// QueryPlan is the resolved strategy for a requested component tuple,
// cached so repeat queries skip replanning.
type QueryPlan struct {
	Mode          QueryMode
	DriverDomain  SemanticDomain
	PeerDomains   []SemanticDomain
	ByDomain      map[SemanticDomain][]Component
}

// queryPlanner compiles and caches plans per requested type tuple, the
// "cached by tuple of requested type ids" behavior named for C4.
type queryPlanner struct {
	registry *ComponentRegistry
	cache    *lru.Cache[string, *QueryPlan]
}

func newQueryPlanner(registry *ComponentRegistry, cacheSize int) *queryPlanner {
	c, err := lru.New[string, *QueryPlan](cacheSize)
	if err != nil {
		panic(fmt.Errorf("ecs: query plan cache: %w", err))
	}
	return &queryPlanner{registry: registry, cache: c}
}

func planKey(comps []Component) string {
	var b strings.Builder
	for i, c := range comps {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(c.ID()), 10))
	}
	return b.String()
}

func (p *queryPlanner) planFor(comps []Component) (*QueryPlan, error) {
	key := planKey(comps)
	if plan, ok := p.cache.Get(key); ok {
		return plan, nil
	}
	byDomain := make(map[SemanticDomain][]Component)
	domainOrder := make([]SemanticDomain, 0, len(comps))
	for _, c := range comps {
		d, ok := p.registry.DomainOf(c)
		if !ok {
			return nil, fmt.Errorf("ecs: component %v used in query before being registered to a domain", c.Type())
		}
		if _, seen := byDomain[d]; !seen {
			domainOrder = append(domainOrder, d)
		}
		byDomain[d] = append(byDomain[d], c)
	}
	plan := &QueryPlan{ByDomain: byDomain}
	if len(byDomain) <= 1 {
		plan.Mode = ModeNative
		for d := range byDomain {
			plan.DriverDomain = d
		}
	} else {
		plan.Mode = ModeTransversal
		driver, peers := pickDriver(byDomain, domainOrder)
		plan.DriverDomain = driver
		plan.PeerDomains = peers
	}
	p.cache.Add(key, plan)
	return plan, nil
}

// pickDriver chooses the driver domain deterministically, per the
// Transversal planning rule: the domain of the first requested component,
// in the order the caller passed them to the query (domainOrder), ties
// broken by SemanticDomain enum order. byDomain is never consulted for
// this choice beyond membership - map iteration order is randomized per
// process and would make entity emission order nondeterministic across
// runs of the same program.
func pickDriver(byDomain map[SemanticDomain][]Component, domainOrder []SemanticDomain) (SemanticDomain, []SemanticDomain) {
	driver := domainOrder[0]
	peers := make([]SemanticDomain, 0, len(byDomain)-1)
	for d := range byDomain {
		if d != driver {
			peers = append(peers, d)
		}
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	return driver, peers
}
