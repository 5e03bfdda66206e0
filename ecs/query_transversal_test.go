package ecs

import "testing"

type testTag struct {
	Label string
}

func TestTransversalQueryJoinsAcrossDomains(t *testing.T) {
	registry := NewComponentRegistry()
	pos := NewComponent[testPosition](registry, DomainSpatial)
	tag := NewComponent[testTag](registry, DomainAI)
	world := NewWorld(registry, 64)

	tagged, err := world.Spawn(
		ComponentValue{Component: pos.Component, Value: testPosition{X: 1, Y: 1}},
	)
	if err != nil {
		t.Fatalf("spawn tagged: %v", err)
	}
	if err := world.AddComponent(tagged, ComponentValue{Component: tag.Component, Value: testTag{Label: "ai"}}); err != nil {
		t.Fatalf("add tag: %v", err)
	}

	untagged, err := world.Spawn(
		ComponentValue{Component: pos.Component, Value: testPosition{X: 2, Y: 2}},
	)
	if err != nil {
		t.Fatalf("spawn untagged: %v", err)
	}

	cur, err := world.Query(world.NewQuery(DomainSpatial).And(pos.Component, tag.Component))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	matched := map[EntityID]bool{}
	for cur.Next() {
		matched[cur.Entity()] = true
	}

	if !matched[tagged] {
		t.Errorf("expected transversal join to match the tagged entity")
	}
	if matched[untagged] {
		t.Errorf("transversal join matched an entity missing the AI-domain component")
	}
}

func TestTransversalDriverDomainIsFirstRequestedComponent(t *testing.T) {
	registry := NewComponentRegistry()
	pos := NewComponent[testPosition](registry, DomainSpatial)
	tag := NewComponent[testTag](registry, DomainAI)
	world := NewWorld(registry, 64)

	// pos (DomainSpatial) listed first: driver must be DomainSpatial.
	forward := world.NewQuery(DomainSpatial).And(pos.Component, tag.Component)
	plan, err := world.planner.planFor(allComponents(forward))
	if err != nil {
		t.Fatalf("planFor: %v", err)
	}
	if plan.DriverDomain != DomainSpatial {
		t.Fatalf("DriverDomain = %v, want %v (first requested component's domain)", plan.DriverDomain, DomainSpatial)
	}

	// tag (DomainAI) listed first this time: driver must flip to DomainAI,
	// regardless of map iteration order over the domain set.
	reversed := world.NewQuery(DomainSpatial).And(tag.Component, pos.Component)
	plan2, err := world.planner.planFor(allComponents(reversed))
	if err != nil {
		t.Fatalf("planFor: %v", err)
	}
	if plan2.DriverDomain != DomainAI {
		t.Fatalf("DriverDomain = %v, want %v (first requested component's domain)", plan2.DriverDomain, DomainAI)
	}
}

func TestQueryPlanCacheReusesSameTupleKey(t *testing.T) {
	registry := NewComponentRegistry()
	pos := NewComponent[testPosition](registry, DomainSpatial)
	vel := NewComponent[testVelocity](registry, DomainSpatial)
	world := NewWorld(registry, 64)

	node := world.NewQuery(DomainSpatial).And(pos.Component, vel.Component)
	first, err := world.planner.planFor(allComponents(node))
	if err != nil {
		t.Fatalf("planFor: %v", err)
	}
	second, err := world.planner.planFor(allComponents(node))
	if err != nil {
		t.Fatalf("planFor: %v", err)
	}
	if first.Mode != second.Mode || first.DriverDomain != second.DriverDomain {
		t.Errorf("expected identical cached plan for the same component tuple")
	}
}
