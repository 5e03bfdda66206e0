/*
Package ecs implements Khora's semantic-domain-paged entity-component store.

Unlike a classic single-schema archetype ECS, component types are first
partitioned into semantic domains (Spatial, Render, Audio, AI, UI, ...) and
each domain owns its own archetype pages. An entity's data for a given
domain lives in exactly one page of that domain at a time; an entity that
never touches a domain has no footprint there at all. This lets a purely
spatial system (physics) iterate Spatial pages without dragging Render or
Audio columns through cache, while still letting a rendering extract query
join across Spatial+Render when it needs both.

Core Concepts:

  - EntityID: a generational handle (index, generation) valid only while
    that generation is alive.
  - Component: a data element, identified the same way warehouse/table
    identify one (github.com/TheBitDrifter/table.ElementType).
  - SemanticDomain: the partition a component's type is registered into.
  - Page: a domain-scoped archetype table, keyed by the sorted signature of
    the components present, built on github.com/TheBitDrifter/table exactly
    as warehouse builds its archetypes, one table.Schema per domain.
  - Query: And/Or/Not composition over components, planned once per
    requested type tuple as either a Native (single domain) or Transversal
    (multi-domain join) plan.

World ties the above together and is the unit of structural mutation:
spawn, despawn, add/remove component, and the two-queue (orphan, hole)
garbage collection protocol that reclaims pages and compacts rows under a
per-tick budget.
*/
package ecs
