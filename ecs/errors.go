package ecs

import "fmt"

// ComponentNotFoundError is returned by a mutation that targets a
// component the entity does not currently carry.
type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("ecs: component %v not present on entity", e.Component.Type())
}

// ComponentExistsError is returned by AddComponent when the entity already
// carries that component.
type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("ecs: component %v already present on entity", e.Component.Type())
}

// DomainNotPresentError is returned by RemoveComponentDomain when the
// entity has no footprint in the named domain.
type DomainNotPresentError struct {
	Domain SemanticDomain
}

func (e DomainNotPresentError) Error() string {
	return fmt.Sprintf("ecs: entity has no components in domain %v", e.Domain)
}

// WorldPopulationFailedError is returned while materializing a scene graph
// into a World when a recipe references a component type the registry has
// no codec/registration for - the recipe and the running build's component
// set have drifted apart.
type WorldPopulationFailedError struct {
	TypeName string
}

func (e WorldPopulationFailedError) Error() string {
	return fmt.Sprintf("ecs: world population failed: no component registered for %q", e.TypeName)
}

// InvalidFormatError is returned when a serialization-driven structural
// mutation hits a signature it shouldn't be able to hit if the payload
// were well-formed - e.g. replaying an AddComponent command against an
// entity that, per an earlier command in the same payload, already
// carries that component.
type InvalidFormatError struct {
	Reason string
}

func (e InvalidFormatError) Error() string {
	return fmt.Sprintf("ecs: invalid format: %s", e.Reason)
}
