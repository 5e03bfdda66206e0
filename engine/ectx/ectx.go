// Package ectx holds the types agents and the engine scheduler both need
// to share (EngineContext, ServiceRegistry) in a leaf package so neither
// side has to import the other.
package ectx

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/khora-engine/khora/ecs"
)

// ServiceRegistry is a type-keyed service locator: each registered value
// is looked up by its own reflect.Type, so a consumer asks for "the
// prometheus metrics service" by the Go type it expects back, the same
// pattern khora-core's service_registry.rs uses keyed on Rust's TypeId.
type ServiceRegistry struct {
	mu       sync.RWMutex
	services map[reflect.Type]any
}

func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{services: make(map[reflect.Type]any)}
}

// InsertService registers svc under its own concrete type. Re-registering
// the same type replaces the previous value.
func InsertService[T any](r *ServiceRegistry, svc T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[reflect.TypeOf(&svc).Elem()] = svc
}

// GetService looks up the service registered for T.
func GetService[T any](r *ServiceRegistry) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	v, ok := r.services[reflect.TypeOf(&zero).Elem()]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

func (r *ServiceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}

func (r *ServiceRegistry) IsEmpty() bool {
	return r.Len() == 0
}

// EngineContext is loaned to every agent's Update/Execute call for one
// tick: the live World plus whatever services the engine wired up
// (cmd/khora registers the telemetry metrics). Agents must not retain it past the
// call they received it in.
type EngineContext struct {
	World    *ecs.World
	Services *ServiceRegistry
}

// RequireService fetches a service or returns a descriptive error instead
// of the ok-bool GetService form, for agents that treat a missing
// dependency as fatal misconfiguration rather than an optional feature.
func RequireService[T any](ctx *EngineContext) (T, error) {
	v, ok := GetService[T](ctx.Services)
	if !ok {
		var zero T
		return zero, fmt.Errorf("ectx: required service %T not registered", zero)
	}
	return v, nil
}
