package lane

import (
	"fmt"
	"reflect"
)

// Context is the type-keyed bag an agent assembles for one lane call: the
// lane pulls out exactly the keys it needs and is otherwise ignorant of
// whatever else the bag carries, mirroring khora-core's LaneContext.
type Context struct {
	values map[reflect.Type]any
}

func NewContext() *Context {
	return &Context{values: make(map[reflect.Type]any)}
}

// Set stores v under its own concrete type, overwriting any previous
// value of that type.
func (c *Context) Set(v any) {
	c.values[reflect.TypeOf(v)] = v
}

// Get retrieves the value of type T, returning a *Error(ErrorMissingContext)
// wrapped as a plain error when absent so callers can type-assert via
// errors.As if they want to distinguish it from a backend failure.
func Get[T any](c *Context, lane string) (T, error) {
	var zero T
	v, ok := c.values[reflect.TypeOf(zero)]
	if !ok {
		return zero, &Error{Lane: lane, Kind: ErrorMissingContext, Wrapped: fmt.Errorf("%T", zero)}
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &Error{Lane: lane, Kind: ErrorMissingContext, Wrapped: fmt.Errorf("stored value is not %T", zero)}
	}
	return typed, nil
}

// ColorTarget names the render target a frame's color output should land
// in; an opaque handle the render lane's backend resolves, kept as a
// plain integer here since no concrete GPU backend is in scope.
type ColorTarget uint64

// DepthTarget names the depth/stencil target paired with a ColorTarget.
type DepthTarget uint64

// ClearColor is the RGBA clear value a render lane applies before
// drawing.
type ClearColor struct {
	R, G, B, A float32
}

// PhysicsDeltaTime is the fixed or variable step a physics lane should
// integrate by this call.
type PhysicsDeltaTime float32

// AudioOutputSlot names a ring-buffered output slot an audio lane writes
// mixed samples into. Unlike khora-core's raw-pointer AudioOutputSlot,
// this is a plain slice reference: it's only valid for the duration of
// the call that supplied it, same lifetime guarantee, expressed safely.
type AudioOutputSlot struct {
	Samples []float32
}
