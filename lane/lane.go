// Package lane defines the stateless worker contract: a Lane reads and
// writes a per-tick LaneContext bag handed to it by its owning agent, and
// has no state of its own that survives past one call to Run.
package lane

import "fmt"

// Kind names the category of work a lane performs, for telemetry and for
// matching a lane to the agent that's allowed to drive it.
type Kind string

const (
	KindECSCompaction Kind = "ecs_compaction"
	KindRender        Kind = "render"
	KindPhysics       Kind = "physics"
	KindAudio         Kind = "audio"
	KindAsset         Kind = "asset"
	KindScene         Kind = "scene"
)

// Lane is a stateless unit of work: it receives a LaneContext bag for
// this call only and returns whatever result its caller's concrete type
// expects; the interface here only guarantees identification, not a
// single common Run signature, since lanes differ widely in what they
// consume and produce (the GC compaction lane takes a work plan and
// returns stats, the render lane takes targets and returns a draw count).
type Lane interface {
	Kind() Kind
	Name() string
}

// Error is the typed error a lane reports for expected failure modes
// (a required context key missing, a backend call failing), mirroring
// warehouse's plain-typed-error idiom.
type Error struct {
	Lane    string
	Kind    ErrorKind
	Wrapped error
}

type ErrorKind int

const (
	ErrorMissingContext ErrorKind = iota
	ErrorBackend
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorMissingContext:
		return fmt.Sprintf("lane %s: missing required context key: %v", e.Lane, e.Wrapped)
	case ErrorBackend:
		return fmt.Sprintf("lane %s: backend error: %v", e.Lane, e.Wrapped)
	default:
		return fmt.Sprintf("lane %s: error: %v", e.Lane, e.Wrapped)
	}
}

func (e *Error) Unwrap() error { return e.Wrapped }
