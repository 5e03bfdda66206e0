package scene

import (
	"fmt"

	"github.com/khora-engine/khora/ecs"
)

// EntityRef identifies an entity within one scene file. It has no
// relationship to ecs.EntityID - a loader remaps file-local refs to
// freshly spawned handles through an id map as it replays a scene.
type EntityRef uint32

// ComponentPayload is one component's encoded value, tagged by the
// stable name a DeserializerRegistry looks codecs up by (never the Go
// type name directly, so a scene file survives a type rename).
type ComponentPayload struct {
	TypeName string
	Data     []byte
}

// SceneEntity is one entity's worth of a scene graph: its file-local ref,
// its component payloads, and the parent it should be attached to (if
// any) once every entity in the graph has been spawned.
type SceneEntity struct {
	Ref        EntityRef
	Components []ComponentPayload
	Parent     *EntityRef
}

// SceneGraph is the strategy-agnostic in-memory form every
// Serialize/Deserialize call produces or consumes; only the byte encoding
// differs between Recipe, Definition and Archetype.
type SceneGraph struct {
	Entities []SceneEntity
}

// ComponentCodec encodes/decodes one component type to/from bytes, keyed
// by a stable name rather than a Go reflect.Type so scene files remain
// loadable across refactors of the component's Go type. Component is the
// ecs identity a loader attaches the decoded value to when it spawns an
// entity back into a World.
type ComponentCodec struct {
	TypeName  string
	Component ecs.Component
	Encode    func(value any) ([]byte, error)
	Decode    func([]byte) (any, error)
}

// maxRegisteredComponentTypes bounds the DeserializerRegistry's backing
// ecs.Cache; a scene format dealing with more distinct component types
// than this in one process is a configuration bug, not a growth need.
const maxRegisteredComponentTypes = 4096

// DeserializerRegistry maps a component's stable name to its codec,
// mirroring khora-lanes's per-component registration
// (register::<C,S>(from_serializable)). Backed by ecs.Cache, the same
// capacity-bounded string-keyed table the World uses for its own
// component registry, rather than a bare map.
type DeserializerRegistry struct {
	codecs ecs.Cache[ComponentCodec]
}

func NewDeserializerRegistry() *DeserializerRegistry {
	return &DeserializerRegistry{codecs: ecs.NewCache[ComponentCodec](maxRegisteredComponentTypes)}
}

// Register adds or replaces the codec for codec.TypeName. It panics on
// registry overflow, a startup-time configuration error, not a runtime
// condition callers should need to handle.
func (r *DeserializerRegistry) Register(codec ComponentCodec) {
	if _, err := r.codecs.Register(codec.TypeName, codec); err != nil {
		panic(fmt.Errorf("scene: %w", err))
	}
}

func (r *DeserializerRegistry) Encode(typeName string, value any) ([]byte, error) {
	codec, ok := r.CodecFor(typeName)
	if !ok {
		return nil, fmt.Errorf("scene: no codec registered for component %q", typeName)
	}
	return codec.Encode(value)
}

// CodecFor returns the registered codec for typeName, if any - callers
// that need the ecs.Component identity alongside the decoded value (the
// loader) use this instead of Decode.
func (r *DeserializerRegistry) CodecFor(typeName string) (ComponentCodec, bool) {
	idx, ok := r.codecs.GetIndex(typeName)
	if !ok {
		return ComponentCodec{}, false
	}
	return *r.codecs.GetItem(idx), true
}

func (r *DeserializerRegistry) Decode(typeName string, data []byte) (any, error) {
	codec, ok := r.CodecFor(typeName)
	if !ok {
		return nil, fmt.Errorf("scene: no codec registered for component %q", typeName)
	}
	return codec.Decode(data)
}

// Strategy is what Recipe, Definition and Archetype each implement: a
// SceneGraph <-> bytes codec, named so the container header can dispatch
// a load to the right one.
type Strategy interface {
	Name() string
	Serialize(graph SceneGraph) ([]byte, error)
	Deserialize(data []byte) (SceneGraph, error)
}
