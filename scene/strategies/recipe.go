// Package strategies implements the three SerializationGoal-selected
// codecs: recipe (smallest file size), definition (human-readable debug /
// long-term stability) and archetype (fastest load).
package strategies

import (
	"bytes"
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/khora-engine/khora/internal/xgraph"
	"github.com/khora-engine/khora/scene"
)

// CommandKind names one step of a replayable scene recipe.
type CommandKind uint8

const (
	CmdSpawn CommandKind = iota
	CmdAddComponent
	CmdSetParent
)

// Command is one step of a SceneRecipe, msgpack-encoded as a tagged
// union via the Kind discriminant (ugorji doesn't need a Rust-style enum
// to round-trip this; every field a given Kind doesn't use is left zero).
type Command struct {
	Kind          CommandKind
	EntityRef     scene.EntityRef
	ComponentType string
	ComponentData []byte
	ParentRef     scene.EntityRef
}

// Recipe is the smallest-file-size strategy: a topologically sorted
// command list (every SetParent/AddComponent for an entity appears after
// its Spawn, and a child's commands never precede its parent's) encoded
// compactly with msgpack.
type Recipe struct {
	registry *scene.DeserializerRegistry
}

func NewRecipe(registry *scene.DeserializerRegistry) *Recipe {
	return &Recipe{registry: registry}
}

func (r *Recipe) Name() string { return "recipe" }

func mpHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	return h
}

func (r *Recipe) Serialize(graph scene.SceneGraph) ([]byte, error) {
	nodes := make([]scene.EntityRef, 0, len(graph.Entities))
	var edges []xgraph.Edge[scene.EntityRef]
	for _, e := range graph.Entities {
		nodes = append(nodes, e.Ref)
		if e.Parent != nil {
			edges = append(edges, xgraph.Edge[scene.EntityRef]{From: *e.Parent, To: e.Ref})
		}
	}
	order, err := xgraph.TopologicalSort(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}

	byRef := make(map[scene.EntityRef]scene.SceneEntity, len(graph.Entities))
	for _, e := range graph.Entities {
		byRef[e.Ref] = e
	}

	var commands []Command
	for _, ref := range order {
		entity := byRef[ref]
		commands = append(commands, Command{Kind: CmdSpawn, EntityRef: ref})
		if entity.Parent != nil {
			commands = append(commands, Command{Kind: CmdSetParent, EntityRef: ref, ParentRef: *entity.Parent})
		}
		for _, comp := range entity.Components {
			commands = append(commands, Command{
				Kind:          CmdAddComponent,
				EntityRef:     ref,
				ComponentType: comp.TypeName,
				ComponentData: comp.Data,
			})
		}
	}

	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, mpHandle())
	if err := enc.Encode(commands); err != nil {
		return nil, fmt.Errorf("recipe: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Recipe) Deserialize(data []byte) (scene.SceneGraph, error) {
	var commands []Command
	dec := codec.NewDecoderBytes(data, mpHandle())
	if err := dec.Decode(&commands); err != nil {
		return scene.SceneGraph{}, fmt.Errorf("recipe: decode: %w", err)
	}

	entities := make(map[scene.EntityRef]*scene.SceneEntity)
	var order []scene.EntityRef
	for _, cmd := range commands {
		switch cmd.Kind {
		case CmdSpawn:
			if _, ok := entities[cmd.EntityRef]; !ok {
				entities[cmd.EntityRef] = &scene.SceneEntity{Ref: cmd.EntityRef}
				order = append(order, cmd.EntityRef)
			}
		case CmdSetParent:
			e, ok := entities[cmd.EntityRef]
			if !ok {
				return scene.SceneGraph{}, fmt.Errorf("recipe: SetParent for unspawned entity %d", cmd.EntityRef)
			}
			parent := cmd.ParentRef
			e.Parent = &parent
		case CmdAddComponent:
			e, ok := entities[cmd.EntityRef]
			if !ok {
				return scene.SceneGraph{}, fmt.Errorf("recipe: AddComponent for unspawned entity %d", cmd.EntityRef)
			}
			e.Components = append(e.Components, scene.ComponentPayload{
				TypeName: cmd.ComponentType,
				Data:     cmd.ComponentData,
			})
		}
	}

	graph := scene.SceneGraph{Entities: make([]scene.SceneEntity, 0, len(order))}
	for _, ref := range order {
		graph.Entities = append(graph.Entities, *entities[ref])
	}
	return graph, nil
}
