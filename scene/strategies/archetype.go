package strategies

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/khora-engine/khora/scene"
)

// LayoutVersion gates the Archetype strategy's payload shape. Unlike
// Recipe and Definition, Archetype is allowed to change its on-disk shape
// between engine versions in exchange for load speed, so every payload
// is stamped with the version that wrote it and refuses to decode under
// a different one rather than guess.
const LayoutVersion = 1

type archetypeRow struct {
	Ref        uint32
	HasParent  bool
	Parent     uint32
	TypeNames  []string
	ComponentB [][]byte
}

type archetypePayload struct {
	LayoutVersion int
	Rows          []archetypeRow
}

// Archetype is the fastest-load strategy: entities are written in the
// exact order they appear in the SceneGraph (the order a well-formed
// graph already spawns them in), skipping the topological sort and
// command-replay indirection Recipe pays for. There is no third wired
// serialization library left to differentiate this from Recipe/Definition
// with a distinct dependency, so this strategy's codec falls back to the
// standard library's encoding/gob (see DESIGN.md).
type Archetype struct {
	registry *scene.DeserializerRegistry
}

func NewArchetype(registry *scene.DeserializerRegistry) *Archetype {
	return &Archetype{registry: registry}
}

func (a *Archetype) Name() string { return "archetype" }

func (a *Archetype) Serialize(graph scene.SceneGraph) ([]byte, error) {
	payload := archetypePayload{LayoutVersion: LayoutVersion, Rows: make([]archetypeRow, 0, len(graph.Entities))}
	for _, e := range graph.Entities {
		row := archetypeRow{Ref: uint32(e.Ref)}
		if e.Parent != nil {
			row.HasParent = true
			row.Parent = uint32(*e.Parent)
		}
		for _, comp := range e.Components {
			row.TypeNames = append(row.TypeNames, comp.TypeName)
			row.ComponentB = append(row.ComponentB, comp.Data)
		}
		payload.Rows = append(payload.Rows, row)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("archetype: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *Archetype) Deserialize(data []byte) (scene.SceneGraph, error) {
	var payload archetypePayload
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return scene.SceneGraph{}, fmt.Errorf("archetype: decode: %w", err)
	}
	if payload.LayoutVersion != LayoutVersion {
		return scene.SceneGraph{}, fmt.Errorf("archetype: layout version mismatch: file has %d, build supports %d",
			payload.LayoutVersion, LayoutVersion)
	}

	graph := scene.SceneGraph{Entities: make([]scene.SceneEntity, 0, len(payload.Rows))}
	for _, row := range payload.Rows {
		se := scene.SceneEntity{Ref: scene.EntityRef(row.Ref)}
		if row.HasParent {
			parent := scene.EntityRef(row.Parent)
			se.Parent = &parent
		}
		for i, typeName := range row.TypeNames {
			se.Components = append(se.Components, scene.ComponentPayload{
				TypeName: typeName,
				Data:     row.ComponentB[i],
			})
		}
		graph.Entities = append(graph.Entities, se)
	}
	return graph, nil
}
