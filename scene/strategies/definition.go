package strategies

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/khora-engine/khora/scene"
)

// definitionComponent is the YAML-facing shape of a ComponentPayload: the
// raw bytes go through yaml.v3's default []byte marshaling, which writes
// them as a sequence of integers (not base64), so binary encodings still
// round-trip.
type definitionComponent struct {
	Type string `yaml:"type"`
	Data []byte `yaml:"data"`
}

type definitionEntity struct {
	Ref        uint32                `yaml:"ref"`
	Parent     *uint32               `yaml:"parent,omitempty"`
	Components []definitionComponent `yaml:"components"`
}

type definitionDocument struct {
	Entities []definitionEntity `yaml:"entities"`
}

// Definition is the human-readable-debug / long-term-stability strategy:
// a plain YAML document naming every field, favoring readability and
// forward compatibility over size or load speed.
type Definition struct {
	registry *scene.DeserializerRegistry
}

func NewDefinition(registry *scene.DeserializerRegistry) *Definition {
	return &Definition{registry: registry}
}

func (d *Definition) Name() string { return "definition" }

func (d *Definition) Serialize(graph scene.SceneGraph) ([]byte, error) {
	doc := definitionDocument{Entities: make([]definitionEntity, 0, len(graph.Entities))}
	for _, e := range graph.Entities {
		entry := definitionEntity{Ref: uint32(e.Ref)}
		if e.Parent != nil {
			parent := uint32(*e.Parent)
			entry.Parent = &parent
		}
		for _, comp := range e.Components {
			entry.Components = append(entry.Components, definitionComponent{
				Type: comp.TypeName,
				Data: comp.Data,
			})
		}
		doc.Entities = append(doc.Entities, entry)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("definition: marshal: %w", err)
	}
	return out, nil
}

func (d *Definition) Deserialize(data []byte) (scene.SceneGraph, error) {
	var doc definitionDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return scene.SceneGraph{}, fmt.Errorf("definition: unmarshal: %w", err)
	}

	// Two-pass load: spawn every entity first (pass 1 in the loader, not
	// here) by handing back the full graph with parent refs intact; the
	// loader resolves Parent only after every Ref in the file has a live
	// ecs.EntityID to point at.
	graph := scene.SceneGraph{Entities: make([]scene.SceneEntity, 0, len(doc.Entities))}
	for _, entry := range doc.Entities {
		se := scene.SceneEntity{Ref: scene.EntityRef(entry.Ref)}
		if entry.Parent != nil {
			parent := scene.EntityRef(*entry.Parent)
			se.Parent = &parent
		}
		for _, comp := range entry.Components {
			se.Components = append(se.Components, scene.ComponentPayload{
				TypeName: comp.Type,
				Data:     comp.Data,
			})
		}
		graph.Entities = append(graph.Entities, se)
	}
	return graph, nil
}
