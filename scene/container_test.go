package scene

import (
	"bytes"
	"testing"
)

func TestHeaderSizeIs49Bytes(t *testing.T) {
	if HeaderSize != 49 {
		t.Fatalf("HeaderSize = %d, want 49", HeaderSize)
	}
}

func TestWriteHeaderThenReadHeaderRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	h := Header{FormatVersion: FormatVersion, StrategyName: "recipe", PayloadLength: 1234}
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if buf.Len() != HeaderSize {
		t.Fatalf("wrote %d bytes, want exactly %d", buf.Len(), HeaderSize)
	}

	got, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	copy(buf, []byte("NOTKHORA"))
	if _, err := ReadHeader(bytes.NewReader(buf)); err == nil {
		t.Fatalf("expected an error for a header with bad magic bytes")
	}
}

func TestHeaderMagicIsKHORASCN(t *testing.T) {
	if string(HeaderMagic[:]) != "KHORASCN" {
		t.Fatalf("HeaderMagic = %q, want %q", string(HeaderMagic[:]), "KHORASCN")
	}
}

type echoStrategy struct{ name string }

func (e echoStrategy) Name() string { return e.name }
func (e echoStrategy) Serialize(graph SceneGraph) ([]byte, error) {
	return []byte{byte(len(graph.Entities))}, nil
}
func (e echoStrategy) Deserialize(data []byte) (SceneGraph, error) {
	n := int(data[0])
	g := SceneGraph{Entities: make([]SceneEntity, n)}
	for i := range g.Entities {
		g.Entities[i].Ref = EntityRef(i + 1)
	}
	return g, nil
}

func TestWriteSceneThenReadSceneDispatchesByHeaderStrategyName(t *testing.T) {
	d := NewDispatcher()
	d.Register(echoStrategy{name: "recipe"})

	var buf bytes.Buffer
	graph := SceneGraph{Entities: []SceneEntity{{Ref: 1}, {Ref: 2}, {Ref: 3}}}
	if err := WriteScene(&buf, d, GoalSmallestFileSize, graph); err != nil {
		t.Fatalf("WriteScene: %v", err)
	}

	got, err := ReadScene(bytes.NewReader(buf.Bytes()), d)
	if err != nil {
		t.Fatalf("ReadScene: %v", err)
	}
	if len(got.Entities) != 3 {
		t.Fatalf("got %d entities, want 3", len(got.Entities))
	}
}

func TestStrategyNameForEveryGoal(t *testing.T) {
	cases := map[Goal]string{
		GoalFastestLoad:        "archetype",
		GoalSmallestFileSize:   "recipe",
		GoalHumanReadableDebug: "definition",
		GoalLongTermStability:  "definition",
	}
	for goal, want := range cases {
		if got := StrategyNameFor(goal); got != want {
			t.Errorf("StrategyNameFor(%v) = %q, want %q", goal, got, want)
		}
	}
}
