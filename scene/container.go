package scene

import (
	"bytes"
	"io"
)

// FormatVersion is this build's container format version, written into
// every header. It is independent of the Archetype strategy's own
// layout-version gate (format.go's Header versions the container shape;
// the Archetype strategy additionally versions its raw column layout).
const FormatVersion = 1

// WriteScene serializes graph with the strategy selected for goal and
// writes the full container (header + payload) to w.
func WriteScene(w io.Writer, d *Dispatcher, goal Goal, graph SceneGraph) error {
	name := StrategyNameFor(goal)
	strategy, err := d.StrategyFor(name)
	if err != nil {
		return err
	}
	payload, err := strategy.Serialize(graph)
	if err != nil {
		return err
	}
	if err := WriteHeader(w, Header{
		FormatVersion: FormatVersion,
		StrategyName:  name,
		PayloadLength: uint64(len(payload)),
	}); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadScene reads a full container from r and decodes its payload with
// whichever strategy the header names.
func ReadScene(r io.Reader, d *Dispatcher) (SceneGraph, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return SceneGraph{}, err
	}
	strategy, err := d.StrategyFor(header.StrategyName)
	if err != nil {
		return SceneGraph{}, err
	}
	payload := make([]byte, header.PayloadLength)
	if _, err := io.ReadFull(r, payload); err != nil {
		return SceneGraph{}, InvalidHeaderError{Reason: "payload shorter than declared length"}
	}
	return strategy.Deserialize(payload)
}

// ReadSceneBytes is a convenience wrapper for callers already holding the
// whole file in memory.
func ReadSceneBytes(data []byte, d *Dispatcher) (SceneGraph, error) {
	return ReadScene(bytes.NewReader(data), d)
}
