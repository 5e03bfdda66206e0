// Package audiolane implements the audio subsystem's data-plane lane. No
// audio mixing/DSP is in scope (spec.md §1 Non-goals); this lane models
// only the buffering contract a real mixer would sit behind - a bounded
// staging ring the agent drains into the tick's output slot.
package audiolane

import (
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/internal/ringbuf"
	"github.com/khora-engine/khora/lane"
)

// MixLane drains its internal staging ring into the AudioOutputSlot found
// in the tick's LaneContext, zero-filling whatever the ring didn't have
// buffered (silence on underrun, matching a real mixer's behavior rather
// than erroring).
type MixLane struct {
	staging *ringbuf.Buffer[float32]
}

func NewMixLane(stagingCapacity int) *MixLane {
	return &MixLane{staging: ringbuf.New[float32](stagingCapacity)}
}

func (l *MixLane) Kind() lane.Kind { return lane.KindAudio }
func (l *MixLane) Name() string    { return "audio_mix" }

// Stage enqueues samples for the next Run call to drain, standing in for
// a real mixer's voice-accumulation step.
func (l *MixLane) Stage(samples []float32) {
	for _, s := range samples {
		l.staging.Push(s)
	}
}

// Run fills ctx's AudioOutputSlot from the staging ring, returning how
// many samples were real (as opposed to silence-filled).
func (l *MixLane) Run(ctx *lane.Context, _ *ecs.World) (int, error) {
	slot, err := lane.Get[lane.AudioOutputSlot](ctx, l.Name())
	if err != nil {
		return 0, err
	}
	filled := 0
	for i := range slot.Samples {
		if v, ok := l.staging.Pop(); ok {
			slot.Samples[i] = v
			filled++
		} else {
			slot.Samples[i] = 0
		}
	}
	return filled, nil
}
