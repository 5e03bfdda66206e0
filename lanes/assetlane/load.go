// Package assetlane implements the asset subsystem's data-plane lane:
// resolving a batch of requested asset UUIDs to their raw bytes via an
// assets.Index + assets.Pack. No asset decoding happens here (spec.md §1
// Non-goals) - callers get []byte back, keyed by UUID.
package assetlane

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/khora-engine/khora/assets"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/lane"
)

// LoadRequest is the typed input an asset agent places into a
// lane.Context: the batch of asset ids to resolve this call.
type LoadRequest struct {
	IDs []uuid.UUID
}

// LoadResult pairs a requested id with either its bytes or the error
// resolving it (a failed id in a batch doesn't fail the whole batch -
// the agent decides whether to retry it).
type LoadResult struct {
	ID    uuid.UUID
	Bytes []byte
	Err   error
}

// LoadLane resolves requested asset ids against an index+pack pair,
// fanning the batch out across goroutines (one per id) since each
// resolution is an independent read - either from the pack via offset or
// from the filesystem via a PathRef - with no shared mutable state
// between them.
type LoadLane struct {
	index     *assets.Index
	pack      *assets.Pack
	assetRoot string
}

func NewLoadLane(index *assets.Index, pack *assets.Pack, assetRoot string) *LoadLane {
	return &LoadLane{index: index, pack: pack, assetRoot: assetRoot}
}

func (l *LoadLane) Kind() lane.Kind { return lane.KindAsset }
func (l *LoadLane) Name() string    { return "asset_load" }

func (l *LoadLane) Run(ctx *lane.Context, _ *ecs.World) ([]LoadResult, error) {
	req, err := lane.Get[LoadRequest](ctx, l.Name())
	if err != nil {
		return nil, err
	}

	results := make([]LoadResult, len(req.IDs))
	g, _ := errgroup.WithContext(context.Background())
	var mu sync.Mutex
	for i, id := range req.IDs {
		i, id := i, id
		g.Go(func() error {
			b, err := l.resolve(id)
			mu.Lock()
			results[i] = LoadResult{ID: id, Bytes: b, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (l *LoadLane) resolve(id uuid.UUID) ([]byte, error) {
	rec, ok := l.index.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("assetlane: no index record for %s", id)
	}
	variant, ok := rec.Variants["default"]
	if !ok {
		return nil, fmt.Errorf("assetlane: %s has no default variant", id)
	}
	if variant.IsPacked {
		return l.pack.Read(variant.Packed)
	}
	return os.ReadFile(l.assetRoot + "/" + variant.Path.Path)
}
