package asset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khora-engine/khora/assets"
	"github.com/khora-engine/khora/ecs"
	"github.com/khora-engine/khora/engine/ectx"
)

func putUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putLengthPrefixed(buf *bytes.Buffer, data []byte) {
	putUint32(buf, uint32(len(data)))
	buf.Write(data)
}

func putString(buf *bytes.Buffer, s string) { putLengthPrefixed(buf, []byte(s)) }

func buildIndex(t *testing.T, id uuid.UUID, relPath string) *assets.Index {
	t.Helper()
	var buf bytes.Buffer
	putUint32(&buf, 1)
	idBytes, _ := id.MarshalBinary()
	putLengthPrefixed(&buf, idBytes)
	putString(&buf, relPath)
	putString(&buf, "text")
	putUint32(&buf, 0)
	putUint32(&buf, 1)
	putString(&buf, "default")
	putUint32(&buf, 1)
	putString(&buf, relPath)
	putUint32(&buf, 0)

	index, err := assets.ReadIndex(&buf)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	return index
}

func testEngineContext() *ectx.EngineContext {
	return &ectx.EngineContext{
		World:    ecs.NewWorld(ecs.NewComponentRegistry(), 16),
		Services: ectx.NewServiceRegistry(),
	}
}

func TestAssetAgentRequestThenExecuteLoadsAsset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("payload"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	id := assets.UUIDFor("a.txt")
	index := buildIndex(t, id, "a.txt")

	a, err := New(zerolog.Nop(), index, assets.NewPack(nil), dir, "@every 1h")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Stop()

	a.Request(id)
	if err := a.Execute(testEngineContext()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if a.lastLoaded != 1 || a.lastFailed != 0 {
		t.Fatalf("lastLoaded=%d lastFailed=%d, want 1/0", a.lastLoaded, a.lastFailed)
	}
	status := a.ReportStatus()
	if status.HealthScore != 1.0 || status.IsStalled {
		t.Errorf("unexpected status after a clean load: %+v", status)
	}
}

func TestAssetAgentRequeuesFailedIDForRetry(t *testing.T) {
	dir := t.TempDir()
	a, err := New(zerolog.Nop(), &assets.Index{}, assets.NewPack(nil), dir, "@every 1h")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Stop()

	missing := uuid.New()
	a.Request(missing)
	if err := a.Execute(testEngineContext()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if a.lastFailed != 1 {
		t.Fatalf("lastFailed = %d, want 1", a.lastFailed)
	}
	status := a.ReportStatus()
	if status.HealthScore != 0.5 {
		t.Errorf("HealthScore = %v, want 0.5 after a failed load", status.HealthScore)
	}

	// The failed id should have been re-queued for the next Execute.
	if err := a.Execute(testEngineContext()); err != nil {
		t.Fatalf("Execute (retry pass): %v", err)
	}
	if a.lastFailed != 1 {
		t.Fatalf("expected the retried id to fail again (still unindexed), lastFailed=%d", a.lastFailed)
	}
}
