package assets

import (
	"bytes"
	"testing"
)

func TestPackReadReturnsExactByteRange(t *testing.T) {
	data := []byte("0123456789abcdef")
	pack := NewPack(bytes.NewReader(data))

	got, err := pack.Read(PackedRef{Offset: 4, Size: 6})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "456789" {
		t.Fatalf("got %q, want %q", got, "456789")
	}
}

func TestPackReadPastEndErrors(t *testing.T) {
	data := []byte("short")
	pack := NewPack(bytes.NewReader(data))

	if _, err := pack.Read(PackedRef{Offset: 0, Size: 100}); err == nil {
		t.Fatalf("expected an error reading past the end of the pack")
	}
}
