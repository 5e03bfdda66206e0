package assets

import (
	"fmt"
	"io"
)

// Pack is a read-only view over data.pack: every asset's bytes are a
// contiguous range addressed by a PackedRef pulled from the Index.
type Pack struct {
	r io.ReaderAt
}

func NewPack(r io.ReaderAt) *Pack {
	return &Pack{r: r}
}

// Read returns the byte range ref addresses.
func (p *Pack) Read(ref PackedRef) ([]byte, error) {
	buf := make([]byte, ref.Size)
	n, err := p.r.ReadAt(buf, int64(ref.Offset))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("assets: pack read at offset %d: %w", ref.Offset, err)
	}
	if uint64(n) != ref.Size {
		return nil, fmt.Errorf("assets: pack read at offset %d: got %d bytes, want %d", ref.Offset, n, ref.Size)
	}
	return buf, nil
}
