// Package assets implements the read-side asset index and pack format
// §6 describes: a length-prefixed index.bin of records naming where each
// asset's bytes live in data.pack, addressed by deterministic v5 UUIDs
// derived from each asset's canonical source path. No asset decoding happens
// here (spec.md §1 Non-goals) - callers get raw bytes back.
package assets

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// assetNamespace seeds the deterministic v5 UUIDs every Record.UUID is
// derived from, so two builds of the same asset tree produce identical
// ids without a central allocator.
var assetNamespace = uuid.MustParse("b36c1fd0-9e13-4e2a-9a3e-9d9a0a5a0001")

// UUIDFor derives an asset's stable id from its canonical source path.
func UUIDFor(canonicalPath string) uuid.UUID {
	return uuid.NewSHA1(assetNamespace, []byte(canonicalPath))
}

// PackedRef addresses a byte range inside data.pack.
type PackedRef struct {
	Offset uint64
	Size   uint64
}

// PathRef addresses an asset that lives outside data.pack, by path
// relative to the asset root - used for large or frequently-hot-reloaded
// assets a build chooses not to pack.
type PathRef struct {
	Path string
}

// Variant is exactly one of Packed or Path populated; the other is the
// zero value. Go has no sum type, so Record.Variants carries this pair
// and IsPacked distinguishes them (mirroring how the Rust source's
// PackedRef|PathRef enum is read back).
type Variant struct {
	Packed   PackedRef
	Path     PathRef
	IsPacked bool
}

// Record is one asset's index entry.
type Record struct {
	UUID         uuid.UUID
	SourcePath   string
	TypeName     string
	Dependencies []uuid.UUID
	Variants     map[string]Variant
	Tags         []string
}

// Index is the in-memory form of index.bin, keyed by asset UUID for O(1)
// lookup by the asset agent.
type Index struct {
	byUUID map[uuid.UUID]Record
}

func (ix *Index) Lookup(id uuid.UUID) (Record, bool) {
	r, ok := ix.byUUID[id]
	return r, ok
}

func (ix *Index) Len() int { return len(ix.byUUID) }

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("assets: truncated record: %w", err)
	}
	return buf, nil
}

func readString(r io.Reader) (string, error) {
	b, err := readLengthPrefixed(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadIndex parses index.bin: a uint32 record count, followed by that
// many records with no per-record length prefix. Each record is a
// sequence of fields in a fixed order (length-prefixed uuid, source path
// and type name, then dependency count + uuids, variant count + entries,
// tag count + tags).
func ReadIndex(r io.Reader) (*Index, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("assets: read index header: %w", err)
	}

	ix := &Index{byUUID: make(map[uuid.UUID]Record, count)}
	for i := uint32(0); i < count; i++ {
		rec, err := readRecord(r)
		if err != nil {
			return nil, fmt.Errorf("assets: record %d: %w", i, err)
		}
		ix.byUUID[rec.UUID] = rec
	}
	return ix, nil
}

func readRecord(r io.Reader) (Record, error) {
	idBytes, err := readLengthPrefixed(r)
	if err != nil {
		return Record{}, err
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return Record{}, fmt.Errorf("malformed uuid: %w", err)
	}

	sourcePath, err := readString(r)
	if err != nil {
		return Record{}, err
	}
	typeName, err := readString(r)
	if err != nil {
		return Record{}, err
	}

	depCount, err := readUint32(r)
	if err != nil {
		return Record{}, err
	}
	deps := make([]uuid.UUID, 0, depCount)
	for i := uint32(0); i < depCount; i++ {
		b, err := readLengthPrefixed(r)
		if err != nil {
			return Record{}, err
		}
		depID, err := uuid.FromBytes(b)
		if err != nil {
			return Record{}, fmt.Errorf("malformed dependency uuid: %w", err)
		}
		deps = append(deps, depID)
	}

	variantCount, err := readUint32(r)
	if err != nil {
		return Record{}, err
	}
	variants := make(map[string]Variant, variantCount)
	for i := uint32(0); i < variantCount; i++ {
		name, err := readString(r)
		if err != nil {
			return Record{}, err
		}
		kind, err := readUint32(r)
		if err != nil {
			return Record{}, err
		}
		switch kind {
		case 0:
			offset, err := readUint64(r)
			if err != nil {
				return Record{}, err
			}
			size, err := readUint64(r)
			if err != nil {
				return Record{}, err
			}
			variants[name] = Variant{IsPacked: true, Packed: PackedRef{Offset: offset, Size: size}}
		case 1:
			path, err := readString(r)
			if err != nil {
				return Record{}, err
			}
			variants[name] = Variant{IsPacked: false, Path: PathRef{Path: path}}
		default:
			return Record{}, fmt.Errorf("unknown variant kind %d", kind)
		}
	}

	tagCount, err := readUint32(r)
	if err != nil {
		return Record{}, err
	}
	tags := make([]string, 0, tagCount)
	for i := uint32(0); i < tagCount; i++ {
		tag, err := readString(r)
		if err != nil {
			return Record{}, err
		}
		tags = append(tags, tag)
	}

	return Record{
		UUID:         id,
		SourcePath:   sourcePath,
		TypeName:     typeName,
		Dependencies: deps,
		Variants:     variants,
		Tags:         tags,
	}, nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
