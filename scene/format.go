// Package scene implements the byte-exact scene container format and the
// three serialization strategies (Recipe, Definition, Archetype) a
// SerializationGoal selects between.
package scene

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderMagic identifies a Khora scene container; any file not starting
// with these 8 bytes is rejected outright.
var HeaderMagic = [8]byte{'K', 'H', 'O', 'R', 'A', 'S', 'C', 'N'}

const strategyIDLen = 32

// HeaderSize is the fixed byte length of Header: 8 (magic) + 1 (version)
// + 32 (strategy id) + 8 (payload length) = 49.
const HeaderSize = 8 + 1 + strategyIDLen + 8

// Header is the container's fixed-size preamble. StrategyName is the
// strategy that produced the payload, null-padded to 32 bytes (WriteHeader
// rejects longer names) so a reader can dispatch to the right strategy without first parsing
// the payload.
type Header struct {
	FormatVersion uint8
	StrategyName  string
	PayloadLength uint64
}

// InvalidHeaderError is returned for any header that fails magic or
// length validation.
type InvalidHeaderError struct {
	Reason string
}

func (e InvalidHeaderError) Error() string {
	return fmt.Sprintf("scene: invalid header: %s", e.Reason)
}

// StrategyNotFoundError is returned when a header names a strategy this
// build doesn't register.
type StrategyNotFoundError struct {
	Name string
}

func (e StrategyNotFoundError) Error() string {
	return fmt.Sprintf("scene: no strategy registered for %q", e.Name)
}

func encodeStrategyName(name string) [strategyIDLen]byte {
	var buf [strategyIDLen]byte
	copy(buf[:], name)
	return buf
}

func decodeStrategyName(buf [strategyIDLen]byte) string {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

// WriteHeader writes the 49-byte header to w.
func WriteHeader(w io.Writer, h Header) error {
	if len(h.StrategyName) > strategyIDLen {
		return InvalidHeaderError{Reason: "strategy name exceeds 32 bytes"}
	}
	buf := make([]byte, 0, HeaderSize)
	buf = append(buf, HeaderMagic[:]...)
	buf = append(buf, h.FormatVersion)
	name := encodeStrategyName(h.StrategyName)
	buf = append(buf, name[:]...)
	lenBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(lenBuf, h.PayloadLength)
	buf = append(buf, lenBuf...)
	_, err := w.Write(buf)
	return err
}

// ReadHeader parses and validates a Header from r.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, InvalidHeaderError{Reason: err.Error()}
	}
	var magic [8]byte
	copy(magic[:], buf[0:8])
	if magic != HeaderMagic {
		return Header{}, InvalidHeaderError{Reason: "magic bytes do not match KHORASCN"}
	}
	version := buf[8]
	var name [strategyIDLen]byte
	copy(name[:], buf[9:9+strategyIDLen])
	payloadLen := binary.LittleEndian.Uint64(buf[9+strategyIDLen : HeaderSize])
	return Header{
		FormatVersion: version,
		StrategyName:  decodeStrategyName(name),
		PayloadLength: payloadLen,
	}, nil
}
