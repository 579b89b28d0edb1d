package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic identifies drometa snapshot blobs.
var Magic = [4]byte{'D', 'R', 'M', '1'}

// FormatVersion is the current header layout version.
const FormatVersion uint16 = 1

// maxPayloadSize bounds allocations for corrupt or hostile headers.
const maxPayloadSize = 4 << 30

var (
	ErrInvalidMagic    = errors.New("persistence: invalid magic")
	ErrInvalidVersion  = errors.New("persistence: unsupported format version")
	ErrPayloadTooLarge = errors.New("persistence: payload too large")
)

// Header precedes every snapshot payload.
//
// Layout, little-endian:
//
//	magic[4] version u16 compression u8 codecLen u8 codec[codecLen]
//	rawLen u64 payloadLen u64 checksum u32
//
// rawLen is the codec output length, payloadLen the stored (possibly
// compressed) length, and checksum the CRC32C of the stored payload.
type Header struct {
	Version     uint16
	Compression Compression
	Codec       string
	RawLen      uint64
	PayloadLen  uint64
	Checksum    uint32
}

// WriteTo writes the encoded header.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	if len(h.Codec) > 255 {
		return 0, fmt.Errorf("persistence: codec name %q too long", h.Codec)
	}
	buf := make([]byte, 0, 8+len(h.Codec)+20)
	buf = append(buf, Magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, h.Version)
	buf = append(buf, byte(h.Compression), byte(len(h.Codec)))
	buf = append(buf, h.Codec...)
	buf = binary.LittleEndian.AppendUint64(buf, h.RawLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.PayloadLen)
	buf = binary.LittleEndian.AppendUint32(buf, h.Checksum)

	n, err := w.Write(buf)
	return int64(n), err
}

// ReadHeader reads and validates a header.
func ReadHeader(r io.Reader) (*Header, error) {
	var fixed [8]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, fmt.Errorf("persistence: read header: %w", err)
	}
	if [4]byte(fixed[:4]) != Magic {
		return nil, ErrInvalidMagic
	}

	h := &Header{
		Version:     binary.LittleEndian.Uint16(fixed[4:6]),
		Compression: Compression(fixed[6]),
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}

	rest := make([]byte, int(fixed[7])+20)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, fmt.Errorf("persistence: read header: %w", err)
	}
	n := int(fixed[7])
	h.Codec = string(rest[:n])
	h.RawLen = binary.LittleEndian.Uint64(rest[n:])
	h.PayloadLen = binary.LittleEndian.Uint64(rest[n+8:])
	h.Checksum = binary.LittleEndian.Uint32(rest[n+16:])

	if h.RawLen > maxPayloadSize || h.PayloadLen > maxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	return h, nil
}
