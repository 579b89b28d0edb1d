package persistence

import (
	"fmt"
	"io"

	"github.com/hupe1980/drometa/codec"
	ihash "github.com/hupe1980/drometa/internal/hash"
)

// Option configures Encode.
type Option func(*options)

type options struct {
	codec       codec.Codec
	compression Compression
}

func defaultOptions() options {
	return options{codec: codec.Default, compression: CompressionNone}
}

// WithCodec sets the payload codec. A nil codec keeps the default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the payload compression.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// Encode writes v as a snapshot: header, then the encoded and optionally
// compressed payload.
func Encode(w io.Writer, v any, optFns ...Option) error {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	raw, err := o.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("persistence: marshal: %w", err)
	}
	payload, used, err := compress(o.compression, raw)
	if err != nil {
		return fmt.Errorf("persistence: compress: %w", err)
	}

	h := &Header{
		Version:     FormatVersion,
		Compression: used,
		Codec:       o.codec.Name(),
		RawLen:      uint64(len(raw)),
		PayloadLen:  uint64(len(payload)),
		Checksum:    ihash.CRC32C(payload),
	}
	if _, err := h.WriteTo(w); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Decode reads a snapshot written by Encode into v. The codec named in the
// header is used regardless of the current default.
func Decode(r io.Reader, v any) (*Header, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	c, err := codec.Lookup(h.Codec)
	if err != nil {
		return nil, fmt.Errorf("persistence: %w", err)
	}

	cr := NewChecksumReader(r)
	payload := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(cr, payload); err != nil {
		return nil, fmt.Errorf("persistence: read payload: %w", err)
	}
	if err := cr.Verify(h.Checksum); err != nil {
		return nil, err
	}

	raw, err := decompress(h.Compression, payload, h.RawLen)
	if err != nil {
		return nil, err
	}
	if err := c.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("persistence: unmarshal: %w", err)
	}
	return h, nil
}
