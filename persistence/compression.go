package persistence

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how the codec output is stored.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionLZ4
	CompressionZstd
)

// ErrUnknownCompression is returned for unrecognized compression types.
var ErrUnknownCompression = errors.New("persistence: unknown compression")

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// compress returns the stored form of data and the compression actually
// used. Data that LZ4 cannot shrink is stored uncompressed.
func compress(c Compression, data []byte) ([]byte, Compression, error) {
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		out := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, out, nil)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return out[:n], CompressionLZ4, nil
	case CompressionZstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, 0, err
		}
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), CompressionZstd, nil
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

func decompress(c Compression, data []byte, rawLen uint64) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case CompressionNone:
		out = data
	case CompressionLZ4:
		out = make([]byte, rawLen)
		var n int
		n, err = lz4.UncompressBlock(data, out)
		out = out[:max(n, 0)]
	case CompressionZstd:
		var dec *zstd.Decoder
		dec, err = getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err = dec.DecodeAll(data, make([]byte, 0, rawLen))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: decompress %s: %w", c, err)
	}
	if uint64(len(out)) != rawLen {
		return nil, fmt.Errorf("persistence: decompressed %d bytes, header says %d", len(out), rawLen)
	}
	return out, nil
}
