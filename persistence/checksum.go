package persistence

import (
	"errors"
	"fmt"
	"hash"
	"io"

	ihash "github.com/hupe1980/drometa/internal/hash"
)

// Checksums detect accidental corruption only; CRC32C is not a MAC.

// ChecksumReader computes a running CRC32C of everything read through it.
type ChecksumReader struct {
	r    io.Reader
	hash hash.Hash32
}

// NewChecksumReader wraps r.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{r: r, hash: ihash.NewCRC32C()}
}

func (cr *ChecksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}

// Sum returns the checksum so far.
func (cr *ChecksumReader) Sum() uint32 { return cr.hash.Sum32() }

// Verify compares the checksum so far with expected.
func (cr *ChecksumReader) Verify(expected uint32) error {
	if actual := cr.Sum(); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// ChecksumMismatchError is returned when a payload fails verification.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err is or wraps a ChecksumMismatchError.
func IsChecksumMismatch(err error) bool {
	var target *ChecksumMismatchError
	return errors.As(err, &target)
}
