// Package persistence writes dataset snapshots and tracks the current one.
//
// A snapshot is a small binary header followed by the codec-encoded State,
// optionally compressed with LZ4 or zstd:
//
//	var buf bytes.Buffer
//	err := persistence.Encode(&buf, state, persistence.WithCompression(persistence.CompressionZstd))
//	var s drometa.State
//	_, err = persistence.Decode(&buf, &s)
//
// The header records the codec and compression, so decoding never depends
// on the writer's configuration. A CRC32C over the stored payload catches
// corruption before decoding.
//
// Manager stores snapshots in a blobstore.BlobStore under
// snapshots/<dataset>/<uuid>.drm and keeps a manifest in the CURRENT blob
// that maps each dataset to its latest snapshot.
package persistence
