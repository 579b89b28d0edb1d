// Package blobstore abstracts where dataset snapshots live.
//
// A BlobStore holds immutable named blobs. Snapshots are written once with
// Put or Create and read back whole, so implementations favour simple
// atomic writes over random-access caching.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, memory-mapped reads, rename-on-close writes
//   - MemoryStore: in-process map for tests
//   - s3.Store: Amazon S3 with ranged GETs and multipart uploads
//   - s3.DDBCommitStore: S3 blobs plus a DynamoDB-guarded CURRENT pointer
//   - minio.Store: MinIO and other S3-compatible servers
//
// Implementations must be safe for concurrent use.
package blobstore
