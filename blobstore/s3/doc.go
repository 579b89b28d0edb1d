// Package s3 stores dataset snapshots in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	m := persistence.NewManager(store)
//	name, err := m.Save(ctx, ds)
//
// Reads are ranged GETs. Put sends a single request carrying a CRC32C
// checksum; Create streams through a multipart upload that completes on
// Close.
//
// S3 offers no compare-and-swap, so two writers may race on the CURRENT
// pointer. DDBCommitStore moves that pointer into DynamoDB and reports
// ErrConcurrentModification to the losing writer.
package s3
