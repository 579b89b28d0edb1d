// Package minio stores dataset snapshots on MinIO or any S3-compatible
// server (Ceph, Garage, SeaweedFS) through the native MinIO client.
//
//	store, err := minio.Dial(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "datasets",
//	})
//
// Dial creates the bucket when it is missing. Use NewStore to wrap a client
// configured elsewhere.
package minio
