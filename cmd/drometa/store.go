package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hupe1980/drometa/blobstore"
	"github.com/hupe1980/drometa/blobstore/minio"
	"github.com/hupe1980/drometa/blobstore/s3"
	"github.com/hupe1980/drometa/codec"
	"github.com/hupe1980/drometa/persistence"
)

func openStore(ctx context.Context, cfg StoreConfig) (blobstore.BlobStore, error) {
	switch cfg.Kind {
	case "", "local":
		return blobstore.NewLocalStore(cfg.Path), nil
	case "memory":
		return blobstore.NewMemoryStore(), nil
	case "minio":
		store, err := minio.Dial(ctx, *cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := s3.New(ctx, cfg.S3.Bucket, s3.WithPrefix(cfg.S3.Prefix), s3.WithRegion(cfg.S3.Region))
		if err != nil {
			return nil, err
		}
		if cfg.S3.DynamoTable == "" {
			return store, nil
		}

		var loadOpts []func(*config.LoadOptions) error
		if cfg.S3.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.S3.Region))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, err
		}
		uri := fmt.Sprintf("s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
		return s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), cfg.S3.DynamoTable, uri), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}

func encodeOptions(cfg SnapshotConfig) ([]persistence.Option, error) {
	compression, err := persistence.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	opts := []persistence.Option{persistence.WithCompression(compression)}
	if cfg.Codec != "" {
		c, err := codec.Lookup(cfg.Codec)
		if err != nil {
			return nil, err
		}
		opts = append(opts, persistence.WithCodec(c))
	}
	return opts, nil
}
