package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/drometa/blobstore/minio"
	"github.com/hupe1980/drometa/resource"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file.
type Config struct {
	Datasets  []DatasetConfig `yaml:"datasets" validate:"dive"`
	Store     StoreConfig     `yaml:"store"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Resources resource.Config `yaml:"resources"`
}

// DatasetConfig points at the files of one dataset.
type DatasetConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Records  string `yaml:"records" validate:"required"`
	Metadata string `yaml:"metadata" validate:"required"`
	BinCount int    `yaml:"bin_count" validate:"gte=0"`
}

// StoreConfig selects the snapshot blob store.
type StoreConfig struct {
	Kind  string        `yaml:"kind" validate:"omitempty,oneof=local memory s3 minio"`
	Path  string        `yaml:"path" validate:"required_if=Kind local"`
	S3    S3Config      `yaml:"s3"`
	MinIO *minio.Config `yaml:"minio" validate:"required_if=Kind minio"`
}

// S3Config configures the S3 store. DynamoTable enables the DynamoDB
// commit pointer.
type S3Config struct {
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	DynamoTable string `yaml:"dynamo_table"`
}

// SnapshotConfig selects how snapshots are encoded.
type SnapshotConfig struct {
	Codec       string `yaml:"codec" validate:"omitempty,oneof=json go-json"`
	Compression string `yaml:"compression" validate:"omitempty,oneof=none lz4 zstd"`
}

const defaultBinCount = 10

func defaultConfig() *Config {
	return &Config{
		Store:    StoreConfig{Kind: "local", Path: "drometa-data"},
		Snapshot: SnapshotConfig{Codec: "go-json", Compression: "zstd"},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadConfig reads path over the defaults. Relative dataset paths resolve
// against the directory of the config file.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		base := filepath.Dir(path)
		for i := range cfg.Datasets {
			cfg.Datasets[i].Records = resolve(base, cfg.Datasets[i].Records)
			cfg.Datasets[i].Metadata = resolve(base, cfg.Datasets[i].Metadata)
		}
		if cfg.Store.Kind == "local" {
			cfg.Store.Path = resolve(base, cfg.Store.Path)
		}
	}

	for i := range cfg.Datasets {
		if cfg.Datasets[i].BinCount == 0 {
			cfg.Datasets[i].BinCount = defaultBinCount
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store.Kind == "s3" && c.Store.S3.Bucket == "" {
		return fmt.Errorf("invalid config: store.s3.bucket is required")
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
