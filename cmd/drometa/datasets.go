package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/drometa"
	"github.com/hupe1980/drometa/catalog"
	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/metadata"
	"github.com/hupe1980/drometa/persistence"
	"github.com/hupe1980/drometa/resource"
)

// readSource loads the records and metadata files of one dataset.
func readSource(dc DatasetConfig) (catalog.Source, error) {
	raw, err := os.ReadFile(dc.Metadata)
	if err != nil {
		return catalog.Source{}, err
	}
	schema, err := metadata.SchemaFromJSON(raw)
	if err != nil {
		return catalog.Source{}, fmt.Errorf("%s: %w", dc.Metadata, err)
	}

	raw, err = os.ReadFile(dc.Records)
	if err != nil {
		return catalog.Source{}, err
	}
	records, err := metadata.RecordsFromJSON(raw)
	if err != nil {
		return catalog.Source{}, fmt.Errorf("%s: %w", dc.Records, err)
	}

	return catalog.Source{Name: dc.Name, Records: records, Schema: schema, BinCount: dc.BinCount}, nil
}

// env is everything a command needs, built from the config and flags.
type env struct {
	cfg        *Config
	logger     *drometa.Logger
	controller *resource.Controller
}

func newEnv(flags *globalFlags, logs io.Writer) (*env, error) {
	logger, err := flags.logger(logs)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, controller: resource.NewController(cfg.Resources)}, nil
}

func (e *env) manager(ctx context.Context) (*persistence.Manager, error) {
	store, err := openStore(ctx, e.cfg.Store)
	if err != nil {
		return nil, err
	}
	encode, err := encodeOptions(e.cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	return persistence.NewManager(store,
		persistence.WithController(e.controller),
		persistence.WithLogger(e.logger),
		persistence.WithEncodeOptions(encode...),
	), nil
}

func (e *env) catalog(opts ...catalog.Option) *catalog.Catalog {
	opts = append([]catalog.Option{
		catalog.WithController(e.controller),
		catalog.WithLogger(e.logger),
	}, opts...)
	return catalog.New(opts...)
}

// buildAll builds every configured dataset into cat.
func (e *env) buildAll(ctx context.Context, cat *catalog.Catalog) error {
	sources := make([]catalog.Source, 0, len(e.cfg.Datasets))
	for _, dc := range e.cfg.Datasets {
		src, err := readSource(dc)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}
	return cat.LoadAll(ctx, sources)
}

// parseFilter parses "dim=value" or "dim=lo..hi" into a dimension key and a
// filter. Ranges are half-open.
func parseFilter(schema *metadata.Schema, s string) (dimension.Key, metadata.Filter, error) {
	name, expr, ok := strings.Cut(s, "=")
	if !ok {
		return dimension.Key{}, metadata.Filter{}, fmt.Errorf("invalid filter %q: want dim=value or dim=lo..hi", s)
	}
	key, err := dimension.ParseKey(schema, name)
	if err != nil {
		return dimension.Key{}, metadata.Filter{}, err
	}
	if lo, hi, ok := strings.Cut(expr, ".."); ok {
		return key, metadata.Range(parseValue(lo), parseValue(hi)), nil
	}
	return key, metadata.Eq(parseValue(expr)), nil
}

func parseValue(s string) metadata.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return metadata.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return metadata.Float(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return metadata.Bool(b)
	}
	return metadata.String(s)
}
