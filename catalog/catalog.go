// Package catalog keeps the named datasets of a process, typically one per
// input dataset and DR kernel, and moves them to and from snapshots.
//
// Datasets are built concurrently, one goroutine each, with the number of
// simultaneous builds bounded by a resource.Controller. A single Dataset is
// not safe for concurrent use; callers serialize access per dataset.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/hupe1980/drometa"
	"github.com/hupe1980/drometa/metadata"
	"github.com/hupe1980/drometa/persistence"
	"github.com/hupe1980/drometa/resource"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateDataset is returned when two datasets share a name.
	ErrDuplicateDataset = errors.New("catalog: duplicate dataset")
	// ErrNoManager is returned by Save and Load without a persistence manager.
	ErrNoManager = errors.New("catalog: no persistence manager")
)

// Source describes one dataset to build.
type Source struct {
	Name     string
	Records  []metadata.Record
	Schema   *metadata.Schema
	BinCount int
}

// Name joins an input dataset and a DR kernel into a dataset name.
func Name(input, kernel string) string {
	return input + "-" + kernel
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithController bounds concurrent builds and restores.
func WithController(c *resource.Controller) Option {
	return func(cat *Catalog) { cat.controller = c }
}

// WithManager enables Save and Load.
func WithManager(m *persistence.Manager) Option {
	return func(cat *Catalog) { cat.manager = m }
}

// WithDatasetOptions are passed to every build and restore.
func WithDatasetOptions(opts ...drometa.Option) Option {
	return func(cat *Catalog) { cat.datasetOpts = append(cat.datasetOpts, opts...) }
}

// WithLogger sets the logger for catalog and dataset events. Datasets scope
// it to their name.
func WithLogger(l *drometa.Logger) Option {
	return func(cat *Catalog) {
		if l != nil {
			cat.logger = l
		}
	}
}

// Catalog is a concurrency-safe registry of datasets.
type Catalog struct {
	controller  *resource.Controller
	manager     *persistence.Manager
	datasetOpts []drometa.Option
	logger      *drometa.Logger

	mu       sync.RWMutex
	datasets map[string]*drometa.Dataset
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		logger:   drometa.NoopLogger(),
		datasets: make(map[string]*drometa.Dataset),
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

func (c *Catalog) options() []drometa.Option {
	return append(slices.Clone(c.datasetOpts), drometa.WithLogger(c.logger))
}

// LoadAll builds every source concurrently and registers the results. On
// error nothing from this call is registered.
func (c *Catalog) LoadAll(ctx context.Context, sources []Source) error {
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if seen[src.Name] || c.Has(src.Name) {
			return fmt.Errorf("%w: %s", ErrDuplicateDataset, src.Name)
		}
		seen[src.Name] = true
	}

	built := make([]*drometa.Dataset, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := c.controller.Acquire(ctx); err != nil {
				return err
			}
			defer c.controller.Release()

			ds, err := drometa.New(src.Name, src.Records, src.Schema, src.BinCount, c.options()...)
			if err != nil {
				return fmt.Errorf("catalog: build %s: %w", src.Name, err)
			}
			built[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return c.add(built...)
}

// Add registers an already built dataset.
func (c *Catalog) Add(ds *drometa.Dataset) error {
	return c.add(ds)
}

func (c *Catalog) add(datasets ...*drometa.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ds := range datasets {
		if _, ok := c.datasets[ds.Name()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDataset, ds.Name())
		}
	}
	for _, ds := range datasets {
		c.datasets[ds.Name()] = ds
	}
	return nil
}

// Get returns the dataset called name.
func (c *Catalog) Get(name string) (*drometa.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.datasets[name]
	return ds, ok
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Remove unregisters name.
func (c *Catalog) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.datasets, name)
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.datasets))
}

// Save snapshots every dataset and returns the blob written for each.
func (c *Catalog) Save(ctx context.Context) (map[string]string, error) {
	if c.manager == nil {
		return nil, ErrNoManager
	}
	blobs := make(map[string]string)
	for _, name := range c.Names() {
		ds, ok := c.Get(name)
		if !ok {
			continue
		}
		blob, err := c.manager.Save(ctx, ds)
		if err != nil {
			return blobs, fmt.Errorf("catalog: save %s: %w", name, err)
		}
		blobs[name] = blob
	}
	return blobs, nil
}

// Load restores the current snapshot of every dataset known to the
// manager, replacing registered datasets of the same name.
func (c *Catalog) Load(ctx context.Context) error {
	if c.manager == nil {
		return ErrNoManager
	}
	names, err := c.manager.Names(ctx)
	if err != nil {
		return err
	}

	restored := make([]*drometa.Dataset, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := c.controller.Acquire(ctx); err != nil {
				return err
			}
			defer c.controller.Release()

			ds, err := c.manager.Load(ctx, name, c.options()...)
			if err != nil {
				return fmt.Errorf("catalog: load %s: %w", name, err)
			}
			restored[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ds := range restored {
		c.datasets[ds.Name()] = ds
	}
	c.logger.InfoContext(ctx, "catalog loaded", "datasets", len(restored))
	return nil
}
