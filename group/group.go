// Package group maintains incremental aggregates over the bins of a
// dimension.
//
// A Group holds one Aggregate per distinct key of its dimension. The owning
// filter controller calls Add and Remove as records enter and leave the
// group's visible set. Groups are not safe for concurrent use.
package group

import (
	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/internal/bitmap"
	"github.com/hupe1980/drometa/metadata"
)

// Resolver returns the numeric value of attr for the record at row.
type Resolver func(row int, attr string) (float64, bool)

// Entry is one bin of a group.
type Entry struct {
	Key   dimension.BinKey
	Value *Aggregate
}

// Group aggregates the records of one dimension per key.
type Group struct {
	dim     *dimension.Dimension
	store   *metadata.Store
	tracked []string
	resolve Resolver

	entries map[dimension.BinKey]*Aggregate
	members *bitmap.Bitmap
}

// New creates a group over dim with an empty aggregate per distinct key.
// No record is added yet.
func New(dim *dimension.Dimension, store *metadata.Store, tracked []string, resolve Resolver) *Group {
	g := &Group{
		dim:     dim,
		store:   store,
		tracked: tracked,
		resolve: resolve,
		entries: make(map[dimension.BinKey]*Aggregate, len(dim.Keys())),
		members: bitmap.New(),
	}
	for _, k := range dim.Keys() {
		g.entries[k] = Initial(tracked)
	}
	return g
}

// Dimension returns the grouped dimension.
func (g *Group) Dimension() *dimension.Dimension { return g.dim }

// Tracked returns the attributes whose extrema are tracked per bin.
func (g *Group) Tracked() []string { return g.tracked }

// Add reduces the record at row into its bin.
func (g *Group) Add(row int) {
	acc := g.entries[g.dim.KeyOf(row)]
	Add(acc, g.store.At(row), func(attr string) (float64, bool) {
		return g.resolve(row, attr)
	})
	g.members.Add(uint32(row))
}

// Remove takes the record at row out of its bin.
func (g *Group) Remove(row int) {
	Remove(g.entries[g.dim.KeyOf(row)], g.store.At(row))
	g.members.Remove(uint32(row))
}

// Members returns the rows currently added. The bitmap must not be modified.
func (g *Group) Members() *bitmap.Bitmap { return g.members }

// Get returns the aggregate of k.
func (g *Group) Get(k dimension.BinKey) (*Aggregate, bool) {
	acc, ok := g.entries[k.Normalize()]
	return acc, ok
}

// All returns every bin in ascending key order, including empty ones.
func (g *Group) All() []Entry {
	keys := g.dim.Keys()
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Key: k, Value: g.entries[k]}
	}
	return out
}

// Size returns the number of bins.
func (g *Group) Size() int { return len(g.entries) }

// Counts returns the count of every bin in key order.
func (g *Group) Counts() []float64 {
	keys := g.dim.Keys()
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = float64(g.entries[k].Count)
	}
	return out
}

// CountExtrema returns the range of bin counts, padded by
// Interval()/divisor when divisor > 0.
func (g *Group) CountExtrema(divisor float64) extrema.Extrema {
	return extrema.Group(g.Counts(), divisor)
}
