package drometa

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/internal/bitmap"
	"github.com/hupe1980/drometa/metadata"
)

// filterSet holds the selected rows of every filtered dimension.
type filterSet struct {
	rows     int
	selected map[dimension.Key]*bitmap.Bitmap
	order    []dimension.Key
}

func newFilterSet(rows int) *filterSet {
	return &filterSet{
		rows:     rows,
		selected: make(map[dimension.Key]*bitmap.Bitmap),
	}
}

func (f *filterSet) set(key dimension.Key, bm *bitmap.Bitmap) {
	if _, ok := f.selected[key]; !ok {
		f.order = append(f.order, key)
	}
	f.selected[key] = bm
}

func (f *filterSet) clear(key dimension.Key) bool {
	if _, ok := f.selected[key]; !ok {
		return false
	}
	delete(f.selected, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

// visible returns the rows passing every filter except the one on skip.
func (f *filterSet) visible(skip dimension.Key) *bitmap.Bitmap {
	out := bitmap.Range(f.rows)
	for _, k := range f.order {
		if k == skip {
			continue
		}
		out.And(f.selected[k])
	}
	return out
}

// Filter restricts the dimension of key to rows whose value matches f. For
// pair dimensions f applies to the first field of the canonical key.
// A new filter on the same dimension replaces the previous one.
func (d *Dataset) Filter(key dimension.Key, f metadata.Filter) error {
	return d.filterWith(key, func(dim *dimension.Dimension) *bitmap.Bitmap {
		return dim.Filter(f)
	})
}

// FilterFunc restricts the dimension of key to rows whose bin key satisfies
// fn.
func (d *Dataset) FilterFunc(key dimension.Key, fn func(dimension.BinKey) bool) error {
	return d.filterWith(key, func(dim *dimension.Dimension) *bitmap.Bitmap {
		return dim.FilterFunc(fn)
	})
}

// FilterRect restricts a pair dimension to the half-open rectangle
// [x0, x1) × [y0, y1) over its canonical fields.
func (d *Dataset) FilterRect(key dimension.Key, x0, x1, y0, y1 metadata.Value) error {
	return d.filterWith(key, func(dim *dimension.Dimension) *bitmap.Bitmap {
		return dim.FilterRect(x0, x1, y0, y1)
	})
}

// ClearFilter removes the filter on key. Clearing an unfiltered dimension
// is a no-op.
func (d *Dataset) ClearFilter(key dimension.Key) error {
	key = key.Canonical()
	if !d.dims.Has(key) {
		return fmt.Errorf("%w: %s", ErrUnknownDimension, key)
	}
	start := time.Now()
	if d.filters.clear(key) {
		d.refresh(key)
	}
	d.recordFilter(key, d.filters.rows, start)
	return nil
}

// ClearAll removes every filter.
func (d *Dataset) ClearAll() {
	start := time.Now()
	if len(d.filters.order) == 0 {
		return
	}
	d.filters = newFilterSet(d.filters.rows)
	d.refreshAll()
	d.opts.metricsCollector.RecordFilter(d.filters.rows, time.Since(start))
}

// Filters returns the keys of the active filters in the order they were
// first applied.
func (d *Dataset) Filters() []dimension.Key {
	return append([]dimension.Key(nil), d.filters.order...)
}

// Active returns the rows passing every filter. The bitmap is owned by the
// caller.
func (d *Dataset) Active() *bitmap.Bitmap {
	return d.filters.visible(dimension.Key{})
}

// ActiveRecords returns the records passing every filter in row order.
func (d *Dataset) ActiveRecords() []*metadata.Record {
	active := d.Active()
	out := make([]*metadata.Record, 0, active.Cardinality())
	for row := range active.Rows() {
		out = append(out, d.store.At(row))
	}
	return out
}

func (d *Dataset) filterWith(key dimension.Key, sel func(*dimension.Dimension) *bitmap.Bitmap) error {
	key = key.Canonical()
	dim, ok := d.dims.Get(key)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		d.logger.LogFilter(context.Background(), key.String(), 0, 0, err)
		return err
	}

	start := time.Now()
	bm := sel(dim)
	d.filters.set(key, bm)
	d.refresh(key)
	d.recordFilter(key, bm.Cardinality(), start)
	return nil
}

func (d *Dataset) recordFilter(key dimension.Key, selected int, start time.Time) {
	active := d.Active().Cardinality()
	d.opts.metricsCollector.RecordFilter(active, time.Since(start))
	d.logger.LogFilter(context.Background(), key.String(), selected, active, nil)
}

// refresh updates every group that observes the filter on changed. The
// group of changed itself ignores its own filter.
func (d *Dataset) refresh(changed dimension.Key) {
	added, removed := 0, 0
	for _, k := range d.order {
		if k == changed {
			continue
		}
		a, r := d.sync(k)
		added += a
		removed += r
	}
	d.opts.metricsCollector.RecordGroupUpdate(added, removed)
}

func (d *Dataset) refreshAll() {
	added, removed := 0, 0
	for _, k := range d.order {
		a, r := d.sync(k)
		added += a
		removed += r
	}
	d.opts.metricsCollector.RecordGroupUpdate(added, removed)
}

// sync brings the members of the group of k in line with its visible rows.
func (d *Dataset) sync(k dimension.Key) (added, removed int) {
	g := d.groups[k]
	visible := d.filters.visible(k)

	leaving := bitmap.Get()
	defer bitmap.Put(leaving)
	leaving.CopyFrom(g.Members())
	leaving.AndNot(visible)
	entering := visible
	entering.AndNot(g.Members())

	for row := range leaving.Rows() {
		g.Remove(row)
		removed++
	}
	for row := range entering.Rows() {
		g.Add(row)
		added++
	}
	return added, removed
}
