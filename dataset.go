package drometa

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/drometa/categorical"
	"github.com/hupe1980/drometa/derived"
	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/group"
	"github.com/hupe1980/drometa/histogram"
	"github.com/hupe1980/drometa/metadata"
	"github.com/hupe1980/drometa/series"
)

// Dataset indexes the records of one DR kernel run for crossfilter queries.
//
// A Dataset is built once by New and is not safe for concurrent use: filters
// mutate group state, so callers must serialize access.
type Dataset struct {
	name     string
	schema   *metadata.Schema
	store    *metadata.Store
	binCount int
	opts     options
	logger   *Logger

	encoder *categorical.Encoder
	derived *derived.Table

	rawExtrema map[string]extrema.Extrema
	extrema    map[dimension.Key]extrema.Extrema
	binners    map[string]*histogram.Binner

	dims   *dimension.Registry
	groups map[dimension.Key]*group.Group
	order  []dimension.Key

	series    map[string]*series.Series
	valueBins map[string]*histogram.ValueBins

	filters *filterSet
}

// New builds a dataset over records described by schema. binCount is the
// number of histogram bins per numeric attribute.
//
// Records are borrowed: the dataset keeps the slice and never modifies it.
// Every record starts out active in every group.
func New(name string, records []metadata.Record, schema *metadata.Schema, binCount int, optFns ...Option) (*Dataset, error) {
	start := time.Now()

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.logger.WithDataset(name)

	d, err := build(name, records, schema, binCount, opts, logger)
	elapsed := time.Since(start)
	opts.metricsCollector.RecordBuild(len(records), elapsed, err)
	if err != nil {
		logger.LogBuild(context.Background(), len(records), 0, 0, elapsed, err)
		return nil, err
	}
	logger.LogBuild(context.Background(), len(records), d.dims.Len(), len(d.groups), elapsed, nil)
	return d, nil
}

func build(name string, records []metadata.Record, schema *metadata.Schema, binCount int, opts options, logger *Logger) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyData
	}
	if binCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBinCount, binCount)
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", metadata.ErrInvalidSchema)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	for i := range records {
		if err := schema.ValidateRecord(&records[i]); err != nil {
			return nil, err
		}
	}
	store, err := metadata.NewStore(records)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		name:       name,
		schema:     schema,
		store:      store,
		binCount:   binCount,
		opts:       opts,
		logger:     logger,
		derived:    derived.NewTable(store.Len()),
		rawExtrema: make(map[string]extrema.Extrema),
		extrema:    make(map[dimension.Key]extrema.Extrema),
		binners:    make(map[string]*histogram.Binner),
		dims:       dimension.NewRegistry(),
		groups:     make(map[dimension.Key]*group.Group),
		series:     make(map[string]*series.Series),
		valueBins:  make(map[string]*histogram.ValueBins),
	}

	ctx := context.Background()

	d.encode()
	logger.LogPhase(ctx, "encode", len(d.encoder.Attributes()))

	if err := d.computeExtrema(); err != nil {
		return nil, err
	}
	logger.LogPhase(ctx, "extrema", len(d.rawExtrema))

	if opts.structures.Has(Singular) {
		d.buildSingular()
	}
	if opts.structures.Has(Histograms) {
		d.buildHistograms()
	}
	if opts.structures.Has(Pairwise) {
		d.buildPairs()
	}
	logger.LogPhase(ctx, "dimensions", d.dims.Len())

	d.filters = newFilterSet(store.Len())
	for _, k := range d.order {
		g := d.groups[k]
		for row := range store.Len() {
			g.Add(row)
		}
	}
	for _, attr := range schema.Attributes() {
		if g, ok := d.groups[dimension.Histogram(attr)]; ok {
			d.extrema[dimension.Histogram(attr)] = g.CountExtrema(opts.groupPadding)
		}
	}
	logger.LogPhase(ctx, "groups", len(d.groups))

	if opts.structures.Has(SeriesMapping) {
		d.series = series.Build(schema, store)
		logger.LogPhase(ctx, "series", len(d.series))
	}
	if opts.structures.Has(ValueBins) {
		d.buildValueBins()
		logger.LogPhase(ctx, "value bins", len(d.valueBins))
	}
	return d, nil
}

// encode builds the categorical codes and writes the encoded derived field
// of every categorical hyperparameter.
func (d *Dataset) encode() {
	d.encoder = categorical.Build(d.schema, d.store)
	for _, attr := range d.encoder.Attributes() {
		field := derived.EncodedField(attr)
		for row, rec := range d.store.All() {
			code, _ := d.encoder.Encode(attr, rec.Fields[attr])
			d.derived.Set(field, row, metadata.Int(int64(code)))
		}
	}
}

// number returns the numeric representation of attr at row: the code for
// categorical hyperparameters, the raw number otherwise.
func (d *Dataset) number(row int, attr string) (float64, bool) {
	if d.schema.IsCategorical(attr) {
		v, ok := d.derived.Get(derived.EncodedField(attr), row)
		if !ok {
			return 0, false
		}
		return v.Number()
	}
	if base, ok := derived.IsEncodedField(attr); ok {
		return d.number(row, base)
	}
	if _, ok := derived.IsHistogramField(attr); ok {
		v, ok := d.derived.Get(attr, row)
		if !ok {
			return 0, false
		}
		return v.Number()
	}
	return d.store.At(row).Fields[attr].Number()
}

// computeExtrema records raw and padded extrema per attribute, then bins
// every attribute into its histogram derived field.
func (d *Dataset) computeExtrema() error {
	for _, attr := range d.schema.Attributes() {
		values := make([]float64, 0, d.store.Len())
		for row := range d.store.Len() {
			if f, ok := d.number(row, attr); ok {
				values = append(values, f)
			}
		}
		raw, padded := extrema.Singular(values)
		d.rawExtrema[attr] = raw

		if d.schema.IsCategorical(attr) {
			d.extrema[dimension.Hyperparameter(attr)] = padded
			d.extrema[dimension.Encoded(attr)] = padded
		} else if d.schema.IsHyperparameter(attr) {
			d.extrema[dimension.Hyperparameter(attr)] = padded
		} else {
			d.extrema[dimension.Objective(attr)] = padded
		}

		b, err := histogram.NewBinner(padded, d.binCount)
		if err != nil {
			return err
		}
		d.binners[attr] = b

		kind := d.kind(attr)
		field := derived.HistogramField(attr)
		for row, rec := range d.store.All() {
			d.derived.Set(field, row, b.Key(kind, rec.Fields[attr]))
		}
	}
	return nil
}

func (d *Dataset) kind(attr string) metadata.AttributeKind {
	if d.schema.IsCategorical(attr) {
		return metadata.Categorical
	}
	return metadata.Numeric
}

func (d *Dataset) singularKey(attr string) dimension.Key {
	if d.schema.IsHyperparameter(attr) {
		return dimension.Hyperparameter(attr)
	}
	return dimension.Objective(attr)
}

func (d *Dataset) buildSingular() {
	for _, attr := range d.schema.Attributes() {
		keys := make([]dimension.BinKey, d.store.Len())
		for row, rec := range d.store.All() {
			keys[row] = dimension.Single(rec.Fields[attr])
		}
		d.dims.Add(dimension.New(d.singularKey(attr), keys))

		if d.schema.IsCategorical(attr) {
			col, _ := d.derived.Column(derived.EncodedField(attr))
			d.dims.Add(dimension.New(dimension.Encoded(attr), singleKeys(col)))
		}
	}
}

func singleKeys(col []metadata.Value) []dimension.BinKey {
	keys := make([]dimension.BinKey, len(col))
	for i, v := range col {
		keys[i] = dimension.Single(v)
	}
	return keys
}

func (d *Dataset) buildHistograms() {
	for _, attr := range d.schema.Attributes() {
		field := derived.HistogramField(attr)
		col, _ := d.derived.Column(field)
		dim := dimension.New(dimension.Histogram(attr), singleKeys(col))
		d.dims.Add(dim)

		// Categorical bins are plain counts.
		var tracked []string
		if !d.schema.IsCategorical(attr) {
			tracked = []string{field}
		}
		d.addGroup(dim, tracked)
	}
}

func (d *Dataset) buildPairs() {
	for _, attr1 := range d.schema.Attributes() {
		field1 := attr1
		if d.schema.IsCategorical(attr1) {
			field1 = derived.EncodedField(attr1)
		}
		for _, attr2 := range d.schema.Objectives {
			if attr1 == attr2 {
				continue
			}
			key := dimension.Pair(field1, attr2)
			if d.dims.Has(key) {
				continue
			}

			keys := make([]dimension.BinKey, d.store.Len())
			for row := range d.store.Len() {
				a, _ := d.fieldValue(row, key.A)
				b, _ := d.fieldValue(row, key.B)
				keys[row] = dimension.BinKey{First: a, Second: b}
			}
			dim := dimension.New(key, keys)
			d.dims.Add(dim)
			d.addGroup(dim, []string{attr1, attr2})
		}
	}
}

func (d *Dataset) addGroup(dim *dimension.Dimension, tracked []string) {
	g := group.New(dim, d.store, tracked, d.number)
	d.groups[dim.Key()] = g
	d.order = append(d.order, dim.Key())
}

func (d *Dataset) buildValueBins() {
	for _, h := range d.schema.Hyperparameters {
		var grid []metadata.Value
		if h.IsCategorical() {
			if m, ok := d.encoder.Mapping(h.Name); ok {
				grid = m.Values()
			}
		} else {
			grid = slices.CompactFunc(h.SortedValues(), metadata.Equal)
		}
		d.assignValueBins(h.Name, histogram.NewValueBins(grid, h.IsCategorical()))
	}
	for _, obj := range d.schema.Objectives {
		grid := histogram.ObjectiveGrid(d.rawExtrema[obj], d.opts.valueBinCount)
		d.assignValueBins(obj, histogram.NewValueBins(grid, false))
	}
}

func (d *Dataset) assignValueBins(attr string, vb *histogram.ValueBins) {
	for row, rec := range d.store.All() {
		vb.Assign(row, rec.Fields[attr])
	}
	d.valueBins[attr] = vb
}

// fieldValue returns a raw or derived field of the record at row.
func (d *Dataset) fieldValue(row int, field string) (metadata.Value, bool) {
	if v, ok := d.derived.Get(field, row); ok {
		return v, true
	}
	v, ok := d.store.At(row).Fields[field]
	return v, ok
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Records returns the input records in row order. The slice must not be
// modified.
func (d *Dataset) Records() []metadata.Record { return d.store.Records() }

// Schema returns the attribute schema.
func (d *Dataset) Schema() *metadata.Schema { return d.schema }

// BinCount returns the histogram bin count.
func (d *Dataset) BinCount() int { return d.binCount }

// Structures returns the structures the dataset was built with.
func (d *Dataset) Structures() Structures { return d.opts.structures }

// Len returns the number of records.
func (d *Dataset) Len() int { return d.store.Len() }

// Keys returns the keys of every built dimension in construction order.
func (d *Dataset) Keys() []dimension.Key { return d.dims.Keys() }

// Dimension returns the dimension of key. Pair keys match in either order.
func (d *Dataset) Dimension(key dimension.Key) (*dimension.Dimension, bool) {
	return d.dims.Get(key)
}

// DimensionByName resolves a legacy dimension name such as "metric*",
// "stress#histogram" or "stress:perplexity".
func (d *Dataset) DimensionByName(name string) (*dimension.Dimension, error) {
	key, err := dimension.ParseKey(d.schema, name)
	if err != nil {
		return nil, err
	}
	dim, ok := d.dims.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, key)
	}
	return dim, nil
}

// Extrema returns the padded range of a singular dimension, or the range of
// bin counts of a histogram dimension.
func (d *Dataset) Extrema(key dimension.Key) (extrema.Extrema, bool) {
	e, ok := d.extrema[key.Canonical()]
	return e, ok
}

// RawExtrema returns the observed range of attr. Categorical attributes are
// measured on their codes.
func (d *Dataset) RawExtrema(attr string) (extrema.Extrema, bool) {
	e, ok := d.rawExtrema[attr]
	return e, ok
}

// Binner returns the histogram binner of attr.
func (d *Dataset) Binner(attr string) (*histogram.Binner, bool) {
	b, ok := d.binners[attr]
	return b, ok
}

// Group returns the aggregate group of a histogram or pair dimension.
func (d *Dataset) Group(key dimension.Key) (*group.Group, bool) {
	g, ok := d.groups[key.Canonical()]
	return g, ok
}

// GroupKeys returns the keys of every group in construction order.
func (d *Dataset) GroupKeys() []dimension.Key { return slices.Clone(d.order) }

// Encoder returns the categorical encoder.
func (d *Dataset) Encoder() *categorical.Encoder { return d.encoder }

// CategoricalToNumerical returns the value to code mapping of attr.
func (d *Dataset) CategoricalToNumerical(attr string) map[metadata.Value]int {
	return d.encoder.Codes(attr)
}

// NumericalToCategorical returns the code to value mapping of attr.
func (d *Dataset) NumericalToCategorical(attr string) map[int]metadata.Value {
	return d.encoder.Values(attr)
}

// Series returns the series of a hyperparameter. Categorical
// hyperparameters are also reachable through their encoded name.
func (d *Dataset) Series(attr string) (*series.Series, bool) {
	s, ok := d.series[attr]
	return s, ok
}

// ValueBins returns the value-grid bins of attr.
func (d *Dataset) ValueBins(attr string) (*histogram.ValueBins, bool) {
	vb, ok := d.valueBins[attr]
	return vb, ok
}

// RecordByID returns the record with the given id.
func (d *Dataset) RecordByID(id metadata.RecordID) (*metadata.Record, bool) {
	return d.store.ByID(id)
}

// Value returns a raw attribute or a derived field ("attr*",
// "attr#histogram") of the record with the given id.
func (d *Dataset) Value(id metadata.RecordID, field string) (metadata.Value, bool) {
	row, ok := d.store.Row(id)
	if !ok {
		return metadata.Value{}, false
	}
	return d.fieldValue(row, field)
}
