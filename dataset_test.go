package drometa_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/hupe1980/drometa"
	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/metadata"
	"github.com/hupe1980/drometa/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSchema() *metadata.Schema {
	return &metadata.Schema{
		Hyperparameters: []metadata.AttributeDescriptor{
			{Name: "perplexity", Kind: metadata.Numeric, Values: []metadata.Value{metadata.Int(10), metadata.Int(30)}},
			{Name: "metric", Kind: metadata.Categorical, Values: []metadata.Value{
				metadata.String("euclidean"), metadata.String("cosine"), metadata.String("manhattan"),
			}},
		},
		Objectives: []string{"stress", "runtime"},
	}
}

func run(id int64, perplexity int64, metric string, stress, runtime float64) metadata.Record {
	return metadata.Record{ID: metadata.RecordID(id), Fields: metadata.Document{
		"perplexity": metadata.Int(perplexity),
		"metric":     metadata.String(metric),
		"stress":     metadata.Float(stress),
		"runtime":    metadata.Float(runtime),
	}}
}

func fixtureRecords() []metadata.Record {
	return []metadata.Record{
		run(0, 10, "euclidean", 0.1, 5),
		run(1, 10, "cosine", 0.5, 10),
		run(2, 30, "manhattan", 0.2, 7),
		run(3, 30, "euclidean", 0.9, 3),
		run(4, 10, "manhattan", 0.4, 8),
		run(5, 30, "cosine", 0.7, 12),
	}
}

func newFixture(t *testing.T, opts ...drometa.Option) *drometa.Dataset {
	t.Helper()
	ds, err := drometa.New("tsne", fixtureRecords(), fixtureSchema(), 4, opts...)
	require.NoError(t, err)
	return ds
}

func TestNewErrors(t *testing.T) {
	t.Run("EmptyData", func(t *testing.T) {
		_, err := drometa.New("x", nil, fixtureSchema(), 4)
		assert.ErrorIs(t, err, drometa.ErrEmptyData)
	})

	t.Run("InvalidBinCount", func(t *testing.T) {
		_, err := drometa.New("x", fixtureRecords(), fixtureSchema(), 0)
		assert.ErrorIs(t, err, drometa.ErrInvalidBinCount)
	})

	t.Run("MissingField", func(t *testing.T) {
		records := fixtureRecords()
		delete(records[3].Fields, "runtime")
		_, err := drometa.New("x", records, fixtureSchema(), 4)

		var target *drometa.MissingFieldError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "runtime", target.Attribute)
		assert.Equal(t, metadata.RecordID(3), target.RecordID)
	})

	t.Run("MissingDomain", func(t *testing.T) {
		schema := fixtureSchema()
		schema.Hyperparameters[0].Values = nil
		_, err := drometa.New("x", fixtureRecords(), schema, 4)

		var target *drometa.MissingDomainError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "perplexity", target.Attribute)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		records := fixtureRecords()
		records[1].ID = 0
		_, err := drometa.New("x", records, fixtureSchema(), 4)
		assert.ErrorIs(t, err, drometa.ErrDuplicateID)
	})

	t.Run("InvalidValue", func(t *testing.T) {
		records := fixtureRecords()
		records[2].Fields["stress"] = metadata.String("high")
		_, err := drometa.New("x", records, fixtureSchema(), 4)

		var target *drometa.InvalidValueError
		assert.ErrorAs(t, err, &target)
	})

	for name, v := range map[string]float64{"NaN": math.NaN(), "Inf": math.Inf(1)} {
		t.Run("NonFinite"+name, func(t *testing.T) {
			records := fixtureRecords()
			records[2].Fields["stress"] = metadata.Float(v)

			var err error
			require.NotPanics(t, func() {
				_, err = drometa.New("x", records, fixtureSchema(), 4)
			})
			var target *drometa.InvalidValueError
			require.ErrorAs(t, err, &target)
			assert.True(t, target.NonFinite)
			assert.Equal(t, "stress", target.Attribute)
		})
	}

	t.Run("BuildFailureIsCounted", func(t *testing.T) {
		mc := &drometa.BasicMetricsCollector{}
		_, err := drometa.New("x", nil, fixtureSchema(), 4, drometa.WithMetricsCollector(mc))
		require.Error(t, err)
		assert.Equal(t, int64(1), mc.GetStats().BuildErrors)
	})
}

func TestCategoricalEncoding(t *testing.T) {
	ds := newFixture(t)

	assert.Equal(t, map[metadata.Value]int{
		metadata.String("cosine"):    1,
		metadata.String("euclidean"): 2,
		metadata.String("manhattan"): 3,
	}, ds.CategoricalToNumerical("metric"))
	assert.Equal(t, metadata.String("manhattan"), ds.NumericalToCategorical("metric")[3])

	v, ok := ds.Value(0, "metric*")
	require.True(t, ok)
	assert.Equal(t, metadata.Int(2), v)

	// Input records are never touched.
	rec, ok := ds.RecordByID(0)
	require.True(t, ok)
	_, hasDerived := rec.Fields["metric*"]
	assert.False(t, hasDerived)
	_, hasHistogram := rec.Fields["stress#histogram"]
	assert.False(t, hasHistogram)
}

func TestDimensionsAndGroups(t *testing.T) {
	ds := newFixture(t)

	// 4 singular + 1 encoded + 4 histogram + 5 pairs.
	assert.Len(t, ds.Keys(), 14)
	assert.Len(t, ds.GroupKeys(), 9)

	for _, name := range []string{
		"perplexity", "metric", "metric*", "stress", "runtime",
		"perplexity#histogram", "metric#histogram", "stress#histogram", "runtime#histogram",
		"perplexity:stress", "perplexity:runtime", "metric*:stress", "metric*:runtime", "stress:runtime",
	} {
		_, err := ds.DimensionByName(name)
		assert.NoError(t, err, name)
	}

	_, err := ds.DimensionByName("metric:stress")
	assert.ErrorIs(t, err, drometa.ErrUnknownDimension)
	_, err = ds.DimensionByName("nope")
	assert.ErrorIs(t, err, drometa.ErrUnknownKey)

	_, ok := ds.Group(dimension.Objective("stress"))
	assert.False(t, ok, "singular dimensions carry no group")
}

func TestPairIdentity(t *testing.T) {
	ds := newFixture(t)

	ab, ok := ds.Group(dimension.Pair("perplexity", "stress"))
	require.True(t, ok)
	ba, ok := ds.Group(dimension.Key{Kind: dimension.KindPair, A: "stress", B: "perplexity"})
	require.True(t, ok)
	assert.Same(t, ab, ba)

	d1, err := ds.DimensionByName("perplexity:stress")
	require.NoError(t, err)
	d2, err := ds.DimensionByName("stress:perplexity")
	require.NoError(t, err)
	assert.Same(t, d1, d2)

	assert.Equal(t, []string{"perplexity", "stress"}, ab.Tracked())
	acc, ok := ab.Get(dimension.BinKey{First: metadata.Int(30), Second: metadata.Float(0.9)})
	require.True(t, ok)
	assert.Equal(t, uint(1), acc.Count)
	assert.Equal(t, 30.0, acc.Extrema["perplexity"].Max)
}

func TestHistogramGroups(t *testing.T) {
	ds := newFixture(t)

	for _, attr := range []string{"perplexity", "metric", "stress", "runtime"} {
		g, ok := ds.Group(dimension.Histogram(attr))
		require.True(t, ok, attr)

		var total uint
		for _, e := range g.All() {
			total += e.Value.Count
		}
		assert.Equal(t, uint(6), total, attr)
	}

	b, ok := ds.Binner("stress")
	require.True(t, ok)
	for _, rec := range ds.Records() {
		v, ok := ds.Value(rec.ID, "stress#histogram")
		require.True(t, ok)
		f, _ := v.Number()

		k := (f - b.Extrema().Min) / b.Width()
		assert.InDelta(t, float64(int(k+0.5)), k, 1e-9, "bin values sit on the grid")
		assert.GreaterOrEqual(t, k, -1e-9)
		assert.Less(t, k, float64(b.BinCount()))
	}

	metric, _ := ds.Group(dimension.Histogram("metric"))
	assert.Empty(t, metric.Tracked())
	for _, e := range metric.All() {
		assert.Equal(t, metadata.KindString, e.Key.First.Kind)
		assert.Equal(t, uint(2), e.Value.Count)
	}

	stress, _ := ds.Group(dimension.Histogram("stress"))
	assert.Equal(t, []string{"stress#histogram"}, stress.Tracked())
}

func TestExtrema(t *testing.T) {
	ds := newFixture(t)

	raw, ok := ds.RawExtrema("stress")
	require.True(t, ok)
	assert.InDelta(t, 0.1, raw.Min, 1e-12)
	assert.InDelta(t, 0.9, raw.Max, 1e-12)

	padded, ok := ds.Extrema(dimension.Objective("stress"))
	require.True(t, ok)
	assert.InDelta(t, 0.1-0.8/3, padded.Min, 1e-12)
	assert.InDelta(t, 0.9+0.8/3, padded.Max, 1e-12)

	codes, ok := ds.Extrema(dimension.Encoded("metric"))
	require.True(t, ok)
	assert.InDelta(t, 1-2.0/3, codes.Min, 1e-12)
	assert.InDelta(t, 3+2.0/3, codes.Max, 1e-12)

	counts, ok := ds.Extrema(dimension.Histogram("perplexity"))
	require.True(t, ok)
	assert.Equal(t, 3.0, counts.Min)
	assert.Equal(t, 3.0, counts.Max)

	padded2 := newFixture(t, drometa.WithGroupPaddingRatio(2))
	metric, _ := padded2.Extrema(dimension.Histogram("metric"))
	assert.Equal(t, 2.0, metric.Min, "zero interval stays unpadded")
}

func TestSeries(t *testing.T) {
	ds := newFixture(t)

	s, ok := ds.Series("perplexity")
	require.True(t, ok)
	assert.Equal(t, 3, s.Count)
	assert.ElementsMatch(t, []metadata.RecordID{0, 3}, s.Siblings(0))

	enc, ok := ds.Series("metric*")
	require.True(t, ok)
	m, _ := ds.Series("metric")
	assert.Same(t, m, enc)
	assert.Equal(t, 2, m.Count)
}

func TestValueBins(t *testing.T) {
	ds := newFixture(t)

	stress, ok := ds.ValueBins("stress")
	require.True(t, ok)
	require.Equal(t, 10, stress.Len())
	bins := stress.Bins()
	assert.True(t, bins[9].Rows.Contains(3), "max lands in the last bin")
	assert.True(t, bins[0].Rows.Contains(0), "min lands in the first bin")

	metric, ok := ds.ValueBins("metric")
	require.True(t, ok)
	assert.Equal(t, 3, metric.Len())
	assert.Equal(t, metadata.String("cosine"), metric.Bins()[0].Value)
	assert.Equal(t, []uint32{1, 5}, metric.Bins()[0].Rows.ToArray())

	small := newFixture(t, drometa.WithValueBinCount(3))
	runtime, _ := small.ValueBins("runtime")
	assert.Equal(t, 3, runtime.Len())
}

func TestStructures(t *testing.T) {
	ds := newFixture(t, drometa.WithStructures(drometa.Histograms))

	assert.Len(t, ds.Keys(), 4)
	_, ok := ds.Dimension(dimension.Objective("stress"))
	assert.False(t, ok)
	_, ok = ds.Series("perplexity")
	assert.False(t, ok)
	_, ok = ds.ValueBins("stress")
	assert.False(t, ok)

	// Derived fields exist regardless of the selected structures.
	v, ok := ds.Value(2, "metric*")
	require.True(t, ok)
	assert.Equal(t, metadata.Int(3), v)
	_, ok = ds.Value(2, "stress#histogram")
	assert.True(t, ok)

	assert.True(t, drometa.AllStructures.Has(drometa.Pairwise|drometa.Singular))
	assert.False(t, drometa.Histograms.Has(drometa.Pairwise))
}

func TestBuildLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := drometa.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	newFixture(t, drometa.WithLogger(logger))

	out := buf.String()
	assert.Contains(t, out, `"msg":"dataset built"`)
	assert.Contains(t, out, `"dataset":"tsne"`)
	assert.Contains(t, out, `"phase":"series"`)
}

func TestSyntheticGrid(t *testing.T) {
	rng := testutil.NewRNG(4711)
	schema := testutil.TSNESchema()
	records := rng.GridRuns(schema)

	ds, err := drometa.New("tsne", records, schema, 10)
	require.NoError(t, err)
	assert.Equal(t, len(records), ds.Len())

	for _, k := range ds.GroupKeys() {
		g, _ := ds.Group(k)
		var total uint
		for _, e := range g.All() {
			total += e.Value.Count
		}
		assert.Equal(t, uint(len(records)), total, k.String())
	}

	// A single-valued hyperparameter collapses to one bin.
	g, _ := ds.Group(dimension.Histogram("n_components"))
	assert.Equal(t, 1, g.Size())
}
