package promcollector

import (
	"testing"

	"github.com/hupe1980/drometa"
	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/metadata"
	dtestutil "github.com/hupe1980/drometa/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	schema := dtestutil.TSNESchema()
	ds, err := drometa.New("tsne", dtestutil.NewRNG(1).GridRuns(schema), schema, 5, drometa.WithMetricsCollector(c))
	require.NoError(t, err)

	_, err = drometa.New("bad", nil, schema, 5, drometa.WithMetricsCollector(c))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.builds.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.builds.WithLabelValues("error")))
	assert.Equal(t, 36.0, testutil.ToFloat64(c.records))

	require.NoError(t, ds.Filter(dimension.Hyperparameter("perplexity"), metadata.Eq(metadata.Int(10))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filters))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.activeRecords))
	assert.Positive(t, testutil.ToFloat64(c.groupUpdates.WithLabelValues("remove")))

	s, err := ds.State()
	require.NoError(t, err)
	_, err = drometa.Restore(s, drometa.WithMetricsCollector(c))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.restores.WithLabelValues("success")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}
