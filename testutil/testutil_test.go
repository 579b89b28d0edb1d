package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridRuns(t *testing.T) {
	rng := NewRNG(4711)
	schema := TSNESchema()
	require.NoError(t, schema.Validate())

	records := rng.GridRuns(schema)

	// 1 * 3 * 2 * 2 * 3
	assert.Len(t, records, 36)
	for i, rec := range records {
		require.NoError(t, schema.ValidateRecord(&rec))
		assert.EqualValues(t, i, rec.ID)

		stress, ok := rec.Fields["stress"].Number()
		require.True(t, ok)
		assert.GreaterOrEqual(t, stress, 0.0)
		assert.Less(t, stress, 1.0)
	}
}

func TestSampledRuns(t *testing.T) {
	rng := NewRNG(4711)
	schema := UMAPSchema()

	records := rng.SampledRuns(schema, 50)
	assert.Len(t, records, 50)
	for _, rec := range records {
		assert.NoError(t, schema.ValidateRecord(&rec))
		runtime, _ := rec.Fields["runtime"].Number()
		assert.GreaterOrEqual(t, runtime, 1.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(1)
	a := rng.Float64()
	rng.Reset()
	assert.Equal(t, a, rng.Float64())
	assert.Equal(t, int64(1), rng.Seed())
}
