package extrema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingularPadding(t *testing.T) {
	raw, padded := Singular([]float64{4, 1, 7, 3})

	assert.Equal(t, Extrema{Min: 1, Max: 7}, raw)
	assert.InDelta(t, 1-6.0/3, padded.Min, 1e-12)
	assert.InDelta(t, 7+6.0/3, padded.Max, 1e-12)
}

func TestSingularDegenerate(t *testing.T) {
	raw, padded := Singular([]float64{5, 5, 5})
	assert.Equal(t, raw, padded)
	assert.Equal(t, 0.0, padded.Interval())
}

func TestWidenNeverNarrows(t *testing.T) {
	e := Empty()
	assert.True(t, e.IsEmpty())

	e.Widen(3)
	assert.Equal(t, Extrema{Min: 3, Max: 3}, e)
	e.Widen(-1)
	e.Widen(10)
	e.Widen(4)
	assert.Equal(t, Extrema{Min: -1, Max: 10}, e)
	assert.True(t, e.Contains(4))
	assert.False(t, e.IsEmpty())
}

func TestGroup(t *testing.T) {
	tests := []struct {
		name    string
		counts  []float64
		divisor float64
		want    Extrema
	}{
		{"no padding", []float64{3, 1, 8, 2}, 0, Extrema{Min: 1, Max: 8}},
		{"negative divisor skips padding", []float64{3, 1}, -2, Extrema{Min: 1, Max: 3}},
		{"padded", []float64{2, 12}, 10, Extrema{Min: 1, Max: 13}},
		{"single entry", []float64{4}, 5, Extrema{Min: 4, Max: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Group(tt.counts, tt.divisor))
		})
	}

	assert.True(t, Group(nil, 1).IsEmpty())
}

func TestExtremaJSON(t *testing.T) {
	for _, e := range []Extrema{{Min: -0.5, Max: 2}, Empty()} {
		data, err := json.Marshal(e)
		require.NoError(t, err)

		var got Extrema
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, e, got)
	}

	data, err := json.Marshal(Empty())
	require.NoError(t, err)
	assert.JSONEq(t, `["+Inf","-Inf"]`, string(data))
	assert.True(t, math.IsInf(Empty().Min, 1))
}
