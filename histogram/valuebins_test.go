package histogram

import (
	"testing"

	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectiveGrid(t *testing.T) {
	grid := ObjectiveGrid(extrema.Extrema{Min: 0, Max: 9}, 10)
	require.Len(t, grid, 10)
	assert.Equal(t, metadata.Float(0), grid[0])
	assert.Equal(t, metadata.Float(9), grid[9])

	single := ObjectiveGrid(extrema.Extrema{Min: 2, Max: 2}, 10)
	assert.Equal(t, []metadata.Value{metadata.Float(2)}, single)
}

func TestValueBinsNumeric(t *testing.T) {
	vb := NewValueBins([]metadata.Value{metadata.Int(5), metadata.Int(30), metadata.Int(50)}, false)

	assert.True(t, vb.Assign(0, metadata.Float(5)))
	assert.True(t, vb.Assign(1, metadata.Float(29.9)))
	assert.True(t, vb.Assign(2, metadata.Float(30)))
	assert.True(t, vb.Assign(3, metadata.Float(80)))
	assert.True(t, vb.Assign(4, metadata.Float(1)))
	assert.False(t, vb.Assign(5, metadata.String("x")))

	bins := vb.Bins()
	require.Equal(t, 3, vb.Len())
	assert.Equal(t, []uint32{0, 1, 4}, bins[0].Rows.ToArray())
	assert.Equal(t, []uint32{2}, bins[1].Rows.ToArray())
	assert.Equal(t, []uint32{3}, bins[2].Rows.ToArray())
	assert.Equal(t, metadata.Float(30), bins[1].Value)
}

func TestValueBinsCategorical(t *testing.T) {
	vb := NewValueBins([]metadata.Value{metadata.String("cosine"), metadata.String("euclidean")}, true)

	assert.True(t, vb.Assign(0, metadata.String("euclidean")))
	assert.False(t, vb.Assign(1, metadata.String("manhattan")))

	i, ok := vb.Index(metadata.String("cosine"))
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, []uint32{0}, vb.Bins()[1].Rows.ToArray())
}
