package metadata

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		tests := []struct {
			name     string
			input    any
			expected Value
		}{
			{"nil", nil, Null()},
			{"Value", Int(1), Int(1)},
			{"bool", true, Bool(true)},
			{"string", "hello", String("hello")},
			{"float64", 3.14, Float(3.14)},
			{"float32", float32(1.5), Float(1.5)},
			{"int", int(1), Int(1)},
			{"int64", int64(1), Int(1)},
			{"uint32 max", uint32(math.MaxUint32), Int(int64(math.MaxUint32))},
			{"json int", json.Number("42"), Int(42)},
			{"json float", json.Number("0.5"), Float(0.5)},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				v, err := FromAny(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, v)
			})
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := FromAny([]int{1})
		assert.Error(t, err)

		_, err = FromAny(uint64(math.MaxUint64))
		assert.Error(t, err)
	})
}

func TestRecordsFromJSON(t *testing.T) {
	data := []byte(`[
		{"id": 0, "perplexity": 10, "metric": "cosine", "stress": 0.1},
		{"id": 1, "perplexity": 30, "metric": "euclidean", "stress": 0.3}
	]`)

	records, err := RecordsFromJSON(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, RecordID(1), records[1].ID)
	assert.Equal(t, String("euclidean"), records[1].Fields["metric"])
	assert.Equal(t, Float(30), records[1].Fields["perplexity"])
	_, hasID := records[0].Fields["id"]
	assert.False(t, hasID)
}

func TestRecordFromMapErrors(t *testing.T) {
	_, err := RecordFromMap(map[string]any{"k": 1.0})
	assert.Error(t, err)

	_, err = RecordFromMap(map[string]any{"id": 1.5})
	assert.Error(t, err)

	_, err = RecordFromMap(map[string]any{"id": "abc"})
	assert.Error(t, err)
}

func TestValueAny(t *testing.T) {
	assert.Equal(t, int64(3), Int(3).Any())
	assert.Equal(t, "x", String("x").Any())
	assert.Nil(t, Null().Any())
}
