package metadata

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tsneSchemaJSON = `{
  "hyperparameters": [
    {"name": "perplexity", "type": "numeric", "values": [10, 30]},
    {"name": "metric", "type": "categorical", "values": ["euclidean", "cosine", "manhattan"]},
    {"name": "seed", "type": "numeric", "values": [1, 2]}
  ],
  "objectives": ["stress", "runtime"]
}`

func TestSchemaFromJSON(t *testing.T) {
	s, err := SchemaFromJSON([]byte(tsneSchemaJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"perplexity", "metric", "seed", "stress", "runtime"}, s.Attributes())
	assert.True(t, s.IsCategorical("metric"))
	assert.False(t, s.IsCategorical("perplexity"))
	assert.False(t, s.IsCategorical("stress"))
	assert.True(t, s.IsObjective("stress"))
	assert.True(t, s.IsHyperparameter("seed"))
	assert.Equal(t, []string{"metric"}, s.Categoricals())

	h, ok := s.Hyperparameter("perplexity")
	require.True(t, ok)
	assert.Equal(t, []Value{Float(10), Float(30)}, h.Values)

	metric, _ := s.Hyperparameter("metric")
	assert.Equal(t, []Value{String("cosine"), String("euclidean"), String("manhattan")}, metric.SortedValues())
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		check  func(t *testing.T, err error)
	}{
		{
			"Valid",
			Schema{
				Hyperparameters: []AttributeDescriptor{{Name: "k", Kind: Numeric, Values: []Value{Int(5)}}},
				Objectives:      []string{"stress"},
			},
			func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			"MissingDomain",
			Schema{
				Hyperparameters: []AttributeDescriptor{{Name: "k", Kind: Numeric}},
			},
			func(t *testing.T, err error) {
				var target *MissingDomainError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "k", target.Attribute)
			},
		},
		{
			"CategoricalWithoutDomain",
			Schema{
				Hyperparameters: []AttributeDescriptor{{Name: "metric", Kind: Categorical}},
			},
			func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			"UnknownKind",
			Schema{
				Hyperparameters: []AttributeDescriptor{{Name: "k", Kind: "ordinal", Values: []Value{Int(1)}}},
			},
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidSchema) },
		},
		{
			"EmptyName",
			Schema{
				Hyperparameters: []AttributeDescriptor{{Kind: Numeric, Values: []Value{Int(1)}}},
			},
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidSchema) },
		},
		{
			"EmptyObjective",
			Schema{Objectives: []string{""}},
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrInvalidSchema) },
		},
		{
			"Duplicate",
			Schema{
				Hyperparameters: []AttributeDescriptor{{Name: "stress", Kind: Numeric, Values: []Value{Int(1)}}},
				Objectives:      []string{"stress"},
			},
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrDuplicateAttribute) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.schema.Validate())
		})
	}
}

func TestSchemaValidateRecord(t *testing.T) {
	s, err := SchemaFromJSON([]byte(tsneSchemaJSON))
	require.NoError(t, err)

	rec := Record{ID: 3, Fields: Document{
		"perplexity": Float(10),
		"metric":     String("cosine"),
		"seed":       Int(1),
		"stress":     Float(0.2),
		"runtime":    Float(1.5),
	}}
	assert.NoError(t, s.ValidateRecord(&rec))

	missing := Record{ID: 4, Fields: rec.Fields.Clone()}
	delete(missing.Fields, "runtime")
	err = s.ValidateRecord(&missing)
	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "runtime", mf.Attribute)
	assert.Equal(t, RecordID(4), mf.RecordID)

	bad := Record{ID: 5, Fields: rec.Fields.Clone()}
	bad.Fields["stress"] = String("high")
	var iv *InvalidValueError
	require.ErrorAs(t, s.ValidateRecord(&bad), &iv)
	assert.Equal(t, KindString, iv.Kind)
	assert.False(t, iv.NonFinite)

	for name, v := range map[string]float64{"NaN": math.NaN(), "PosInf": math.Inf(1), "NegInf": math.Inf(-1)} {
		t.Run(name, func(t *testing.T) {
			rec := Record{ID: 6, Fields: rec.Fields.Clone()}
			rec.Fields["runtime"] = Float(v)
			var iv *InvalidValueError
			require.ErrorAs(t, s.ValidateRecord(&rec), &iv)
			assert.True(t, iv.NonFinite)
			assert.Equal(t, "runtime", iv.Attribute)
		})
	}
}

func TestAttributeDescriptorJSON(t *testing.T) {
	a := AttributeDescriptor{Name: "metric", Kind: Categorical, Values: []Value{String("cosine"), String("euclidean")}}
	data, err := a.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"metric","type":"categorical","values":["cosine","euclidean"]}`, string(data))

	var got AttributeDescriptor
	require.NoError(t, got.UnmarshalJSON(data))
	assert.Equal(t, a, got)
}
