// Package categorical assigns stable integer codes to categorical
// hyperparameter values.
//
// Codes start at 1 and follow the ascending order of the distinct values
// observed in the records, so "cosine" < "euclidean" < "manhattan" encode as
// 1, 2, 3. Code 0 is never assigned.
package categorical

import (
	"slices"

	"github.com/hupe1980/drometa/metadata"
)

// Mapping is the bidirectional code table of one attribute.
type Mapping struct {
	toCode  map[metadata.Value]int
	toValue []metadata.Value // index code-1
}

// Encode returns the code of v.
func (m *Mapping) Encode(v metadata.Value) (int, bool) {
	c, ok := m.toCode[v.Normalize()]
	return c, ok
}

// Decode returns the value of code.
func (m *Mapping) Decode(code int) (metadata.Value, bool) {
	if code < 1 || code > len(m.toValue) {
		return metadata.Value{}, false
	}
	return m.toValue[code-1], true
}

// Len returns the number of codes.
func (m *Mapping) Len() int { return len(m.toValue) }

// Values returns the values in code order.
func (m *Mapping) Values() []metadata.Value { return slices.Clone(m.toValue) }

// Encoder holds one Mapping per categorical hyperparameter.
type Encoder struct {
	attrs    []string
	mappings map[string]*Mapping
}

// Build collects the distinct observed values of every categorical
// hyperparameter and assigns codes in sorted order.
func Build(schema *metadata.Schema, store *metadata.Store) *Encoder {
	e := &Encoder{mappings: make(map[string]*Mapping)}
	for _, attr := range schema.Categoricals() {
		seen := make(map[metadata.Value]struct{})
		var values []metadata.Value
		for _, rec := range store.All() {
			v := rec.Fields[attr].Normalize()
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		e.attrs = append(e.attrs, attr)
		e.mappings[attr] = newMapping(values)
	}
	return e
}

func newMapping(values []metadata.Value) *Mapping {
	sorted := make([]metadata.Value, len(values))
	for i, v := range values {
		sorted[i] = v.Normalize()
	}
	slices.SortFunc(sorted, metadata.Compare)
	sorted = slices.Compact(sorted)

	m := &Mapping{
		toCode:  make(map[metadata.Value]int, len(sorted)),
		toValue: sorted,
	}
	for i, v := range sorted {
		m.toCode[v] = i + 1
	}
	return m
}

// Attributes returns the encoded attributes in schema order.
func (e *Encoder) Attributes() []string { return slices.Clone(e.attrs) }

// Mapping returns the code table of attr.
func (e *Encoder) Mapping(attr string) (*Mapping, bool) {
	m, ok := e.mappings[attr]
	return m, ok
}

// Encode returns the code of v for attr.
func (e *Encoder) Encode(attr string, v metadata.Value) (int, bool) {
	m, ok := e.mappings[attr]
	if !ok {
		return 0, false
	}
	return m.Encode(v)
}

// Decode returns the value behind code for attr.
func (e *Encoder) Decode(attr string, code int) (metadata.Value, bool) {
	m, ok := e.mappings[attr]
	if !ok {
		return metadata.Value{}, false
	}
	return m.Decode(code)
}

// Codes returns a copy of the value to code table of attr.
func (e *Encoder) Codes(attr string) map[metadata.Value]int {
	m, ok := e.mappings[attr]
	if !ok {
		return nil
	}
	out := make(map[metadata.Value]int, len(m.toCode))
	for v, c := range m.toCode {
		out[v] = c
	}
	return out
}

// Values returns a copy of the code to value table of attr.
func (e *Encoder) Values(attr string) map[int]metadata.Value {
	m, ok := e.mappings[attr]
	if !ok {
		return nil
	}
	out := make(map[int]metadata.Value, len(m.toValue))
	for i, v := range m.toValue {
		out[i+1] = v
	}
	return out
}
