// Package series partitions records into sweeps over one hyperparameter.
//
// For a variant hyperparameter H, two records belong to the same series
// when they agree on every other hyperparameter. Series ids are assigned in
// order of first appearance in the dataset.
package series

import (
	"strconv"
	"strings"

	"github.com/hupe1980/drometa/derived"
	"github.com/hupe1980/drometa/metadata"
)

// Series is the partition of a dataset for one variant hyperparameter.
type Series struct {
	Variant         string                      `json:"variant"`
	RecordToSeries  map[metadata.RecordID]int   `json:"record_to_series"`
	SeriesToRecords map[int][]metadata.RecordID `json:"series_to_records"`
	Count           int                         `json:"count"`
}

// Build computes the series of every hyperparameter in schema order. A
// categorical hyperparameter is additionally registered under its encoded
// field name, pointing at the same Series.
//
// Runs in O(n·k) for n records and k hyperparameters per variant.
func Build(schema *metadata.Schema, store *metadata.Store) map[string]*Series {
	out := make(map[string]*Series, len(schema.Hyperparameters))
	for _, h := range schema.Hyperparameters {
		s := build(schema, store, h.Name)
		out[h.Name] = s
		if h.IsCategorical() {
			out[derived.EncodedField(h.Name)] = s
		}
	}
	return out
}

func build(schema *metadata.Schema, store *metadata.Store, variant string) *Series {
	s := &Series{
		Variant:         variant,
		RecordToSeries:  make(map[metadata.RecordID]int, store.Len()),
		SeriesToRecords: make(map[int][]metadata.RecordID),
	}
	ids := make(map[string]int)

	var sb strings.Builder
	for _, rec := range store.All() {
		sb.Reset()
		for _, h := range schema.Hyperparameters {
			if h.Name == variant {
				continue
			}
			writeSegment(&sb, rec.Fields[h.Name].Key())
		}
		key := sb.String()

		id, ok := ids[key]
		if !ok {
			id = s.Count
			s.Count++
			ids[key] = id
			s.SeriesToRecords[id] = nil
		}
		s.RecordToSeries[rec.ID] = id
		s.SeriesToRecords[id] = append(s.SeriesToRecords[id], rec.ID)
	}
	return s
}

// writeSegment length-prefixes each value so no value content can be
// mistaken for a separator.
func writeSegment(sb *strings.Builder, v string) {
	sb.WriteString(strconv.Itoa(len(v)))
	sb.WriteByte(':')
	sb.WriteString(v)
}

// Of returns the series id of a record.
func (s *Series) Of(id metadata.RecordID) (int, bool) {
	sid, ok := s.RecordToSeries[id]
	return sid, ok
}

// Records returns the record ids of series sid in dataset order.
func (s *Series) Records(sid int) []metadata.RecordID {
	return s.SeriesToRecords[sid]
}

// Siblings returns the ids of all records sharing a series with id,
// including id itself.
func (s *Series) Siblings(id metadata.RecordID) []metadata.RecordID {
	sid, ok := s.RecordToSeries[id]
	if !ok {
		return nil
	}
	return s.SeriesToRecords[sid]
}
