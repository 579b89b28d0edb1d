package group

import (
	"slices"

	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/metadata"
)

// Aggregate is the reduced state of one bin.
//
// Items borrows the records currently in the bin from the record store.
// Extrema holds, per tracked attribute, the range of every value ever added;
// removals do not narrow it.
type Aggregate struct {
	Items   []*metadata.Record
	Count   uint
	Extrema map[string]extrema.Extrema
}

// ValueFunc returns the numeric value of attr for the record being reduced.
type ValueFunc func(attr string) (float64, bool)

// Initial returns an empty aggregate tracking attrs.
func Initial(attrs []string) *Aggregate {
	ex := make(map[string]extrema.Extrema, len(attrs))
	for _, attr := range attrs {
		ex[attr] = extrema.Empty()
	}
	return &Aggregate{Extrema: ex}
}

// Add appends rec, increments Count and widens the extrema of every tracked
// attribute toward the record's value.
func Add(acc *Aggregate, rec *metadata.Record, value ValueFunc) *Aggregate {
	acc.Items = append(acc.Items, rec)
	acc.Count++
	for attr, e := range acc.Extrema {
		if v, ok := value(attr); ok {
			e.Widen(v)
			acc.Extrema[attr] = e
		}
	}
	return acc
}

// Remove drops the first item with rec's id and decrements Count. Extrema
// keep their widened values. Removing a record that is not present is a
// no-op.
func Remove(acc *Aggregate, rec *metadata.Record) *Aggregate {
	i := slices.IndexFunc(acc.Items, func(item *metadata.Record) bool {
		return item.ID == rec.ID
	})
	if i < 0 {
		return acc
	}
	acc.Items = slices.Delete(acc.Items, i, i+1)
	acc.Count--
	return acc
}
