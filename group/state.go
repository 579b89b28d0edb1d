package group

import (
	"fmt"

	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/internal/bitmap"
	"github.com/hupe1980/drometa/metadata"
)

// EntryState is the serializable form of one bin.
type EntryState struct {
	Key     dimension.BinKey           `json:"key"`
	Items   []metadata.RecordID        `json:"items"`
	Count   uint                       `json:"count"`
	Extrema map[string]extrema.Extrema `json:"extrema"`
}

// State is the serializable form of a group.
type State struct {
	Entries []EntryState `json:"entries"`
	Members []byte       `json:"members"`
}

// State captures every bin, including the historical extrema.
func (g *Group) State() (State, error) {
	members, err := g.members.MarshalBinary()
	if err != nil {
		return State{}, err
	}
	entries := make([]EntryState, 0, len(g.entries))
	for _, e := range g.All() {
		items := make([]metadata.RecordID, len(e.Value.Items))
		for i, rec := range e.Value.Items {
			items[i] = rec.ID
		}
		ex := make(map[string]extrema.Extrema, len(e.Value.Extrema))
		for attr, v := range e.Value.Extrema {
			ex[attr] = v
		}
		entries = append(entries, EntryState{Key: e.Key, Items: items, Count: e.Value.Count, Extrema: ex})
	}
	return State{Entries: entries, Members: members}, nil
}

// Restore overwrites the bins with s. The group must have been built over
// the same dimension and records that produced s. Every item must belong to
// the bin it is listed under, appear once and be counted, and the member
// rows must be exactly the rows of the items. On error the group is left
// unchanged.
func (g *Group) Restore(s State) error {
	stored := bitmap.New()
	if err := stored.UnmarshalBinary(s.Members); err != nil {
		return fmt.Errorf("restore members: %w", err)
	}

	entries := make(map[dimension.BinKey]*Aggregate, len(g.entries))
	for k := range g.entries {
		entries[k] = Initial(g.tracked)
	}
	members := bitmap.New()
	for _, es := range s.Entries {
		key := es.Key.Normalize()
		acc, ok := entries[key]
		if !ok {
			return fmt.Errorf("restore: unknown bin %v", es.Key)
		}
		if es.Count != uint(len(es.Items)) {
			return fmt.Errorf("restore: bin %v counts %d with %d items", es.Key, es.Count, len(es.Items))
		}
		acc.Items = make([]*metadata.Record, 0, len(es.Items))
		for _, id := range es.Items {
			row, ok := g.store.Row(id)
			if !ok {
				return fmt.Errorf("restore: unknown record %d", id)
			}
			if g.dim.KeyOf(row) != key {
				return fmt.Errorf("restore: record %d listed under bin %v", id, es.Key)
			}
			if members.Contains(uint32(row)) {
				return fmt.Errorf("restore: record %d listed twice", id)
			}
			members.Add(uint32(row))
			acc.Items = append(acc.Items, g.store.At(row))
		}
		acc.Count = es.Count
		for attr, e := range es.Extrema {
			acc.Extrema[attr] = e
		}
	}
	if !stored.Equals(members) {
		return fmt.Errorf("restore: member rows do not match the items of the bins")
	}

	g.entries = entries
	g.members = members
	return nil
}
