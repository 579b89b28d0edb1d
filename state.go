package drometa

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/group"
	"github.com/hupe1980/drometa/internal/bitmap"
	"github.com/hupe1980/drometa/metadata"
)

// StateVersion is the version of the State layout.
const StateVersion = 1

// FilterState is the serializable form of one active filter.
type FilterState struct {
	Key  dimension.Key `json:"key"`
	Rows []byte        `json:"rows"`
}

// GroupState is the serializable form of one group.
type GroupState struct {
	Key   dimension.Key `json:"key"`
	State group.State   `json:"state"`
}

// State is everything needed to rebuild a Dataset that behaves identically,
// including filter selections and the historical extrema of every group.
type State struct {
	Version           int               `json:"version"`
	Name              string            `json:"name"`
	Schema            *metadata.Schema  `json:"schema"`
	Records           []metadata.Record `json:"records"`
	BinCount          int               `json:"bin_count"`
	Structures        Structures        `json:"structures"`
	GroupPaddingRatio float64           `json:"group_padding_ratio"`
	ValueBinCount     int               `json:"value_bin_count"`
	Filters           []FilterState     `json:"filters"`
	Groups            []GroupState      `json:"groups"`
}

// State captures the dataset.
func (d *Dataset) State() (*State, error) {
	s := &State{
		Version:           StateVersion,
		Name:              d.name,
		Schema:            d.schema,
		Records:           d.store.Records(),
		BinCount:          d.binCount,
		Structures:        d.opts.structures,
		GroupPaddingRatio: d.opts.groupPadding,
		ValueBinCount:     d.opts.valueBinCount,
	}

	for _, k := range d.filters.order {
		rows, err := d.filters.selected[k].MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("marshal filter %s: %w", k, err)
		}
		s.Filters = append(s.Filters, FilterState{Key: k, Rows: rows})
	}
	for _, k := range d.order {
		gs, err := d.groups[k].State()
		if err != nil {
			return nil, fmt.Errorf("marshal group %s: %w", k, err)
		}
		s.Groups = append(s.Groups, GroupState{Key: k, State: gs})
	}
	return s, nil
}

// Restore rebuilds a dataset from s. Construction options stored in s take
// precedence over opts; opts still supply the logger and metrics collector.
func Restore(s *State, optFns ...Option) (*Dataset, error) {
	if s == nil {
		return nil, &ErrRestore{Stage: "state", cause: ErrEmptyData}
	}
	if s.Version != StateVersion {
		return nil, &ErrRestore{Stage: "version", cause: fmt.Errorf("unsupported version %d", s.Version)}
	}

	start := time.Now()
	optFns = append(optFns,
		WithStructures(s.Structures),
		WithGroupPaddingRatio(s.GroupPaddingRatio),
		WithValueBinCount(s.ValueBinCount),
	)
	d, err := New(s.Name, s.Records, s.Schema, s.BinCount, optFns...)
	if err != nil {
		return nil, &ErrRestore{Stage: "build", cause: err}
	}

	err = d.restore(s)
	d.opts.metricsCollector.RecordRestore(time.Since(start), err)
	d.logger.LogRestore(context.Background(), len(s.Groups), len(s.Filters), err)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dataset) restore(s *State) error {
	filters := newFilterSet(d.store.Len())
	for _, fs := range s.Filters {
		key := fs.Key.Canonical()
		if !d.dims.Has(key) {
			return &ErrRestore{Stage: "filters", cause: fmt.Errorf("%w: %s", ErrUnknownDimension, key)}
		}
		bm := bitmap.New()
		if err := bm.UnmarshalBinary(fs.Rows); err != nil {
			return &ErrRestore{Stage: "filters", cause: err}
		}
		filters.set(key, bm)
	}

	if len(s.Groups) != len(d.groups) {
		return &ErrRestore{Stage: "groups", cause: fmt.Errorf("have %d groups, state has %d", len(d.groups), len(s.Groups))}
	}
	for _, gs := range s.Groups {
		g, ok := d.groups[gs.Key.Canonical()]
		if !ok {
			return &ErrRestore{Stage: "groups", cause: fmt.Errorf("%w: %s", ErrUnknownDimension, gs.Key)}
		}
		if err := g.Restore(gs.State); err != nil {
			return &ErrRestore{Stage: "groups", cause: err}
		}
	}

	d.filters = filters
	return nil
}
