package histogram

import (
	"sort"

	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/internal/bitmap"
	"github.com/hupe1980/drometa/metadata"
)

// DefaultValueBinCount is the grid size used for objectives.
const DefaultValueBinCount = 10

// ValueBin is one grid point and the rows assigned to it.
type ValueBin struct {
	Value metadata.Value
	Rows  *bitmap.Bitmap
}

// ValueBins assigns records to a fixed grid of attribute values. Numeric
// values go to the greatest grid point not above them (the first point when
// below the grid); categorical values need an exact match.
type ValueBins struct {
	categorical bool
	bins        []ValueBin
}

// ObjectiveGrid returns n evenly spaced values from e.Min to e.Max. A
// degenerate range or n < 2 yields the single point e.Min.
func ObjectiveGrid(e extrema.Extrema, n int) []metadata.Value {
	step := 0.0
	if n > 1 {
		step = e.Interval() / float64(n-1)
	}
	if step <= 0 {
		return []metadata.Value{metadata.Float(e.Min)}
	}
	grid := make([]metadata.Value, n)
	for i := range grid {
		grid[i] = metadata.Float(e.Min + float64(i)*step)
	}
	grid[n-1] = metadata.Float(e.Max)
	return grid
}

// NewValueBins creates empty bins over grid, which must be sorted ascending
// and free of duplicates.
func NewValueBins(grid []metadata.Value, categorical bool) *ValueBins {
	bins := make([]ValueBin, len(grid))
	for i, v := range grid {
		bins[i] = ValueBin{Value: v.Normalize(), Rows: bitmap.New()}
	}
	return &ValueBins{categorical: categorical, bins: bins}
}

// Index returns the bin index of v.
func (vb *ValueBins) Index(v metadata.Value) (int, bool) {
	if len(vb.bins) == 0 {
		return 0, false
	}
	if vb.categorical {
		for i, b := range vb.bins {
			if metadata.Equal(b.Value, v) {
				return i, true
			}
		}
		return 0, false
	}
	if !v.IsNumber() {
		return 0, false
	}
	// First grid point strictly above v, then step back.
	i := sort.Search(len(vb.bins), func(i int) bool {
		return metadata.Compare(vb.bins[i].Value, v) > 0
	})
	if i == 0 {
		return 0, true
	}
	return i - 1, true
}

// Assign adds row to the bin of v and reports whether a bin was found.
func (vb *ValueBins) Assign(row int, v metadata.Value) bool {
	i, ok := vb.Index(v)
	if ok {
		vb.bins[i].Rows.Add(uint32(row))
	}
	return ok
}

// Bins returns the bins in grid order. The slice must not be modified.
func (vb *ValueBins) Bins() []ValueBin { return vb.bins }

// Len returns the number of grid points.
func (vb *ValueBins) Len() int { return len(vb.bins) }
