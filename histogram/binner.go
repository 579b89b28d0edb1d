// Package histogram maps attribute values to histogram bins.
package histogram

import (
	"errors"
	"math"

	"github.com/hupe1980/drometa/extrema"
	"github.com/hupe1980/drometa/metadata"
)

// ErrInvalidBinCount is returned for a bin count <= 0.
var ErrInvalidBinCount = errors.New("bin count must be positive")

// Binner bins values of one attribute into BinCount equal-width bins over
// the padded attribute range.
type Binner struct {
	extrema  extrema.Extrema
	binCount int
	width    float64
}

// NewBinner creates a binner over e.
func NewBinner(e extrema.Extrema, binCount int) (*Binner, error) {
	if binCount <= 0 {
		return nil, ErrInvalidBinCount
	}
	return &Binner{
		extrema:  e,
		binCount: binCount,
		width:    e.Interval() / float64(binCount),
	}, nil
}

// Width returns the bin width.
func (b *Binner) Width() float64 { return b.width }

// BinCount returns the number of bins.
func (b *Binner) BinCount() int { return b.binCount }

// Extrema returns the binned range.
func (b *Binner) Extrema() extrema.Extrema { return b.extrema }

// Bin returns the bin value of v.
//
// Values at or below Min map to Min. Values at or above Max map to the last
// bin at Max-Width, so the top bin is right-open. A zero width maps every
// value to Min.
func (b *Binner) Bin(v float64) float64 {
	lo, hi, w := b.extrema.Min, b.extrema.Max, b.width
	if w == 0 {
		return lo
	}

	if v <= lo {
		v = lo
	} else if v >= hi {
		v = hi - w
	}

	binned := math.Round((v-lo)/w)*w + lo
	if binned >= hi {
		binned = hi - w
	}
	return binned
}

// Key returns the histogram key of v: the raw value for categorical
// attributes, the bin otherwise. Non-numeric values of numeric attributes are
// returned unchanged.
func (b *Binner) Key(kind metadata.AttributeKind, v metadata.Value) metadata.Value {
	if kind == metadata.Categorical {
		return v.Normalize()
	}
	f, ok := v.Number()
	if !ok {
		return v
	}
	return metadata.Float(b.Bin(f))
}
