// Package extrema computes the axis ranges of attributes and aggregate groups.
package extrema

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
)

// SingularPadding is the divisor applied to raw attribute intervals: each
// side is widened by a third of the interval.
const SingularPadding = 3.0

// Extrema is a closed [Min, Max] range.
type Extrema struct {
	Min float64
	Max float64
}

// Empty returns the identity range {+Inf, -Inf}; any Widen narrows it onto
// the first value.
func Empty() Extrema {
	return Extrema{Min: math.Inf(1), Max: math.Inf(-1)}
}

// IsEmpty reports whether no value has been observed.
func (e Extrema) IsEmpty() bool {
	return e.Min > e.Max
}

// Widen extends the range to include v. It never narrows.
func (e *Extrema) Widen(v float64) {
	if v < e.Min {
		e.Min = v
	}
	if v > e.Max {
		e.Max = v
	}
}

// Interval returns Max-Min.
func (e Extrema) Interval() float64 {
	return e.Max - e.Min
}

// Pad widens both sides by Interval()/divisor. A divisor <= 0 leaves the
// range unchanged.
func (e Extrema) Pad(divisor float64) Extrema {
	if divisor <= 0 {
		return e
	}
	d := e.Interval() / divisor
	return Extrema{Min: e.Min - d, Max: e.Max + d}
}

// Contains reports whether v lies in [Min, Max].
func (e Extrema) Contains(v float64) bool {
	return v >= e.Min && v <= e.Max
}

// MarshalJSON writes [min, max]. Infinite bounds are written as strings so
// empty ranges survive a round trip.
func (e Extrema) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{encodeBound(e.Min), encodeBound(e.Max)})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (e *Extrema) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lo, err := decodeBound(raw[0])
	if err != nil {
		return err
	}
	hi, err := decodeBound(raw[1])
	if err != nil {
		return err
	}
	e.Min, e.Max = lo, hi
	return nil
}

func encodeBound(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func decodeBound(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// Singular returns the raw range of values and the same range padded by
// SingularPadding on both sides.
func Singular(values []float64) (raw, padded Extrema) {
	raw = Empty()
	for _, v := range values {
		raw.Widen(v)
	}
	return raw, raw.Pad(SingularPadding)
}

// Group returns the range of aggregate-group entry counts padded by
// Interval()/divisor (skipped when divisor <= 0).
//
// Entries are sorted ascending and the first and last element taken, which
// matches min/max for every input. An empty input yields Empty().
func Group(counts []float64, divisor float64) Extrema {
	if len(counts) == 0 {
		return Empty()
	}
	sorted := slices.Clone(counts)
	slices.Sort(sorted)
	e := Extrema{Min: sorted[0], Max: sorted[len(sorted)-1]}
	return e.Pad(divisor)
}
