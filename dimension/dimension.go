package dimension

import (
	"slices"
	"sort"

	"github.com/hupe1980/drometa/internal/bitmap"
	"github.com/hupe1980/drometa/metadata"
)

// BinKey is the value a dimension indexes for one record. Singular
// dimensions only use First; pair dimensions hold the values of Key.A and
// Key.B in First and Second.
type BinKey struct {
	First  metadata.Value `json:"first"`
	Second metadata.Value `json:"second,omitempty"`
}

// Single returns the bin key of a singular dimension.
func Single(v metadata.Value) BinKey { return BinKey{First: v} }

// Normalize maps integer values to floats so numerically equal keys match.
func (k BinKey) Normalize() BinKey {
	return BinKey{First: k.First.Normalize(), Second: k.Second.Normalize()}
}

// Compare orders bin keys by First, then Second.
func Compare(a, b BinKey) int {
	if c := metadata.Compare(a.First, b.First); c != 0 {
		return c
	}
	return metadata.Compare(a.Second, b.Second)
}

// Dimension is an immutable index over one key per record.
//
// Architecture:
//   - Columnar storage: keys[row] plus order, the rows sorted ascending by key
//   - Binary search on order for range boundaries
//   - One bitmap per distinct key for exact and set lookups
//
// Filters return fresh bitmaps owned by the caller.
type Dimension struct {
	key      Key
	keys     []BinKey
	order    []int
	distinct []BinKey
	bitmaps  map[BinKey]*bitmap.Bitmap
}

// New indexes keys, where keys[row] is the bin key of record row. Keys are
// normalized in place.
func New(key Key, keys []BinKey) *Dimension {
	for i := range keys {
		keys[i] = keys[i].Normalize()
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return Compare(keys[a], keys[b])
	})

	d := &Dimension{
		key:     key,
		keys:    keys,
		order:   order,
		bitmaps: make(map[BinKey]*bitmap.Bitmap),
	}
	for _, row := range order {
		k := keys[row]
		bm, ok := d.bitmaps[k]
		if !ok {
			bm = bitmap.New()
			d.bitmaps[k] = bm
			d.distinct = append(d.distinct, k)
		}
		bm.Add(uint32(row))
	}
	return d
}

// Key returns the dimension key.
func (d *Dimension) Key() Key { return d.key }

// Len returns the number of indexed records.
func (d *Dimension) Len() int { return len(d.keys) }

// KeyOf returns the bin key of row.
func (d *Dimension) KeyOf(row int) BinKey { return d.keys[row] }

// Keys returns the distinct keys in ascending order. The slice must not be
// modified.
func (d *Dimension) Keys() []BinKey { return d.distinct }

// Rows returns the rows holding k. The bitmap must not be modified.
func (d *Dimension) Rows(k BinKey) (*bitmap.Bitmap, bool) {
	bm, ok := d.bitmaps[k.Normalize()]
	return bm, ok
}

// Bottom returns up to n rows with the smallest keys, ascending.
func (d *Dimension) Bottom(n int) []int {
	n = min(max(n, 0), len(d.order))
	return slices.Clone(d.order[:n])
}

// Top returns up to n rows with the largest keys, descending.
func (d *Dimension) Top(n int) []int {
	n = min(max(n, 0), len(d.order))
	out := make([]int, 0, n)
	for i := len(d.order) - 1; i >= len(d.order)-n; i-- {
		out = append(out, d.order[i])
	}
	return out
}

// FilterAll selects every row.
func (d *Dimension) FilterAll() *bitmap.Bitmap {
	return bitmap.Range(len(d.keys))
}

// FilterExact selects rows whose key equals k.
func (d *Dimension) FilterExact(k BinKey) *bitmap.Bitmap {
	if bm, ok := d.bitmaps[k.Normalize()]; ok {
		return bm.Clone()
	}
	return bitmap.New()
}

// FilterIn selects rows whose key is one of ks.
func (d *Dimension) FilterIn(ks ...BinKey) *bitmap.Bitmap {
	out := bitmap.New()
	for _, k := range ks {
		if bm, ok := d.bitmaps[k.Normalize()]; ok {
			out.Or(bm)
		}
	}
	return out
}

// FilterRange selects rows whose First value lies in [lo, hi).
func (d *Dimension) FilterRange(lo, hi metadata.Value) *bitmap.Bitmap {
	start := sort.Search(len(d.order), func(i int) bool {
		return metadata.Compare(d.keys[d.order[i]].First, lo) >= 0
	})
	end := sort.Search(len(d.order), func(i int) bool {
		return metadata.Compare(d.keys[d.order[i]].First, hi) >= 0
	})

	out := bitmap.New()
	for i := start; i < end; i++ {
		out.Add(uint32(d.order[i]))
	}
	return out
}

// FilterRect selects rows of a pair dimension whose First value lies in
// [x0, x1) and Second value in [y0, y1).
func (d *Dimension) FilterRect(x0, x1, y0, y1 metadata.Value) *bitmap.Bitmap {
	return d.FilterFunc(func(k BinKey) bool {
		return metadata.Compare(k.First, x0) >= 0 && metadata.Compare(k.First, x1) < 0 &&
			metadata.Compare(k.Second, y0) >= 0 && metadata.Compare(k.Second, y1) < 0
	})
}

// FilterFunc selects rows whose key satisfies fn. fn is called once per
// distinct key.
func (d *Dimension) FilterFunc(fn func(BinKey) bool) *bitmap.Bitmap {
	out := bitmap.New()
	for _, k := range d.distinct {
		if fn(k) {
			out.Or(d.bitmaps[k])
		}
	}
	return out
}

// Filter selects rows whose First value matches f.
func (d *Dimension) Filter(f metadata.Filter) *bitmap.Bitmap {
	if f.Operator == metadata.OpRange && f.Value.Kind == f.Upper.Kind {
		return d.FilterRange(f.Value, f.Upper)
	}
	return d.FilterFunc(func(k BinKey) bool {
		return f.Matches(k.First)
	})
}
