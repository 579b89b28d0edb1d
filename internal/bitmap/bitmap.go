package bitmap

import (
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Bitmap is a set of row indexes backed by a 32-bit Roaring bitmap.
type Bitmap struct {
	rb *roaring.Bitmap
}

// pool holds scratch bitmaps for the per-group row diff of a filter change.
var pool = sync.Pool{
	New: func() any {
		return &Bitmap{rb: roaring.New()}
	},
}

// New creates an empty bitmap.
func New() *Bitmap {
	return &Bitmap{rb: roaring.New()}
}

// Of creates a bitmap holding rows.
func Of(rows ...uint32) *Bitmap {
	return &Bitmap{rb: roaring.BitmapOf(rows...)}
}

// Range creates a bitmap holding every row in [0, n).
func Range(n int) *Bitmap {
	b := New()
	b.rb.AddRange(0, uint64(n))
	return b
}

// Get gets a cleared bitmap from the pool. Call Put when done.
func Get() *Bitmap {
	b := pool.Get().(*Bitmap)
	b.rb.Clear()
	return b
}

// Put returns a bitmap to the pool.
func Put(b *Bitmap) {
	if b == nil {
		return
	}
	b.rb.Clear()
	pool.Put(b)
}

// Add adds a row.
func (b *Bitmap) Add(row uint32) { b.rb.Add(row) }

// Remove removes a row.
func (b *Bitmap) Remove(row uint32) { b.rb.Remove(row) }

// Contains reports whether row is set.
func (b *Bitmap) Contains(row uint32) bool { return b.rb.Contains(row) }

// IsEmpty reports whether no row is set.
func (b *Bitmap) IsEmpty() bool { return b.rb.IsEmpty() }

// Cardinality returns the number of rows set.
func (b *Bitmap) Cardinality() int { return int(b.rb.GetCardinality()) }

// Clear removes all rows.
func (b *Bitmap) Clear() { b.rb.Clear() }

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap { return &Bitmap{rb: b.rb.Clone()} }

// CopyFrom replaces the contents of b with other.
func (b *Bitmap) CopyFrom(other *Bitmap) {
	b.rb.Clear()
	b.rb.Or(other.rb)
}

// And intersects b with other in place.
func (b *Bitmap) And(other *Bitmap) { b.rb.And(other.rb) }

// Or unions b with other in place.
func (b *Bitmap) Or(other *Bitmap) { b.rb.Or(other.rb) }

// AndNot removes the rows of other from b in place.
func (b *Bitmap) AndNot(other *Bitmap) { b.rb.AndNot(other.rb) }

// Equals reports whether both bitmaps hold the same rows.
func (b *Bitmap) Equals(other *Bitmap) bool { return b.rb.Equals(other.rb) }

// Rows iterates set rows in ascending order.
func (b *Bitmap) Rows() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// ToArray returns the set rows in ascending order.
func (b *Bitmap) ToArray() []uint32 { return b.rb.ToArray() }

// MarshalBinary encodes the bitmap in the portable Roaring format.
func (b *Bitmap) MarshalBinary() ([]byte, error) { return b.rb.MarshalBinary() }

// UnmarshalBinary decodes a bitmap written by MarshalBinary.
func (b *Bitmap) UnmarshalBinary(data []byte) error {
	if b.rb == nil {
		b.rb = roaring.New()
	}
	return b.rb.UnmarshalBinary(data)
}
