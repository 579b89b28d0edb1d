package dimension

import "slices"

// Registry maps canonical keys to dimensions. Pair keys are normalized on
// every access, so {a, b} and {b, a} resolve to the same Dimension.
type Registry struct {
	dims  map[Key]*Dimension
	order []Key
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{dims: make(map[Key]*Dimension)}
}

// Add registers d under its canonical key and reports false if the key is
// already taken.
func (r *Registry) Add(d *Dimension) bool {
	k := d.key.Canonical()
	if _, ok := r.dims[k]; ok {
		return false
	}
	r.dims[k] = d
	r.order = append(r.order, k)
	return true
}

// Has reports whether k is registered.
func (r *Registry) Has(k Key) bool {
	_, ok := r.dims[k.Canonical()]
	return ok
}

// Get returns the dimension of k.
func (r *Registry) Get(k Key) (*Dimension, bool) {
	d, ok := r.dims[k.Canonical()]
	return d, ok
}

// Keys returns the registered keys in insertion order.
func (r *Registry) Keys() []Key { return slices.Clone(r.order) }

// Len returns the number of dimensions.
func (r *Registry) Len() int { return len(r.order) }
