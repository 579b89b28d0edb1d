package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/drometa/metadata"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns a pseudo-random number in [lo,hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// TSNESchema returns a t-SNE style schema with one categorical
// hyperparameter.
func TSNESchema() *metadata.Schema {
	return &metadata.Schema{
		Hyperparameters: []metadata.AttributeDescriptor{
			{Name: "n_components", Kind: metadata.Numeric, Values: ints(2)},
			{Name: "perplexity", Kind: metadata.Numeric, Values: ints(10, 30, 50)},
			{Name: "early_exaggeration", Kind: metadata.Numeric, Values: ints(4, 12)},
			{Name: "learning_rate", Kind: metadata.Numeric, Values: ints(100, 200)},
			{Name: "metric", Kind: metadata.Categorical, Values: strs("cosine", "euclidean", "manhattan")},
		},
		Objectives: []string{"runtime", "r_nx", "b_nx", "stress", "classification_accuracy", "separability_metric"},
	}
}

// UMAPSchema returns a UMAP style schema.
func UMAPSchema() *metadata.Schema {
	return &metadata.Schema{
		Hyperparameters: []metadata.AttributeDescriptor{
			{Name: "n_neighbors", Kind: metadata.Numeric, Values: ints(5, 15, 50)},
			{Name: "min_dist", Kind: metadata.Numeric, Values: []metadata.Value{metadata.Float(0.01), metadata.Float(0.1), metadata.Float(0.5)}},
			{Name: "n_epochs", Kind: metadata.Numeric, Values: ints(200, 500)},
			{Name: "metric", Kind: metadata.Categorical, Values: strs("cosine", "euclidean")},
		},
		Objectives: []string{"runtime", "r_nx", "stress"},
	}
}

func ints(vs ...int64) []metadata.Value {
	out := make([]metadata.Value, len(vs))
	for i, v := range vs {
		out[i] = metadata.Int(v)
	}
	return out
}

func strs(vs ...string) []metadata.Value {
	out := make([]metadata.Value, len(vs))
	for i, v := range vs {
		out[i] = metadata.String(v)
	}
	return out
}

// GridRuns returns one record per combination of hyperparameter domain
// values, in schema order with the last hyperparameter varying fastest.
// Objective scores are random.
func (r *RNG) GridRuns(schema *metadata.Schema) []metadata.Record {
	combos := []metadata.Document{{}}
	for _, h := range schema.Hyperparameters {
		next := make([]metadata.Document, 0, len(combos)*len(h.Values))
		for _, doc := range combos {
			for _, v := range h.Values {
				d := doc.Clone()
				d[h.Name] = v
				next = append(next, d)
			}
		}
		combos = next
	}

	records := make([]metadata.Record, len(combos))
	for i, doc := range combos {
		r.fillObjectives(schema, doc)
		records[i] = metadata.Record{ID: metadata.RecordID(i), Fields: doc}
	}
	return records
}

// SampledRuns returns n records with hyperparameters drawn uniformly from
// their domains.
func (r *RNG) SampledRuns(schema *metadata.Schema, n int) []metadata.Record {
	records := make([]metadata.Record, n)
	for i := range records {
		doc := make(metadata.Document, len(schema.Hyperparameters)+len(schema.Objectives))
		for _, h := range schema.Hyperparameters {
			doc[h.Name] = h.Values[r.Intn(len(h.Values))]
		}
		r.fillObjectives(schema, doc)
		records[i] = metadata.Record{ID: metadata.RecordID(i), Fields: doc}
	}
	return records
}

// fillObjectives draws runtime in seconds from [1, 120) and every other
// objective from [0, 1).
func (r *RNG) fillObjectives(schema *metadata.Schema, doc metadata.Document) {
	for _, obj := range schema.Objectives {
		if obj == "runtime" {
			doc[obj] = metadata.Float(r.Uniform(1, 120))
			continue
		}
		doc[obj] = metadata.Float(r.Float64())
	}
}
