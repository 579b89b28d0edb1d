package dimension

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/drometa/derived"
	"github.com/hupe1980/drometa/metadata"
)

// ErrUnknownKey is returned when a key names no known attribute.
var ErrUnknownKey = errors.New("unknown dimension key")

// KeyKind enumerates the dimension variants.
type KeyKind uint8

const (
	// KindHyperparameter indexes the raw value of a hyperparameter.
	KindHyperparameter KeyKind = iota + 1
	// KindObjective indexes the raw value of an objective.
	KindObjective
	// KindEncoded indexes the integer code of a categorical hyperparameter.
	KindEncoded
	// KindHistogram indexes the binned value of an attribute.
	KindHistogram
	// KindPair indexes two fields at once.
	KindPair
)

// String returns the name of the kind.
func (k KeyKind) String() string {
	switch k {
	case KindHyperparameter:
		return "hyperparameter"
	case KindObjective:
		return "objective"
	case KindEncoded:
		return "encoded"
	case KindHistogram:
		return "histogram"
	case KindPair:
		return "pair"
	default:
		return "invalid"
	}
}

// Key identifies a dimension. For pairs, A and B are field names (raw
// attribute names, or the encoded name of a categorical hyperparameter) in
// canonical ascending order; for every other kind only A is set.
//
// Key is comparable and used directly as a map key.
type Key struct {
	Kind KeyKind `json:"kind"`
	A    string  `json:"a"`
	B    string  `json:"b,omitempty"`
}

// Hyperparameter returns the key of a raw hyperparameter dimension.
func Hyperparameter(name string) Key { return Key{Kind: KindHyperparameter, A: name} }

// Objective returns the key of a raw objective dimension.
func Objective(name string) Key { return Key{Kind: KindObjective, A: name} }

// Encoded returns the key of the numeric dimension of a categorical hyperparameter.
func Encoded(name string) Key { return Key{Kind: KindEncoded, A: name} }

// Histogram returns the key of a binned dimension.
func Histogram(name string) Key { return Key{Kind: KindHistogram, A: name} }

// Pair returns the canonical key of the unordered field pair {a, b}.
func Pair(a, b string) Key {
	if b < a {
		a, b = b, a
	}
	return Key{Kind: KindPair, A: a, B: b}
}

// Canonical returns k with pair fields in canonical order.
func (k Key) Canonical() Key {
	if k.Kind == KindPair {
		return Pair(k.A, k.B)
	}
	return k
}

// Fields returns the record fields read by the dimension.
func (k Key) Fields() []string {
	switch k.Kind {
	case KindPair:
		return []string{k.A, k.B}
	case KindEncoded:
		return []string{derived.EncodedField(k.A)}
	case KindHistogram:
		return []string{derived.HistogramField(k.A)}
	default:
		return []string{k.A}
	}
}

// String renders the key in the legacy string form: "name", "name*",
// "name#histogram" or "a:b".
func (k Key) String() string {
	switch k.Kind {
	case KindEncoded:
		return derived.EncodedField(k.A)
	case KindHistogram:
		return derived.HistogramField(k.A)
	case KindPair:
		return k.A + ":" + k.B
	default:
		return k.A
	}
}

// ParseKey resolves a legacy key string against schema. "a:b" and "b:a"
// resolve to the same canonical pair key.
func ParseKey(schema *metadata.Schema, s string) (Key, error) {
	if a, b, ok := strings.Cut(s, ":"); ok {
		if !isField(schema, a) || !isField(schema, b) || a == b {
			return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
		}
		return Pair(a, b), nil
	}
	if attr, ok := derived.IsHistogramField(s); ok {
		if schema.IsHyperparameter(attr) || schema.IsObjective(attr) {
			return Histogram(attr), nil
		}
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}
	if attr, ok := derived.IsEncodedField(s); ok && schema.IsCategorical(attr) {
		return Encoded(attr), nil
	}
	switch {
	case schema.IsHyperparameter(s):
		return Hyperparameter(s), nil
	case schema.IsObjective(s):
		return Objective(s), nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

func isField(schema *metadata.Schema, field string) bool {
	if attr, ok := derived.IsEncodedField(field); ok {
		return schema.IsCategorical(attr)
	}
	return schema.IsHyperparameter(field) || schema.IsObjective(field)
}
