package metadata

import (
	"cmp"
	"encoding/json"
	"strconv"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a small typed scalar held by record fields, bin keys and filters.
//
// Value is comparable and can be used directly as a map key. Strings are
// interned, so equal strings share one handle.
//
// NOTE: Value is part of the snapshot format; keep the JSON shape stable.
type Value struct {
	Kind Kind                  `json:"k"`
	I64  int64                 `json:"i,omitempty"`
	F64  float64               `json:"f,omitempty"`
	s    unique.Handle[string] `json:"-"`
	B    bool                  `json:"b,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(&v),
	}
	if v.Kind == KindString {
		aux.S = v.s.Value()
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(v),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Kind == KindString {
		v.s = unique.Make(aux.S)
	}
	return nil
}

// Key returns a stable string representation.
//
// Numbers are rendered by value, so Int(10) and Float(10) share a key.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return "n:" + strconv.FormatFloat(float64(v.I64), 'g', -1, 64)
	case KindFloat:
		return "n:" + strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	default:
		return "invalid"
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return v.s.Value()
	case KindBool:
		return strconv.FormatBool(v.B)
	default:
		return "invalid"
	}
}

// IsNumber reports whether v holds an int or a float.
func (v Value) IsNumber() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// Number returns v as float64 when it is numeric.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I64), true
	case KindFloat:
		return v.F64, true
	default:
		return 0, false
	}
}

// Normalize maps integral kinds onto KindFloat so that numerically equal
// values are also equal as map keys.
func (v Value) Normalize() Value {
	if v.Kind == KindInt {
		return Float(float64(v.I64))
	}
	return v
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Compare orders two values.
//
// Numbers compare numerically regardless of int/float kind, strings
// lexicographically, booleans false before true. Values of different kinds
// order by kind with numbers sharing one rank. NaN sorts before every number.
func Compare(a, b Value) int {
	ra, rb := rank(a.Kind), rank(b.Kind)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch a.Kind {
	case KindInt, KindFloat:
		if a.Kind == KindInt && b.Kind == KindInt {
			return cmp.Compare(a.I64, b.I64)
		}
		fa, _ := a.Number()
		fb, _ := b.Number()
		return cmp.Compare(fa, fb)
	case KindString:
		if a.s == b.s {
			return 0
		}
		return cmp.Compare(a.s.Value(), b.s.Value())
	case KindBool:
		switch {
		case a.B == b.B:
			return 0
		case !a.B:
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}

// Equal reports whether a and b compare equal.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

func rank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindString:
		return 3
	default:
		return 4
	}
}

// Document holds the flat fields of one record.
type Document map[string]Value

// Clone returns a shallow copy of the document. Values are immutable, so a
// shallow copy is fully independent.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	clone := make(Document, len(d))
	for k, v := range d {
		clone[k] = v
	}
	return clone
}

// RecordID uniquely identifies a record within a dataset.
type RecordID int64

// Record is one DR run: an id plus its hyperparameter and objective fields.
type Record struct {
	ID     RecordID `json:"id"`
	Fields Document `json:"fields"`
}

// Get returns the named field.
func (r *Record) Get(field string) (Value, bool) {
	v, ok := r.Fields[field]
	return v, ok
}
