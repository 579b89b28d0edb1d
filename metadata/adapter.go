package metadata

import (
	"encoding/json"
	"fmt"
	"math"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for JSON input.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x, err)
		}
		return Float(f), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("metadata uint64 out of range: %d", x)
		}
		return Int(int64(x)), nil
	default:
		return Value{}, fmt.Errorf("unsupported metadata value type %T", v)
	}
}

// Any converts v back into a plain Go value.
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	default:
		return nil
	}
}

// DocumentFromAny converts a map[string]any document to a typed Document.
func DocumentFromAny(m map[string]any) (Document, error) {
	d := make(Document, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		d[k] = vv
	}
	return d, nil
}

// RecordFromMap splits the "id" entry off a flat JSON object and converts
// the remaining entries into fields.
func RecordFromMap(m map[string]any) (Record, error) {
	rawID, ok := m["id"]
	if !ok {
		return Record{}, fmt.Errorf("record without id")
	}
	idVal, err := FromAny(rawID)
	if err != nil {
		return Record{}, fmt.Errorf("record id: %w", err)
	}
	id, ok := idVal.Number()
	if !ok || id != math.Trunc(id) {
		return Record{}, fmt.Errorf("record id %s is not an integer", idVal)
	}

	fields := make(map[string]any, len(m)-1)
	for k, v := range m {
		if k != "id" {
			fields[k] = v
		}
	}
	doc, err := DocumentFromAny(fields)
	if err != nil {
		return Record{}, fmt.Errorf("record %d: %w", int64(id), err)
	}
	return Record{ID: RecordID(id), Fields: doc}, nil
}

// RecordsFromMaps converts a sequence of flat JSON objects into records,
// keeping their order.
func RecordsFromMaps(ms []map[string]any) ([]Record, error) {
	out := make([]Record, len(ms))
	for i, m := range ms {
		rec, err := RecordFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = rec
	}
	return out, nil
}

// RecordsFromJSON decodes a JSON array of flat objects.
func RecordsFromJSON(data []byte) ([]Record, error) {
	var ms []map[string]any
	if err := json.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return RecordsFromMaps(ms)
}
