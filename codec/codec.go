// Package codec selects how dataset snapshots are serialized.
//
// Snapshot headers store the codec name, so a snapshot written with one codec
// is always decoded with the same one. Changing the default only affects new
// snapshots.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ErrUnknownCodec is returned by Lookup for names without a built-in codec.
type ErrUnknownCodec struct {
	Name string
}

func (e *ErrUnknownCodec) Error() string {
	return fmt.Sprintf("unknown codec %q", e.Name)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case JSON{}.Name():
		return JSON{}, true
	case GoJSON{}.Name():
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Lookup is ByName returning an *ErrUnknownCodec instead of a flag.
func Lookup(name string) (Codec, error) {
	c, ok := ByName(name)
	if !ok {
		return nil, &ErrUnknownCodec{Name: name}
	}
	return c, nil
}

// Names lists the built-in codec names.
func Names() []string {
	return []string{GoJSON{}.Name(), JSON{}.Name()}
}
