package regioncache

import (
	"context"

	"github.com/unkn0wn-root/regioncache/codec"
)

// ValueWrapper is the result of a region read: a nil *ValueWrapper means the
// key is absent, a non-nil wrapper with Nil()==true means an entry exists but
// its value is nil (a cached negative decision), and otherwise Value() holds
// the decoded value.
//
// Value() is decoded through the region's codec without type information, so
// struct payloads surface as the codec's generic shape (map[string]any for
// msgpack/JSON). Use GetAs for a concrete type.
type ValueWrapper struct {
	value any
	raw   []byte
	isNil bool
	key   string
	codec codec.Codec
}

// Value returns the decoded value, or nil for a nil entry.
func (w *ValueWrapper) Value() any { return w.value }

// Nil reports whether the entry was stored with a nil value.
func (w *ValueWrapper) Nil() bool { return w.isNil }

// DecodeInto re-decodes the stored payload into a concrete target. A decode
// failure is a DeserializationError, never a silent nil.
func (w *ValueWrapper) DecodeInto(into any) error {
	if w.isNil {
		return nil
	}
	if err := w.codec.Unmarshal(w.raw, into); err != nil {
		return &DeserializationError{Key: w.key, Cause: err}
	}
	return nil
}

// GetAs reads a key and decodes the stored payload as T. It returns
// (zero, false, nil) when the key is absent, the entry holds a nil value, or
// the region is disabled. A payload that cannot be decoded as T is a
// DeserializationError.
func GetAs[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var zero T
	w, err := c.Get(ctx, key)
	if err != nil || w == nil {
		return zero, false, err
	}
	if w.Nil() {
		return zero, false, nil
	}
	var out T
	if err := w.DecodeInto(&out); err != nil {
		return zero, false, err
	}
	return out, true, nil
}
