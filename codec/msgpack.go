package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values using vmihailenco/msgpack/v5. The zero value is
// ready to use.
//
// Msgpack is compact and fast; be mindful of struct tag differences vs JSON.
// Use `msgpack:"fieldName"` tags if you need explicit control. Decoding into
// *any yields map[string]any for struct payloads; use a typed read for
// concrete types.
type Msgpack struct{}

func (Msgpack) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Msgpack) Unmarshal(b []byte, into any) error {
	return msgpack.Unmarshal(b, into)
}
