// Package codec provides the serializers used to persist cache values in a
// backing document store.
package codec

// Codec turns cache values into bytes and back. Unmarshal decodes into the
// pointer target, mirroring the stdlib marshal/unmarshal shape, so one codec
// serves both the untyped read path (into *any) and typed reads.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, into any) error
}
