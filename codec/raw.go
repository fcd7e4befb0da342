package codec

import "fmt"

// Raw is an identity codec for values that are already byte slices. Marshal
// rejects anything that is not a []byte, and Unmarshal copies the payload
// into a *[]byte (or *any) target. Useful when callers manage serialization
// themselves and only need the cache's framing and region scoping.
type Raw struct{}

func (Raw) Marshal(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a []byte", v)
	}
	return b, nil
}

func (Raw) Unmarshal(b []byte, into any) error {
	switch t := into.(type) {
	case *[]byte:
		*t = append((*t)[:0], b...)
		return nil
	case *any:
		out := make([]byte, len(b))
		copy(out, b)
		*t = out
		return nil
	default:
		return fmt.Errorf("codec: decode target %T is not a *[]byte", into)
	}
}
