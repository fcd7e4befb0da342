package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Protobuf serializes proto.Message values. Marshal rejects anything that is
// not a proto.Message, which the cache reports as a non-serializable value.
type Protobuf struct{}

func (Protobuf) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec: %T is not a proto.Message", v)
	}
	return proto.Marshal(m)
}

func (Protobuf) Unmarshal(b []byte, into any) error {
	m, ok := into.(proto.Message)
	if !ok {
		return fmt.Errorf("codec: decode target %T is not a proto.Message", into)
	}
	return proto.Unmarshal(b, m)
}
