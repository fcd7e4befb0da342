package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeValue(t *testing.T) {
	payload := []byte(`{"id":"1"}`)
	b := Encode(payload, false)

	got, isNil, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if isNil {
		t.Fatalf("unexpected nil flag")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %q want %q", got, payload)
	}
}

func TestEncodeDecodeNilEntry(t *testing.T) {
	b := Encode(nil, true)

	payload, isNil, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !isNil {
		t.Fatalf("nil flag lost")
	}
	if len(payload) != 0 {
		t.Fatalf("nil entry carries payload %q", payload)
	}
}

func TestDecodeRejectsCorrupt(t *testing.T) {
	cases := map[string][]byte{
		"empty":         nil,
		"short":         {'R', 'G'},
		"bad_magic":     append([]byte("XXXX"), Encode([]byte("v"), false)[4:]...),
		"bad_version":   {'R', 'G', 'N', 'C', 99, 0, 0, 0, 0, 0},
		"truncated":     Encode([]byte("hello world"), false)[:12],
		"nil_with_body": {'R', 'G', 'N', 'C', 1, 1, 0, 0, 0, 2, 'h', 'i'},
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Decode(b); !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

// Decoding must fail on a value length that claims more bytes than present.
func TestDecodeOversizedLength(t *testing.T) {
	b := Encode([]byte("abcd"), false)
	b[9] = 0xFF // inflate vlen
	if _, _, err := Decode(b); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
