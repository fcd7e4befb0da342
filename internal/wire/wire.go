package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1

	// flagNil marks an entry stored with a nil value. The payload is empty;
	// readers must report "present with nil" rather than a miss so negative
	// caching stays observable.
	flagNil byte = 1 << 0
)

var (
	ErrCorrupt = errors.New("regioncache: corrupt entry")
	magic4     = [...]byte{'R', 'G', 'N', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | flags(1) | vlen(u32 be) | payload(vlen)
func Encode(payload []byte, isNil bool) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var flags byte
	if isNil {
		flags |= flagNil
	}
	buf.WriteByte(flags)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func Decode(b []byte) (payload []byte, isNil bool, err error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return nil, false, ErrCorrupt
	}

	flags := b[5]
	off := 6

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off { // overflow-safe bound check
		return nil, false, ErrCorrupt
	}

	isNil = flags&flagNil != 0
	if isNil && vlen != 0 {
		return nil, false, ErrCorrupt
	}
	return b[off : off+vlen], isNil, nil
}
