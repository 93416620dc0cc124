package midicodec

import "github.com/chordforge/chordforge/internal/midierr"

// readVLQ decodes a variable-length quantity starting at data[pos]: 7 bits
// per byte, MSB set means "more bytes follow." Returns the value, the
// number of bytes consumed, and an error if the quantity is truncated or
// exceeds 4 bytes (spec.md §4.1/§7: InvalidVlq).
func readVLQ(data []byte, pos int) (value uint32, consumed int, err error) {
	for consumed = 0; consumed < 4; consumed++ {
		if pos+consumed >= len(data) {
			return 0, 0, midierr.NewAt(midierr.KindInvalidVlq, int64(pos+consumed), "truncated variable-length quantity")
		}
		b := data[pos+consumed]
		value = (value << 7) | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, consumed + 1, nil
		}
	}
	return 0, 0, midierr.NewAt(midierr.KindInvalidVlq, int64(pos), "variable-length quantity exceeds 4 bytes")
}

// appendVLQ appends the canonical VLQ encoding of v to buf.
func appendVLQ(buf []byte, v uint32) []byte {
	// Build 7-bit groups from the bottom up, then emit most-significant first.
	var stack [5]byte
	n := 0
	stack[n] = byte(v & 0x7F)
	n++
	v >>= 7
	for v > 0 {
		stack[n] = byte(v&0x7F) | 0x80
		n++
		v >>= 7
	}
	for i := n - 1; i >= 0; i-- {
		buf = append(buf, stack[i])
	}
	return buf
}
