package wire

// readVarint decodes a base-128 LSB-first varint, advancing the cursor by
// the number of bytes consumed. A 64-bit varint never needs more than 10
// bytes; the 10th byte's only legal value is 0x01 (it carries just the
// single bit left over after 9*7 = 63 bits).
func (r *Reader) readVarint() (uint64, error) {
	var result uint64
	var b [1]byte

	for i := 0; i < 10; i++ {
		if err := r.src.ReadStrict(b[:]); err != nil {
			return 0, newFormatError(r.cursor, "unexpected end of input while reading varint")
		}
		c := b[0]

		if i < 9 {
			if c&0x80 == 0 {
				result |= uint64(c) << (7 * i)
				r.cursor += Cursor(i + 1)
				return result, nil
			}
			result |= uint64(c&0x7f) << (7 * i)
		} else {
			if c == 0x01 {
				result |= uint64(c) << (7 * i)
				r.cursor += Cursor(i + 1)
				return result, nil
			}
			return 0, newFormatError(r.cursor, "10th varint byte must be 0x01")
		}
	}
	return 0, newFormatError(r.cursor, "varint did not terminate within 10 bytes")
}

// ignoreVarint skips a varint without materializing its value.
func (r *Reader) ignoreVarint() error {
	var b [1]byte
	for i := 0; i < 10; i++ {
		if err := r.src.ReadStrict(b[:]); err != nil {
			return newFormatError(r.cursor, "unexpected end of input while skipping varint")
		}
		c := b[0]
		if i < 9 {
			if c&0x80 == 0 {
				r.cursor += Cursor(i + 1)
				return nil
			}
		} else {
			if c == 0x01 {
				r.cursor += Cursor(i + 1)
				return nil
			}
			return newFormatError(r.cursor, "10th varint byte must be 0x01")
		}
	}
	return newFormatError(r.cursor, "varint did not terminate within 10 bytes")
}

// DecodeZigZag32 undoes the zig-zag mapping for a 32-bit signed value.
func DecodeZigZag32(n uint64) int32 {
	return int32(uint32(n>>1) ^ uint32(-(int32(n & 1))))
}

// DecodeZigZag64 undoes the zig-zag mapping for a 64-bit signed value.
func DecodeZigZag64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

// EncodeZigZag32 applies the zig-zag mapping to a 32-bit signed value.
func EncodeZigZag32(v int32) uint64 {
	return uint64((uint32(v) << 1) ^ uint32(v>>31))
}

// EncodeZigZag64 applies the zig-zag mapping to a 64-bit signed value.
func EncodeZigZag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}
