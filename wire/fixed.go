package wire

import "encoding/binary"

// ReadFixed32 reads 4 little-endian bytes from the currently open BITS32
// field. Interpretation (uint32, int32, or float32 bit pattern) is left to
// package convert; the wire reader only moves bytes.
func (r *Reader) ReadFixed32() (uint32, bool, error) {
	if r.cursor >= r.fieldEnd {
		r.fieldEnd = ReachedEnd
		return 0, false, nil
	}
	var b [4]byte
	if err := r.src.ReadStrict(b[:]); err != nil {
		return 0, false, newFormatError(r.cursor, "unexpected end of input while reading fixed32")
	}
	r.cursor += 4
	if r.cursor >= r.fieldEnd {
		r.fieldEnd = ReachedEnd
	}
	return binary.LittleEndian.Uint32(b[:]), true, nil
}

// ReadFixed64 reads 8 little-endian bytes from the currently open BITS64
// field.
func (r *Reader) ReadFixed64() (uint64, bool, error) {
	if r.cursor >= r.fieldEnd {
		r.fieldEnd = ReachedEnd
		return 0, false, nil
	}
	var b [8]byte
	if err := r.src.ReadStrict(b[:]); err != nil {
		return 0, false, newFormatError(r.cursor, "unexpected end of input while reading fixed64")
	}
	r.cursor += 8
	if r.cursor >= r.fieldEnd {
		r.fieldEnd = ReachedEnd
	}
	return binary.LittleEndian.Uint64(b[:]), true, nil
}
