// Package wire implements the low-level protobuf wire reader: varint/fixed/
// length-delimited/group byte-level decoding with nested-message cursor
// tracking, skip-on-mismatch, and the legacy GROUP framing. It knows nothing
// about target data types or schemas; see package convert and package
// matcher for those.
package wire

import (
	"github.com/pippo1980/pbrowreader/bytesource"
)

// Reader tracks message/field/group nesting purely by byte-offset
// bookkeeping over a bytesource.ByteSource. It is not safe for concurrent
// use; one Reader is driven by one caller.
type Reader struct {
	src    bytesource.ByteSource
	cursor Cursor

	currentMessageEnd Cursor
	fieldEnd          Cursor
	parents           frameStack

	maxGroupDepth int
}

// DefaultMaxGroupDepth bounds how many nested GROUP_START tags ignoreGroup
// will track before giving up with a FormatError, guarding against
// pathological or truncated input that never emits a matching GROUP_END.
const DefaultMaxGroupDepth = 64

// New creates a wire reader over src. cursor starts at 1 (greater than
// ReachedEnd) purely to keep "cursor > ReachedEnd while a frame is open"
// comparisons branch-free.
func New(src bytesource.ByteSource) *Reader {
	return &Reader{
		src:               src,
		cursor:            1,
		currentMessageEnd: ReachedEnd,
		fieldEnd:          ReachedEnd,
		maxGroupDepth:     DefaultMaxGroupDepth,
	}
}

// SetMaxGroupDepth overrides DefaultMaxGroupDepth.
func (r *Reader) SetMaxGroupDepth(n int) { r.maxGroupDepth = n }

// Cursor returns the reader's current logical position, for diagnostics.
func (r *Reader) Cursor() Cursor { return r.cursor }

// StartMessage begins reading a message. With no frame open it starts a
// root message by reading its length-prefix varint from the byte source,
// returning (false, nil) on a clean EOF. With a field already open on
// LENGTH_DELIMITED bytes it instead starts a nested submessage whose extent
// is that field's extent.
func (r *Reader) StartMessage() (bool, error) {
	if r.currentMessageEnd == ReachedEnd && r.parents.empty() {
		if r.src.Eof() {
			return false, nil
		}
		size, err := r.readVarint()
		if err != nil {
			return false, err
		}
		r.currentMessageEnd = r.cursor + Cursor(size)
	} else {
		if r.fieldEnd == EndOfVarint || r.fieldEnd == ReachedEnd {
			return false, newFormatError(r.cursor, "nested message must be started from a length-delimited or group field")
		}
		// fieldEnd is either a real end-cursor (LENGTH_DELIMITED) or
		// EndOfGroup (legacy GROUP_START), both valid submessage frames.
		r.parents.push(r.currentMessageEnd)
		r.currentMessageEnd = r.fieldEnd
	}
	r.fieldEnd = ReachedEnd
	return true, nil
}

// EndMessage reconciles the cursor to the current frame's end (skipping
// forward over anything the caller didn't read, or rewinding if the caller
// overshot a root frame) and pops the parent frame, if any.
func (r *Reader) EndMessage() error {
	if r.currentMessageEnd != ReachedEnd {
		switch {
		case r.currentMessageEnd == EndOfGroup:
			if err := r.ignoreGroup(); err != nil {
				return err
			}
		case r.cursor < r.currentMessageEnd:
			if err := r.ignore(r.currentMessageEnd - r.cursor); err != nil {
				return err
			}
		case r.cursor > r.currentMessageEnd:
			if !r.parents.empty() {
				return newFormatError(r.cursor, "message decoded past its declared end")
			}
			if err := r.moveCursorBackward(r.cursor - r.currentMessageEnd); err != nil {
				return err
			}
		}
		r.currentMessageEnd = ReachedEnd
	}

	r.fieldEnd = ReachedEnd
	if end, ok := r.parents.pop(); ok {
		r.currentMessageEnd = end
	}
	return nil
}

// EndRootMessage unconditionally reconciles the cursor to the root frame's
// end, discarding any open nested frames. It is used by the façade to
// recover even if the caller abandoned a read mid-message.
func (r *Reader) EndRootMessage() error {
	messageEnd := r.currentMessageEnd
	if front, ok := r.parents.front(); ok {
		messageEnd = front
	}
	if messageEnd != ReachedEnd {
		if r.cursor < messageEnd {
			if err := r.ignore(messageEnd - r.cursor); err != nil {
				return err
			}
		} else if r.cursor > messageEnd {
			if err := r.moveCursorBackward(r.cursor - messageEnd); err != nil {
				return err
			}
		}
	}
	r.parents.clear()
	r.currentMessageEnd = ReachedEnd
	r.fieldEnd = ReachedEnd
	return nil
}

// ReadFieldNumber returns the next (field number, wire type) inside the
// current message frame, first silently skipping any previously-opened but
// unread field. ok is false once the frame is exhausted or a matching
// GROUP_END has closed it.
func (r *Reader) ReadFieldNumber() (number FieldNumber, wt WireType, ok bool, err error) {
	if r.fieldEnd != ReachedEnd {
		switch r.fieldEnd {
		case EndOfVarint:
			if err = r.ignoreVarint(); err != nil {
				return
			}
		case EndOfGroup:
			if err = r.ignoreGroup(); err != nil {
				return
			}
		default:
			if r.cursor < r.fieldEnd {
				if err = r.ignore(r.fieldEnd - r.cursor); err != nil {
					return
				}
			}
		}
		r.fieldEnd = ReachedEnd
	}

	if r.cursor >= r.currentMessageEnd {
		r.currentMessageEnd = ReachedEnd
		return 0, 0, false, nil
	}

	tag, rerr := r.readVarint()
	if rerr != nil {
		return 0, 0, false, rerr
	}
	if tag&(uint64(0xFFFFFFFF)<<32) != 0 {
		return 0, 0, false, newFormatError(r.cursor, "field tag does not fit in 32 bits")
	}
	number, wt = ParseTag(Tag(tag))

	switch wt {
	case Bits64:
		r.fieldEnd = r.cursor + 8
	case LengthDelimited:
		length, lerr := r.readVarint()
		if lerr != nil {
			return 0, 0, false, lerr
		}
		r.fieldEnd = r.cursor + Cursor(length)
	case Varint:
		r.fieldEnd = EndOfVarint
	case GroupStart:
		r.fieldEnd = EndOfGroup
	case GroupEnd:
		if r.currentMessageEnd != EndOfGroup {
			return 0, 0, false, newFormatError(r.cursor, "unmatched GROUP_END")
		}
		r.currentMessageEnd = ReachedEnd
		return 0, 0, false, nil
	case Bits32:
		r.fieldEnd = r.cursor + 4
	default:
		return 0, 0, false, newFormatError(r.cursor, "impossible wire type in tag")
	}
	return number, wt, true, nil
}

// ReadUInt decodes a varint from the open field. It is repeatable for a
// packed-repeated LENGTH_DELIMITED payload (false once the payload drains),
// but returns false after exactly one call for a VARINT field.
func (r *Reader) ReadUInt() (value uint64, ok bool, err error) {
	if r.cursor >= r.fieldEnd {
		r.fieldEnd = ReachedEnd
		return 0, false, nil
	}
	value, err = r.readVarint()
	if err != nil {
		return 0, false, err
	}
	if r.fieldEnd == EndOfVarint || r.cursor >= r.fieldEnd {
		r.fieldEnd = ReachedEnd
	}
	return value, true, nil
}

// ReadInt decodes a varint reinterpreted as two's-complement signed.
func (r *Reader) ReadInt() (int64, bool, error) {
	v, ok, err := r.ReadUInt()
	return int64(v), ok, err
}

// ReadSInt decodes a zig-zag varint.
func (r *Reader) ReadSInt() (int64, bool, error) {
	v, ok, err := r.ReadUInt()
	if !ok || err != nil {
		return 0, ok, err
	}
	return DecodeZigZag64(v), true, nil
}

// ReadStringInto appends the field's remaining bytes to dst and returns the
// result, closing the field. It returns ok=false without consuming anything
// if the field was already exhausted.
func (r *Reader) ReadStringInto(dst []byte) ([]byte, bool, error) {
	if r.cursor > r.fieldEnd {
		return dst, false, nil
	}
	length := int(r.fieldEnd - r.cursor)
	start := len(dst)
	dst = append(dst, make([]byte, length)...)
	if err := r.src.ReadStrict(dst[start:]); err != nil {
		return dst[:start], false, newFormatError(r.cursor, "unexpected end of input while reading string field")
	}
	r.cursor += Cursor(length)
	r.fieldEnd = ReachedEnd
	return dst, true, nil
}

// SkipField silently discards the payload of the currently-open field,
// whatever its wire type. It is used by callers (the schema cursor) to
// discard a field that has no matching column.
func (r *Reader) SkipField(wt WireType) error {
	switch wt {
	case Varint:
		if err := r.ignoreVarint(); err != nil {
			return err
		}
	case Bits64:
		if err := r.ignore(8); err != nil {
			return err
		}
	case LengthDelimited:
		if r.cursor > r.fieldEnd {
			return newFormatError(r.cursor, "cannot skip: field already exhausted")
		}
		n := r.fieldEnd - r.cursor
		if err := r.ignore(n); err != nil {
			return err
		}
	case GroupStart:
		if err := r.ignoreGroup(); err != nil {
			return err
		}
	case Bits32:
		if err := r.ignore(4); err != nil {
			return err
		}
	default:
		return newFormatError(r.cursor, "unknown wire type while skipping field")
	}
	r.fieldEnd = ReachedEnd
	return nil
}

func (r *Reader) ignore(n Cursor) error {
	if err := r.src.Ignore(int(n)); err != nil {
		return newFormatError(r.cursor, "unexpected end of input while skipping bytes")
	}
	r.cursor += n
	return nil
}

func (r *Reader) moveCursorBackward(n Cursor) error {
	if err := r.src.Unread(int(n)); err != nil {
		return newFormatError(r.cursor, "byte source cannot rewind to repair message overshoot")
	}
	r.cursor -= n
	return nil
}

// ignoreGroup scans forward for the GROUP_END tag matching the GROUP_START
// that opened this frame, counting nesting levels through any nested
// groups. Each
// recognized wire-type arm continues the scan; only a genuinely unknown
// wire type raises FormatError (see the fall-through note in the original
// implementation this is ported from — that version's switch falls through
// to an unconditional format error after every case, which is either dead
// code or a latent bug depending on switch lowering; this port makes every
// arm an explicit continue instead).
func (r *Reader) ignoreGroup() error {
	level := 1
	for {
		tag, err := r.readVarint()
		if err != nil {
			return err
		}
		wt := WireType(tag & 0x7)
		switch wt {
		case Varint:
			if err := r.ignoreVarint(); err != nil {
				return err
			}
		case Bits64:
			if err := r.ignore(8); err != nil {
				return err
			}
		case LengthDelimited:
			length, err := r.readVarint()
			if err != nil {
				return err
			}
			if err := r.ignore(Cursor(length)); err != nil {
				return err
			}
		case GroupStart:
			level++
			if level > r.maxGroupDepth {
				return newFormatError(r.cursor, "group nesting exceeds configured maximum depth")
			}
		case GroupEnd:
			level--
			if level == 0 {
				return nil
			}
		case Bits32:
			if err := r.ignore(4); err != nil {
				return err
			}
		default:
			return newFormatError(r.cursor, "impossible wire type while skipping group")
		}
	}
}
