// Package convert implements the target-type conversion matrix: given a
// decoded wire value and the column type the caller asked for, produce that
// column's Go representation or fail with a CastError that never corrupts
// the wire reader's cursor (unlike a wire.FormatError, which is always
// fatal for the whole stream).
//
// Conversion dispatches on two axes: the source family (string, number,
// bool, enum — whichever shape the protobuf field's kind decodes to) and
// the requested target type. Each source family is one Converter
// implementation; Source is the sum type that family-specific data flows
// through.
package convert

// SourceKind selects which field of Source is meaningful and which
// Converter family produced it.
type SourceKind uint8

const (
	SourceNumber SourceKind = iota
	SourceString
	SourceBool
	SourceEnum
)

func (k SourceKind) String() string {
	switch k {
	case SourceNumber:
		return "number"
	case SourceString:
		return "string"
	case SourceBool:
		return "bool"
	case SourceEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Source is the decoded-but-uncast wire value passed into a Converter. It
// carries enough of the original bit pattern to support every target in
// the matrix: U64 holds a varint value, a zig-zag-decoded magnitude stored
// as its two's-complement bit pattern, or raw fixed32/fixed64 bits;
// Bytes holds a string/bytes payload.
type Source struct {
	Kind  SourceKind
	U64   uint64
	Bytes []byte
}

// NumberSource wraps a raw numeric bit pattern (varint value, zig-zag
// result reinterpreted as bits, or little-endian fixed32/64 bits).
func NumberSource(bits uint64) Source {
	return Source{Kind: SourceNumber, U64: bits}
}

// StringSource wraps a decoded LENGTH_DELIMITED payload.
func StringSource(b []byte) Source {
	return Source{Kind: SourceString, Bytes: b}
}

// BoolSource wraps a decoded varint reinterpreted as a boolean (nonzero is
// true, per the protobuf wire format's bool encoding).
func BoolSource(v bool) Source {
	var u uint64
	if v {
		u = 1
	}
	return Source{Kind: SourceBool, U64: u}
}

// EnumSource wraps a decoded enum field's wire number.
func EnumSource(number int32) Source {
	return Source{Kind: SourceEnum, U64: uint64(int64(number))}
}

// AsBool reinterprets the source's bit pattern as a boolean, valid for any
// SourceKind whose bit pattern is 0/1 (SourceBool, or a SourceNumber that
// happens to hold 0/1 — protobuf's wire format does not distinguish an
// int32 field holding 1 from a bool field holding true).
func (s Source) AsBool() bool { return s.U64 != 0 }

// AsInt64 reinterprets U64 as a two's-complement signed 64-bit value.
func (s Source) AsInt64() int64 { return int64(s.U64) }

// AsInt32 reinterprets the low 32 bits of U64 as two's-complement signed.
func (s Source) AsInt32() int32 { return int32(uint32(s.U64)) }
