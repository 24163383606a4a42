package convert

import (
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// fromNumber converts values that arrived as a VARINT, BITS32, or BITS64
// payload: every protobuf integer and floating-point kind. kind records
// which of those the field actually is, since the same 64 raw bits mean
// something different for an int32 field than for a float field.
type fromNumber struct {
	kind protoreflect.Kind
}

// NewFromNumber builds the numeric-source converter for a field of the
// given kind.
func NewFromNumber(kind protoreflect.Kind) Converter {
	return &fromNumber{kind: kind}
}

func (c *fromNumber) isFloat() bool {
	return c.kind == protoreflect.FloatKind || c.kind == protoreflect.DoubleKind
}

func (c *fromNumber) isSigned() bool {
	switch c.kind {
	case protoreflect.Int32Kind, protoreflect.Int64Kind,
		protoreflect.Sint32Kind, protoreflect.Sint64Kind,
		protoreflect.Sfixed32Kind, protoreflect.Sfixed64Kind:
		return true
	default:
		return false
	}
}

func (c *fromNumber) floatValue(s Source) float64 {
	switch c.kind {
	case protoreflect.FloatKind:
		return float64(math.Float32frombits(uint32(s.U64)))
	case protoreflect.DoubleKind:
		return math.Float64frombits(s.U64)
	default:
		if c.isSigned() {
			return float64(s.AsInt64())
		}
		return float64(s.U64)
	}
}

// intValue returns the source reinterpreted as a signed 64-bit integer. ok
// is false for a float-kind source: the matrix refuses an implicit
// float-to-integer narrowing rather than silently truncating.
func (c *fromNumber) intValue(s Source) (int64, bool) {
	if c.isFloat() {
		return 0, false
	}
	if c.isSigned() {
		return s.AsInt64(), true
	}
	return int64(s.U64), true
}

func (c *fromNumber) ReadInt8(s Source) (int8, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "Int8", "refusing an implicit float-to-integer cast")
	}
	return checkedInt8(s.Kind, v)
}

func (c *fromNumber) ReadInt16(s Source) (int16, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "Int16", "refusing an implicit float-to-integer cast")
	}
	return checkedInt16(s.Kind, v)
}

func (c *fromNumber) ReadInt32(s Source) (int32, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "Int32", "refusing an implicit float-to-integer cast")
	}
	return checkedInt32(s.Kind, v)
}

func (c *fromNumber) ReadInt64(s Source) (int64, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "Int64", "refusing an implicit float-to-integer cast")
	}
	if !c.isSigned() && s.U64 > math.MaxInt64 {
		return 0, castErrorf(s.Kind, "Int64", "value %d out of range", s.U64)
	}
	return v, nil
}

func (c *fromNumber) ReadUInt8(s Source) (uint8, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "UInt8", "refusing an implicit float-to-integer cast")
	}
	u, err := checkedUnsignedFromSigned(s.Kind, v, "UInt8")
	if err != nil {
		return 0, err
	}
	return checkedUint8(s.Kind, u)
}

func (c *fromNumber) ReadUInt16(s Source) (uint16, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "UInt16", "refusing an implicit float-to-integer cast")
	}
	u, err := checkedUnsignedFromSigned(s.Kind, v, "UInt16")
	if err != nil {
		return 0, err
	}
	return checkedUint16(s.Kind, u)
}

func (c *fromNumber) ReadUInt32(s Source) (uint32, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "UInt32", "refusing an implicit float-to-integer cast")
	}
	u, err := checkedUnsignedFromSigned(s.Kind, v, "UInt32")
	if err != nil {
		return 0, err
	}
	return checkedUint32(s.Kind, u)
}

func (c *fromNumber) ReadUInt64(s Source) (uint64, error) {
	if !c.isFloat() && !c.isSigned() {
		return s.U64, nil
	}
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "UInt64", "refusing an implicit float-to-integer cast")
	}
	return checkedUnsignedFromSigned(s.Kind, v, "UInt64")
}

func (c *fromNumber) ReadFloat32(s Source) (float32, error) {
	return checkedFloat32(s.Kind, c.floatValue(s))
}

func (c *fromNumber) ReadFloat64(s Source) (float64, error) {
	return c.floatValue(s), nil
}

func (c *fromNumber) ReadBool(s Source) (bool, error) {
	return s.U64 != 0, nil
}

func (c *fromNumber) ReadString(s Source) (string, error) {
	if c.isFloat() {
		bitSize := 64
		if c.kind == protoreflect.FloatKind {
			bitSize = 32
		}
		return strconv.FormatFloat(c.floatValue(s), 'g', -1, bitSize), nil
	}
	if c.isSigned() {
		return strconv.FormatInt(s.AsInt64(), 10), nil
	}
	return strconv.FormatUint(s.U64, 10), nil
}

func (c *fromNumber) ReadBytes(s Source) ([]byte, error) {
	str, err := c.ReadString(s)
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

func (c *fromNumber) ReadUUID(s Source) (uuid.UUID, error) {
	return uuid.UUID{}, unsupportedConversion(s.Kind, "UUID")
}

func (c *fromNumber) ReadDate(s Source) (Date, error) {
	v, ok := c.intValue(s)
	if !ok || v < 0 {
		return 0, castErrorf(s.Kind, "Date", "a Date must come from a non-negative integer day count")
	}
	return dateFromDays(s.Kind, uint64(v))
}

func (c *fromNumber) ReadDateTime(s Source) (DateTime, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "DateTime", "a DateTime must come from an integer Unix timestamp")
	}
	return DateTime(v), nil
}

func (c *fromNumber) ReadEnum8(s Source) (int8, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "Enum8", "refusing to map a float onto an enum number")
	}
	return checkedInt8(s.Kind, v)
}

func (c *fromNumber) ReadEnum16(s Source) (int16, error) {
	v, ok := c.intValue(s)
	if !ok {
		return 0, castErrorf(s.Kind, "Enum16", "refusing to map a float onto an enum number")
	}
	return checkedInt16(s.Kind, v)
}

func (c *fromNumber) PrepareEnumMapping8(pairs []EnumMapping) {}

func (c *fromNumber) PrepareEnumMapping16(pairs []EnumMapping) {}

func (c *fromNumber) ReadDecimal32(s Source, scale int32) (decimal.Decimal, error) {
	v, ok := c.intValue(s)
	if !ok {
		return decimal.Decimal{}, castErrorf(s.Kind, "Decimal32", "refusing an implicit float-to-decimal cast")
	}
	return decimalFromRawInt(s.Kind, "Decimal32", v, scale, maxAbsDecimal32)
}

func (c *fromNumber) ReadDecimal64(s Source, scale int32) (decimal.Decimal, error) {
	v, ok := c.intValue(s)
	if !ok {
		return decimal.Decimal{}, castErrorf(s.Kind, "Decimal64", "refusing an implicit float-to-decimal cast")
	}
	return decimalFromRawInt(s.Kind, "Decimal64", v, scale, maxAbsDecimal64)
}

func (c *fromNumber) ReadDecimal128(s Source, scale int32) (decimal.Decimal, error) {
	v, ok := c.intValue(s)
	if !ok {
		return decimal.Decimal{}, castErrorf(s.Kind, "Decimal128", "refusing an implicit float-to-decimal cast")
	}
	return decimalFromRawInt(s.Kind, "Decimal128", v, scale, 0)
}

func (c *fromNumber) ReadAggregateFunction(s Source) ([]byte, error) {
	return nil, unsupportedConversion(s.Kind, "AggregateFunction")
}
