package convert

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fromString converts values that arrived as a LENGTH_DELIMITED payload on
// a string or bytes field. Unlike fromNumber it has no narrowing to do —
// the source is text — but every numeric/bool/temporal/UUID target still
// has to be parsed out of it, and a parse failure is a CastError rather
// than a panic.
type fromString struct{}

// NewFromString builds the string-source converter. It has no per-field
// state, so a single shared instance would do, but the other converter
// families take field-specific construction arguments, so fromString
// follows the same "always constructed fresh" shape for symmetry.
func NewFromString() Converter { return &fromString{} }

func (c *fromString) text(s Source) string { return string(s.Bytes) }

func (c *fromString) ReadInt8(s Source) (int8, error) {
	v, err := strconv.ParseInt(c.text(s), 10, 8)
	if err != nil {
		return 0, castErrorf(s.Kind, "Int8", "%v", err)
	}
	return int8(v), nil
}

func (c *fromString) ReadInt16(s Source) (int16, error) {
	v, err := strconv.ParseInt(c.text(s), 10, 16)
	if err != nil {
		return 0, castErrorf(s.Kind, "Int16", "%v", err)
	}
	return int16(v), nil
}

func (c *fromString) ReadInt32(s Source) (int32, error) {
	v, err := strconv.ParseInt(c.text(s), 10, 32)
	if err != nil {
		return 0, castErrorf(s.Kind, "Int32", "%v", err)
	}
	return int32(v), nil
}

func (c *fromString) ReadInt64(s Source) (int64, error) {
	v, err := strconv.ParseInt(c.text(s), 10, 64)
	if err != nil {
		return 0, castErrorf(s.Kind, "Int64", "%v", err)
	}
	return v, nil
}

func (c *fromString) ReadUInt8(s Source) (uint8, error) {
	v, err := strconv.ParseUint(c.text(s), 10, 8)
	if err != nil {
		return 0, castErrorf(s.Kind, "UInt8", "%v", err)
	}
	return uint8(v), nil
}

func (c *fromString) ReadUInt16(s Source) (uint16, error) {
	v, err := strconv.ParseUint(c.text(s), 10, 16)
	if err != nil {
		return 0, castErrorf(s.Kind, "UInt16", "%v", err)
	}
	return uint16(v), nil
}

func (c *fromString) ReadUInt32(s Source) (uint32, error) {
	v, err := strconv.ParseUint(c.text(s), 10, 32)
	if err != nil {
		return 0, castErrorf(s.Kind, "UInt32", "%v", err)
	}
	return uint32(v), nil
}

func (c *fromString) ReadUInt64(s Source) (uint64, error) {
	v, err := strconv.ParseUint(c.text(s), 10, 64)
	if err != nil {
		return 0, castErrorf(s.Kind, "UInt64", "%v", err)
	}
	return v, nil
}

func (c *fromString) ReadFloat32(s Source) (float32, error) {
	v, err := strconv.ParseFloat(c.text(s), 32)
	if err != nil {
		return 0, castErrorf(s.Kind, "Float32", "%v", err)
	}
	return float32(v), nil
}

func (c *fromString) ReadFloat64(s Source) (float64, error) {
	v, err := strconv.ParseFloat(c.text(s), 64)
	if err != nil {
		return 0, castErrorf(s.Kind, "Float64", "%v", err)
	}
	return v, nil
}

func (c *fromString) ReadBool(s Source) (bool, error) {
	v, err := strconv.ParseBool(c.text(s))
	if err != nil {
		return false, castErrorf(s.Kind, "Bool", "%v", err)
	}
	return v, nil
}

func (c *fromString) ReadString(s Source) (string, error) { return c.text(s), nil }

func (c *fromString) ReadBytes(s Source) ([]byte, error) { return s.Bytes, nil }

func (c *fromString) ReadUUID(s Source) (uuid.UUID, error) {
	return uuidFromText(s.Kind, c.text(s))
}

func (c *fromString) ReadDate(s Source) (Date, error) {
	return dateFromText(s.Kind, c.text(s))
}

func (c *fromString) ReadDateTime(s Source) (DateTime, error) {
	return dateTimeFromText(s.Kind, c.text(s))
}

func (c *fromString) ReadEnum8(s Source) (int8, error) {
	return 0, unsupportedConversion(s.Kind, "Enum8")
}

func (c *fromString) ReadEnum16(s Source) (int16, error) {
	return 0, unsupportedConversion(s.Kind, "Enum16")
}

func (c *fromString) PrepareEnumMapping8(pairs []EnumMapping) {}

func (c *fromString) PrepareEnumMapping16(pairs []EnumMapping) {}

func (c *fromString) ReadDecimal32(s Source, scale int32) (decimal.Decimal, error) {
	return decimalFromText(s.Kind, "Decimal32", c.text(s))
}

func (c *fromString) ReadDecimal64(s Source, scale int32) (decimal.Decimal, error) {
	return decimalFromText(s.Kind, "Decimal64", c.text(s))
}

func (c *fromString) ReadDecimal128(s Source, scale int32) (decimal.Decimal, error) {
	return decimalFromText(s.Kind, "Decimal128", c.text(s))
}

func (c *fromString) ReadAggregateFunction(s Source) ([]byte, error) {
	return s.Bytes, nil
}
