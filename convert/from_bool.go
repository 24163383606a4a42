package convert

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fromBool converts values that arrived as a VARINT 0/1 on a bool field.
// Every numeric target is a trivial 0-or-1 widening; string is "true"/
// "false"; everything temporal or identity-shaped (UUID, Date, DateTime,
// AggregateFunction) has no sensible bool source and is rejected.
type fromBool struct{}

// NewFromBool builds the bool-source converter.
func NewFromBool() Converter { return &fromBool{} }

func (c *fromBool) ReadInt8(s Source) (int8, error)   { return boolAsInt[int8](s), nil }
func (c *fromBool) ReadInt16(s Source) (int16, error) { return boolAsInt[int16](s), nil }
func (c *fromBool) ReadInt32(s Source) (int32, error) { return boolAsInt[int32](s), nil }
func (c *fromBool) ReadInt64(s Source) (int64, error) { return boolAsInt[int64](s), nil }

func (c *fromBool) ReadUInt8(s Source) (uint8, error)   { return boolAsInt[uint8](s), nil }
func (c *fromBool) ReadUInt16(s Source) (uint16, error) { return boolAsInt[uint16](s), nil }
func (c *fromBool) ReadUInt32(s Source) (uint32, error) { return boolAsInt[uint32](s), nil }
func (c *fromBool) ReadUInt64(s Source) (uint64, error) { return boolAsInt[uint64](s), nil }

func (c *fromBool) ReadFloat32(s Source) (float32, error) { return boolAsInt[float32](s), nil }
func (c *fromBool) ReadFloat64(s Source) (float64, error) { return boolAsInt[float64](s), nil }

func (c *fromBool) ReadBool(s Source) (bool, error) { return s.AsBool(), nil }

func (c *fromBool) ReadString(s Source) (string, error) { return strconv.FormatBool(s.AsBool()), nil }

func (c *fromBool) ReadBytes(s Source) ([]byte, error) { return []byte(strconv.FormatBool(s.AsBool())), nil }

func (c *fromBool) ReadUUID(s Source) (uuid.UUID, error) {
	return uuid.UUID{}, unsupportedConversion(s.Kind, "UUID")
}

func (c *fromBool) ReadDate(s Source) (Date, error) {
	return 0, unsupportedConversion(s.Kind, "Date")
}

func (c *fromBool) ReadDateTime(s Source) (DateTime, error) {
	return 0, unsupportedConversion(s.Kind, "DateTime")
}

func (c *fromBool) ReadEnum8(s Source) (int8, error)  { return boolAsInt[int8](s), nil }
func (c *fromBool) ReadEnum16(s Source) (int16, error) { return boolAsInt[int16](s), nil }

func (c *fromBool) PrepareEnumMapping8(pairs []EnumMapping) {}

func (c *fromBool) PrepareEnumMapping16(pairs []EnumMapping) {}

func (c *fromBool) ReadDecimal32(s Source, scale int32) (decimal.Decimal, error) {
	return decimal.New(int64(boolAsInt[int64](s)), 0), nil
}

func (c *fromBool) ReadDecimal64(s Source, scale int32) (decimal.Decimal, error) {
	return decimal.New(int64(boolAsInt[int64](s)), 0), nil
}

func (c *fromBool) ReadDecimal128(s Source, scale int32) (decimal.Decimal, error) {
	return decimal.New(int64(boolAsInt[int64](s)), 0), nil
}

func (c *fromBool) ReadAggregateFunction(s Source) ([]byte, error) {
	return nil, unsupportedConversion(s.Kind, "AggregateFunction")
}

// boolAsInt widens a bool source to any numeric type, generic over the
// matrix's several integer and float targets since the conversion itself
// never fails or narrows: 0 or 1 always fits.
func boolAsInt[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64](s Source) T {
	if s.AsBool() {
		return 1
	}
	return 0
}
