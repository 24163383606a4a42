package convert

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// fromEnum converts values that arrived as a VARINT on an enum field. The
// wire number is always authoritative; a name lookup (for ReadString) is
// only needed occasionally, so the number->name table is built once, on
// first use, rather than for every enum field a schema declares.
type fromEnum struct {
	desc protoreflect.EnumDescriptor

	once     sync.Once
	byNumber map[int32]protoreflect.Name

	mapping8Once sync.Once
	mapping8     map[int32]int8

	mapping16Once sync.Once
	mapping16     map[int32]int16
}

// NewFromEnum builds the enum-source converter for a field whose declared
// enum type is desc.
func NewFromEnum(desc protoreflect.EnumDescriptor) Converter {
	return &fromEnum{desc: desc}
}

func (c *fromEnum) ensureNameTable() {
	c.once.Do(func() {
		values := c.desc.Values()
		c.byNumber = make(map[int32]protoreflect.Name, values.Len())
		for i := 0; i < values.Len(); i++ {
			v := values.Get(i)
			if _, exists := c.byNumber[int32(v.Number())]; !exists {
				c.byNumber[int32(v.Number())] = v.Name()
			}
		}
	})
}

func (c *fromEnum) name(number int32) (string, bool) {
	c.ensureNameTable()
	n, ok := c.byNumber[number]
	return string(n), ok
}

// protoNumberByName maps this enum's own declared names to their proto wire
// numbers, for intersecting against a caller-supplied target mapping.
func (c *fromEnum) protoNumberByName() map[protoreflect.Name]int32 {
	values := c.desc.Values()
	byName := make(map[protoreflect.Name]int32, values.Len())
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		byName[v.Name()] = int32(v.Number())
	}
	return byName
}

// PrepareEnumMapping8 builds the proto-number -> target-value map ReadEnum8
// consults, by intersecting pairs against this converter's own enum
// descriptor on name. A name in pairs that the descriptor doesn't declare is
// silently dropped. Ignored once a map is already built.
func (c *fromEnum) PrepareEnumMapping8(pairs []EnumMapping) {
	c.mapping8Once.Do(func() {
		byName := c.protoNumberByName()
		m := make(map[int32]int8, len(pairs))
		for _, p := range pairs {
			if number, ok := byName[protoreflect.Name(p.Name)]; ok {
				m[number] = int8(p.Value)
			}
		}
		c.mapping8 = m
	})
}

// PrepareEnumMapping16 is PrepareEnumMapping8 for an Enum16 target.
func (c *fromEnum) PrepareEnumMapping16(pairs []EnumMapping) {
	c.mapping16Once.Do(func() {
		byName := c.protoNumberByName()
		m := make(map[int32]int16, len(pairs))
		for _, p := range pairs {
			if number, ok := byName[protoreflect.Name(p.Name)]; ok {
				m[number] = int16(p.Value)
			}
		}
		c.mapping16 = m
	})
}

func (c *fromEnum) ReadInt8(s Source) (int8, error)  { return checkedInt8(s.Kind, s.AsInt64()) }
func (c *fromEnum) ReadInt16(s Source) (int16, error) { return checkedInt16(s.Kind, s.AsInt64()) }
func (c *fromEnum) ReadInt32(s Source) (int32, error) { return s.AsInt32(), nil }
func (c *fromEnum) ReadInt64(s Source) (int64, error) { return s.AsInt64(), nil }

func (c *fromEnum) ReadUInt8(s Source) (uint8, error) {
	u, err := checkedUnsignedFromSigned(s.Kind, s.AsInt64(), "UInt8")
	if err != nil {
		return 0, err
	}
	return checkedUint8(s.Kind, u)
}

func (c *fromEnum) ReadUInt16(s Source) (uint16, error) {
	u, err := checkedUnsignedFromSigned(s.Kind, s.AsInt64(), "UInt16")
	if err != nil {
		return 0, err
	}
	return checkedUint16(s.Kind, u)
}

func (c *fromEnum) ReadUInt32(s Source) (uint32, error) {
	return checkedUnsignedFromSigned32(s.Kind, s.AsInt32())
}

func (c *fromEnum) ReadUInt64(s Source) (uint64, error) {
	return checkedUnsignedFromSigned(s.Kind, s.AsInt64(), "UInt64")
}

func (c *fromEnum) ReadFloat32(s Source) (float32, error) {
	return 0, unsupportedConversion(s.Kind, "Float32")
}

func (c *fromEnum) ReadFloat64(s Source) (float64, error) {
	return 0, unsupportedConversion(s.Kind, "Float64")
}

func (c *fromEnum) ReadBool(s Source) (bool, error) { return s.AsInt64() != 0, nil }

func (c *fromEnum) ReadString(s Source) (string, error) {
	if name, ok := c.name(s.AsInt32()); ok {
		return name, nil
	}
	return "", castErrorf(s.Kind, "String", "enum number %d has no declared name", s.AsInt32())
}

func (c *fromEnum) ReadBytes(s Source) ([]byte, error) {
	str, err := c.ReadString(s)
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

func (c *fromEnum) ReadUUID(s Source) (uuid.UUID, error) {
	return uuid.UUID{}, unsupportedConversion(s.Kind, "UUID")
}

func (c *fromEnum) ReadDate(s Source) (Date, error) {
	return 0, unsupportedConversion(s.Kind, "Date")
}

func (c *fromEnum) ReadDateTime(s Source) (DateTime, error) {
	return 0, unsupportedConversion(s.Kind, "DateTime")
}

// ReadEnum8 maps the wire's proto enum number to the target enum's value,
// via the map PrepareEnumMapping8 built. A number the map doesn't contain —
// because it was never declared there, or because PrepareEnumMapping8 was
// never called — is PROTOBUF_BAD_CAST.
func (c *fromEnum) ReadEnum8(s Source) (int8, error) {
	number := s.AsInt32()
	if c.mapping8 == nil {
		return 0, castErrorf(s.Kind, "Enum8", "PrepareEnumMapping8 was never called for this column")
	}
	v, ok := c.mapping8[number]
	if !ok {
		return 0, castErrorf(s.Kind, "Enum8", "proto enum number %d has no mapped target value", number)
	}
	return v, nil
}

// ReadEnum16 is ReadEnum8 for an Enum16 target.
func (c *fromEnum) ReadEnum16(s Source) (int16, error) {
	number := s.AsInt32()
	if c.mapping16 == nil {
		return 0, castErrorf(s.Kind, "Enum16", "PrepareEnumMapping16 was never called for this column")
	}
	v, ok := c.mapping16[number]
	if !ok {
		return 0, castErrorf(s.Kind, "Enum16", "proto enum number %d has no mapped target value", number)
	}
	return v, nil
}

func (c *fromEnum) ReadDecimal32(s Source, scale int32) (decimal.Decimal, error) {
	return decimalFromRawInt(s.Kind, "Decimal32", s.AsInt64(), scale, maxAbsDecimal32)
}

func (c *fromEnum) ReadDecimal64(s Source, scale int32) (decimal.Decimal, error) {
	return decimalFromRawInt(s.Kind, "Decimal64", s.AsInt64(), scale, maxAbsDecimal64)
}

func (c *fromEnum) ReadDecimal128(s Source, scale int32) (decimal.Decimal, error) {
	return decimalFromRawInt(s.Kind, "Decimal128", s.AsInt64(), scale, 0)
}

func (c *fromEnum) ReadAggregateFunction(s Source) ([]byte, error) {
	return nil, unsupportedConversion(s.Kind, "AggregateFunction")
}

func checkedUnsignedFromSigned32(kind SourceKind, v int32) (uint32, error) {
	if v < 0 {
		return 0, castErrorf(kind, "UInt32", "negative enum number %d cannot convert to an unsigned type", v)
	}
	return uint32(v), nil
}
