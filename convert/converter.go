package convert

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EnumMapping is one (name, numeric value) pair of a target enum. Callers
// pass a target enum's full set of pairs to PrepareEnumMapping8 or
// PrepareEnumMapping16 exactly once, before the first ReadEnum8 or
// ReadEnum16 on that converter; the converter intersects them by name
// against its own proto enum descriptor to build the proto-number ->
// target-value map those reads consult.
type EnumMapping struct {
	Name  string
	Value int64
}

// Converter is the full target-type matrix for one source family. A
// Converter is bound once per schema field (lazily, on the field's first
// read, from its protoreflect.Kind and, for SourceEnum, its EnumDescriptor) and
// reused for every value that field produces across the whole stream.
//
// Every method receives the Source the wire reader just decoded for the
// current field and either returns the requested target representation or
// a *CastError. A CastError never corrupts the reader; callers substitute
// a zero value or a configured default and move on to the next field.
type Converter interface {
	ReadInt8(Source) (int8, error)
	ReadInt16(Source) (int16, error)
	ReadInt32(Source) (int32, error)
	ReadInt64(Source) (int64, error)
	ReadUInt8(Source) (uint8, error)
	ReadUInt16(Source) (uint16, error)
	ReadUInt32(Source) (uint32, error)
	ReadUInt64(Source) (uint64, error)
	ReadFloat32(Source) (float32, error)
	ReadFloat64(Source) (float64, error)
	ReadBool(Source) (bool, error)
	ReadString(Source) (string, error)
	ReadBytes(Source) ([]byte, error)
	ReadUUID(Source) (uuid.UUID, error)
	ReadDate(Source) (Date, error)
	ReadDateTime(Source) (DateTime, error)
	ReadEnum8(Source) (int8, error)
	ReadEnum16(Source) (int16, error)
	// PrepareEnumMapping8 and PrepareEnumMapping16 give a converter bound
	// to SourceEnum the target enum's pairs before reading begins. Every
	// other source family ignores the call.
	PrepareEnumMapping8(pairs []EnumMapping)
	PrepareEnumMapping16(pairs []EnumMapping)
	ReadDecimal32(Source, int32) (decimal.Decimal, error)
	ReadDecimal64(Source, int32) (decimal.Decimal, error)
	ReadDecimal128(Source, int32) (decimal.Decimal, error)
	ReadAggregateFunction(Source) ([]byte, error)
}
