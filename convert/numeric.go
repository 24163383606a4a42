package convert

import "math"

// The checked narrowing casts below are the leaf operations the matrix
// calls into once a source value has been reduced to a plain int64/uint64/
// float64. Each returns a CastError naming the offending target instead of
// silently truncating, matching the reference implementation's insistence
// that a narrowing cast either preserves value or fails loudly.

func checkedInt8(kind SourceKind, v int64) (int8, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, castErrorf(kind, "Int8", "value %d out of range", v)
	}
	return int8(v), nil
}

func checkedInt16(kind SourceKind, v int64) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, castErrorf(kind, "Int16", "value %d out of range", v)
	}
	return int16(v), nil
}

func checkedInt32(kind SourceKind, v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, castErrorf(kind, "Int32", "value %d out of range", v)
	}
	return int32(v), nil
}

func checkedUint8(kind SourceKind, v uint64) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, castErrorf(kind, "UInt8", "value %d out of range", v)
	}
	return uint8(v), nil
}

func checkedUint16(kind SourceKind, v uint64) (uint16, error) {
	if v > math.MaxUint16 {
		return 0, castErrorf(kind, "UInt16", "value %d out of range", v)
	}
	return uint16(v), nil
}

func checkedUint32(kind SourceKind, v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, castErrorf(kind, "UInt32", "value %d out of range", v)
	}
	return uint32(v), nil
}

// checkedUnsignedFromSigned rejects a negative magnitude before narrowing:
// protobuf has no unsigned varint sign bit, but a source int64 derived from
// a zig-zag or plain int field can still be negative.
func checkedUnsignedFromSigned(kind SourceKind, v int64, target string) (uint64, error) {
	if v < 0 {
		return 0, castErrorf(kind, target, "negative value %d cannot convert to an unsigned type", v)
	}
	return uint64(v), nil
}

func checkedFloat32(kind SourceKind, v float64) (float32, error) {
	if math.IsInf(v, 0) || math.Abs(v) <= math.MaxFloat32 {
		return float32(v), nil
	}
	return 0, castErrorf(kind, "Float32", "value %g overflows float32", v)
}
