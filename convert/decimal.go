package convert

import (
	"math"

	"github.com/shopspring/decimal"
)

// decimalFromRawInt treats raw as the business value's face value, matching
// the original's convertToDecimal(number, scale): a wire int 5 into a
// Decimal(_, 2) column is business value 5.00, not 0.05, so the wire integer
// becomes the decimal's unscaled value at exponent zero regardless of scale.
func decimalFromRawInt(kind SourceKind, target string, raw int64, scale int32, maxAbs int64) (decimal.Decimal, error) {
	if maxAbs > 0 && (raw > maxAbs || raw < -maxAbs) {
		return decimal.Decimal{}, castErrorf(kind, target, "unscaled value %d exceeds %s range", raw, target)
	}
	return decimal.New(raw, 0), nil
}

// decimalFromText parses a plain decimal literal.
func decimalFromText(kind SourceKind, target string, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, castErrorf(kind, target, "%q is not a decimal literal: %v", s, err)
	}
	return d, nil
}

const (
	maxAbsDecimal32 = int64(math.MaxInt32)
	maxAbsDecimal64 = int64(0) // no narrower than int64 itself
)
