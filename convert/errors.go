package convert

import "fmt"

// CastError reports that a value was read successfully off the wire but
// could not be represented as the target column's type — a narrowing
// overflow, an unparsable string, an out-of-range enum number, an
// unsupported source/target pairing. Unlike wire.FormatError it never
// corrupts the reader's cursor: the field has already been fully consumed,
// and the caller may substitute a default and continue to the next field.
type CastError struct {
	// Field is the declared name of the schema field the value came from.
	// Package convert
	// itself has no notion of field names; package rowreader fills this in
	// once a CastError surfaces from a converter it dispatched.
	Field      string
	SourceKind SourceKind
	Target     string
	Reason     string
}

func (e *CastError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cannot cast %s value to %s: %s", e.SourceKind, e.Target, e.Reason)
	}
	return fmt.Sprintf("field %s: cannot cast %s value to %s: %s", e.Field, e.SourceKind, e.Target, e.Reason)
}

func castErrorf(kind SourceKind, target, format string, args ...any) *CastError {
	return &CastError{SourceKind: kind, Target: target, Reason: fmt.Sprintf(format, args...)}
}

func unsupportedConversion(kind SourceKind, target string) *CastError {
	return castErrorf(kind, target, "no conversion defined for this source/target pair")
}
