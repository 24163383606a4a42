package convert

import (
	"time"

	"github.com/relvacode/iso8601"
)

// Date is the number of days since the Unix epoch, the wire representation
// ClickHouse's Date column uses and the one a protobuf uint16/uint32 field
// mapped onto a Date column is expected to carry.
type Date uint32

// DateTime is a Unix timestamp in whole seconds.
type DateTime int64

const maxDateDays = 1<<16 - 1 // matches ClickHouse's 16-bit Date column

func dateFromDays(kind SourceKind, days uint64) (Date, error) {
	if days > maxDateDays {
		return 0, castErrorf(kind, "Date", "day count %d exceeds the 16-bit Date range", days)
	}
	return Date(days), nil
}

func dateFromText(kind SourceKind, s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, castErrorf(kind, "Date", "%q is not a YYYY-MM-DD date: %v", s, err)
	}
	days := t.Unix() / int64(24*time.Hour/time.Second)
	return dateFromDays(kind, uint64(days))
}

func dateTimeFromText(kind SourceKind, s string) (DateTime, error) {
	t, err := iso8601.ParseString(s)
	if err != nil {
		return 0, castErrorf(kind, "DateTime", "%q is not a parseable timestamp: %v", s, err)
	}
	return DateTime(t.Unix()), nil
}
