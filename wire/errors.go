package wire

import "fmt"

// FormatError reports that the byte stream violates the protobuf wire
// grammar: malformed varint, bad group end, impossible tag, underflow, or
// inability to rewind. It is always fatal for the in-flight message.
type FormatError struct {
	Offset Cursor
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unknown protobuf format at offset %s: %s", e.Offset, e.Reason)
}

func newFormatError(offset Cursor, reason string) *FormatError {
	return &FormatError{Offset: offset, Reason: reason}
}
