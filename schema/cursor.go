package schema

import "github.com/pippo1980/pbrowreader/wire"

// Cursor is the in-order field matcher for one open message frame. Most
// real encoders emit fields in ascending field-number order, so the common
// case is a single comparison per field; a map lookup only kicks in once
// the wire order stops matching the schema order (or a tag repeats, as with
// a packed-then-unpacked mix, or a field the schema doesn't declare).
type Cursor struct {
	msg  *Message
	next int
}

// NewCursor opens a cursor over msg's fields. Reset returns the same cursor
// to its starting position, for reuse across sibling messages of the same
// type (a repeated nested-message field, or successive root messages).
func NewCursor(msg *Message) *Cursor {
	return &Cursor{msg: msg}
}

// Reset rewinds the cursor to the first field, for reuse on the next
// message of the same schema.
func (c *Cursor) Reset() { c.next = 0 }

// Lookup finds the schema Field for a field number encountered on the wire.
// The fast path advances past any schema fields whose number is lower than
// the wire tag (those were simply absent from this particular message) and
// matches directly when the next schema field's number equals the wire tag.
// Anything else — a field the schema doesn't declare at all, or one that
// arrived out of order — falls back to the map.
func (c *Cursor) Lookup(number wire.FieldNumber) (*Field, bool) {
	fields := c.msg.fields
	for c.next < len(fields) && fields[c.next].Number() < number {
		c.next++
	}
	if c.next < len(fields) && fields[c.next].Number() == number {
		f := fields[c.next]
		c.next++
		return f, true
	}
	return c.msg.FieldByNumber(number)
}
