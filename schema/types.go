// Package schema wraps protoreflect descriptors into the tree the column
// cursor walks: one schema.Message per nested level, with its fields kept
// in field-number order and a subset bound to caller-supplied column
// indexes by package matcher.
package schema

import (
	"sort"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/pippo1980/pbrowreader/convert"
	"github.com/pippo1980/pbrowreader/wire"
)

// Field is one declared field of a message, together with whatever the
// matcher bound it to: a target column index, a nested Message (for
// MessageKind/GroupKind fields that themselves need descending into), or
// neither if the field exists in the schema but has no matching column.
type Field struct {
	desc        protoreflect.FieldDescriptor
	columnIndex int
	nested      *Message
	converter   convert.Converter
}

func newField(desc protoreflect.FieldDescriptor) *Field {
	return &Field{desc: desc, columnIndex: -1}
}

// Number is the field's wire field number.
func (f *Field) Number() wire.FieldNumber { return wire.FieldNumber(f.desc.Number()) }

// Descriptor exposes the underlying protoreflect descriptor for kind,
// cardinality, and enum/message type introspection.
func (f *Field) Descriptor() protoreflect.FieldDescriptor { return f.desc }

// Name is the field's declared proto name (not the JSON/camelCase alias).
func (f *Field) Name() string { return string(f.desc.Name()) }

// IsRepeated reports whether the field is declared repeated (list or map).
func (f *Field) IsRepeated() bool { return f.desc.IsList() || f.desc.IsMap() }

// IsPackable reports whether a repeated scalar field of this kind may
// legally appear length-delimited and packed rather than one tag per value.
func (f *Field) IsPackable() bool {
	switch f.desc.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind, protoreflect.StringKind, protoreflect.BytesKind:
		return false
	default:
		return true
	}
}

// IsNestedMessage reports whether this field's values are themselves
// messages that the cursor must descend into (ordinary embedded messages or
// legacy proto2 groups).
func (f *Field) IsNestedMessage() bool {
	kind := f.desc.Kind()
	return kind == protoreflect.MessageKind || kind == protoreflect.GroupKind
}

// ColumnIndex is the caller-supplied column slot this field feeds, or -1 if
// unbound (present in the schema but not requested by the caller).
func (f *Field) ColumnIndex() int { return f.columnIndex }

// HasColumn reports whether the matcher bound this field to a column.
func (f *Field) HasColumn() bool { return f.columnIndex >= 0 }

// BindColumn records which output column this field feeds. Called by
// package matcher while building the schema tree.
func (f *Field) BindColumn(index int) { f.columnIndex = index }

// Nested is the child schema.Message for a field bound to descend into a
// nested message, or nil.
func (f *Field) Nested() *Message { return f.nested }

// BindNested attaches the child schema for a nested-message field. Called
// by package matcher while building the schema tree.
func (f *Field) BindNested(m *Message) { f.nested = m }

// Converter returns the conversion-matrix implementation bound to this
// field, or nil if none has been built yet.
func (f *Field) Converter() convert.Converter { return f.converter }

// BindConverter attaches the field's Converter. Callers (typically package
// rowreader, lazily on first read) build it once via convert.New and cache
// it here for the life of the schema tree.
func (f *Field) BindConverter(c convert.Converter) { f.converter = c }

// Message is one level of the schema tree: a protoreflect.MessageDescriptor
// together with its declared fields, kept sorted by field number so the
// cursor's in-order fast path can scan them linearly.
type Message struct {
	desc     protoreflect.MessageDescriptor
	fields   []*Field
	byNumber map[wire.FieldNumber]*Field
}

// NewMessage builds the full field list for desc, in field-number order,
// with every field initially unbound (no column, no nested schema). The
// matcher mutates the returned Fields in place via BindColumn/BindNested.
func NewMessage(desc protoreflect.MessageDescriptor) *Message {
	declared := desc.Fields()
	fields := make([]*Field, 0, declared.Len())
	byNumber := make(map[wire.FieldNumber]*Field, declared.Len())
	for i := 0; i < declared.Len(); i++ {
		fd := declared.Get(i)
		f := newField(fd)
		fields = append(fields, f)
		byNumber[f.Number()] = f
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Number() < fields[j].Number() })
	return &Message{desc: desc, fields: fields, byNumber: byNumber}
}

// Descriptor exposes the underlying protoreflect descriptor.
func (m *Message) Descriptor() protoreflect.MessageDescriptor { return m.desc }

// Fields returns the declared fields in field-number order. Callers must
// not mutate the slice.
func (m *Message) Fields() []*Field { return m.fields }

// FieldByNumber is the map-lookup fallback path for out-of-order tags.
func (m *Message) FieldByNumber(number wire.FieldNumber) (*Field, bool) {
	f, ok := m.byNumber[number]
	return f, ok
}

// HasBoundColumns reports whether any field in this message (recursively,
// via nested messages already bound) feeds an output column. A message
// with none can be skipped wholesale by the cursor.
func (m *Message) HasBoundColumns() bool {
	for _, f := range m.fields {
		if f.HasColumn() {
			return true
		}
		if f.Nested() != nil && f.Nested().HasBoundColumns() {
			return true
		}
	}
	return false
}
