package convert

import "google.golang.org/protobuf/reflect/protoreflect"

// New builds the Converter for a schema field, dispatching purely on the
// field's protoreflect.Kind — the same sum-type dispatch the wire reader
// uses for wire types, one level up.
func New(fd protoreflect.FieldDescriptor) Converter {
	switch fd.Kind() {
	case protoreflect.StringKind, protoreflect.BytesKind:
		return NewFromString()
	case protoreflect.BoolKind:
		return NewFromBool()
	case protoreflect.EnumKind:
		return NewFromEnum(fd.Enum())
	default:
		return NewFromNumber(fd.Kind())
	}
}
