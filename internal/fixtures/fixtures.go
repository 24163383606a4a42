// Package fixtures builds protoreflect descriptors in-process, the way the
// teacher's benchmark suite does, so tests exercise real descriptor
// introspection without invoking protoc or reading .proto files from disk.
package fixtures

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// buildFile compiles a single FileDescriptorProto into a live
// protoreflect.FileDescriptor, independent of the global registry so
// repeated calls across test files never collide on file path.
func buildFile(fd *descriptorpb.FileDescriptorProto) protoreflect.FileDescriptor {
	files, err := protodesc.NewFiles(&descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{fd}})
	if err != nil {
		panic(fmt.Sprintf("fixtures: invalid descriptor: %v", err))
	}
	file, err := files.FindFileByPath(fd.GetName())
	if err != nil {
		panic(fmt.Sprintf("fixtures: file not found after build: %v", err))
	}
	return file
}

func field(name string, number int32, t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Type:     t.Enum(),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		JsonName: proto.String(name),
	}
}

func repeatedField(name string, number int32, t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	f := field(name, number, t)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := field(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

func enumField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := field(name, number, descriptorpb.FieldDescriptorProto_TYPE_ENUM)
	f.TypeName = proto.String(typeName)
	return f
}

// SingleInt32Message is a message with exactly one int32 field, field
// number 1 — the simplest round-trippable message.
func SingleInt32Message() protoreflect.MessageDescriptor {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("fixtures_single_int32.proto"),
		Package: proto.String("fixtures"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("SingleInt32"),
				Field: []*descriptorpb.FieldDescriptorProto{field("value", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32)},
			},
		},
	}
	return buildFile(fd).Messages().ByName("SingleInt32")
}

// PackedRepeatedInt32Message has one repeated (packable) int32 field.
func PackedRepeatedInt32Message() protoreflect.MessageDescriptor {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("fixtures_packed_repeated.proto"),
		Package: proto.String("fixtures"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("PackedInts"),
				Field: []*descriptorpb.FieldDescriptorProto{repeatedField("values", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32)},
			},
		},
	}
	return buildFile(fd).Messages().ByName("PackedInts")
}

// NestedWithStringMessage is an Outer message with one nested-message field
// (Inner) holding a single string field — exercises descending into a
// submessage.
func NestedWithStringMessage() protoreflect.MessageDescriptor {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("fixtures_nested.proto"),
		Package: proto.String("fixtures"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("Inner"),
				Field: []*descriptorpb.FieldDescriptorProto{field("label", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)},
			},
			{
				Name:  proto.String("Outer"),
				Field: []*descriptorpb.FieldDescriptorProto{messageField("inner", 2, ".fixtures.Inner")},
			},
		},
	}
	return buildFile(fd).Messages().ByName("Outer")
}

// SInt32Message has a single sint32 (zig-zag) field.
func SInt32Message() protoreflect.MessageDescriptor {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("fixtures_sint32.proto"),
		Package: proto.String("fixtures"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("SInt32Holder"),
				Field: []*descriptorpb.FieldDescriptorProto{field("value", 1, descriptorpb.FieldDescriptorProto_TYPE_SINT32)},
			},
		},
	}
	return buildFile(fd).Messages().ByName("SInt32Holder")
}

// ColorEnumMessage has one enum field (Color: RED=0, GREEN=1, BLUE=2) —
// exercises the enum-source converter's number-to-name lookup and its
// numeric and target-enum reads.
func ColorEnumMessage() protoreflect.MessageDescriptor {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("fixtures_enum.proto"),
		Package: proto.String("fixtures"),
		Syntax:  proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: proto.String("Color"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("RED"), Number: proto.Int32(0)},
					{Name: proto.String("GREEN"), Number: proto.Int32(1)},
					{Name: proto.String("BLUE"), Number: proto.Int32(2)},
				},
			},
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("ColorHolder"),
				Field: []*descriptorpb.FieldDescriptorProto{enumField("color", 1, ".fixtures.Color")},
			},
		},
	}
	return buildFile(fd).Messages().ByName("ColorHolder")
}

// WideMessage declares several scalar kinds across non-contiguous field
// numbers, for exercising the schema cursor's in-order fast path and its
// map-lookup fallback together.
func WideMessage() protoreflect.MessageDescriptor {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("fixtures_wide.proto"),
		Package: proto.String("fixtures"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Wide"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("a", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
					field("b", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					field("c", 5, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
					field("d", 7, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				},
			},
		},
	}
	return buildFile(fd).Messages().ByName("Wide")
}
