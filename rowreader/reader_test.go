package rowreader

import (
	"testing"

	"github.com/pippo1980/pbrowreader/bytesource"
	"github.com/pippo1980/pbrowreader/internal/fixtures"
	"github.com/pippo1980/pbrowreader/matcher"
	"github.com/pippo1980/pbrowreader/wire"
)

func encodeVarint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func encodeTag(number wire.FieldNumber, wt wire.WireType) []byte {
	return encodeVarint(uint64(wire.MakeTag(number, wt)))
}

func encodeLengthDelimited(number wire.FieldNumber, payload []byte) []byte {
	var out []byte
	out = append(out, encodeTag(number, wire.LengthDelimited)...)
	out = append(out, encodeVarint(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

func withRootLength(payload []byte) []byte {
	var out []byte
	out = append(out, encodeVarint(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

func TestReaderReadsBoundScalarColumn(t *testing.T) {
	root := fixtures.SingleInt32Message()
	s, err := matcher.Match(root, []matcher.Column{{Path: "value", Index: 0}})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	message := append(encodeTag(1, wire.Varint), encodeVarint(uint64(int64(42)))...)
	stream := withRootLength(message)

	r := New(bytesource.NewRewindable(stream), s, Config{})
	ok, err := r.StartMessage()
	if err != nil || !ok {
		t.Fatalf("StartMessage: ok=%v err=%v", ok, err)
	}

	col, _, err := r.ReadColumnIndex()
	if err != nil || col != 0 {
		t.Fatalf("ReadColumnIndex: col=%d err=%v", col, err)
	}
	v, ok, err := r.ReadInt32()
	if err != nil || !ok || v != 42 {
		t.Fatalf("ReadInt32: v=%d ok=%v err=%v", v, ok, err)
	}

	col, _, err = r.ReadColumnIndex()
	if err != nil || col != EndOfMessage {
		t.Fatalf("expected EndOfMessage, got col=%d err=%v", col, err)
	}
	if err := r.EndMessage(); err != nil {
		t.Fatalf("EndMessage: %v", err)
	}
}

func TestReaderSkipsUnboundFields(t *testing.T) {
	root := fixtures.WideMessage()
	s, err := matcher.Match(root, []matcher.Column{{Path: "c", Index: 5}})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	message := append(encodeTag(1, wire.Varint), encodeVarint(1)...)
	message = append(message, encodeTag(5, wire.Varint)...)
	message = append(message, encodeVarint(1)...) // bool true
	stream := withRootLength(message)

	r := New(bytesource.NewRewindable(stream), s, Config{})
	if ok, err := r.StartMessage(); err != nil || !ok {
		t.Fatalf("StartMessage: ok=%v err=%v", ok, err)
	}

	col, _, err := r.ReadColumnIndex()
	if err != nil || col != 5 {
		t.Fatalf("expected column 5 (field a skipped), got col=%d err=%v", col, err)
	}
	v, ok, err := r.ReadBool()
	if err != nil || !ok || !v {
		t.Fatalf("ReadBool: v=%v ok=%v err=%v", v, ok, err)
	}
}

func TestReaderDescendsIntoNestedMessage(t *testing.T) {
	root := fixtures.NestedWithStringMessage()
	s, err := matcher.Match(root, []matcher.Column{{Path: "inner.label", Index: 0}})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	inner := encodeLengthDelimited(1, []byte("hi"))
	message := encodeLengthDelimited(2, inner)
	stream := withRootLength(message)

	r := New(bytesource.NewRewindable(stream), s, Config{})
	if ok, err := r.StartMessage(); err != nil || !ok {
		t.Fatalf("StartMessage: ok=%v err=%v", ok, err)
	}

	col, _, err := r.ReadColumnIndex()
	if err != nil || col != NestedMessageField {
		t.Fatalf("expected NestedMessageField, got col=%d err=%v", col, err)
	}
	if ok, err := r.StartMessage(); err != nil || !ok {
		t.Fatalf("StartMessage (nested): ok=%v err=%v", ok, err)
	}

	innerCol, _, err := r.ReadColumnIndex()
	if err != nil || innerCol != 0 {
		t.Fatalf("ReadColumnIndex (nested): col=%d err=%v", innerCol, err)
	}
	str, ok, err := r.ReadString()
	if err != nil || !ok || str != "hi" {
		t.Fatalf("ReadString: %q ok=%v err=%v", str, ok, err)
	}
	if err := r.EndMessage(); err != nil {
		t.Fatalf("EndMessage (nested): %v", err)
	}
	if err := r.EndMessage(); err != nil {
		t.Fatalf("EndMessage (outer): %v", err)
	}
}

func TestReaderDrainsPackedRepeatedField(t *testing.T) {
	root := fixtures.PackedRepeatedInt32Message()
	s, err := matcher.Match(root, []matcher.Column{{Path: "values", Index: 0}})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	packed := append(encodeVarint(1), append(encodeVarint(2), encodeVarint(3)...)...)
	message := encodeLengthDelimited(1, packed)
	stream := withRootLength(message)

	r := New(bytesource.NewRewindable(stream), s, Config{})
	if ok, err := r.StartMessage(); err != nil || !ok {
		t.Fatalf("StartMessage: ok=%v err=%v", ok, err)
	}
	col, _, err := r.ReadColumnIndex()
	if err != nil || col != 0 {
		t.Fatalf("ReadColumnIndex: col=%d err=%v", col, err)
	}

	var got []int32
	for {
		v, ok, err := r.ReadInt32()
		if err != nil {
			t.Fatalf("ReadInt32: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []int32{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestReaderRejectsUnknownEnumNumberByDefault(t *testing.T) {
	root := fixtures.ColorEnumMessage()
	s, err := matcher.Match(root, []matcher.Column{{Path: "color", Index: 0}})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	message := append(encodeTag(1, wire.Varint), encodeVarint(99)...) // undeclared
	stream := withRootLength(message)

	r := New(bytesource.NewRewindable(stream), s, Config{})
	if ok, err := r.StartMessage(); err != nil || !ok {
		t.Fatalf("StartMessage: ok=%v err=%v", ok, err)
	}
	if col, _, err := r.ReadColumnIndex(); err != nil || col != 0 {
		t.Fatalf("ReadColumnIndex: col=%d err=%v", col, err)
	}
	if _, _, err := r.ReadString(); err == nil {
		t.Fatalf("expected the default Config to reject an undeclared enum number")
	}
}

func TestReaderEnumFieldAsString(t *testing.T) {
	root := fixtures.ColorEnumMessage()
	s, err := matcher.Match(root, []matcher.Column{{Path: "color", Index: 0}})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	message := append(encodeTag(1, wire.Varint), encodeVarint(1)...) // GREEN
	stream := withRootLength(message)

	r := New(bytesource.NewRewindable(stream), s, Config{})
	if ok, err := r.StartMessage(); err != nil || !ok {
		t.Fatalf("StartMessage: ok=%v err=%v", ok, err)
	}
	if col, _, err := r.ReadColumnIndex(); err != nil || col != 0 {
		t.Fatalf("ReadColumnIndex: col=%d err=%v", col, err)
	}
	name, ok, err := r.ReadString()
	if err != nil || !ok || name != "GREEN" {
		t.Fatalf("ReadString: %q ok=%v err=%v", name, ok, err)
	}
}
