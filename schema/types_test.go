package schema

import (
	"testing"

	"github.com/pippo1980/pbrowreader/internal/fixtures"
)

func TestNewMessageOrdersFieldsByNumber(t *testing.T) {
	msg := NewMessage(fixtures.WideMessage())
	fields := msg.Fields()
	if len(fields) != 4 {
		t.Fatalf("got %d fields, want 4", len(fields))
	}
	wantOrder := []int32{1, 3, 5, 7}
	for i, want := range wantOrder {
		if int32(fields[i].Number()) != want {
			t.Fatalf("fields[%d].Number() = %d, want %d", i, fields[i].Number(), want)
		}
	}
}

func TestFieldByNumberFallback(t *testing.T) {
	msg := NewMessage(fixtures.WideMessage())
	f, ok := msg.FieldByNumber(5)
	if !ok {
		t.Fatalf("expected field 5 to exist")
	}
	if f.Name() != "c" {
		t.Fatalf("got field %q, want %q", f.Name(), "c")
	}
	if _, ok := msg.FieldByNumber(6); ok {
		t.Fatalf("expected field 6 to be absent")
	}
}

func TestBindColumnAndNested(t *testing.T) {
	msg := NewMessage(fixtures.NestedWithStringMessage())
	f, ok := msg.FieldByNumber(2)
	if !ok {
		t.Fatalf("expected field 2 (inner) to exist")
	}
	if f.HasColumn() {
		t.Fatalf("expected field to start unbound")
	}
	f.BindColumn(0)
	if !f.HasColumn() || f.ColumnIndex() != 0 {
		t.Fatalf("BindColumn did not take effect")
	}

	inner := NewMessage(fixtures.NestedWithStringMessage().Fields().ByNumber(2).Message())
	f.BindNested(inner)
	if f.Nested() != inner {
		t.Fatalf("BindNested did not take effect")
	}
}

func TestHasBoundColumns(t *testing.T) {
	msg := NewMessage(fixtures.WideMessage())
	if msg.HasBoundColumns() {
		t.Fatalf("fresh message should have no bound columns")
	}
	f, _ := msg.FieldByNumber(3)
	f.BindColumn(0)
	if !msg.HasBoundColumns() {
		t.Fatalf("expected HasBoundColumns to be true after binding")
	}
}

func TestIsPackable(t *testing.T) {
	msg := NewMessage(fixtures.PackedRepeatedInt32Message())
	f, ok := msg.FieldByNumber(1)
	if !ok {
		t.Fatalf("expected field 1 to exist")
	}
	if !f.IsRepeated() {
		t.Fatalf("expected field to be repeated")
	}
	if !f.IsPackable() {
		t.Fatalf("expected int32 field to be packable")
	}
}

func TestNestedMessageDetection(t *testing.T) {
	msg := NewMessage(fixtures.NestedWithStringMessage())
	f, ok := msg.FieldByNumber(2)
	if !ok || !f.IsNestedMessage() {
		t.Fatalf("expected field 2 to be detected as a nested message")
	}
}
