package matcher

import (
	"testing"

	"github.com/pippo1980/pbrowreader/internal/fixtures"
)

func TestMatchSimpleTopLevelField(t *testing.T) {
	root := fixtures.SingleInt32Message()
	s, err := Match(root, []Column{{Path: "value", Index: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := s.FieldByNumber(1)
	if !ok || !f.HasColumn() || f.ColumnIndex() != 0 {
		t.Fatalf("field 1 not bound to column 0: ok=%v field=%v", ok, f)
	}
}

func TestMatchDescendsIntoNestedMessage(t *testing.T) {
	root := fixtures.NestedWithStringMessage()
	s, err := Match(root, []Column{{Path: "inner.label", Index: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := s.FieldByNumber(2)
	if !ok {
		t.Fatalf("expected field 2 (inner) in schema")
	}
	nested := outer.Nested()
	if nested == nil {
		t.Fatalf("expected nested schema to be built")
	}
	inner, ok := nested.FieldByNumber(1)
	if !ok || !inner.HasColumn() || inner.ColumnIndex() != 3 {
		t.Fatalf("inner.label not bound: ok=%v field=%v", ok, inner)
	}
}

func TestMatchUnknownFieldNameCollectsError(t *testing.T) {
	root := fixtures.SingleInt32Message()
	_, err := Match(root, []Column{{Path: "doesnotexist", Index: 0}})
	if err == nil {
		t.Fatalf("expected MatchError for unknown field")
	}
}

func TestMatchCollectsAllErrorsAtOnce(t *testing.T) {
	root := fixtures.SingleInt32Message()
	_, err := Match(root, []Column{
		{Path: "missingA", Index: 0},
		{Path: "missingB", Index: 1},
	})
	me, ok := err.(*MatchError)
	if !ok {
		t.Fatalf("expected *MatchError, got %T", err)
	}
	if me.Errors.Len() != 2 {
		t.Fatalf("got %d errors, want 2", me.Errors.Len())
	}
}

func TestMatchRejectsDescendingIntoScalarField(t *testing.T) {
	root := fixtures.SingleInt32Message()
	_, err := Match(root, []Column{{Path: "value.nested", Index: 0}})
	if err == nil {
		t.Fatalf("expected error descending into a scalar field")
	}
}
