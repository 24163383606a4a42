// Package matcher builds the schema tree the cursor walks, by pairing
// caller-supplied dotted column names against a root message descriptor.
// It is the one place proto field names and caller column names meet; wire
// and schema never see a column name, only field numbers.
package matcher

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/pippo1980/pbrowreader/schema"
	"github.com/pippo1980/pbrowreader/wire"
)

// Column is one output slot the caller wants populated: a dotted path into
// the message (e.g. "address.city" for a nested field) and the index the
// façade should write decoded values to.
type Column struct {
	Path  string
	Index int
}

// MatchError collects every column that failed to resolve against the
// schema, so a caller configuring N columns sees all N problems at once
// rather than stopping at the first.
type MatchError struct {
	Errors *multierror.Error
}

func (e *MatchError) Error() string { return e.Errors.Error() }

// Unwrap exposes the underlying multierror for errors.Is/As chains.
func (e *MatchError) Unwrap() error { return e.Errors }

// Match builds the schema.Message tree rooted at root, with exactly the
// fields named by columns bound to their caller-supplied index, and every
// intermediate message on a dotted path present (but unbound) purely to
// support descent.
func Match(root protoreflect.MessageDescriptor, columns []Column) (*schema.Message, error) {
	rootSchema := schema.NewMessage(root)
	var errs *multierror.Error

	for _, col := range columns {
		if err := bindPath(rootSchema, root, strings.Split(col.Path, "."), col.Index); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("column %q: %w", col.Path, err))
		}
	}

	if errs != nil {
		return rootSchema, &MatchError{Errors: errs}
	}
	return rootSchema, nil
}

// bindPath resolves one dotted path against msgSchema/msgDesc, descending
// through intermediate nested-message components (building and caching
// their schema.Message on first visit) and binding the final component to
// columnIndex.
func bindPath(msgSchema *schema.Message, msgDesc protoreflect.MessageDescriptor, path []string, columnIndex int) error {
	if len(path) == 0 {
		return fmt.Errorf("empty column path")
	}

	fd := msgDesc.Fields().ByName(protoreflect.Name(path[0]))
	if fd == nil {
		return fmt.Errorf("field %q not declared on message %s", path[0], msgDesc.FullName())
	}
	field, ok := msgSchema.FieldByNumber(wire.FieldNumber(fd.Number()))
	if !ok {
		return fmt.Errorf("internal error: field %q missing from schema tree", path[0])
	}

	if len(path) == 1 {
		field.BindColumn(columnIndex)
		return nil
	}

	if !field.IsNestedMessage() {
		return fmt.Errorf("field %q is not a message, cannot descend into %q", path[0], strings.Join(path[1:], "."))
	}

	nested := field.Nested()
	if nested == nil {
		nested = schema.NewMessage(fd.Message())
		field.BindNested(nested)
	}
	return bindPath(nested, fd.Message(), path[1:], columnIndex)
}
