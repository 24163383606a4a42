// Package rowreader is the host-facing façade: it ties the low-level wire
// reader, the schema cursor, and the conversion matrix together into the
// call sequence a columnar ingestion pipeline actually drives — start a
// message, ask which column the next field feeds, read it as whatever
// type that column is, repeat, end the message.
package rowreader

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pippo1980/pbrowreader/bytesource"
	"github.com/pippo1980/pbrowreader/convert"
	"github.com/pippo1980/pbrowreader/schema"
	"github.com/pippo1980/pbrowreader/wire"
)

// EndOfMessage is returned by ReadColumnIndex when the current frame has no
// more fields.
const EndOfMessage = -1

// NestedMessageField is returned by ReadColumnIndex when the next field is
// a nested message (or legacy group) the caller must descend into via
// StartMessage before continuing to read fields at the current level.
const NestedMessageField = -2

// Reader decodes a stream of root messages against one fixed schema tree,
// handing back values only for the columns the caller bound via the
// matcher. It is single-threaded and keeps no internal goroutines; see the
// package doc on wire.Reader for the concurrency model this inherits.
type Reader struct {
	wireReader *wire.Reader
	config     Config

	schemaStack []*schema.Message
	cursorStack []*schema.Cursor

	pendingField  *schema.Field
	pendingNested *schema.Message
}

// New creates a Reader over src, decoding against root (typically built by
// package matcher). An explicit Config of its zero value falls back to the
// package's default Config, which init() may have adjusted from the
// environment.
func New(src bytesource.ByteSource, root *schema.Message, cfg Config) *Reader {
	effective := cfg
	if effective == (Config{}) {
		effective = defaultConfig
	}
	wr := wire.New(src)
	wr.SetMaxGroupDepth(effective.groupDepth())
	return &Reader{
		wireReader:  wr,
		config:      effective,
		schemaStack: []*schema.Message{root},
		cursorStack: []*schema.Cursor{schema.NewCursor(root)},
	}
}

func (r *Reader) currentCursor() *schema.Cursor { return r.cursorStack[len(r.cursorStack)-1] }

// StartMessage begins a new message frame: a root message when called at
// the outermost level, or the nested message named by the most recent
// NestedMessageField result. It returns (false, nil) on a clean end of
// stream at the root level.
func (r *Reader) StartMessage() (bool, error) {
	ok, err := r.wireReader.StartMessage()
	if err != nil || !ok {
		return ok, err
	}
	if r.pendingNested != nil {
		r.schemaStack = append(r.schemaStack, r.pendingNested)
		r.cursorStack = append(r.cursorStack, schema.NewCursor(r.pendingNested))
		r.pendingNested = nil
	} else {
		r.currentCursor().Reset()
	}
	return true, nil
}

// EndMessage closes the current frame, skipping any unread trailing field
// and, below the root, popping back to the parent frame's schema and
// cursor.
func (r *Reader) EndMessage() error {
	if err := r.wireReader.EndMessage(); err != nil {
		return err
	}
	if len(r.schemaStack) > 1 {
		r.schemaStack = r.schemaStack[:len(r.schemaStack)-1]
		r.cursorStack = r.cursorStack[:len(r.cursorStack)-1]
	}
	return nil
}

// EndRootMessage unconditionally discards any open frames (including
// nested ones the caller never finished descending out of) and resets to
// the root schema. Callers use this to recover after abandoning a message
// partway through, e.g. after a fatal error on one row of a batch.
func (r *Reader) EndRootMessage() error {
	if err := r.wireReader.EndRootMessage(); err != nil {
		return err
	}
	r.schemaStack = r.schemaStack[:1]
	r.cursorStack = r.cursorStack[:1]
	r.pendingNested = nil
	r.pendingField = nil
	return nil
}

// ReadColumnIndex advances to the next field the schema cares about,
// silently skipping (at the wire level) any field with neither a bound
// column nor a nested schema to descend into. It returns EndOfMessage once
// the frame is exhausted, or NestedMessageField if the caller must now
// call StartMessage to descend before reading further fields at this
// level.
func (r *Reader) ReadColumnIndex() (columnIndex int, wt wire.WireType, err error) {
	cursor := r.currentCursor()
	for {
		number, wireType, ok, err := r.wireReader.ReadFieldNumber()
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return EndOfMessage, 0, nil
		}

		field, found := cursor.Lookup(number)
		if !found {
			if err := r.wireReader.SkipField(wireType); err != nil {
				return 0, 0, err
			}
			continue
		}

		if field.IsNestedMessage() {
			if field.Nested() == nil {
				if err := r.wireReader.SkipField(wireType); err != nil {
					return 0, 0, err
				}
				continue
			}
			r.pendingNested = field.Nested()
			return NestedMessageField, wireType, nil
		}

		if !field.HasColumn() {
			if err := r.wireReader.SkipField(wireType); err != nil {
				return 0, 0, err
			}
			continue
		}

		r.pendingField = field
		return field.ColumnIndex(), wireType, nil
	}
}

// nextSource pulls the next raw value for the pending field directly off
// the wire, choosing the read primitive by the field's declared kind, and
// wraps it as the Source the conversion matrix dispatches on. ok is false
// once a VARINT/BITS32/BITS64 field has yielded its one value, or once a
// packed-repeated field's payload is drained — exactly the wire.Reader
// repeatable-read convention, one level up.
func (r *Reader) nextSource() (convert.Source, bool, error) {
	f := r.pendingField
	kind := f.Descriptor().Kind()

	switch kind {
	case protoreflect.BoolKind:
		v, ok, err := r.wireReader.ReadUInt()
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		return convert.BoolSource(v != 0), true, nil

	case protoreflect.EnumKind:
		v, ok, err := r.wireReader.ReadInt()
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		number := int32(v)
		if r.config.RejectUnknownEnumNumber {
			if f.Descriptor().Enum().Values().ByNumber(protoreflect.EnumNumber(number)) == nil {
				return convert.Source{}, false, &convert.CastError{
					Field:      f.Name(),
					SourceKind: convert.SourceEnum,
					Target:     "enum",
					Reason:     fmt.Sprintf("number %d is not declared on enum %s", number, f.Descriptor().Enum().FullName()),
				}
			}
		}
		return convert.EnumSource(number), true, nil

	case protoreflect.StringKind, protoreflect.BytesKind:
		b, ok, err := r.wireReader.ReadStringInto(nil)
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		return convert.StringSource(b), true, nil

	case protoreflect.FloatKind, protoreflect.Sfixed32Kind, protoreflect.Fixed32Kind:
		bits, ok, err := r.wireReader.ReadFixed32()
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		var u64 uint64
		if kind == protoreflect.Sfixed32Kind {
			u64 = uint64(int64(int32(bits)))
		} else {
			u64 = uint64(bits)
		}
		return convert.NumberSource(u64), true, nil

	case protoreflect.DoubleKind, protoreflect.Sfixed64Kind, protoreflect.Fixed64Kind:
		bits, ok, err := r.wireReader.ReadFixed64()
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		return convert.NumberSource(bits), true, nil

	case protoreflect.Int32Kind, protoreflect.Int64Kind:
		v, ok, err := r.wireReader.ReadInt()
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		return convert.NumberSource(uint64(v)), true, nil

	case protoreflect.Sint32Kind, protoreflect.Sint64Kind:
		v, ok, err := r.wireReader.ReadSInt()
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		return convert.NumberSource(uint64(v)), true, nil

	case protoreflect.Uint32Kind, protoreflect.Uint64Kind:
		v, ok, err := r.wireReader.ReadUInt()
		if !ok || err != nil {
			return convert.Source{}, ok, err
		}
		return convert.NumberSource(v), true, nil

	default:
		return convert.Source{}, false, fmt.Errorf("rowreader: unsupported field kind %s", kind)
	}
}

// wrapCastErr attaches the pending field's name to a *convert.CastError so
// the caller sees which column failed, leaving any other error untouched.
func (r *Reader) wrapCastErr(err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*convert.CastError); ok && ce.Field == "" {
		ce.Field = r.pendingField.Name()
	}
	return err
}

// converter returns the pending field's bound Converter, building and
// caching it on first use.
func (r *Reader) converter() convert.Converter {
	f := r.pendingField
	if c := f.Converter(); c != nil {
		return c
	}
	c := convert.New(f.Descriptor())
	f.BindConverter(c)
	return c
}

// ReadInt8 reads the next value of the pending column as Int8. Like every
// typed Read method, ok is false once the field (or, for a packed-repeated
// field, its whole payload) is exhausted.
func (r *Reader) ReadInt8() (int8, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadInt8(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadInt16() (int16, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadInt16(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadInt32() (int32, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadInt32(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadInt64() (int64, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadInt64(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadUInt8() (uint8, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadUInt8(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadUInt16() (uint16, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadUInt16(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadUInt32() (uint32, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadUInt32(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadUInt64() (uint64, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadUInt64(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadFloat32() (float32, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadFloat32(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadFloat64() (float64, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadFloat64(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadBool() (bool, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return false, ok, err
	}
	v, err := r.converter().ReadBool(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadString() (string, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return "", ok, err
	}
	v, err := r.converter().ReadString(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadBytes() ([]byte, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return nil, ok, err
	}
	v, err := r.converter().ReadBytes(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadUUID() (uuid.UUID, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return uuid.UUID{}, ok, err
	}
	v, err := r.converter().ReadUUID(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadDate() (convert.Date, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadDate(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadDateTime() (convert.DateTime, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadDateTime(src)
	return v, true, r.wrapCastErr(err)
}

// PrepareEnumMapping8 supplies the pending Enum8 column's target (name,
// value) pairs, for the converter to intersect by name against its proto
// enum descriptor. Call this once, right after ReadColumnIndex selects the
// column, before the first ReadEnum8 call on it.
func (r *Reader) PrepareEnumMapping8(pairs []convert.EnumMapping) {
	r.converter().PrepareEnumMapping8(pairs)
}

// PrepareEnumMapping16 is PrepareEnumMapping8 for an Enum16 target.
func (r *Reader) PrepareEnumMapping16(pairs []convert.EnumMapping) {
	r.converter().PrepareEnumMapping16(pairs)
}

func (r *Reader) ReadEnum8() (int8, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadEnum8(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadEnum16() (int16, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return 0, ok, err
	}
	v, err := r.converter().ReadEnum16(src)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadDecimal32(scale int32) (decimal.Decimal, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return decimal.Decimal{}, ok, err
	}
	v, err := r.converter().ReadDecimal32(src, scale)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadDecimal64(scale int32) (decimal.Decimal, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return decimal.Decimal{}, ok, err
	}
	v, err := r.converter().ReadDecimal64(src, scale)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadDecimal128(scale int32) (decimal.Decimal, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return decimal.Decimal{}, ok, err
	}
	v, err := r.converter().ReadDecimal128(src, scale)
	return v, true, r.wrapCastErr(err)
}

func (r *Reader) ReadAggregateFunction() ([]byte, bool, error) {
	src, ok, err := r.nextSource()
	if !ok || err != nil {
		return nil, ok, err
	}
	v, err := r.converter().ReadAggregateFunction(src)
	return v, true, r.wrapCastErr(err)
}
