package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/pippo1980/pbrowreader/bytesource"
	"github.com/pippo1980/pbrowreader/convert"
	"github.com/pippo1980/pbrowreader/matcher"
	"github.com/pippo1980/pbrowreader/rowreader"
	"github.com/pippo1980/pbrowreader/schema"
)

var (
	decodeProtoFile   string
	decodeMessageName string
	decodeImportPaths []string
	decodeColumnSpecs []string
	decodeInputFile   string
	decodeRejectEnum  bool
)

var headerColor = color.New(color.FgCyan, color.Bold)

// column is one --column flag parsed into a schema path, an explicit target
// type to read it as, and (for the Decimal family) a scale.
type column struct {
	path  string
	as    string
	scale int32
	field *schema.Field
}

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a stream of length-prefixed protobuf messages into columns",
	Run:   runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(&decodeProtoFile, "proto", "", "path to the .proto file declaring the message, relative to --import-path (required)")
	decodeCmd.Flags().StringVar(&decodeMessageName, "message", "", "message name to decode, package prefix ignored (required)")
	decodeCmd.Flags().StringSliceVar(&decodeImportPaths, "import-path", []string{"."}, "proto import path, repeatable")
	decodeCmd.Flags().StringSliceVar(&decodeColumnSpecs, "column", nil, "dotted.field.path[:type[:scale]] to emit as a column, repeatable")
	decodeCmd.Flags().StringVar(&decodeInputFile, "input", "-", "file of length-prefixed messages to decode, - for stdin")
	decodeCmd.Flags().BoolVar(&decodeRejectEnum, "reject-unknown-enum", false, "fail instead of passing through an undeclared enum number")

	_ = decodeCmd.MarkFlagRequired("proto")
	_ = decodeCmd.MarkFlagRequired("message")
	_ = decodeCmd.MarkFlagRequired("column")
}

func runDecode(_ *cobra.Command, _ []string) {
	root, err := compileMessage(decodeProtoFile, decodeImportPaths, decodeMessageName)
	checkErr(err)

	columns, matchCols := parseColumns(decodeColumnSpecs)
	schemaRoot, err := matcher.Match(root, matchCols)
	if err != nil {
		bailf("schema mismatch: %v", err)
	}
	bindColumnFields(schemaRoot, columns)

	in, closeFn := openInput(decodeInputFile)
	defer closeFn()

	printHeader(columns)

	// Route --reject-unknown-enum through SetDefaultConfig rather than an
	// inline Config literal: Config{RejectUnknownEnumNumber: false} and the
	// Go zero value are the same bit pattern, and New treats an all-zero
	// Config as "none given" and substitutes the package default.
	rowreader.SetDefaultConfig(rowreader.Config{RejectUnknownEnumNumber: decodeRejectEnum})
	r := rowreader.New(bytesource.New(in), schemaRoot, rowreader.Config{})
	rowNum := 0
	for {
		ok, err := r.StartMessage()
		checkErr(err)
		if !ok {
			break
		}
		row, err := decodeRow(r, columns)
		checkErr(err)
		checkErr(r.EndMessage())
		printRow(rowNum, row)
		rowNum++
	}
}

// compileMessage compiles protoFile (and whatever it imports from
// importPaths) and returns the named message's descriptor.
func compileMessage(protoFile string, importPaths []string, messageName string) (protoreflect.MessageDescriptor, error) {
	compiler := protocompile.Compiler{
		Resolver: &protocompile.SourceResolver{ImportPaths: importPaths},
	}
	files, err := compiler.Compile(context.Background(), protoFile)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", protoFile, err)
	}
	msg := files[0].Messages().ByName(protoreflect.Name(lastPathComponent(messageName)))
	if msg == nil {
		return nil, fmt.Errorf("message %q not found in %s", messageName, protoFile)
	}
	return msg, nil
}

func lastPathComponent(name string) string {
	parts := strings.Split(name, ".")
	return parts[len(parts)-1]
}

func parseColumns(specs []string) ([]*column, []matcher.Column) {
	columns := make([]*column, 0, len(specs))
	matchCols := make([]matcher.Column, 0, len(specs))
	for i, spec := range specs {
		parts := strings.Split(spec, ":")
		col := &column{path: parts[0]}
		if len(parts) > 1 {
			col.as = parts[1]
		}
		if len(parts) > 2 {
			scale, err := strconv.Atoi(parts[2])
			checkErr(err)
			col.scale = int32(scale)
		}
		columns = append(columns, col)
		matchCols = append(matchCols, matcher.Column{Path: col.path, Index: i})
	}
	return columns, matchCols
}

// bindColumnFields records, on each column, the schema.Field the matcher
// bound it to — readByKind needs the field's declared kind when the column
// names no type, and the enum8/enum16 types need its enum descriptor.
func bindColumnFields(root *schema.Message, columns []*column) {
	byIndex := make(map[int]*schema.Field)
	collectBoundFields(root, byIndex)
	for i, col := range columns {
		col.field = byIndex[i]
	}
}

func collectBoundFields(msg *schema.Message, out map[int]*schema.Field) {
	for _, f := range msg.Fields() {
		if f.HasColumn() {
			out[f.ColumnIndex()] = f
		}
		if nested := f.Nested(); nested != nil {
			collectBoundFields(nested, out)
		}
	}
}

func openInput(path string) (io.Reader, func()) {
	if path == "-" {
		return os.Stdin, func() {}
	}
	f, err := os.Open(path)
	checkErr(err)
	return f, func() { _ = f.Close() }
}

func printHeader(columns []*column) {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.path
	}
	headerColor.Println(strings.Join(names, "\t"))
}

func printRow(rowNum int, values []string) {
	fmt.Printf("%d\t%s\n", rowNum, strings.Join(values, "\t"))
}

// decodeRow drains the current message frame, descending automatically into
// any nested message the schema needs, and returns the emitted values in
// column order.
func decodeRow(r *rowreader.Reader, columns []*column) ([]string, error) {
	row := make([]string, len(columns))
	return row, readFrame(r, columns, row)
}

func readFrame(r *rowreader.Reader, columns []*column, row []string) error {
	for {
		colIndex, _, err := r.ReadColumnIndex()
		if err != nil {
			return err
		}
		switch colIndex {
		case rowreader.EndOfMessage:
			return nil
		case rowreader.NestedMessageField:
			if _, err := r.StartMessage(); err != nil {
				return err
			}
			if err := readFrame(r, columns, row); err != nil {
				return err
			}
			if err := r.EndMessage(); err != nil {
				return err
			}
		default:
			text, err := readColumnText(r, columns[colIndex])
			if err != nil {
				return err
			}
			row[colIndex] = text
		}
	}
}

// readColumnText reads one value for col using the target type the caller
// named in its --column spec, falling back to the natural Go representation
// of the field's declared protobuf kind when none was given.
func readColumnText(r *rowreader.Reader, col *column) (string, error) {
	switch col.as {
	case "uuid":
		v, _, err := r.ReadUUID()
		return v.String(), err
	case "date":
		v, _, err := r.ReadDate()
		return strconv.FormatUint(uint64(v), 10), err
	case "datetime":
		v, _, err := r.ReadDateTime()
		return strconv.FormatInt(int64(v), 10), err
	case "decimal32":
		v, _, err := r.ReadDecimal32(col.scale)
		return v.String(), err
	case "decimal64":
		v, _, err := r.ReadDecimal64(col.scale)
		return v.String(), err
	case "decimal128":
		v, _, err := r.ReadDecimal128(col.scale)
		return v.String(), err
	case "enum8":
		if col.field == nil {
			return "", fmt.Errorf("column %q: no schema field bound", col.path)
		}
		r.PrepareEnumMapping8(identityEnumMapping(col.field))
		v, _, err := r.ReadEnum8()
		return strconv.FormatInt(int64(v), 10), err
	case "enum16":
		if col.field == nil {
			return "", fmt.Errorf("column %q: no schema field bound", col.path)
		}
		r.PrepareEnumMapping16(identityEnumMapping(col.field))
		v, _, err := r.ReadEnum16()
		return strconv.FormatInt(int64(v), 10), err
	case "aggregatefunction":
		v, _, err := r.ReadAggregateFunction()
		return hex.EncodeToString(v), err
	case "bytes":
		v, _, err := r.ReadBytes()
		return hex.EncodeToString(v), err
	case "string", "":
		return readByKind(r, col)
	default:
		return "", fmt.Errorf("column %q: unknown column type %q", col.path, col.as)
	}
}

// identityEnumMapping builds the (name, value) pairs PrepareEnumMapping8/16
// need straight from f's own proto enum descriptor, so the enum8/enum16
// column types reproduce the wire number unless the target enum is later made explicit
// on the command line.
func identityEnumMapping(f *schema.Field) []convert.EnumMapping {
	values := f.Descriptor().Enum().Values()
	pairs := make([]convert.EnumMapping, values.Len())
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		pairs[i] = convert.EnumMapping{Name: string(v.Name()), Value: int64(v.Number())}
	}
	return pairs
}

// readByKind reads using the typed method matching the field's own
// protobuf kind, for columns whose --column spec names no type (or "string").
func readByKind(r *rowreader.Reader, col *column) (string, error) {
	if col.field == nil {
		return "", fmt.Errorf("column %q: no schema field bound", col.path)
	}
	switch col.field.Descriptor().Kind() {
	case protoreflect.BoolKind:
		v, _, err := r.ReadBool()
		return strconv.FormatBool(v), err
	case protoreflect.StringKind:
		v, _, err := r.ReadString()
		return v, err
	case protoreflect.BytesKind:
		v, _, err := r.ReadBytes()
		return hex.EncodeToString(v), err
	case protoreflect.EnumKind:
		v, _, err := r.ReadString()
		return v, err
	case protoreflect.FloatKind:
		v, _, err := r.ReadFloat32()
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	case protoreflect.DoubleKind:
		v, _, err := r.ReadFloat64()
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		v, _, err := r.ReadInt32()
		return strconv.FormatInt(int64(v), 10), err
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		v, _, err := r.ReadInt64()
		return strconv.FormatInt(v, 10), err
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		v, _, err := r.ReadUInt32()
		return strconv.FormatUint(uint64(v), 10), err
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		v, _, err := r.ReadUInt64()
		return strconv.FormatUint(v, 10), err
	default:
		return "", fmt.Errorf("column %q: unsupported field kind %s", col.path, col.field.Descriptor().Kind())
	}
}
