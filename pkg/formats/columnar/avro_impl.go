package columnar

import (
	"fmt"
	"io"

	"github.com/linkedin/goavro/v2"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/json"
)

// avroWriter writes arrays as Avro object container files. Every attribute
// except the leading id is a ["null", T] union so absent values persist as
// nulls; three-phase attributes are arrays of three elements.
type avroWriter struct {
	schema *dataset.Schema
	ocf    *goavro.OCFWriter
	rows   int64
}

func newAvroWriter(w io.Writer, component string, schema *dataset.Schema) (*avroWriter, error) {
	schemaJSON, err := avroSchemaFor(component, schema)
	if err != nil {
		return nil, err
	}
	codec, err := goavro.NewCodec(schemaJSON)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "building avro codec")
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: goavro.CompressionSnappyLabel,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "creating avro file writer")
	}
	return &avroWriter{schema: schema, ocf: ocf}, nil
}

func (w *avroWriter) Write(arr *dataset.Array) error {
	if err := checkWriterSchema(w.schema, arr); err != nil {
		return err
	}
	rows := make([]interface{}, arr.Len())
	for row := 0; row < arr.Len(); row++ {
		native := make(map[string]interface{}, w.schema.Len())
		for ci := 0; ci < w.schema.Len(); ci++ {
			attr := w.schema.At(ci)
			col := arr.ColumnAt(ci)
			if ci == 0 {
				// id is required and written as is, sentinel included.
				native[attr.Name] = col.Value(row)
				continue
			}
			if col.Absent(row) {
				native[attr.Name] = nil
				continue
			}
			native[attr.Name] = goavro.Union(avroBranch(attr), avroNative(col.Value(row)))
		}
		rows[row] = native
	}
	if err := w.ocf.Append(rows); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing avro records")
	}
	w.rows += int64(arr.Len())
	return nil
}

// Close is a no-op: the object container format finalizes every block in
// Append.
func (w *avroWriter) Close() error { return nil }

func (w *avroWriter) Format() Format { return Avro }

func (w *avroWriter) RowsWritten() int64 { return w.rows }

// avroReader reads an Avro object container file into a single array.
type avroReader struct {
	schema *dataset.Schema
	ocf    *goavro.OCFReader
}

func newAvroReader(r io.Reader, schema *dataset.Schema) (*avroReader, error) {
	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening avro file")
	}
	return &avroReader{schema: schema, ocf: ocf}, nil
}

func (r *avroReader) Read() (*dataset.Array, error) {
	natives := make([]map[string]interface{}, 0)
	for r.ocf.Scan() {
		datum, err := r.ocf.Read()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading avro record")
		}
		obj, ok := datum.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat,
				"avro datum is %T, not a record", datum)
		}
		natives = append(natives, obj)
	}
	if err := r.ocf.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "scanning avro file")
	}

	arr, err := dataset.NewArray(r.schema, len(natives))
	if err != nil {
		return nil, err
	}
	for row, obj := range natives {
		for name, raw := range obj {
			col, ok := arr.Column(name)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeUnknownAttribute,
					"file field %q is not in the target schema", name).
					WithDetail("attribute", name)
			}
			value, present := unwrapAvroUnion(raw)
			if !present {
				continue
			}
			if err := col.Set(row, value); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeInvalidAttributeValue,
					fmt.Sprintf("file field %q row %d", name, row))
			}
		}
	}
	return arr, nil
}

func (r *avroReader) Close() error { return nil }

func (r *avroReader) Format() Format { return Avro }

func (r *avroReader) Schema() *dataset.Schema { return r.schema }

// avroSchemaFor renders the Avro record schema for one component.
func avroSchemaFor(component string, schema *dataset.Schema) (string, error) {
	if component == "" {
		component = "component"
	}
	fields := make([]map[string]interface{}, 0, schema.Len())
	for i := 0; i < schema.Len(); i++ {
		attr := schema.At(i)
		typ, err := avroTypeFor(attr)
		if err != nil {
			return "", err
		}
		if i == 0 {
			fields = append(fields, map[string]interface{}{
				"name": attr.Name,
				"type": typ,
			})
			continue
		}
		fields = append(fields, map[string]interface{}{
			"name":    attr.Name,
			"type":    []interface{}{"null", typ},
			"default": nil,
		})
	}
	record := map[string]interface{}{
		"type":   "record",
		"name":   component,
		"fields": fields,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "marshaling avro schema")
	}
	return string(data), nil
}

func avroTypeFor(attr dataset.Attribute) (interface{}, error) {
	var elem string
	switch attr.Kind {
	case dataset.Float64:
		elem = "double"
	case dataset.Int32, dataset.Int8:
		// Avro has no narrow integers; i1 widens to int.
		elem = "int"
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedKind,
			"attribute %q has unsupported kind %s", attr.Name, attr.Kind)
	}
	if attr.Size > 1 {
		return map[string]interface{}{"type": "array", "items": elem}, nil
	}
	return elem, nil
}

// avroBranch names the non-null union branch for goavro.Union.
func avroBranch(attr dataset.Attribute) string {
	if attr.Size > 1 {
		return "array"
	}
	if attr.Kind == dataset.Float64 {
		return "double"
	}
	return "int"
}

// avroNative reshapes vector values into the []interface{} form goavro
// encodes.
func avroNative(value interface{}) interface{} {
	switch vec := value.(type) {
	case []float64:
		out := make([]interface{}, len(vec))
		for i, v := range vec {
			out[i] = v
		}
		return out
	case []int:
		out := make([]interface{}, len(vec))
		for i, v := range vec {
			out[i] = v
		}
		return out
	default:
		return value
	}
}

// unwrapAvroUnion strips the single-key map goavro decodes union values
// into. Nulls report present == false.
func unwrapAvroUnion(value interface{}) (interface{}, bool) {
	if value == nil {
		return nil, false
	}
	if m, ok := value.(map[string]interface{}); ok {
		for _, inner := range m {
			return inner, inner != nil
		}
		return nil, false
	}
	return value, true
}
