package columnar

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// componentMetadataKey names the schema metadata entry that records which
// component a file holds.
const componentMetadataKey = "power_grid_model:component"

// arrowWriter writes arrays as Arrow IPC file record batches, one batch per
// Write call.
type arrowWriter struct {
	schema      *dataset.Schema
	arrowSchema *arrow.Schema
	builder     *array.RecordBuilder
	file        *ipc.FileWriter
	rows        int64
}

// seekTracker adapts an io.Writer to the io.WriteSeeker wanted by
// ipc.NewFileWriter. The IPC file writer writes strictly sequentially and
// only calls Seek(0, io.SeekCurrent) to learn the current offset, so
// counting written bytes is enough.
type seekTracker struct {
	w   io.Writer
	pos int64
}

func (s *seekTracker) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.pos += int64(n)
	return n, err
}

func (s *seekTracker) Seek(offset int64, whence int) (int64, error) {
	if offset == 0 && whence == io.SeekCurrent {
		return s.pos, nil
	}
	return 0, fmt.Errorf("arrow writer: unsupported seek (offset %d, whence %d)", offset, whence)
}

func newArrowWriter(w io.Writer, component string, schema *dataset.Schema) (*arrowWriter, error) {
	arrowSchema, err := arrowSchemaFor(component, schema)
	if err != nil {
		return nil, err
	}
	alloc := memory.NewGoAllocator()
	file, err := ipc.NewFileWriter(&seekTracker{w: w}, ipc.WithSchema(arrowSchema), ipc.WithAllocator(alloc))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "creating arrow file writer")
	}
	return &arrowWriter{
		schema:      schema,
		arrowSchema: arrowSchema,
		builder:     array.NewRecordBuilder(alloc, arrowSchema),
		file:        file,
	}, nil
}

func (w *arrowWriter) Write(arr *dataset.Array) error {
	if err := checkWriterSchema(w.schema, arr); err != nil {
		return err
	}
	for i := 0; i < w.schema.Len(); i++ {
		if err := appendColumn(w.builder.Field(i), arr.ColumnAt(i)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal,
				fmt.Sprintf("building arrow column %q", w.schema.At(i).Name))
		}
	}
	rec := w.builder.NewRecord()
	defer rec.Release()
	if err := w.file.Write(rec); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing arrow record batch")
	}
	w.rows += int64(arr.Len())
	return nil
}

func (w *arrowWriter) Close() error {
	w.builder.Release()
	if err := w.file.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "closing arrow file")
	}
	return nil
}

func (w *arrowWriter) Format() Format { return Arrow }

func (w *arrowWriter) RowsWritten() int64 { return w.rows }

// arrowReader reads an Arrow IPC file into a single array.
type arrowReader struct {
	schema *dataset.Schema
	file   *ipc.FileReader
}

func newArrowReader(r io.Reader, schema *dataset.Schema) (*arrowReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading arrow data")
	}
	file, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening arrow file")
	}
	return &arrowReader{schema: schema, file: file}, nil
}

func (r *arrowReader) Read() (*dataset.Array, error) {
	records := make([]arrow.Record, 0, r.file.NumRecords())
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()

	total := 0
	for i := 0; i < r.file.NumRecords(); i++ {
		rec, err := r.file.Record(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile,
				fmt.Sprintf("reading arrow record batch %d", i))
		}
		rec.Retain()
		records = append(records, rec)
		total += int(rec.NumRows())
	}

	arr, err := dataset.NewArray(r.schema, total)
	if err != nil {
		return nil, err
	}
	offset := 0
	for _, rec := range records {
		if err := copyArrowRecord(arr, offset, rec); err != nil {
			return nil, err
		}
		offset += int(rec.NumRows())
	}
	return arr, nil
}

func (r *arrowReader) Close() error { return r.file.Close() }

func (r *arrowReader) Format() Format { return Arrow }

func (r *arrowReader) Schema() *dataset.Schema { return r.schema }

// Shared Arrow plumbing. The Parquet implementation reuses all of it since
// parquet files are written and read through Arrow record batches.

func arrowSchemaFor(component string, schema *dataset.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, schema.Len())
	for i := 0; i < schema.Len(); i++ {
		attr := schema.At(i)
		typ, err := arrowTypeFor(attr)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name: attr.Name,
			Type: typ,
			// id leads every schema and is the only required attribute.
			Nullable: i > 0,
		})
	}
	md := arrow.MetadataFrom(map[string]string{componentMetadataKey: component})
	return arrow.NewSchema(fields, &md), nil
}

func arrowTypeFor(attr dataset.Attribute) (arrow.DataType, error) {
	var elem arrow.DataType
	switch attr.Kind {
	case dataset.Float64:
		elem = arrow.PrimitiveTypes.Float64
	case dataset.Int32:
		elem = arrow.PrimitiveTypes.Int32
	case dataset.Int8:
		elem = arrow.PrimitiveTypes.Int8
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedKind,
			"attribute %q has unsupported kind %s", attr.Name, attr.Kind)
	}
	if attr.Size > 1 {
		return arrow.FixedSizeListOf(int32(attr.Size), elem), nil
	}
	return elem, nil
}

func checkWriterSchema(want *dataset.Schema, arr *dataset.Array) error {
	if !arr.Schema().Equal(want) {
		return errors.New(errors.ErrorTypeInvalidDataFormat,
			"array schema does not match the writer schema")
	}
	return nil
}

func appendColumn(builder array.Builder, col dataset.Column) error {
	for row := 0; row < col.Len(); row++ {
		if col.Absent(row) {
			builder.AppendNull()
			continue
		}
		if err := appendValue(builder, col.Value(row)); err != nil {
			return err
		}
	}
	return nil
}

func appendValue(builder array.Builder, value interface{}) error {
	switch b := builder.(type) {
	case *array.Float64Builder:
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("float column holds %T", value)
		}
		b.Append(v)
	case *array.Int32Builder:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("int32 column holds %T", value)
		}
		b.Append(int32(v))
	case *array.Int8Builder:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("int8 column holds %T", value)
		}
		b.Append(int8(v))
	case *array.FixedSizeListBuilder:
		b.Append(true)
		return appendVector(b.ValueBuilder(), value)
	default:
		return fmt.Errorf("unsupported arrow builder %T", builder)
	}
	return nil
}

func appendVector(builder array.Builder, value interface{}) error {
	switch vec := value.(type) {
	case []float64:
		b, ok := builder.(*array.Float64Builder)
		if !ok {
			return fmt.Errorf("float vector into %T builder", builder)
		}
		for _, v := range vec {
			b.Append(v)
		}
	case []int:
		switch b := builder.(type) {
		case *array.Int32Builder:
			for _, v := range vec {
				b.Append(int32(v))
			}
		case *array.Int8Builder:
			for _, v := range vec {
				b.Append(int8(v))
			}
		default:
			return fmt.Errorf("int vector into %T builder", builder)
		}
	default:
		return fmt.Errorf("unsupported vector value %T", value)
	}
	return nil
}

// copyArrowRecord copies one record batch into arr starting at row offset,
// matching file columns to schema attributes by name. Null slots are
// skipped so the target rows keep their absent sentinel.
func copyArrowRecord(arr *dataset.Array, offset int, rec arrow.Record) error {
	for ci := 0; ci < int(rec.NumCols()); ci++ {
		name := rec.Schema().Field(ci).Name
		col, ok := arr.Column(name)
		if !ok {
			return errors.Newf(errors.ErrorTypeUnknownAttribute,
				"file column %q is not in the target schema", name).
				WithDetail("attribute", name)
		}
		src := rec.Column(ci)
		for row := 0; row < int(rec.NumRows()); row++ {
			if src.IsNull(row) {
				continue
			}
			value, err := arrowValue(src, row)
			if err != nil {
				return err
			}
			if err := col.Set(offset+row, value); err != nil {
				return errors.Wrap(err, errors.ErrorTypeInvalidAttributeValue,
					fmt.Sprintf("file column %q row %d", name, offset+row))
			}
		}
	}
	return nil
}

func arrowValue(col arrow.Array, row int) (interface{}, error) {
	switch c := col.(type) {
	case *array.Float64:
		return c.Value(row), nil
	case *array.Int64:
		return c.Value(row), nil
	case *array.Int32:
		return c.Value(row), nil
	case *array.Int16:
		return c.Value(row), nil
	case *array.Int8:
		return c.Value(row), nil
	case *array.FixedSizeList:
		n := int(c.DataType().(*arrow.FixedSizeListType).Len())
		start := (c.Data().Offset() + row) * n
		return arrowListSlice(c.ListValues(), start, start+n)
	case *array.List:
		start, end := c.ValueOffsets(row)
		return arrowListSlice(c.ListValues(), int(start), int(end))
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedKind,
			"unsupported arrow column type %s", col.DataType())
	}
}

func arrowListSlice(values arrow.Array, start, end int) (interface{}, error) {
	switch vs := values.(type) {
	case *array.Float64:
		out := make([]float64, 0, end-start)
		for j := start; j < end; j++ {
			out = append(out, vs.Value(j))
		}
		return out, nil
	case *array.Int64:
		out := make([]int, 0, end-start)
		for j := start; j < end; j++ {
			out = append(out, int(vs.Value(j)))
		}
		return out, nil
	case *array.Int32:
		out := make([]int, 0, end-start)
		for j := start; j < end; j++ {
			out = append(out, int(vs.Value(j)))
		}
		return out, nil
	case *array.Int8:
		out := make([]int, 0, end-start)
		for j := start; j < end; j++ {
			out = append(out, int(vs.Value(j)))
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedKind,
			"unsupported arrow list element type %s", values.DataType())
	}
}
