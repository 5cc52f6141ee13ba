package columnar

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// parquetWriter writes arrays through Arrow record batches into a Parquet
// file, one buffered row group chunk per Write call. The Arrow schema is
// stored in the file so three-phase attributes read back as fixed-size
// lists instead of plain lists.
type parquetWriter struct {
	schema      *dataset.Schema
	arrowSchema *arrow.Schema
	builder     *array.RecordBuilder
	file        *pqarrow.FileWriter
	rows        int64
}

func newParquetWriter(w io.Writer, component string, schema *dataset.Schema) (*parquetWriter, error) {
	arrowSchema, err := arrowSchemaFor(component, schema)
	if err != nil {
		return nil, err
	}
	alloc := memory.NewGoAllocator()
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(alloc),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(alloc),
		pqarrow.WithStoreSchema(),
	)
	fw, err := pqarrow.NewFileWriter(arrowSchema, w, props, arrowProps)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "creating parquet file writer")
	}
	return &parquetWriter{
		schema:      schema,
		arrowSchema: arrowSchema,
		builder:     array.NewRecordBuilder(alloc, arrowSchema),
		file:        fw,
	}, nil
}

func (w *parquetWriter) Write(arr *dataset.Array) error {
	if err := checkWriterSchema(w.schema, arr); err != nil {
		return err
	}
	for i := 0; i < w.schema.Len(); i++ {
		if err := appendColumn(w.builder.Field(i), arr.ColumnAt(i)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal,
				fmt.Sprintf("building parquet column %q", w.schema.At(i).Name))
		}
	}
	rec := w.builder.NewRecord()
	defer rec.Release()
	if err := w.file.WriteBuffered(rec); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing parquet row group")
	}
	w.rows += int64(arr.Len())
	return nil
}

func (w *parquetWriter) Close() error {
	w.builder.Release()
	if err := w.file.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "closing parquet file")
	}
	return nil
}

func (w *parquetWriter) Format() Format { return Parquet }

func (w *parquetWriter) RowsWritten() int64 { return w.rows }

// parquetReader reads a Parquet file into a single array via the Arrow
// record reader.
type parquetReader struct {
	schema      *dataset.Schema
	file        *file.Reader
	arrowReader *pqarrow.FileReader
}

func newParquetReader(r io.Reader, schema *dataset.Schema) (*parquetReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading parquet data")
	}
	fr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening parquet file")
	}
	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		fr.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening parquet arrow reader")
	}
	return &parquetReader{schema: schema, file: fr, arrowReader: arrowReader}, nil
}

func (r *parquetReader) Read() (*dataset.Array, error) {
	arr, err := dataset.NewArray(r.schema, int(r.file.NumRows()))
	if err != nil {
		return nil, err
	}

	rr, err := r.arrowReader.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading parquet record batches")
	}
	defer rr.Release()

	offset := 0
	for rr.Next() {
		rec := rr.Record()
		if err := copyArrowRecord(arr, offset, rec); err != nil {
			return nil, err
		}
		offset += int(rec.NumRows())
	}
	if err := rr.Err(); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading parquet record batches")
	}
	return arr, nil
}

func (r *parquetReader) Close() error { return r.file.Close() }

func (r *parquetReader) Format() Format { return Parquet }

func (r *parquetReader) Schema() *dataset.Schema { return r.schema }
