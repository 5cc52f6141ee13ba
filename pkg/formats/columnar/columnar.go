// Package columnar writes component arrays as Arrow, Parquet, or Avro
// files and reads them back.
//
// Each file holds exactly one component: the rows of one *dataset.Array.
// Attributes map to one file column each, three-phase attributes to a
// fixed-size list (Arrow, Parquet) or an array (Avro). Absent values are
// written as nulls and read back as absent, so a round trip preserves the
// sentinel encoding exactly. Batch datasets are not written; unpack them
// into per-scenario arrays first.
package columnar

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// Format identifies a columnar file format.
type Format string

const (
	// Arrow is the Arrow IPC file format.
	Arrow Format = "arrow"
	// Parquet is the Apache Parquet format.
	Parquet Format = "parquet"
	// Avro is the Apache Avro object container file format.
	Avro Format = "avro"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Arrow, Parquet, Avro:
		return f, nil
	default:
		return "", errors.Newf(errors.ErrorTypeUnsupportedFormat, "unsupported columnar format %q", s)
	}
}

// DetectFormat guesses the format from a file extension. The second return
// is false when the extension names no known format.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".feather":
		return Arrow, true
	case ".parquet":
		return Parquet, true
	case ".avro":
		return Avro, true
	default:
		return "", false
	}
}

// Writer writes component arrays to one columnar file. All arrays must
// carry the schema the writer was created with. Close finalizes the file
// footer; a file that was not closed is not readable.
type Writer interface {
	// Write appends the rows of arr to the file.
	Write(arr *dataset.Array) error
	// Close flushes buffered rows and finalizes the file.
	Close() error
	// Format returns the format being written.
	Format() Format
	// RowsWritten returns the number of rows written so far.
	RowsWritten() int64
}

// Reader reads one columnar file back into a component array.
type Reader interface {
	// Read returns all rows of the file as a single array. File columns
	// are matched to schema attributes by name; attributes missing from
	// the file stay absent.
	Read() (*dataset.Array, error)
	// Close releases the underlying file resources.
	Close() error
	// Format returns the format being read.
	Format() Format
	// Schema returns the schema the reader decodes into.
	Schema() *dataset.Schema
}

// NewWriter creates a Writer for one component. The component name is
// embedded in the file (Arrow and Parquet schema metadata, Avro record
// name) so files remain self-describing.
func NewWriter(w io.Writer, format Format, component string, schema *dataset.Schema) (Writer, error) {
	switch format {
	case Arrow:
		return newArrowWriter(w, component, schema)
	case Parquet:
		return newParquetWriter(w, component, schema)
	case Avro:
		return newAvroWriter(w, component, schema)
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedFormat, "unsupported columnar format %q", format)
	}
}

// NewReader creates a Reader that decodes a columnar file into arrays of
// the given schema.
func NewReader(r io.Reader, format Format, schema *dataset.Schema) (Reader, error) {
	switch format {
	case Arrow:
		return newArrowReader(r, schema)
	case Parquet:
		return newParquetReader(r, schema)
	case Avro:
		return newAvroReader(r, schema)
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedFormat, "unsupported columnar format %q", format)
	}
}
