// Package jsonio reads and writes grid datasets as JSON files.
//
// The persisted format mirrors the record form one to one: a single dataset
// is a top-level object mapping component names to lists of attribute
// objects, a batch dataset is a top-level list of such objects. Import
// encodes this text into columnar datasets, Export decodes columnar
// datasets back to text, optionally injecting extra info and rendering in
// compact form (one object per line).
//
// Files whose extension names a compression algorithm (.gz, .zst, .lz4) are
// transparently decompressed on read and compressed on write.
package jsonio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/FrankKr/power-grid-model/pkg/compression"
	"github.com/FrankKr/power-grid-model/pkg/convert"
	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/json"
	"github.com/FrankKr/power-grid-model/pkg/meta"
	"github.com/FrankKr/power-grid-model/pkg/metrics"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

// Options controls how Export renders a dataset.
type Options struct {
	// Indent is the number of spaces per nesting level. Zero or negative
	// writes minified output.
	Indent int
	// Compact puts each object on a single line while keeping the
	// structural brackets on their own lines. Requires Indent > 0.
	Compact bool
	// ExtraInfo is injected into the decoded records before writing.
	// Either a models.ExtraInfo applied to every scenario or a
	// []models.ExtraInfo paired with the scenarios positionally.
	ExtraInfo interface{}
}

// DefaultOptions returns the standard export settings: two-space indent,
// regular formatting, no extra info.
func DefaultOptions() Options {
	return Options{Indent: 2}
}

// FileIO moves datasets between columnar form and JSON files. It is safe
// for concurrent use.
type FileIO struct {
	conv  *convert.Converter
	log   *zap.Logger
	pools map[compression.Algorithm]*compression.CompressorPool
}

// New creates a FileIO on top of the given converter, compressing output at
// the balanced level. A nil logger disables logging.
func New(conv *convert.Converter, log *zap.Logger) *FileIO {
	return NewWithLevel(conv, log, compression.Default)
}

// NewWithLevel creates a FileIO whose output compression runs at the given
// level. Decompression on import is level independent.
func NewWithLevel(conv *convert.Converter, log *zap.Logger, level compression.Level) *FileIO {
	if log == nil {
		log = zap.NewNop()
	}
	pools := make(map[compression.Algorithm]*compression.CompressorPool, 4)
	for _, algorithm := range []compression.Algorithm{
		compression.None, compression.Gzip, compression.Zstd, compression.LZ4,
	} {
		pools[algorithm] = compression.NewCompressorPool(&compression.Config{
			Algorithm: algorithm,
			Level:     level,
		})
	}
	return &FileIO{conv: conv, log: log, pools: pools}
}

// Import reads a dataset file of the given data type. A top-level object
// becomes a single dataset, a top-level list becomes a batch dataset.
func (f *FileIO) Import(path, dataType string) (dataset.Dataset, error) {
	timer := metrics.NewTimer("import")
	ds, err := f.importFile(path, dataType)

	status := "success"
	if err != nil {
		status = "error"
		metrics.ConversionErrors.WithLabelValues(string(errors.GetType(err))).Inc()
	}
	metrics.FilesImported.WithLabelValues(dataType, status).Inc()
	metrics.ConversionDuration.WithLabelValues("import").Observe(timer.Stop().Seconds())

	if err == nil {
		f.log.Info("imported dataset",
			zap.String("path", path),
			zap.String("data_type", dataType),
			zap.Int("components", len(ds)))
	}
	return ds, err
}

// ImportInput reads an input dataset file. Input data is always a single
// dataset; a batch file is an error.
func (f *FileIO) ImportInput(path string) (dataset.Dataset, error) {
	ds, err := f.Import(path, meta.DataTypeInput)
	if err != nil {
		return nil, err
	}
	for component, value := range ds {
		if _, ok := value.(*dataset.Array); !ok {
			return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat,
				"input file %s holds batch data (%s)", path, component)
		}
	}
	return ds, nil
}

// ImportUpdate reads an update dataset file, typically a batch.
func (f *FileIO) ImportUpdate(path string) (dataset.Dataset, error) {
	return f.Import(path, meta.DataTypeUpdate)
}

func (f *FileIO) importFile(path, dataType string) (dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("opening %s", path))
	}
	defer file.Close()

	algorithm := compression.DetectAlgorithm(path)
	if algorithm == compression.None {
		if info, err := file.Stat(); err == nil {
			metrics.FileBytes.WithLabelValues("read").Observe(float64(info.Size()))
		}
		return f.Read(file, dataType)
	}

	buf := json.GetBuffer()
	defer json.PutBuffer(buf)
	if err := f.pools[algorithm].DecompressStream(buf, file); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("decompressing %s", path))
	}
	metrics.FileBytes.WithLabelValues("read").Observe(float64(buf.Len()))
	return f.Read(bytes.NewReader(buf.Bytes()), dataType)
}

// Read decodes JSON text from r and encodes it as a columnar dataset of the
// given data type.
func (f *FileIO) Read(r io.Reader, dataType string) (dataset.Dataset, error) {
	dec := json.GetDecoder(r)
	defer json.PutDecoder(dec)

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInvalidDataFormat, "malformed JSON")
	}

	switch v := raw.(type) {
	case map[string]interface{}:
		rs, err := recordSetFromJSON(v)
		if err != nil {
			return nil, err
		}
		return f.conv.EncodeSingle(dataType, rs)
	case []interface{}:
		sets := make([]models.RecordSet, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeInvalidDataType,
					"scenario %d is not an object", i)
			}
			rs, err := recordSetFromJSON(obj)
			if err != nil {
				return nil, err
			}
			sets[i] = rs
		}
		return f.conv.EncodeBatch(dataType, sets)
	default:
		return nil, errors.New(errors.ErrorTypeInvalidDataType,
			"data should be either a list or an object")
	}
}

// recordSetFromJSON reshapes a decoded JSON object into a record set.
func recordSetFromJSON(raw map[string]interface{}) (models.RecordSet, error) {
	rs := make(models.RecordSet, len(raw))
	for component, value := range raw {
		list, ok := value.([]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat,
				"component %q is not a list of objects", component)
		}
		records := make([]models.Record, len(list))
		for i, elem := range list {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat,
					"component %q record %d is not an object", component, i)
			}
			records[i] = models.Record(obj)
		}
		rs[component] = records
	}
	return rs, nil
}

// Export decodes a dataset and writes it to path as JSON, compressed when
// the extension asks for it.
func (f *FileIO) Export(path string, ds dataset.Dataset, opts Options) error {
	timer := metrics.NewTimer("export")
	err := f.exportFile(path, ds, opts)

	status := "success"
	if err != nil {
		status = "error"
		metrics.ConversionErrors.WithLabelValues(string(errors.GetType(err))).Inc()
	}
	metrics.FilesExported.WithLabelValues(status).Inc()
	metrics.ConversionDuration.WithLabelValues("export").Observe(timer.Stop().Seconds())

	if err == nil {
		f.log.Info("exported dataset",
			zap.String("path", path),
			zap.Int("components", len(ds)),
			zap.Bool("compact", opts.Compact))
	}
	return err
}

func (f *FileIO) exportFile(path string, ds dataset.Dataset, opts Options) error {
	buf := json.GetBuffer()
	defer json.PutBuffer(buf)
	if err := f.Write(buf, ds, opts); err != nil {
		return err
	}
	metrics.FileBytes.WithLabelValues("write").Observe(float64(buf.Len()))

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("creating %s", path))
	}

	algorithm := compression.DetectAlgorithm(path)
	if algorithm == compression.None {
		_, err = file.Write(buf.Bytes())
	} else {
		err = f.pools[algorithm].CompressStream(file, bytes.NewReader(buf.Bytes()))
	}
	if err != nil {
		file.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("writing %s", path))
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("closing %s", path))
	}
	return nil
}

// Write decodes a dataset and renders it to w according to opts. Extra
// info, when given, is injected before rendering.
func (f *FileIO) Write(w io.Writer, ds dataset.Dataset, opts Options) error {
	decoded, err := f.conv.Decode(ds)
	if err != nil {
		return err
	}
	if opts.ExtraInfo != nil {
		if err := f.conv.Inject(decoded, opts.ExtraInfo); err != nil {
			return err
		}
	}

	switch {
	case opts.Compact && opts.Indent > 0:
		maxDepth := maxDepthSingle
		if _, ok := decoded.([]models.RecordSet); ok {
			maxDepth = maxDepthBatch
		}
		return writeCompact(w, decoded, opts.Indent, maxDepth)
	case opts.Indent > 0:
		data, err := json.MarshalIndent(decoded, "", strings.Repeat(" ", opts.Indent))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		data, err := json.Marshal(decoded)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
}
