package columnar

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/meta"
)

var allFormats = []Format{Arrow, Parquet, Avro}

func testSchema(t *testing.T, dataType, component string) *dataset.Schema {
	t.Helper()
	reg := meta.NewRegistry(zaptest.NewLogger(t))
	schema, err := reg.Schema(dataType, component)
	require.NoError(t, err)
	return schema
}

// testLoadArray builds an asym_load input array covering the full value
// surface: i4 references, i1 flags, scalar and three-phase floats, and
// absent values of every kind.
func testLoadArray(t *testing.T, schema *dataset.Schema) *dataset.Array {
	t.Helper()
	arr, err := dataset.NewArray(schema, 3)
	require.NoError(t, err)

	set := func(row int, name string, value interface{}) {
		col, ok := arr.Column(name)
		require.True(t, ok)
		require.NoError(t, col.Set(row, value))
	}

	set(0, "id", 11)
	set(0, "node", 1)
	set(0, "status", 1)
	set(0, "type", 0)
	set(0, "p_specified", []float64{1.0e6, 1.1e6, 1.2e6})
	set(0, "q_specified", []float64{1.0e5, math.NaN(), 1.2e5})

	set(1, "id", 12)
	set(1, "node", 2)
	// status, type and both powers stay absent.

	set(2, "id", 13)
	set(2, "node", 2)
	set(2, "status", 0)
	set(2, "type", 1)
	set(2, "p_specified", []float64{2.0e6, 2.1e6, 2.2e6})

	return arr
}

func assertSameArray(t *testing.T, want, got *dataset.Array) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	require.True(t, want.Schema().Equal(got.Schema()))

	schema := want.Schema()
	for i := 0; i < schema.Len(); i++ {
		name := schema.At(i).Name
		wc := want.ColumnAt(i)
		gc := got.ColumnAt(i)
		for row := 0; row < want.Len(); row++ {
			wantAbsent := wc.Absent(row)
			assert.Equal(t, wantAbsent, gc.Absent(row), "%s row %d absence", name, row)
			if wantAbsent {
				continue
			}
			switch wv := wc.Value(row).(type) {
			case []float64:
				gv, ok := gc.Value(row).([]float64)
				require.True(t, ok, "%s row %d value type", name, row)
				require.Len(t, gv, len(wv))
				for j := range wv {
					if math.IsNaN(wv[j]) {
						assert.True(t, math.IsNaN(gv[j]), "%s row %d elem %d", name, row, j)
					} else {
						assert.Equal(t, wv[j], gv[j], "%s row %d elem %d", name, row, j)
					}
				}
			default:
				assert.Equal(t, wc.Value(row), gc.Value(row), "%s row %d", name, row)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	schema := testSchema(t, meta.DataTypeInput, "asym_load")
	arr := testLoadArray(t, schema)

	for _, format := range allFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format, "asym_load", schema)
			require.NoError(t, err)
			require.NoError(t, w.Write(arr))
			require.NoError(t, w.Close())
			assert.Equal(t, int64(3), w.RowsWritten())
			assert.Equal(t, format, w.Format())

			r, err := NewReader(bytes.NewReader(buf.Bytes()), format, schema)
			require.NoError(t, err)
			defer r.Close()
			assert.True(t, r.Schema().Equal(schema))

			got, err := r.Read()
			require.NoError(t, err)
			assertSameArray(t, arr, got)
		})
	}
}

func TestMultipleWritesConcatenate(t *testing.T) {
	schema := testSchema(t, meta.DataTypeInput, "node")

	first, err := dataset.NewArray(schema, 2)
	require.NoError(t, err)
	second, err := dataset.NewArray(schema, 1)
	require.NoError(t, err)

	firstIDs, ok := first.Column("id")
	require.True(t, ok)
	require.NoError(t, firstIDs.Set(0, 100))
	require.NoError(t, firstIDs.Set(1, 101))
	secondIDs, ok := second.Column("id")
	require.True(t, ok)
	require.NoError(t, secondIDs.Set(0, 102))

	for _, format := range allFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format, "node", schema)
			require.NoError(t, err)
			require.NoError(t, w.Write(first))
			require.NoError(t, w.Write(second))
			require.NoError(t, w.Close())
			assert.Equal(t, int64(3), w.RowsWritten())

			r, err := NewReader(bytes.NewReader(buf.Bytes()), format, schema)
			require.NoError(t, err)
			defer r.Close()

			got, err := r.Read()
			require.NoError(t, err)
			require.Equal(t, 3, got.Len())

			ids, ok := got.Column("id")
			require.True(t, ok)
			assert.Equal(t, 100, ids.Value(0))
			assert.Equal(t, 101, ids.Value(1))
			assert.Equal(t, 102, ids.Value(2))
		})
	}
}

func TestEmptyFileRoundTrip(t *testing.T) {
	schema := testSchema(t, meta.DataTypeInput, "node")
	empty, err := dataset.NewArray(schema, 0)
	require.NoError(t, err)

	for _, format := range allFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format, "node", schema)
			require.NoError(t, err)
			require.NoError(t, w.Write(empty))
			require.NoError(t, w.Close())

			r, err := NewReader(bytes.NewReader(buf.Bytes()), format, schema)
			require.NoError(t, err)
			defer r.Close()

			got, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, 0, got.Len())
		})
	}
}

func TestWriterRejectsForeignSchema(t *testing.T) {
	nodeSchema := testSchema(t, meta.DataTypeInput, "node")
	loadSchema := testSchema(t, meta.DataTypeInput, "sym_load")
	loads, err := dataset.NewArray(loadSchema, 1)
	require.NoError(t, err)

	for _, format := range allFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format, "node", nodeSchema)
			require.NoError(t, err)

			err = w.Write(loads)
			assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidDataFormat))
		})
	}
}

func TestReaderRejectsUnknownFields(t *testing.T) {
	inputNode := testSchema(t, meta.DataTypeInput, "node")
	updateNode := testSchema(t, meta.DataTypeUpdate, "node")

	arr, err := dataset.NewArray(inputNode, 1)
	require.NoError(t, err)
	col, ok := arr.Column("id")
	require.True(t, ok)
	require.NoError(t, col.Set(0, 1))
	uRated, ok := arr.Column("u_rated")
	require.True(t, ok)
	require.NoError(t, uRated.Set(0, 10500.0))

	for _, format := range allFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format, "node", inputNode)
			require.NoError(t, err)
			require.NoError(t, w.Write(arr))
			require.NoError(t, w.Close())

			// The update layout has no u_rated, so the stored column
			// must be rejected instead of silently dropped.
			r, err := NewReader(bytes.NewReader(buf.Bytes()), format, updateNode)
			require.NoError(t, err)
			defer r.Close()

			_, err = r.Read()
			assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownAttribute))
		})
	}
}

func TestNewWriterUnsupportedFormat(t *testing.T) {
	schema := testSchema(t, meta.DataTypeInput, "node")

	var buf bytes.Buffer
	_, err := NewWriter(&buf, Format("orc"), "node", schema)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedFormat))

	_, err = NewReader(&buf, Format("orc"), schema)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedFormat))
}

func TestParseFormat(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Format
		ok   bool
	}{
		{"arrow", Arrow, true},
		{"Parquet", Parquet, true},
		{"AVRO", Avro, true},
		{"orc", "", false},
		{"", "", false},
	} {
		got, err := ParseFormat(tt.in)
		if tt.ok {
			assert.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got, tt.in)
		} else {
			assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedFormat), tt.in)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	for _, tt := range []struct {
		path string
		want Format
		ok   bool
	}{
		{"node.arrow", Arrow, true},
		{"node.feather", Arrow, true},
		{"out/node.PARQUET", Parquet, true},
		{"node.avro", Avro, true},
		{"node.json", "", false},
		{"node", "", false},
	} {
		got, ok := DetectFormat(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.path)
		}
	}
}
