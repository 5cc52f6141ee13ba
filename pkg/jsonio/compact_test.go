package jsonio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrankKr/power-grid-model/pkg/meta"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

func renderCompact(t *testing.T, value interface{}, indent, maxDepth int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeCompact(&buf, value, indent, maxDepth))
	return buf.String()
}

func TestWriteCompactSingle(t *testing.T) {
	rs := models.RecordSet{
		"node": {{"id": 0}, {"id": 1}},
	}
	want := `{
  "node":
    [
      {"id":0},
      {"id":1}
    ]
}`
	assert.Equal(t, want, renderCompact(t, rs, 2, maxDepthSingle))
}

func TestWriteCompactBatch(t *testing.T) {
	scenarios := []models.RecordSet{
		{"sym_load": {{"id": 3, "p_specified": 1.0e6}}},
		{"sym_load": {{"id": 3, "p_specified": 1.5e6}}},
	}
	want := `[
  {
    "sym_load":
      [
        {"id":3,"p_specified":1000000}
      ]
  },
  {
    "sym_load":
      [
        {"id":3,"p_specified":1500000}
      ]
  }
]`
	assert.Equal(t, want, renderCompact(t, scenarios, 2, maxDepthBatch))
}

func TestWriteCompactEmptyComponent(t *testing.T) {
	rs := models.RecordSet{"node": {}}
	want := `{
  "node":
    [
    ]
}`
	assert.Equal(t, want, renderCompact(t, rs, 2, maxDepthSingle))
}

func TestWriteCompactSortsComponents(t *testing.T) {
	rs := models.RecordSet{
		"source": {{"id": 9}},
		"node":   {{"id": 1}},
	}
	got := renderCompact(t, rs, 2, maxDepthSingle)
	assert.Less(t, bytes.Index([]byte(got), []byte(`"node"`)), bytes.Index([]byte(got), []byte(`"source"`)))
}

func TestWriteCompactScalarLeaves(t *testing.T) {
	assert.Equal(t, "42", renderCompact(t, 42, 2, maxDepthSingle))
	assert.Equal(t, "null", renderCompact(t, nil, 2, maxDepthSingle))
	assert.Equal(t, `"text"`, renderCompact(t, "text", 2, maxDepthSingle))
}

func TestWriteCompactInlineScalarValue(t *testing.T) {
	value := map[string]interface{}{
		"a": 1,
		"b": []interface{}{2},
	}
	want := `{
  "a": 1,
  "b":
    [
      2
    ]
}`
	assert.Equal(t, want, renderCompact(t, value, 2, maxDepthSingle))
}

func TestWriteCompactWiderIndent(t *testing.T) {
	rs := models.RecordSet{"node": {{"id": 0}}}
	want := `{
    "node":
        [
            {"id":0}
        ]
}`
	assert.Equal(t, want, renderCompact(t, rs, 4, maxDepthSingle))
}

func TestWriteThroughOptionsSingle(t *testing.T) {
	f := newTestFileIO(t)
	ds, err := f.conv.EncodeSingle(meta.DataTypeInput, models.RecordSet{
		"node": {
			{"id": 1, "u_rated": 10500.5},
			{"id": 2, "u_rated": 400.0},
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, ds, Options{Indent: 2, Compact: true}))

	want := `{
  "node":
    [
      {"id":1,"u_rated":10500.5},
      {"id":2,"u_rated":400}
    ]
}`
	assert.Equal(t, want, buf.String())
}

func TestWriteThroughOptionsBatch(t *testing.T) {
	f := newTestFileIO(t)
	ds, err := f.conv.EncodeBatch(meta.DataTypeUpdate, []models.RecordSet{
		{"sym_load": {{"id": 3, "p_specified": 1.0e6}}},
		{"sym_load": {{"id": 3, "p_specified": 1.5e6}}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, ds, Options{Indent: 2, Compact: true}))

	want := `[
  {
    "sym_load":
      [
        {"id":3,"p_specified":1000000}
      ]
  },
  {
    "sym_load":
      [
        {"id":3,"p_specified":1500000}
      ]
  }
]`
	assert.Equal(t, want, buf.String())
}
