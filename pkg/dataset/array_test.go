package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrankKr/power-grid-model/pkg/errors"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema([]Attribute{
		{Name: "id", Kind: Int32, Size: 1},
		{Name: "status", Kind: Int8, Size: 1},
		{Name: "u_rated", Kind: Float64, Size: 1},
		{Name: "p_specified", Kind: Float64, Size: 3},
	})
	require.NoError(t, err)
	return schema
}

func TestNewArrayIsSentinelFilled(t *testing.T) {
	arr, err := NewArray(testSchema(t), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, arr.Len())

	for _, name := range arr.Schema().Names() {
		col, ok := arr.Column(name)
		require.True(t, ok)
		for row := 0; row < arr.Len(); row++ {
			assert.True(t, col.Absent(row), "attribute %s row %d should be absent", name, row)
		}
	}
}

func TestColumnSetAndValue(t *testing.T) {
	arr, err := NewArray(testSchema(t), 3)
	require.NoError(t, err)

	id, _ := arr.Column("id")
	require.NoError(t, id.Set(0, 5))
	require.NoError(t, id.Set(1, json.Number("6")))
	require.NoError(t, id.Set(2, 7.0))
	assert.Equal(t, 5, id.Value(0))
	assert.Equal(t, 6, id.Value(1))
	assert.Equal(t, 7, id.Value(2))

	status, _ := arr.Column("status")
	require.NoError(t, status.Set(0, 1))
	assert.Equal(t, 1, status.Value(0))
	assert.False(t, status.Absent(0))
	assert.True(t, status.Absent(1))

	u, _ := arr.Column("u_rated")
	require.NoError(t, u.Set(0, 10.5e3))
	assert.Equal(t, 10.5e3, u.Value(0))

	p, _ := arr.Column("p_specified")
	require.NoError(t, p.Set(0, []interface{}{1.0, 2.0, 3.0}))
	assert.Equal(t, []float64{1, 2, 3}, p.Value(0))

	// Scalar broadcast across the vector.
	require.NoError(t, p.Set(1, 9.9))
	assert.Equal(t, []float64{9.9, 9.9, 9.9}, p.Value(1))
}

func TestColumnSetRejectsBadValues(t *testing.T) {
	arr, err := NewArray(testSchema(t), 1)
	require.NoError(t, err)

	id, _ := arr.Column("id")
	assert.Error(t, id.Set(0, 5.5), "non-integral float")
	assert.Error(t, id.Set(0, int64(math.MaxInt32)+1), "out of range")
	assert.Error(t, id.Set(0, "5"), "wrong type")

	status, _ := arr.Column("status")
	assert.Error(t, status.Set(0, 200), "out of int8 range")

	p, _ := arr.Column("p_specified")
	assert.Error(t, p.Set(0, []interface{}{1.0, 2.0}), "wrong shape")
	assert.Error(t, p.Set(0, []interface{}{1.0, "x", 3.0}), "bad element")
}

func TestExplicitSentinelRoundTrips(t *testing.T) {
	arr, err := NewArray(testSchema(t), 1)
	require.NoError(t, err)

	// Writing the sentinel explicitly is indistinguishable from never
	// writing the attribute.
	id, _ := arr.Column("id")
	require.NoError(t, id.Set(0, int64(SentinelInt32)))
	assert.True(t, id.Absent(0))

	u, _ := arr.Column("u_rated")
	require.NoError(t, u.Set(0, math.NaN()))
	assert.True(t, u.Absent(0))
}

func TestArraySliceSharesStorage(t *testing.T) {
	arr, err := NewArray(testSchema(t), 4)
	require.NoError(t, err)
	id, _ := arr.Column("id")
	for row := 0; row < 4; row++ {
		require.NoError(t, id.Set(row, row*10))
	}

	view := arr.Slice(1, 3)
	assert.Equal(t, 2, view.Len())
	viewID, _ := view.Column("id")
	assert.Equal(t, 10, viewID.Value(0))
	assert.Equal(t, 20, viewID.Value(1))

	// The view aliases the parent array.
	require.NoError(t, viewID.Set(0, 99))
	assert.Equal(t, 99, id.Value(1))
}

func TestConcat(t *testing.T) {
	schema := testSchema(t)
	a, err := NewArray(schema, 1)
	require.NoError(t, err)
	b, err := NewArray(schema, 2)
	require.NoError(t, err)

	aID, _ := a.Column("id")
	require.NoError(t, aID.Set(0, 1))
	bID, _ := b.Column("id")
	require.NoError(t, bID.Set(0, 2))
	require.NoError(t, bID.Set(1, 3))

	out, err := Concat([]*Array{a, b})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
	outID, _ := out.Column("id")
	assert.Equal(t, 1, outID.Value(0))
	assert.Equal(t, 2, outID.Value(1))
	assert.Equal(t, 3, outID.Value(2))

	_, err = Concat(nil)
	assert.Error(t, err)

	other, err := NewSchema([]Attribute{{Name: "id", Kind: Int32, Size: 1}})
	require.NoError(t, err)
	otherArr, err := NewArray(other, 1)
	require.NoError(t, err)
	_, err = Concat([]*Array{a, otherArr})
	assert.Error(t, err)
}

func TestDenseBatch(t *testing.T) {
	schema := testSchema(t)
	data, err := NewArray(schema, 6)
	require.NoError(t, err)
	id, _ := data.Column("id")
	for row := 0; row < 6; row++ {
		require.NoError(t, id.Set(row, row))
	}

	dense, err := NewDenseBatch(3, 2, data)
	require.NoError(t, err)
	assert.Equal(t, 3, dense.BatchCount())
	assert.Equal(t, 2, dense.PerBatch())

	second := dense.Batch(1)
	assert.Equal(t, 2, second.Len())
	secondID, _ := second.Column("id")
	assert.Equal(t, 2, secondID.Value(0))
	assert.Equal(t, 3, secondID.Value(1))

	_, err = NewDenseBatch(4, 2, data)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidBatchFormat))
}

func TestSparseBatch(t *testing.T) {
	schema := testSchema(t)
	data, err := NewArray(schema, 3)
	require.NoError(t, err)
	id, _ := data.Column("id")
	for row := 0; row < 3; row++ {
		require.NoError(t, id.Set(row, row+1))
	}

	sparse, err := NewSparseBatch([]int{0, 2, 2, 3}, data)
	require.NoError(t, err)
	assert.Equal(t, 3, sparse.BatchCount())
	assert.Equal(t, 2, sparse.Batch(0).Len())
	assert.Equal(t, 0, sparse.Batch(1).Len())
	assert.Equal(t, 1, sparse.Batch(2).Len())

	lastID, _ := sparse.Batch(2).Column("id")
	assert.Equal(t, 3, lastID.Value(0))

	for _, indptr := range [][]int{
		{},           // empty
		{1, 3},       // does not start at zero
		{0, 2, 1, 3}, // decreasing
		{0, 2},       // does not cover the data
	} {
		_, err := NewSparseBatch(indptr, data)
		require.Error(t, err, "indptr %v", indptr)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidBatchFormat))
	}
}

func TestSchemaLookups(t *testing.T) {
	schema := testSchema(t)
	assert.Equal(t, []string{"id", "status", "u_rated", "p_specified"}, schema.Names())

	attr, ok := schema.Attribute("p_specified")
	require.True(t, ok)
	assert.Equal(t, Float64, attr.Kind)
	assert.Equal(t, 3, attr.Size)

	_, ok = schema.Attribute("no_such")
	assert.False(t, ok)

	_, err := NewSchema([]Attribute{
		{Name: "id", Kind: Int32, Size: 1},
		{Name: "id", Kind: Int32, Size: 1},
	})
	assert.Error(t, err, "duplicate attribute names")
}
