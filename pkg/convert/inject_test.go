package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

func TestInjectSingle(t *testing.T) {
	c := newTestConverter(t)

	rs := models.RecordSet{"node": {{"id": 5}, {"id": 6}}}
	require.NoError(t, c.Inject(rs, models.ExtraInfo{5: "A"}))

	assert.Equal(t, models.RecordSet{
		"node": {{"id": 5, "extra": "A"}, {"id": 6}},
	}, rs)
}

func TestInjectAcceptsPlainMap(t *testing.T) {
	c := newTestConverter(t)

	rs := models.RecordSet{"node": {{"id": 5}}}
	require.NoError(t, c.Inject(rs, map[int]interface{}{5: "A"}))
	assert.Equal(t, "A", rs["node"][0]["extra"])
}

func TestInjectBatchPositional(t *testing.T) {
	c := newTestConverter(t)

	batch := []models.RecordSet{
		{"sym_load": {{"id": 4}}},
		{"sym_load": {{"id": 4}}},
	}
	infos := []models.ExtraInfo{
		{4: "first"},
		{4: "second"},
	}
	require.NoError(t, c.Inject(batch, infos))

	assert.Equal(t, "first", batch[0]["sym_load"][0]["extra"])
	assert.Equal(t, "second", batch[1]["sym_load"][0]["extra"])
}

func TestInjectBatchSurplusDropped(t *testing.T) {
	c := newTestConverter(t)

	batch := []models.RecordSet{
		{"sym_load": {{"id": 4}}},
		{"sym_load": {{"id": 4}}},
		{"sym_load": {{"id": 4}}},
	}
	require.NoError(t, c.Inject(batch, []models.ExtraInfo{{4: "only"}}))

	assert.Equal(t, "only", batch[0]["sym_load"][0]["extra"])
	assert.NotContains(t, batch[1]["sym_load"][0], "extra")
	assert.NotContains(t, batch[2]["sym_load"][0], "extra")
}

func TestInjectBatchBroadcast(t *testing.T) {
	c := newTestConverter(t)

	batch := []models.RecordSet{
		{"sym_load": {{"id": 4}, {"id": 5}}},
		{"sym_load": {{"id": 4}}},
	}
	require.NoError(t, c.Inject(batch, models.ExtraInfo{4: "shared"}))

	assert.Equal(t, "shared", batch[0]["sym_load"][0]["extra"])
	assert.NotContains(t, batch[0]["sym_load"][1], "extra")
	assert.Equal(t, "shared", batch[1]["sym_load"][0]["extra"])
}

func TestInjectInvalidExtraInfoType(t *testing.T) {
	c := newTestConverter(t)

	err := c.Inject(models.RecordSet{"node": {{"id": 5}}}, "not a map")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidExtraInfoType))

	err = c.Inject([]models.RecordSet{{"node": {{"id": 5}}}}, 42)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidExtraInfoType))
}

func TestInjectInvalidDataType(t *testing.T) {
	c := newTestConverter(t)

	err := c.Inject(42, models.ExtraInfo{5: "A"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidDataType))
}

func TestInjectSkipsRecordsWithoutID(t *testing.T) {
	c := newTestConverter(t)

	rs := models.RecordSet{"node": {{"u_rated": 10500.0}, {"id": 6}}}
	require.NoError(t, c.Inject(rs, models.ExtraInfo{6: "B"}))

	assert.NotContains(t, rs["node"][0], "extra")
	assert.Equal(t, "B", rs["node"][1]["extra"])
}
