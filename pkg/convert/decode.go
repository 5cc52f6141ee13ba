package convert

import (
	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/metrics"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

// DecodeSingle converts one columnar dataset back into a record set. Every
// component value must be a single array. Attributes whose stored value
// equals the kind's sentinel are left out of the record; components with
// zero records decode to an empty list, the key stays.
func (c *Converter) DecodeSingle(ds dataset.Dataset) (models.RecordSet, error) {
	for component, value := range ds {
		if _, ok := value.(*dataset.Array); !ok {
			return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat,
				"component %q is not a single array", component)
		}
	}

	rs := make(models.RecordSet, len(ds))
	for component, value := range ds {
		arr := value.(*dataset.Array)
		schema := arr.Schema()
		records := make([]models.Record, arr.Len())
		for row := range records {
			rec := models.Record{}
			for i := 0; i < schema.Len(); i++ {
				col := arr.ColumnAt(i)
				if col.Absent(row) {
					continue
				}
				rec[schema.At(i).Name] = col.Value(row)
			}
			records[row] = rec
		}
		rs[component] = records
		metrics.RecordsDecoded.WithLabelValues(component).Add(float64(len(records)))
	}
	return rs, nil
}

// DecodeBatch expands a batch dataset and decodes each scenario.
func (c *Converter) DecodeBatch(ds dataset.Dataset) ([]models.RecordSet, error) {
	scenarios, err := c.Unpack(ds)
	if err != nil {
		return nil, err
	}
	sets := make([]models.RecordSet, len(scenarios))
	for i, scenario := range scenarios {
		rs, err := c.DecodeSingle(scenario)
		if err != nil {
			return nil, err
		}
		sets[i] = rs
	}
	return sets, nil
}

// Decode converts a dataset of either flavor to record form: a
// models.RecordSet for a single dataset, a []models.RecordSet for a batch.
// Components must agree on batch-ness; the empty dataset decodes as a
// single, empty record set.
func (c *Converter) Decode(ds dataset.Dataset) (interface{}, error) {
	batch, err := isBatch(ds)
	if err != nil {
		return nil, err
	}
	if batch {
		return c.DecodeBatch(ds)
	}
	return c.DecodeSingle(ds)
}

// isBatch reports whether the dataset holds batch values. Mixing batch and
// single-array components in one dataset is an error.
func isBatch(ds dataset.Dataset) (bool, error) {
	batch := false
	seen := false
	for component, value := range ds {
		_, single := value.(*dataset.Array)
		if seen && batch == single {
			return false, errors.Newf(errors.ErrorTypeMixedBatchData,
				"mixed batch and non-batch data (%s)", component)
		}
		batch = !single
		seen = true
	}
	return batch, nil
}
