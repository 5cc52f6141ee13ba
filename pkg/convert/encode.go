package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/metrics"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

// EncodeSingle converts one record set into a columnar dataset of the given
// data type. Every component is allocated sentinel-filled at the length of
// its record list, so attributes missing from a record stay absent.
//
// Attribute names must be part of the component's registered layout; the
// reserved "extra" key is skipped. The input is not modified.
func (c *Converter) EncodeSingle(dataType string, rs models.RecordSet) (dataset.Dataset, error) {
	ds := make(dataset.Dataset, len(rs))
	for _, component := range rs.Components() {
		arr, err := c.encodeComponent(dataType, component, rs[component])
		if err != nil {
			return nil, err
		}
		ds[component] = arr
	}
	c.log.Debug("encoded record set",
		zap.String("data_type", dataType),
		zap.Int("components", len(ds)))
	return ds, nil
}

// EncodeBatch converts a list of record sets into one batch dataset by
// encoding each scenario and packing the results.
func (c *Converter) EncodeBatch(dataType string, sets []models.RecordSet) (dataset.Dataset, error) {
	batches := make([]dataset.Dataset, len(sets))
	for i, rs := range sets {
		ds, err := c.EncodeSingle(dataType, rs)
		if err != nil {
			return nil, err
		}
		batches[i] = ds
	}
	return c.Pack(batches)
}

func (c *Converter) encodeComponent(dataType, component string, records []models.Record) (*dataset.Array, error) {
	arr, err := c.reg.Allocate(dataType, component, len(records))
	if err != nil {
		return nil, err
	}
	for row, rec := range records {
		for attribute, value := range rec {
			if attribute == models.ExtraField {
				continue
			}
			col, ok := arr.Column(attribute)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeUnknownAttribute,
					"invalid attribute %q for %s %s data", attribute, component, dataType).
					WithDetail("data_type", dataType).
					WithDetail("component", component).
					WithDetail("attribute", attribute)
			}
			if err := col.Set(row, value); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeInvalidAttributeValue,
					fmt.Sprintf("invalid %q value for %s %s data", attribute, component, dataType)).
					WithDetail("data_type", dataType).
					WithDetail("component", component).
					WithDetail("attribute", attribute)
			}
		}
	}
	metrics.RecordsEncoded.WithLabelValues(dataType, component).Add(float64(len(records)))
	return arr, nil
}
