package convert

import (
	"sort"

	"go.uber.org/zap"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/metrics"
)

// Pack combines a list of single datasets into one batch dataset.
//
// A component becomes a dense stack only when it is present in every input
// dataset with the same record count everywhere; any violation, even from a
// single scenario, forces the sparse indptr form for that component. A
// scenario missing a component contributes zero records to the sparse form,
// it is not an error. Packing an empty list yields an empty batch dataset.
func (c *Converter) Pack(batches []dataset.Dataset) (dataset.Dataset, error) {
	if len(batches) == 0 {
		return dataset.Dataset{}, nil
	}

	components := map[string]bool{}
	for i, ds := range batches {
		for component, value := range ds {
			if _, ok := value.(*dataset.Array); !ok {
				return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat,
					"batch %d: component %q is not a single array", i, component)
			}
			components[component] = true
		}
	}

	names := make([]string, 0, len(components))
	for component := range components {
		names = append(names, component)
	}
	sort.Strings(names)

	out := make(dataset.Dataset, len(names))
	for _, component := range names {
		value, err := packComponent(batches, component)
		if err != nil {
			return nil, err
		}
		out[component] = value
	}
	c.log.Debug("packed batch dataset",
		zap.Int("batches", len(batches)),
		zap.Int("components", len(out)))
	return out, nil
}

func packComponent(batches []dataset.Dataset, component string) (dataset.Value, error) {
	arrays := make([]*dataset.Array, len(batches))
	everywhere := true
	for i, ds := range batches {
		value, ok := ds[component]
		if !ok {
			everywhere = false
			continue
		}
		arrays[i] = value.(*dataset.Array)
	}

	if everywhere {
		equal := true
		for _, arr := range arrays[1:] {
			if arr.Len() != arrays[0].Len() {
				equal = false
				break
			}
		}
		if equal {
			data, err := dataset.Concat(arrays)
			if err != nil {
				return nil, err
			}
			metrics.ComponentsPacked.WithLabelValues("dense").Inc()
			return dataset.NewDenseBatch(len(batches), arrays[0].Len(), data)
		}
	}

	indptr := make([]int, 1, len(batches)+1)
	present := make([]*dataset.Array, 0, len(batches))
	for _, arr := range arrays {
		if arr == nil {
			indptr = append(indptr, indptr[len(indptr)-1])
			continue
		}
		indptr = append(indptr, indptr[len(indptr)-1]+arr.Len())
		present = append(present, arr)
	}
	data, err := dataset.Concat(present)
	if err != nil {
		return nil, err
	}
	metrics.ComponentsPacked.WithLabelValues("sparse").Inc()
	return dataset.NewSparseBatch(indptr, data)
}

// Unpack expands a batch dataset into per-scenario single datasets. The
// returned datasets hold views into the batch storage, not copies.
//
// The scenario count is taken from an arbitrary component; the packer
// guarantees all components agree, and this is not re-validated here. An
// empty batch dataset unpacks to an empty list, as does a sparse component
// with a single indptr entry.
func (c *Converter) Unpack(ds dataset.Dataset) ([]dataset.Dataset, error) {
	if len(ds) == 0 {
		return []dataset.Dataset{}, nil
	}

	scenarios := -1
	for component, value := range ds {
		switch v := value.(type) {
		case *dataset.DenseBatch:
			scenarios = v.BatchCount()
		case *dataset.SparseBatch:
			scenarios = v.BatchCount()
		default:
			return nil, errors.Newf(errors.ErrorTypeInvalidBatchFormat,
				"component %q is not batch data", component)
		}
		break
	}

	out := make([]dataset.Dataset, scenarios)
	for i := range out {
		out[i] = make(dataset.Dataset, len(ds))
	}
	for component, value := range ds {
		switch v := value.(type) {
		case *dataset.DenseBatch:
			for i := 0; i < scenarios; i++ {
				out[i][component] = v.Batch(i)
			}
		case *dataset.SparseBatch:
			for i := 0; i < scenarios; i++ {
				out[i][component] = v.Batch(i)
			}
		default:
			return nil, errors.Newf(errors.ErrorTypeInvalidBatchFormat,
				"component %q is not batch data", component)
		}
	}
	return out, nil
}
