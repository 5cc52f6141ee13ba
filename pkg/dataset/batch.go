package dataset

import (
	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// Value is one component's columnar value inside a Dataset: a single
// fixed-schema array, or one of the two batch encodings. The set is closed.
type Value interface {
	isValue()
}

func (a *Array) isValue()       {}
func (b *DenseBatch) isValue()  {}
func (b *SparseBatch) isValue() {}

// Dataset maps component names to columnar values. A dataset whose values
// are all *Array is a single dataset; one whose values are all batch
// encodings is a batch dataset. Mixed datasets can be constructed but are
// rejected by the conversions that require one form or the other.
type Dataset map[string]Value

// DenseBatch is the batch encoding for a component whose object count is
// identical in every batch: batch axis first over one flat array of
// batches × perBatch records.
type DenseBatch struct {
	batches  int
	perBatch int
	data     *Array
}

// NewDenseBatch wraps data as batches equally sized groups of records.
func NewDenseBatch(batches, perBatch int, data *Array) (*DenseBatch, error) {
	if batches < 0 || perBatch < 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidBatchFormat, "negative batch shape [%d x %d]", batches, perBatch)
	}
	if data.Len() != batches*perBatch {
		return nil, errors.Newf(errors.ErrorTypeInvalidBatchFormat, "dense data holds %d records, want %d x %d", data.Len(), batches, perBatch)
	}
	return &DenseBatch{batches: batches, perBatch: perBatch, data: data}, nil
}

// BatchCount returns the number of batches.
func (b *DenseBatch) BatchCount() int { return b.batches }

// PerBatch returns the object count of every batch.
func (b *DenseBatch) PerBatch() int { return b.perBatch }

// Data returns the flat backing array.
func (b *DenseBatch) Data() *Array { return b.data }

// Batch returns batch i as a view into the backing array. Batch indices are
// trusted to be in range, as produced by the packer.
func (b *DenseBatch) Batch(i int) *Array {
	return b.data.Slice(i*b.perBatch, (i+1)*b.perBatch)
}

// SparseBatch is the batch encoding for a component whose object count
// varies per batch: index pointers of length batchCount+1 over one flat
// data array, batch i occupying data[indptr[i]:indptr[i+1]].
type SparseBatch struct {
	indptr []int
	data   *Array
}

// NewSparseBatch validates the pointer structure and wraps data.
func NewSparseBatch(indptr []int, data *Array) (*SparseBatch, error) {
	if len(indptr) < 1 {
		return nil, errors.New(errors.ErrorTypeInvalidBatchFormat, "index pointers need at least one entry")
	}
	if indptr[0] != 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidBatchFormat, "index pointers start at %d, want 0", indptr[0])
	}
	for i := 1; i < len(indptr); i++ {
		if indptr[i] < indptr[i-1] {
			return nil, errors.Newf(errors.ErrorTypeInvalidBatchFormat, "index pointers decrease at entry %d", i)
		}
	}
	if last := indptr[len(indptr)-1]; last != data.Len() {
		return nil, errors.Newf(errors.ErrorTypeInvalidBatchFormat, "index pointers end at %d, data holds %d records", last, data.Len())
	}
	return &SparseBatch{indptr: indptr, data: data}, nil
}

// BatchCount returns the number of batches.
func (b *SparseBatch) BatchCount() int { return len(b.indptr) - 1 }

// Indptr returns the index pointer sequence. Callers must not modify it.
func (b *SparseBatch) Indptr() []int { return b.indptr }

// Data returns the flat backing array.
func (b *SparseBatch) Data() *Array { return b.data }

// Batch returns batch i as a view into the backing array.
func (b *SparseBatch) Batch(i int) *Array {
	return b.data.Slice(b.indptr[i], b.indptr[i+1])
}
