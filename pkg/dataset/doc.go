// Package dataset implements the columnar data model for power-grid
// datasets: typed columns, fixed-schema component arrays, and the dense and
// sparse batch encodings.
//
// # Overview
//
// A power-grid dataset maps component names ("node", "line", "sym_load", …)
// to fixed-schema arrays of records. Each attribute is stored in a typed
// column of one of three kinds:
//
//   - Float64 ("f8"): physical quantities; NaN marks an unset value
//   - Int32 ("i4"): ids and node references; math.MinInt32 marks unset
//   - Int8 ("i1"): statuses, enums, tap positions; math.MinInt8 marks unset
//
// Attributes are scalar or fixed-width vectors (three-phase values store
// three elements per record). A record's attribute is absent when every
// element equals the sentinel of its kind; Absent is the single place where
// the kind-to-sentinel mapping lives.
//
// # Batches
//
// A batch dataset stores many record sets per component in one of two
// encodings:
//
//   - DenseBatch: batch axis first over one flat array, when every batch
//     has the same object count.
//   - SparseBatch: index pointers plus one flat data array, when counts
//     differ; batch i occupies data[indptr[i]:indptr[i+1]].
//
// Both encodings expose per-batch views that share the backing storage, so
// unpacking a batch dataset allocates no record data.
//
// # Datasets
//
// Dataset maps component names to values that are either a single *Array or
// one of the batch encodings. The conversion layer detects which form a
// dataset is in and rejects mixtures.
package dataset
