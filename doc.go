// Package powergridmodel converts power grid calculation datasets between
// their nested, human-editable record form and the compact columnar form
// used for computation and interchange.
//
// A dataset groups physical components (nodes, lines, loads, sources) per
// data type: input grids, update scenarios, and symmetric or asymmetric
// calculation output. The record form mirrors serialized JSON one to one;
// the columnar form stores each attribute as a typed column with sentinel
// encoded optionality, so a record never has to spell out attributes it
// does not set.
//
// # Architecture
//
// The module is built from small composable layers:
//
// 1. Component registry: ordered attribute layouts per data type and
// component, with typed column allocation (pkg/meta, pkg/dataset).
//
// 2. Converter: encodes record sets into columnar arrays and back, packs
// scenario lists into dense or sparse batches, and injects extra info into
// decoded output (pkg/convert).
//
// 3. File IO: JSON import and export with transparent compression picked
// from the file extension, plus a compact writer that keeps one record per
// line (pkg/jsonio, pkg/compression).
//
// 4. Interchange formats: one component per Arrow IPC, Parquet or Avro
// file, with absent rows stored as nulls (pkg/formats/columnar).
//
// # Quick Start
//
// Encode a small grid and write it as compact JSON:
//
//	import (
//	    "go.uber.org/zap"
//	    "github.com/FrankKr/power-grid-model/pkg/convert"
//	    "github.com/FrankKr/power-grid-model/pkg/jsonio"
//	    "github.com/FrankKr/power-grid-model/pkg/meta"
//	    "github.com/FrankKr/power-grid-model/pkg/models"
//	)
//
//	log, _ := zap.NewProduction()
//	reg := meta.NewRegistry(log)
//	conv := convert.New(reg, log)
//	fio := jsonio.New(conv, log)
//
//	grid := models.RecordSet{
//	    "node": {
//	        {"id": 1, "u_rated": 10.5e3},
//	        {"id": 2, "u_rated": 10.5e3},
//	    },
//	    "sym_load": {
//	        {"id": 3, "node": 1, "status": 1, "type": 0, "p_specified": 1.0e6},
//	    },
//	}
//
//	ds, err := conv.EncodeSingle(meta.DataTypeInput, grid)
//	if err != nil {
//	    log.Fatal("encode failed", zap.Error(err))
//	}
//	err = fio.Export("input.json.gz", ds, jsonio.Options{Indent: 2, Compact: true})
//
// # Key Packages
//
//	pkg/dataset     - Columnar arrays, batches and sentinel optionality
//	pkg/meta        - Component registry with the standard grid layouts
//	pkg/models      - Record form: attribute maps and extra info
//	pkg/convert     - Record/columnar conversion and batch packing
//	pkg/jsonio      - JSON files with compression and the compact layout
//	pkg/formats     - Arrow, Parquet and Avro component files
//	pkg/compression - Pooled gzip, zstd and lz4 codecs
//	pkg/config      - CLI configuration with ${VAR_NAME} substitution
//	pkg/errors      - Structured error handling
//	pkg/logger      - Structured logging
//	pkg/metrics     - Conversion and file IO metrics
//
// # Data Model
//
// Attributes come in three storage kinds: f8 (float64), i4 (int32) and i1
// (int8). Optional attributes use sentinel values instead of presence
// flags: NaN for f8, the minimum value for i4 and i1. A column whose values
// are all sentinels is absent and never serialized; zero is an ordinary
// present value.
//
// Batch datasets hold one row block per scenario. When every scenario
// carries the same number of records for a component the block is dense,
// a plain [scenarios x records] layout; otherwise an index pointer array
// marks the scenario boundaries in a single concatenated data array.
//
// # Configuration
//
// The pgm command reads an optional YAML file:
//
//	conversion:
//	  data_type: input
//	  indent: 2
//	  compact: true
//	  format: parquet
//	logging:
//	  level: info
//	  encoding: console
//
// Environment variables are supported with ${VAR_NAME} syntax, and command
// line flags override file values.
//
// # Development
//
// Build and try the CLI:
//
//	go build ./cmd/pgm
//	./pgm components input
//	./pgm convert input.json grid_dir --format parquet
//	./pgm validate input.json.gz
//
// Run tests and benchmarks:
//
//	go test ./...
//	go test -bench=. ./pkg/convert ./pkg/formats/columnar
package powergridmodel
