// Package convert translates between the two shapes a grid dataset can
// take: the nested record form that mirrors serialized JSON, and the
// columnar form used for bulk numerical work.
//
// The translation is bidirectional and composes from four independent
// pieces:
//
//   - encoding: record sets to sentinel-filled columnar arrays, validated
//     against the registered component layouts
//   - packing: a list of single datasets to one batch dataset, choosing
//     per component between a dense stack and a sparse indptr encoding
//   - unpacking: a batch dataset back to per-scenario single datasets,
//     as views into the batch storage
//   - decoding: columnar arrays back to records, dropping attributes whose
//     stored value equals the kind's sentinel
//
// Extra info, the free-form payload keyed by object id, never enters the
// columnar form. It is injected into decoded record sets afterwards.
//
// All operations are pure transformations except Inject, which mutates the
// records it is given. A Converter is stateless apart from its registry and
// logger and is safe for concurrent use.
package convert

import (
	"go.uber.org/zap"

	"github.com/FrankKr/power-grid-model/pkg/meta"
)

// Converter translates datasets between record form and columnar form.
// Component layouts are resolved through the registry given at construction.
type Converter struct {
	reg *meta.Registry
	log *zap.Logger
}

// New creates a converter backed by the given registry. A nil logger
// disables logging.
func New(reg *meta.Registry, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{reg: reg, log: log}
}
