// Package meta provides the schema registry for power-grid datasets: the
// attribute layout of every (data type, component) pair, and allocation of
// sentinel-filled component arrays.
package meta

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// Standard data type names.
const (
	DataTypeInput      = "input"
	DataTypeUpdate     = "update"
	DataTypeSymOutput  = "sym_output"
	DataTypeAsymOutput = "asym_output"
)

// Registry maps (data type, component) pairs to attribute layouts. A
// registry is safe for concurrent use; layouts are immutable once
// registered.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]map[string]*dataset.Schema
	logger  *zap.Logger
}

// NewRegistry creates a registry pre-populated with the standard power-grid
// layouts for input, update, sym_output and asym_output data. A nil logger
// disables registration logging.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		layouts: standardLayouts(),
		logger:  logger,
	}
}

// Register adds a layout for a (data type, component) pair. Registering an
// existing pair is a conflict; layouts never change once visible.
func (r *Registry) Register(dataType, component string, schema *dataset.Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	components, ok := r.layouts[dataType]
	if !ok {
		components = make(map[string]*dataset.Schema)
		r.layouts[dataType] = components
	}
	if _, exists := components[component]; exists {
		return errors.Newf(errors.ErrorTypeConflict, "component %q already registered for %s data", component, dataType)
	}
	components[component] = schema

	r.logger.Info("registered component layout",
		zap.String("data_type", dataType),
		zap.String("component", component),
		zap.Int("attributes", schema.Len()))
	return nil
}

// Schema returns the layout of a (data type, component) pair.
func (r *Registry) Schema(dataType, component string) (*dataset.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	components, ok := r.layouts[dataType]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeUnknownComponent, "unknown data type %q", dataType).
			WithDetail("data_type", dataType)
	}
	schema, ok := components[component]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeUnknownComponent, "unknown component %q for %s data", component, dataType).
			WithDetail("data_type", dataType).
			WithDetail("component", component)
	}
	return schema, nil
}

// Allocate returns a sentinel-filled array of the given length for a
// (data type, component) pair.
func (r *Registry) Allocate(dataType, component string, length int) (*dataset.Array, error) {
	schema, err := r.Schema(dataType, component)
	if err != nil {
		return nil, err
	}
	return dataset.NewArray(schema, length)
}

// DataTypes returns the registered data type names, sorted.
func (r *Registry) DataTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Components returns the component names registered for a data type,
// sorted.
func (r *Registry) Components(dataType string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	components, ok := r.layouts[dataType]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeUnknownComponent, "unknown data type %q", dataType).
			WithDetail("data_type", dataType)
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
