package dataset

import (
	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// Attribute describes one field of a component schema.
type Attribute struct {
	Name string
	Kind Kind
	Size int // elements per record: 1 for scalars, 3 for three-phase values
}

// Schema is the ordered attribute layout of one component for one data
// type. Attribute order is the layout order of the upstream metadata and is
// preserved through allocation, decoding and interchange formats.
type Schema struct {
	attributes []Attribute
	index      map[string]int
}

// NewSchema builds a schema from an ordered attribute list.
func NewSchema(attributes []Attribute) (*Schema, error) {
	s := &Schema{
		attributes: make([]Attribute, len(attributes)),
		index:      make(map[string]int, len(attributes)),
	}
	copy(s.attributes, attributes)
	for i, attr := range attributes {
		if !attr.Kind.Valid() {
			return nil, errors.Newf(errors.ErrorTypeUnsupportedKind, "attribute %q has unsupported storage kind %d", attr.Name, uint8(attr.Kind))
		}
		if attr.Size < 1 {
			return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat, "attribute %q has width %d", attr.Name, attr.Size)
		}
		if _, dup := s.index[attr.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeConflict, "duplicate attribute %q", attr.Name)
		}
		s.index[attr.Name] = i
	}
	return s, nil
}

// Len returns the number of attributes.
func (s *Schema) Len() int { return len(s.attributes) }

// At returns the attribute at position i.
func (s *Schema) At(i int) Attribute { return s.attributes[i] }

// Index returns the position of the named attribute.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Attribute returns the named attribute.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attributes[i], true
}

// Names returns the attribute names in layout order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.attributes))
	for i, attr := range s.attributes {
		names[i] = attr.Name
	}
	return names
}

// Equal reports whether two schemas have identical attribute layouts.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if other == nil || len(s.attributes) != len(other.attributes) {
		return false
	}
	for i, attr := range s.attributes {
		if other.attributes[i] != attr {
			return false
		}
	}
	return true
}

// Array is one component's fixed-schema array: a fixed number of records
// over the component's attribute layout. Arrays are allocated
// sentinel-filled, so a freshly allocated array decodes to records with no
// present attributes.
type Array struct {
	schema  *Schema
	length  int
	columns []Column
}

// NewArray allocates a sentinel-filled array of the given length.
func NewArray(schema *Schema, length int) (*Array, error) {
	if length < 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat, "array length %d is negative", length)
	}
	columns := make([]Column, schema.Len())
	for i := 0; i < schema.Len(); i++ {
		attr := schema.At(i)
		col, err := NewColumn(attr.Kind, attr.Size, length)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return &Array{schema: schema, length: length, columns: columns}, nil
}

// Len returns the number of records.
func (a *Array) Len() int { return a.length }

// Schema returns the attribute layout.
func (a *Array) Schema() *Schema { return a.schema }

// Column returns the column of the named attribute.
func (a *Array) Column(name string) (Column, bool) {
	i, ok := a.schema.Index(name)
	if !ok {
		return nil, false
	}
	return a.columns[i], true
}

// ColumnAt returns the column at schema position i.
func (a *Array) ColumnAt(i int) Column { return a.columns[i] }

// Slice returns a view of records [from, to) sharing the backing storage.
func (a *Array) Slice(from, to int) *Array {
	columns := make([]Column, len(a.columns))
	for i, col := range a.columns {
		columns[i] = col.Slice(from, to)
	}
	return &Array{schema: a.schema, length: to - from, columns: columns}
}

// MemoryUsage returns the approximate backing storage size in bytes.
func (a *Array) MemoryUsage() int64 {
	var total int64
	for _, col := range a.columns {
		total += col.MemoryUsage()
	}
	return total
}

// Concat concatenates arrays of one component in order. All inputs must
// share the same attribute layout.
func Concat(arrays []*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, errors.New(errors.ErrorTypeInvalidDataFormat, "cannot concatenate zero arrays")
	}
	first := arrays[0]
	out, err := NewArray(first.schema, 0)
	if err != nil {
		return nil, err
	}
	for _, arr := range arrays {
		if !first.schema.Equal(arr.schema) {
			return nil, errors.New(errors.ErrorTypeInvalidDataFormat, "cannot concatenate arrays with different layouts")
		}
		for i, col := range out.columns {
			if err := col.appendFrom(arr.columns[i]); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeInvalidDataFormat, "concatenating component arrays")
			}
		}
		out.length += arr.length
	}
	return out, nil
}
