package dataset

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// Column stores one attribute for every record of a component array.
// Storage is column-major; a column of width w keeps w elements per record
// in one flat slice. Columns are created sentinel-filled so that attributes
// never written by the encoder decode as absent.
type Column interface {
	// Kind returns the storage kind of the column.
	Kind() Kind
	// Width returns the number of elements per record (1 for scalars, 3 for
	// three-phase values).
	Width() int
	// Len returns the number of records.
	Len() int
	// Absent reports whether every element of the record equals the kind's
	// sentinel.
	Absent(row int) bool
	// Set validates value and stores it at row. Scalars accept any Go
	// numeric or json.Number; vector rows additionally accept numeric
	// sequences of exactly Width elements, or a scalar broadcast across the
	// row.
	Set(row int, value interface{}) error
	// Value returns the record in plain form: float64 / int for scalars,
	// []float64 / []int copies for vectors.
	Value(row int) interface{}
	// Slice returns a view of rows [from, to) sharing the backing storage.
	Slice(from, to int) Column
	// MemoryUsage returns the approximate backing storage size in bytes.
	MemoryUsage() int64

	// appendFrom appends all rows of src, which must have the same kind and
	// width. Keeps the column set closed.
	appendFrom(src Column) error
}

// NewColumn returns a sentinel-filled column of the given kind and shape.
func NewColumn(kind Kind, width, length int) (Column, error) {
	if width < 1 {
		return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat, "attribute width %d is not positive", width)
	}
	switch kind {
	case Float64:
		return newFloat64Column(width, length), nil
	case Int32:
		return newInt32Column(width, length), nil
	case Int8:
		return newInt8Column(width, length), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedKind, "unsupported storage kind %d", uint8(kind))
	}
}

// Float64Column stores f8 attributes; NaN is the unset sentinel.
type Float64Column struct {
	width  int
	values []float64
}

func newFloat64Column(width, length int) *Float64Column {
	values := make([]float64, width*length)
	for i := range values {
		values[i] = math.NaN()
	}
	return &Float64Column{width: width, values: values}
}

// Kind returns Float64.
func (c *Float64Column) Kind() Kind { return Float64 }

// Width returns the elements per record.
func (c *Float64Column) Width() int { return c.width }

// Len returns the number of records.
func (c *Float64Column) Len() int { return len(c.values) / c.width }

// Row returns the raw storage slice of one record. The slice aliases the
// column; callers must not hold it across mutations.
func (c *Float64Column) Row(row int) []float64 {
	return c.values[row*c.width : (row+1)*c.width]
}

// Absent reports whether the record holds no value.
func (c *Float64Column) Absent(row int) bool { return absentFloat64s(c.Row(row)) }

// Set stores value at row.
func (c *Float64Column) Set(row int, value interface{}) error {
	dst := c.Row(row)
	if c.width == 1 {
		v, err := toFloat64(value)
		if err != nil {
			return err
		}
		dst[0] = v
		return nil
	}
	if v, err := toFloat64(value); err == nil {
		// Scalar broadcast across the vector.
		for i := range dst {
			dst[i] = v
		}
		return nil
	}
	vs, err := toFloat64Slice(value)
	if err != nil {
		return err
	}
	if len(vs) != c.width {
		return fmt.Errorf("expected %d elements, got %d", c.width, len(vs))
	}
	copy(dst, vs)
	return nil
}

// Value returns the record in plain form.
func (c *Float64Column) Value(row int) interface{} {
	if c.width == 1 {
		return c.values[row]
	}
	out := make([]float64, c.width)
	copy(out, c.Row(row))
	return out
}

// Slice returns a view of rows [from, to).
func (c *Float64Column) Slice(from, to int) Column {
	return &Float64Column{width: c.width, values: c.values[from*c.width : to*c.width]}
}

// MemoryUsage returns the backing storage size in bytes.
func (c *Float64Column) MemoryUsage() int64 { return int64(len(c.values) * 8) }

func (c *Float64Column) appendFrom(src Column) error {
	s, ok := src.(*Float64Column)
	if !ok || s.width != c.width {
		return fmt.Errorf("cannot append %s[%d] column to f8[%d]", src.Kind(), src.Width(), c.width)
	}
	c.values = append(c.values, s.values...)
	return nil
}

// Int32Column stores i4 attributes (ids, node references); the minimum
// int32 is the unset sentinel.
type Int32Column struct {
	width  int
	values []int32
}

func newInt32Column(width, length int) *Int32Column {
	values := make([]int32, width*length)
	for i := range values {
		values[i] = SentinelInt32
	}
	return &Int32Column{width: width, values: values}
}

// Kind returns Int32.
func (c *Int32Column) Kind() Kind { return Int32 }

// Width returns the elements per record.
func (c *Int32Column) Width() int { return c.width }

// Len returns the number of records.
func (c *Int32Column) Len() int { return len(c.values) / c.width }

// Row returns the raw storage slice of one record.
func (c *Int32Column) Row(row int) []int32 {
	return c.values[row*c.width : (row+1)*c.width]
}

// Absent reports whether the record holds no value.
func (c *Int32Column) Absent(row int) bool { return absentInt32s(c.Row(row)) }

// Set stores value at row.
func (c *Int32Column) Set(row int, value interface{}) error {
	dst := c.Row(row)
	if c.width == 1 {
		v, err := toInt64(value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		dst[0] = int32(v)
		return nil
	}
	if v, err := toInt64(value, math.MinInt32, math.MaxInt32); err == nil {
		for i := range dst {
			dst[i] = int32(v)
		}
		return nil
	}
	vs, err := toInt64Slice(value, math.MinInt32, math.MaxInt32)
	if err != nil {
		return err
	}
	if len(vs) != c.width {
		return fmt.Errorf("expected %d elements, got %d", c.width, len(vs))
	}
	for i, v := range vs {
		dst[i] = int32(v)
	}
	return nil
}

// Value returns the record in plain form.
func (c *Int32Column) Value(row int) interface{} {
	if c.width == 1 {
		return int(c.values[row])
	}
	out := make([]int, c.width)
	for i, v := range c.Row(row) {
		out[i] = int(v)
	}
	return out
}

// Slice returns a view of rows [from, to).
func (c *Int32Column) Slice(from, to int) Column {
	return &Int32Column{width: c.width, values: c.values[from*c.width : to*c.width]}
}

// MemoryUsage returns the backing storage size in bytes.
func (c *Int32Column) MemoryUsage() int64 { return int64(len(c.values) * 4) }

func (c *Int32Column) appendFrom(src Column) error {
	s, ok := src.(*Int32Column)
	if !ok || s.width != c.width {
		return fmt.Errorf("cannot append %s[%d] column to i4[%d]", src.Kind(), src.Width(), c.width)
	}
	c.values = append(c.values, s.values...)
	return nil
}

// Int8Column stores i1 attributes (statuses, enums, tap positions); the
// minimum int8 is the unset sentinel.
type Int8Column struct {
	width  int
	values []int8
}

func newInt8Column(width, length int) *Int8Column {
	values := make([]int8, width*length)
	for i := range values {
		values[i] = SentinelInt8
	}
	return &Int8Column{width: width, values: values}
}

// Kind returns Int8.
func (c *Int8Column) Kind() Kind { return Int8 }

// Width returns the elements per record.
func (c *Int8Column) Width() int { return c.width }

// Len returns the number of records.
func (c *Int8Column) Len() int { return len(c.values) / c.width }

// Row returns the raw storage slice of one record.
func (c *Int8Column) Row(row int) []int8 {
	return c.values[row*c.width : (row+1)*c.width]
}

// Absent reports whether the record holds no value.
func (c *Int8Column) Absent(row int) bool { return absentInt8s(c.Row(row)) }

// Set stores value at row.
func (c *Int8Column) Set(row int, value interface{}) error {
	dst := c.Row(row)
	if c.width == 1 {
		v, err := toInt64(value, math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		dst[0] = int8(v)
		return nil
	}
	if v, err := toInt64(value, math.MinInt8, math.MaxInt8); err == nil {
		for i := range dst {
			dst[i] = int8(v)
		}
		return nil
	}
	vs, err := toInt64Slice(value, math.MinInt8, math.MaxInt8)
	if err != nil {
		return err
	}
	if len(vs) != c.width {
		return fmt.Errorf("expected %d elements, got %d", c.width, len(vs))
	}
	for i, v := range vs {
		dst[i] = int8(v)
	}
	return nil
}

// Value returns the record in plain form.
func (c *Int8Column) Value(row int) interface{} {
	if c.width == 1 {
		return int(c.values[row])
	}
	out := make([]int, c.width)
	for i, v := range c.Row(row) {
		out[i] = int(v)
	}
	return out
}

// Slice returns a view of rows [from, to).
func (c *Int8Column) Slice(from, to int) Column {
	return &Int8Column{width: c.width, values: c.values[from*c.width : to*c.width]}
}

// MemoryUsage returns the backing storage size in bytes.
func (c *Int8Column) MemoryUsage() int64 { return int64(len(c.values)) }

func (c *Int8Column) appendFrom(src Column) error {
	s, ok := src.(*Int8Column)
	if !ok || s.width != c.width {
		return fmt.Errorf("cannot append %s[%d] column to i1[%d]", src.Kind(), src.Width(), c.width)
	}
	c.values = append(c.values, s.values...)
	return nil
}

// toFloat64 converts any accepted numeric representation to float64.
func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("cannot convert %T to f8", value)
	}
}

// toInt64 converts any accepted numeric representation to int64, rejecting
// non-integral floats and values outside [min, max].
func toInt64(value interface{}, min, max int64) (int64, error) {
	var v int64
	switch n := value.(type) {
	case int:
		v = int64(n)
	case int64:
		v = n
	case int32:
		v = int64(n)
	case int16:
		v = int64(n)
	case int8:
		v = int64(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, fmt.Errorf("cannot store non-integral value %v in integer attribute", n)
		}
		if n < float64(min) || n > float64(max) {
			return 0, fmt.Errorf("value %v out of range [%d, %d]", n, min, max)
		}
		return int64(n), nil
	case float32:
		return toInt64(float64(n), min, max)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, fmt.Errorf("cannot convert %q to integer", n.String())
			}
			return toInt64(f, min, max)
		}
		v = i
	default:
		return 0, fmt.Errorf("cannot convert %T to integer attribute", value)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("value %d out of range [%d, %d]", v, min, max)
	}
	return v, nil
}

func toFloat64Slice(value interface{}) ([]float64, error) {
	switch vs := value.(type) {
	case []float64:
		return vs, nil
	case []interface{}:
		out := make([]float64, len(vs))
		for i, v := range vs {
			f, err := toFloat64(v)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	case []int:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []json.Number:
		out := make([]float64, len(vs))
		for i, v := range vs {
			f, err := v.Float64()
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to f8 vector", value)
	}
}

func toInt64Slice(value interface{}, min, max int64) ([]int64, error) {
	switch vs := value.(type) {
	case []interface{}:
		out := make([]int64, len(vs))
		for i, v := range vs {
			n, err := toInt64(v, min, max)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []int:
		out := make([]int64, len(vs))
		for i, v := range vs {
			n, err := toInt64(int64(v), min, max)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to integer vector", value)
	}
}
