package dataset

import (
	"math"

	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// Kind is the storage kind of an attribute. The set is closed: power-grid
// datasets store 8-byte floats, 4-byte signed integers (ids, node
// references) and 1-byte signed integers (statuses, enums, tap positions).
type Kind uint8

const (
	// Float64 is an 8-byte float attribute; NaN marks an unset value.
	Float64 Kind = iota
	// Int32 is a 4-byte signed integer attribute; the minimum representable
	// value marks an unset value.
	Int32
	// Int8 is a 1-byte signed integer attribute; the minimum representable
	// value marks an unset value.
	Int8
)

// Integer sentinels. The float sentinel is NaN and has no usable constant.
const (
	SentinelInt32 int32 = math.MinInt32
	SentinelInt8  int8  = math.MinInt8
)

// Valid reports whether k is one of the recognized storage kinds.
func (k Kind) Valid() bool {
	switch k {
	case Float64, Int32, Int8:
		return true
	default:
		return false
	}
}

// String returns the short dtype notation used across grid datasets
// ("f8", "i4", "i1").
func (k Kind) String() string {
	switch k {
	case Float64:
		return "f8"
	case Int32:
		return "i4"
	case Int8:
		return "i1"
	default:
		return "unknown"
	}
}

// Absent reports whether a stored attribute value consists entirely of the
// unset sentinel of its kind. value must be in storage form: a scalar or
// slice of float64, int32 or int8 matching kind. Multi-element values are
// absent only when every element is the sentinel.
func Absent(kind Kind, value interface{}) (bool, error) {
	switch kind {
	case Float64:
		switch v := value.(type) {
		case float64:
			return math.IsNaN(v), nil
		case []float64:
			return absentFloat64s(v), nil
		}
	case Int32:
		switch v := value.(type) {
		case int32:
			return v == SentinelInt32, nil
		case []int32:
			return absentInt32s(v), nil
		}
	case Int8:
		switch v := value.(type) {
		case int8:
			return v == SentinelInt8, nil
		case []int8:
			return absentInt8s(v), nil
		}
	default:
		return false, errors.Newf(errors.ErrorTypeUnsupportedKind, "unsupported storage kind %d", uint8(kind))
	}
	return false, errors.Newf(errors.ErrorTypeInvalidAttributeValue, "value of type %T is not in %s storage form", value, kind)
}

func absentFloat64s(vs []float64) bool {
	for _, v := range vs {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

func absentInt32s(vs []int32) bool {
	for _, v := range vs {
		if v != SentinelInt32 {
			return false
		}
	}
	return true
}

func absentInt8s(vs []int8) bool {
	for _, v := range vs {
		if v != SentinelInt8 {
			return false
		}
	}
	return true
}
