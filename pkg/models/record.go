// Package models defines the record form of grid datasets: the nested,
// human-editable shape that mirrors serialized JSON one to one. A record is a
// plain attribute map, a record set groups records per component, and extra
// info carries free-form payloads keyed by object id.
//
// Records hold decoded plain values (float64, int, []float64, []int) rather
// than columnar storage. The convert package translates between this form and
// the columnar dataset form.
package models

import (
	"encoding/json"
	"sort"
)

// IDField is the attribute that identifies an object within its component.
// Every standard component schema carries it as its first attribute.
const IDField = "id"

// ExtraField is the record key reserved for serializable payloads that are
// not part of the component schema. It is skipped during encoding and used
// as the landing spot for extra-info injection.
const ExtraField = "extra"

// Record is a single object in record form: attribute name to plain value.
// Absent optional attributes are simply missing keys.
type Record map[string]any

// ID returns the record's object id if present and numeric. JSON decoding
// leaves numbers as json.Number, while hand-built records typically use Go
// ints; both are accepted. Non-integral floats are rejected.
func (r Record) ID() (int, bool) {
	v, ok := r[IDField]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case int:
		return id, true
	case int8:
		return int(id), true
	case int16:
		return int(id), true
	case int32:
		return int(id), true
	case int64:
		return int(id), true
	case float64:
		if id != float64(int64(id)) {
			return 0, false
		}
		return int(id), true
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// RecordSet is a single dataset in record form: component name to its
// records. A missing component and a component with zero records are
// equivalent.
type RecordSet map[string][]Record

// Components returns the component names present in the set, sorted for
// deterministic iteration.
func (rs RecordSet) Components() []string {
	names := make([]string, 0, len(rs))
	for name := range rs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtraInfo maps object ids to serializable payloads that travel alongside
// a dataset without being part of any component schema.
type ExtraInfo map[int]any
