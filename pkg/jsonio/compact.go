package jsonio

import (
	"bufio"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/FrankKr/power-grid-model/pkg/json"
)

// Compact rendering keeps the component structure readable while putting
// each record on a single line. The nesting depth at which values collapse
// to one line depends on the dataset shape:
//
//	single:  {component: [record, ...]}                  -> depth 3
//	batch:   [{component: [record, ...]}, ...]           -> depth 4
const (
	maxDepthSingle = 3
	maxDepthBatch  = 4
)

// writeCompact renders value with containers broken across lines up to
// maxDepth and everything below rendered inline.
func writeCompact(w io.Writer, value interface{}, indent, maxDepth int) error {
	bw := bufio.NewWriter(w)
	if err := compactValue(bw, reflect.ValueOf(value), indent, maxDepth, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func compactValue(w *bufio.Writer, v reflect.Value, indent, maxDepth, depth int) error {
	v = unwrapValue(v)
	tab := strings.Repeat(" ", depth*indent)

	if depth >= maxDepth || !isContainer(v) {
		if _, err := w.WriteString(tab); err != nil {
			return err
		}
		return writeInline(w, v)
	}
	if v.Kind() == reflect.Map {
		return compactMapping(w, v, indent, maxDepth, depth)
	}
	return compactSequence(w, v, indent, maxDepth, depth)
}

func compactSequence(w *bufio.Writer, v reflect.Value, indent, maxDepth, depth int) error {
	tab := strings.Repeat(" ", depth*indent)
	if _, err := w.WriteString(tab + "[\n"); err != nil {
		return err
	}
	n := v.Len()
	for i := 0; i < n; i++ {
		if err := compactValue(w, v.Index(i), indent, maxDepth, depth+1); err != nil {
			return err
		}
		sep := "\n"
		if i < n-1 {
			sep = ",\n"
		}
		if _, err := w.WriteString(sep); err != nil {
			return err
		}
	}
	_, err := w.WriteString(tab + "]")
	return err
}

func compactMapping(w *bufio.Writer, v reflect.Value, indent, maxDepth, depth int) error {
	tab := strings.Repeat(" ", depth*indent)
	if _, err := w.WriteString(tab + "{\n"); err != nil {
		return err
	}

	keys := sortedKeys(v)
	for i, key := range keys {
		name, err := json.Marshal(key.name)
		if err != nil {
			return err
		}
		if _, err := w.WriteString(tab + strings.Repeat(" ", indent) + string(name) + ":"); err != nil {
			return err
		}

		elem := unwrapValue(v.MapIndex(key.value))
		if depth == maxDepth-1 || !isContainer(elem) {
			if err := w.WriteByte(' '); err != nil {
				return err
			}
			if err := writeInline(w, elem); err != nil {
				return err
			}
		} else {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
			if err := compactValue(w, elem, indent, maxDepth, depth+2); err != nil {
				return err
			}
		}

		sep := "\n"
		if i < len(keys)-1 {
			sep = ",\n"
		}
		if _, err := w.WriteString(sep); err != nil {
			return err
		}
	}
	_, err := w.WriteString(tab + "}")
	return err
}

type mapKey struct {
	name  string
	value reflect.Value
}

func sortedKeys(v reflect.Value) []mapKey {
	keys := make([]mapKey, 0, v.Len())
	for _, key := range v.MapKeys() {
		keys = append(keys, mapKey{name: key.String(), value: key})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].name < keys[j].name })
	return keys
}

func writeInline(w *bufio.Writer, v reflect.Value) error {
	var value interface{}
	if v.IsValid() {
		value = v.Interface()
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func unwrapValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isContainer(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map:
		return v.Type().Key().Kind() == reflect.String
	case reflect.Slice, reflect.Array:
		// []byte marshals to a base64 string, not a JSON array.
		return v.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}
