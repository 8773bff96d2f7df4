package query

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// normalize maps a value onto the JSON value space so values built in Go
// and values decoded from a snapshot compare alike: every numeric kind
// becomes float64, typed slices become []any, string-keyed maps become
// map[string]any, time.Time becomes its RFC3339Nano string, and strings
// are NFC normalized.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return norm.NFC.String(x)
	case bool, float64:
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return norm.NFC.String(rv.String())
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}

// equal reports deep equality of two values after normalization. Numbers
// compare by value regardless of Go kind; structured values compare by
// content, never by identity.
func equal(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// compare orders two scalars of the same kind. ok is false when the values
// are nil or of different kinds.
func compare(a, b any) (int, bool) {
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case float64:
		y, ok := nb.(float64)
		if !ok {
			return 0, false
		}
		return cmpFloat(x, y), true
	case string:
		y, ok := nb.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := nb.(bool)
		if !ok {
			return 0, false
		}
		return cmpBool(x, y), true
	}
	return 0, false
}

// Kind ranks for sorting mixed columns. nil ranks last.
const (
	rankBool = iota
	rankNumber
	rankString
	rankOther
	rankNil
)

func rank(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case float64:
		return rankNumber
	case string:
		return rankString
	default:
		return rankOther
	}
}

// sortCompare is a total order over normalized values used by Order. nil
// is greater than every value, so it lands last ascending and first
// descending.
func sortCompare(a, b any) int {
	na, nb := normalize(a), normalize(b)
	ra, rb := rank(na), rank(nb)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case rankNil:
		return 0
	case rankOther:
		sa, _ := canonicalString(na)
		sb, _ := canonicalString(nb)
		return strings.Compare(sa, sb)
	}
	c, _ := compare(na, nb)
	return c
}

// canonicalString renders a value the way pattern and OR matching see it.
// nil has no string form.
func canonicalString(v any) (string, bool) {
	switch x := normalize(v).(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
