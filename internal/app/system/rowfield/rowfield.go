// Package rowfield resolves a column key against a row struct.
//
// Column definitions address row values by key, the way the backend API
// names them in JSON ("totalAmount", "createdAt"). A key matches a struct
// field either by its json tag or, failing that, by a case-insensitive
// field-name match. Rows are plain structs (or pointers to structs)
// decoded from backend responses.
package rowfield

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Lookup returns the value of the field addressed by key, and whether the
// key resolved. Pointers are dereferenced; a nil row or unmatched key
// resolves to (nil, false).
func Lookup(item any, key string) (any, bool) {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tagName(f) == key || strings.EqualFold(f.Name, key) {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}

// String stringifies the field addressed by key. Times render as RFC 3339;
// unresolved keys render as the empty string.
func String(item any, key string) string {
	val, ok := Lookup(item, key)
	if !ok || val == nil {
		return ""
	}
	switch t := val.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	case float64:
		return trimFloat(t)
	case float32:
		return trimFloat(float64(t))
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Time reports the field addressed by key as a time, when it is one
// (time.Time, *time.Time, or an RFC 3339 string).
func Time(item any, key string) (time.Time, bool) {
	val, ok := Lookup(item, key)
	if !ok {
		return time.Time{}, false
	}
	switch t := val.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Float reports the field addressed by key as a float64, when numeric.
func Float(item any, key string) (float64, bool) {
	val, ok := Lookup(item, key)
	if !ok {
		return 0, false
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// Has reports whether key resolves to a field on item.
func Has(item any, key string) bool {
	_, ok := Lookup(item, key)
	return ok
}

func tagName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
