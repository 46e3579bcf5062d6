package output

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
)

// Sanitize recursively replaces NaN and Inf with 0. Structs become maps
// keyed by their json tag names.
func Sanitize(data any) any {
	switch v := data.(type) {
	case nil:
		return nil
	case float64:
		return finite(v)
	case float32:
		return float32(finite(float64(v)))
	case string, bool, int, int64:
		return v
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = Sanitize(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = Sanitize(val)
		}
		return result
	case []float64:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = finite(val)
		}
		return result
	default:
		return sanitizeWithReflection(data)
	}
}

func sanitizeWithReflection(data any) any {
	// values with their own text form (time.Time etc.) pass through
	if _, ok := data.(encoding.TextMarshaler); ok {
		return data
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		result := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			fieldType := typ.Field(i)

			if !field.CanInterface() {
				continue
			}

			name := fieldType.Name
			if tag := fieldType.Tag.Get("json"); tag != "" {
				parts := strings.Split(tag, ",")
				if parts[0] == "-" {
					continue
				}
				if parts[0] != "" {
					name = parts[0]
				}
				if slices.Contains(parts[1:], "omitempty") && field.IsZero() {
					continue
				}
			}

			result[name] = Sanitize(field.Interface())
		}
		return result
	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.IsNil() {
			return []any{}
		}
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			result[i] = Sanitize(val.Index(i).Interface())
		}
		return result
	case reflect.Map:
		result := make(map[string]any, val.Len())
		for _, key := range val.MapKeys() {
			result[fmt.Sprintf("%v", key.Interface())] = Sanitize(val.MapIndex(key).Interface())
		}
		return result
	case reflect.Float32, reflect.Float64:
		return finite(val.Float())
	case reflect.String:
		return val.String()
	default:
		return val.Interface()
	}
}

func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
