package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
)

// Normalize converts decoded YAML or JSON values into a canonical shape so
// that a locally declared configuration and a remote one compare equal when
// they carry the same data: integers become int64, json.Number is resolved,
// and maps are keyed by string.
func Normalize(value Value) (Value, error) {
	return normalizeValue(value)
}

// NormalizeMap normalizes an object value. A nil map becomes an empty one.
func NormalizeMap(values map[string]any) (map[string]any, error) {
	if values == nil {
		return map[string]any{}, nil
	}
	return normalizeStringMap(values)
}

func normalizeValue(value any) (any, error) {
	switch typed := value.(type) {
	case nil, bool, string:
		return typed, nil
	case float32:
		return normalizeFloat(float64(typed))
	case float64:
		return normalizeFloat(typed)
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint:
		return normalizeUint(uint64(typed))
	case uint8:
		return normalizeUint(uint64(typed))
	case uint16:
		return normalizeUint(uint64(typed))
	case uint32:
		return normalizeUint(uint64(typed))
	case uint64:
		return normalizeUint(typed)
	case json.Number:
		return normalizeJSONNumber(typed)
	case []any:
		return normalizeSlice(typed)
	case map[string]any:
		return normalizeStringMap(typed)
	case map[any]any:
		return normalizeAnyMap(typed)
	}

	return normalizeReflectValue(value)
}

func normalizeFloat(value float64) (any, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, validationError("configuration contains non-finite float", nil)
	}
	// Whole floats collapse to int64 so 5 and 5.0 compare equal across codecs.
	if value == math.Trunc(value) && math.Abs(value) < 1<<53 {
		return int64(value), nil
	}
	return value, nil
}

func normalizeUint(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, validationError("configuration contains integer out of range", nil)
	}
	return int64(value), nil
}

func normalizeJSONNumber(value json.Number) (any, error) {
	if asInt, err := value.Int64(); err == nil {
		return asInt, nil
	}
	if asBig, ok := new(big.Int).SetString(value.String(), 10); ok {
		if asBig.IsInt64() {
			return asBig.Int64(), nil
		}
		return nil, validationError("configuration contains integer out of range", nil)
	}

	asFloat, err := value.Float64()
	if err != nil {
		return nil, validationError("configuration contains invalid number", err)
	}
	return normalizeFloat(asFloat)
}

func normalizeSlice(values []any) ([]any, error) {
	normalized := make([]any, len(values))
	for idx, item := range values {
		itemValue, err := normalizeValue(item)
		if err != nil {
			return nil, err
		}
		normalized[idx] = itemValue
	}
	return normalized, nil
}

func normalizeStringMap(values map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(values))
	for _, key := range sortedKeys(values) {
		itemValue, err := normalizeValue(values[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		normalized[key] = itemValue
	}
	return normalized, nil
}

// normalizeAnyMap handles YAML mappings with non-string keys such as `1: a`.
func normalizeAnyMap(values map[any]any) (map[string]any, error) {
	converted := make(map[string]any, len(values))
	for key, item := range values {
		converted[fmt.Sprint(key)] = item
	}
	return normalizeStringMap(converted)
}

func normalizeReflectValue(value any) (any, error) {
	reflectValue := reflect.ValueOf(value)
	switch reflectValue.Kind() {
	case reflect.Map:
		if reflectValue.Type().Key().Kind() != reflect.String {
			return nil, validationError("configuration map keys must be strings", nil)
		}
		converted := make(map[string]any, reflectValue.Len())
		iter := reflectValue.MapRange()
		for iter.Next() {
			converted[iter.Key().String()] = iter.Value().Interface()
		}
		return normalizeStringMap(converted)
	case reflect.Slice, reflect.Array:
		items := make([]any, reflectValue.Len())
		for idx := range items {
			items[idx] = reflectValue.Index(idx).Interface()
		}
		return normalizeSlice(items)
	default:
		return nil, validationError(fmt.Sprintf("unsupported configuration value type %T", value), nil)
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
