// Package schema provides JSON Schema validation for decoded request bodies.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Validate checks a decoded JSON value against a JSON Schema (draft-07 subset).
// Returns nil if validation passes or the schema is nil.
//
// Supported JSON Schema keywords:
//   - type (a single name or a list of names: string, number, integer,
//     boolean, object, array, null)
//   - properties
func Validate(schema map[string]any, value any) error {
	if schema == nil {
		return nil
	}
	return validateValue(schema, value, "$")
}

func validateValue(schema map[string]any, value any, path string) error {
	if t, ok := schema["type"]; ok {
		if err := checkType(typeNames(t), value, path); err != nil {
			return err
		}
	}

	if obj, ok := value.(map[string]any); ok {
		return validateProperties(schema, obj, path)
	}
	return nil
}

func typeNames(t any) []string {
	switch ts := t.(type) {
	case string:
		return []string{ts}
	case []string:
		return ts
	case []any:
		names := make([]string, 0, len(ts))
		for _, n := range ts {
			if s, ok := n.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

func checkType(expected []string, value any, path string) error {
	if len(expected) == 0 {
		return nil
	}
	actual := jsonType(value)
	for _, e := range expected {
		if e == actual {
			return nil
		}
		// "number" also accepts integer, "integer" accepts whole floats
		if e == "number" && actual == "integer" {
			return nil
		}
		if e == "integer" && actual == "number" {
			if f, ok := toFloat(value); ok && f == float64(int64(f)) {
				return nil
			}
		}
	}
	if len(expected) == 1 {
		return fmt.Errorf("%s: expected type %q, got %q", path, expected[0], actual)
	}
	return fmt.Errorf("%s: expected one of types %q, got %q", path, expected, actual)
}

func jsonType(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case json.Number:
		return "number"
	case int, int64:
		return "integer"
	default:
		return reflect.TypeOf(v).String()
	}
}

// validateProperties checks the members named in "properties". Members the
// schema does not name are ignored.
func validateProperties(schema map[string]any, obj map[string]any, path string) error {
	propsMap, _ := schema["properties"].(map[string]any)
	for field, propSchema := range propsMap {
		val, exists := obj[field]
		if !exists {
			continue
		}
		ps, ok := propSchema.(map[string]any)
		if !ok {
			continue
		}
		if err := validateValue(ps, val, path+"."+field); err != nil {
			return err
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
