package crd

import (
	"fmt"
	"regexp"

	"github.com/chartdiff/chartdiff/internal/path"
)

// wellKnownEnvelopeKeys are permitted at the object root regardless of
// additionalProperties=false (spec.md §4.5.7): the standard Kubernetes
// object envelope.
var wellKnownEnvelopeKeys = map[string]bool{
	"apiVersion": true,
	"kind":       true,
	"metadata":   true,
	"status":     true,
}

// ValidateInstance validates a live custom-resource instance against a
// schema (the `openAPIV3Schema` tree of a CRD's storage version) using a
// self-contained recursive walker supporting the minimum OpenAPI v3 subset
// from §4.5.7: type, enum, pattern, minimum/maximum, required, properties,
// additionalProperties, and items. Returns one formatted error per
// violation; a type mismatch short-circuits further validation of that
// subtree.
func ValidateInstance(schema, instance map[string]any) []string {
	var errs []string

	validateNode(schema, instance, "", &errs, true)

	return errs
}

// ValidateObject runs ValidateInstance and prefixes each error with
// "<namespace>/<name>: " as required by §4.5.7's error format.
func ValidateObject(schema, instance map[string]any, namespace, name string) []string {
	errs := ValidateInstance(schema, instance)

	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = namespace + "/" + name + ": " + e
	}

	return out
}

func validateNode(schema map[string]any, value any, at string, errs *[]string, isRoot bool) bool {
	if value == nil {
		return true
	}

	if t, ok := schema["type"].(string); ok {
		if !typeMatches(t, value) {
			*errs = append(*errs, fmt.Sprintf("At '%s': expected type %s, got %s", displayPath(at), t, describeType(value)))
			return false
		}
	}

	if enumRaw, ok := schema["enum"].([]any); ok {
		if !inEnum(value, enumRaw) {
			*errs = append(*errs, fmt.Sprintf("At '%s': value not in enum", displayPath(at)))
		}
	}

	switch v := value.(type) {
	case string:
		validateStringConstraints(schema, v, at, errs)
	case float64:
		validateNumericConstraints(schema, v, at, errs)
	case map[string]any:
		validateObject(schema, v, at, errs, isRoot)
	case []any:
		validateArray(schema, v, at, errs)
	}

	return true
}

func typeMatches(t string, v any) bool {
	switch t {
	case "string":
		_, ok := v.(string)
		return ok
	case "integer":
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	case "number":
		_, ok := v.(float64)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	default:
		return true
	}
}

func describeType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "null"
	}
}

func inEnum(v any, enum []any) bool {
	for _, e := range enum {
		if e == v {
			return true
		}
	}

	return false
}

func validateStringConstraints(schema map[string]any, v string, at string, errs *[]string) {
	pattern, ok := schema["pattern"].(string)
	if !ok || pattern == "" {
		return
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		// A malformed pattern is silently ignored (spec.md §4.5.7).
		return
	}

	if !re.MatchString(v) {
		*errs = append(*errs, fmt.Sprintf("At '%s': value does not match pattern %q", displayPath(at), pattern))
	}
}

func validateNumericConstraints(schema map[string]any, v float64, at string, errs *[]string) {
	if min, ok := schema["minimum"].(float64); ok && v < min {
		*errs = append(*errs, fmt.Sprintf("At '%s': value %v is below minimum %v", displayPath(at), v, min))
	}

	if max, ok := schema["maximum"].(float64); ok && v > max {
		*errs = append(*errs, fmt.Sprintf("At '%s': value %v is above maximum %v", displayPath(at), v, max))
	}
}

func validateObject(schema map[string]any, obj map[string]any, at string, errs *[]string, isRoot bool) {
	requiredRaw, _ := schema["required"].([]any)
	for _, reqRaw := range requiredRaw {
		req, ok := reqRaw.(string)
		if !ok {
			continue
		}

		if _, present := obj[req]; !present {
			*errs = append(*errs, fmt.Sprintf("At '%s': missing required field '%s'", displayPath(at), req))
		}
	}

	properties, _ := schema["properties"].(map[string]any)

	for key, val := range obj {
		childAt := path.Join(at, path.Segment{Key: key, Index: -1})

		propSchema, hasProp := properties[key].(map[string]any)
		if hasProp {
			validateNode(propSchema, val, childAt, errs, false)
			continue
		}

		if isRoot && wellKnownEnvelopeKeys[key] {
			continue
		}

		switch addl := schema["additionalProperties"].(type) {
		case bool:
			if !addl {
				*errs = append(*errs, fmt.Sprintf("At '%s': unknown field '%s'", displayPath(at), key))
			}
		case map[string]any:
			validateNode(addl, val, childAt, errs, false)
		}
	}
}

func validateArray(schema map[string]any, arr []any, at string, errs *[]string) {
	items, ok := schema["items"].(map[string]any)
	if !ok {
		return
	}

	for i, item := range arr {
		childAt := path.Join(at, path.Segment{Index: i})
		validateNode(items, item, childAt, errs, false)
	}
}

func displayPath(at string) string {
	if at == "" {
		return ""
	}

	return at
}
