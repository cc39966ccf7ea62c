package diffengine

import (
	"strings"

	"github.com/chartdiff/chartdiff/internal/path"
)

// DefaultNoisePaths are the fields that never carry semantic meaning
// (spec.md §4.3.1). CRD diffing extends this list (see crd package).
var DefaultNoisePaths = []string{
	"status",
	"metadata.creationTimestamp",
	"metadata.resourceVersion",
	"metadata.uid",
	"metadata.generation",
	"metadata.managedFields",
	`metadata.annotations.meta\.helm\.sh/*`,
}

// StripNoise returns a deep copy of body with every path matching one of
// patterns removed. The original is untouched.
func StripNoise(body map[string]any, patterns []string) map[string]any {
	out, _ := deepCopy(body).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}

	for _, pattern := range patterns {
		stripOne(out, pattern)
	}

	return out
}

func stripOne(root map[string]any, pattern string) {
	segments := path.Parse(pattern)
	if len(segments) == 0 {
		return
	}

	last := segments[len(segments)-1]

	parent := any(root)
	for _, seg := range segments[:len(segments)-1] {
		m, ok := parent.(map[string]any)
		if !ok {
			return
		}

		next, found := m[seg.Key]
		if !found {
			return
		}

		parent = next
	}

	m, ok := parent.(map[string]any)
	if !ok || last.IsIndex() {
		return
	}

	if strings.HasSuffix(last.Key, "*") {
		prefix := strings.TrimSuffix(last.Key, "*")
		for k := range m {
			if strings.HasPrefix(k, prefix) {
				delete(m, k)
			}
		}

		return
	}

	delete(m, last.Key)
}

// deepCopy recursively clones a tree of map[string]any / []any / scalars.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}

		return out
	default:
		return v
	}
}
