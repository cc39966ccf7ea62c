package diffengine

import (
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/chartdiff/chartdiff/internal/path"
)

// sortableSequenceKeys lists, in priority order, the stable keys used to
// sort a sequence's mapping items before comparison. Scalar-item sequences
// (container args) and sequences whose items do not all carry one of these
// keys (e.g. tolerations with effect-only entries) are left in original
// order. The order here is
// fixed rather than derived from map iteration so detectStableKey picks the
// same key on every call when an item carries more than one candidate —
// required for Normalize(Normalize(x)) == Normalize(x) (spec.md §8).
var sortableSequenceKeys = []string{
	"containerPort", // container ports sort by port number, not name
	"name",          // volume mounts, env vars, env-from, volumes
	"key",           // some env-from / secret key refs
}

// Normalize returns a deep copy of body with container ports, volume mounts,
// env vars, env-from, image pull secrets and similar named sequences sorted
// by their stable key, and CPU/memory quantity strings canonicalized.
// Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(body map[string]any) map[string]any {
	out, _ := deepCopy(body).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}

	normalizeNode(out)

	return out
}

func normalizeNode(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if isQuantityKey(k) {
				if s, ok := val.(string); ok {
					t[k] = canonicalQuantity(s)
					continue
				}
			}

			normalizeNode(val)
		}
	case []any:
		sortSequence(t)

		for _, item := range t {
			normalizeNode(item)
		}
	}
}

// isQuantityKey reports whether key commonly holds a CPU/memory quantity
// string under a resources.requests/resources.limits mapping. We key off
// the well-known field names rather than full paths so the check applies
// uniformly regardless of container/init-container/ephemeral nesting.
func isQuantityKey(key string) bool {
	return key == "cpu" || key == "memory" || key == "ephemeral-storage"
}

// canonicalQuantity reduces a Kubernetes quantity string to its canonical
// decimal form so "1000m" == "1" and "1024Mi" == "1Gi" compare equal. The
// decimal representation (via AsDec) is independent of the original binary
// vs. decimal suffix; trailing fractional zeros (and a bare trailing point)
// are trimmed so the scale of the original suffix does not survive.
// Unparseable values are returned unchanged; this is an open question in
// spec.md §9 and this is the table this implementation adopts.
func canonicalQuantity(s string) string {
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return s
	}

	out := q.AsDec().String()
	if strings.Contains(out, ".") {
		out = strings.TrimRight(strings.TrimRight(out, "0"), ".")
	}

	return out
}

// sortSequence sorts a slice of mapping items in-place by whichever stable
// key they share (containerPort, name, or key), leaving scalar-item
// sequences and sequences without a recognized key in their original order.
func sortSequence(seq []any) {
	key := detectStableKey(seq)
	if key == "" {
		return
	}

	sort.SliceStable(seq, func(i, j int) bool {
		fi, iNum := seq[i].(map[string]any)[key].(float64)
		fj, jNum := seq[j].(map[string]any)[key].(float64)

		if iNum && jNum {
			return fi < fj
		}

		return stableKeyValue(seq[i], key) < stableKeyValue(seq[j], key)
	})
}

func detectStableKey(seq []any) string {
	if len(seq) == 0 {
		return ""
	}

	for _, candidate := range sortableSequenceKeys {
		allHave := true

		for _, item := range seq {
			m, ok := item.(map[string]any)
			if !ok {
				allHave = false
				break
			}

			if _, found := m[candidate]; !found {
				allHave = false
				break
			}
		}

		if allHave {
			return candidate
		}
	}

	return ""
}

func stableKeyValue(item any, key string) string {
	m, ok := item.(map[string]any)
	if !ok {
		return ""
	}

	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return path.Format([]path.Segment{{Index: int(v)}})
	default:
		return ""
	}
}
