// Package risk implements graduated risk classification (spec.md §4.4.1)
// and ownership detection (§4.4.2) for general resources. The CRD-specific
// rule table lives in the crd package since its path grammar differs.
package risk

import (
	"regexp"
	"strconv"

	"github.com/chartdiff/chartdiff/internal/types"
)

// Rule is one entry of an ordered, first-match-wins risk table.
type Rule struct {
	ID      string
	Level   types.RiskLevel
	Path    *regexp.Regexp
	Matches func(change types.FieldChange, resourceKind string) bool
}

// DefaultRules is the general-purpose rule table (spec.md §4.4.1). Order is
// load-bearing: the first matching rule wins.
var DefaultRules = []Rule{
	{
		ID:    "workload_selector_changed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`^spec\.selector(\.|$)`),
		Matches: func(c types.FieldChange, kind string) bool {
			return isWorkloadKind(kind)
		},
	},
	{
		ID:    "configdata_key_removed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`^data\.[^.]+$`),
		Matches: func(c types.FieldChange, kind string) bool {
			return c.ChangeType == types.ChangeItemRemoved && (kind == "ConfigMap" || kind == "Secret")
		},
	},
	{
		ID:    "replicas_scaled_to_zero",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`^spec\.replicas$`),
		Matches: func(c types.FieldChange, kind string) bool {
			return isZero(c.NewValue)
		},
	},
	{
		ID:    "image_tag_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`\.image$`),
		Matches: func(c types.FieldChange, kind string) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "resource_limits_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`\.resources\.(requests|limits)\.`),
	},
	{
		ID:    "env_var_added",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`\.env\[\d+\]$`),
		Matches: func(c types.FieldChange, kind string) bool {
			return c.ChangeType == types.ChangeItemAdded
		},
	},
	{
		ID:    "rolling_strategy_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`^spec\.strategy(\.|$)`),
	},
	{
		ID:    "replicas_increased",
		Level: types.RiskSafe,
		Path:  regexp.MustCompile(`^spec\.replicas$`),
		Matches: func(c types.FieldChange, kind string) bool {
			return isIncrease(c.OldValue, c.NewValue)
		},
	},
	{
		ID:    "metadata_label_or_annotation_added",
		Level: types.RiskSafe,
		Path:  regexp.MustCompile(`^metadata\.(labels|annotations)\.`),
		Matches: func(c types.FieldChange, kind string) bool {
			return c.ChangeType == types.ChangeItemAdded
		},
	},
}

func isWorkloadKind(kind string) bool {
	switch kind {
	case "Deployment", "StatefulSet", "DaemonSet", "ReplicaSet", "Job", "CronJob":
		return true
	default:
		return false
	}
}

func isDeletionSensitiveKind(kind string) bool {
	switch kind {
	case "Service", "Ingress", "PersistentVolumeClaim":
		return true
	default:
		return false
	}
}

func isZero(v any) bool {
	f, ok := toFloat(v)
	return ok && f == 0
}

func isIncrease(oldV, newV any) bool {
	o, ok1 := toFloat(oldV)
	n, ok2 := toFloat(newV)

	return ok1 && ok2 && n > o
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}
