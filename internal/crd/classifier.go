package crd

import "github.com/chartdiff/chartdiff/internal/types"

// Classify walks every FieldChange against Rules in order and returns one
// RiskAnnotation per change. The rule table is total (the catch-all
// crd_unknown_change rule always matches), so every change is annotated
// exactly once (spec.md §8).
func Classify(changes []types.FieldChange) []types.RiskAnnotation {
	out := make([]types.RiskAnnotation, 0, len(changes))

	for _, c := range changes {
		out = append(out, classifyOne(c))
	}

	return out
}

func classifyOne(c types.FieldChange) types.RiskAnnotation {
	for _, r := range Rules {
		if r.Path != nil && !r.Path.MatchString(c.Path) {
			continue
		}

		if r.Matches != nil && !r.Matches(c) {
			continue
		}

		return types.RiskAnnotation{
			Level:   r.Level,
			Rule:    r.ID,
			Message: r.ID,
			Path:    c.Path,
		}
	}

	// Unreachable: crd_unknown_change matches every path.
	return types.RiskAnnotation{Level: types.RiskWarning, Rule: "crd_unknown_change", Path: c.Path}
}
