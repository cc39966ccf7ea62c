package risk

import "github.com/chartdiff/chartdiff/internal/types"

// Classify walks changes against rules in order and returns one
// RiskAnnotation per change that matched a rule. Changes matching no rule
// are SAFE by omission (spec.md §4.4.1) and produce no annotation.
func Classify(changes []types.FieldChange, resourceKind string, rules []Rule) []types.RiskAnnotation {
	var out []types.RiskAnnotation

	for _, c := range changes {
		if ann, ok := classifyOne(c, resourceKind, rules); ok {
			out = append(out, ann)
		}
	}

	return out
}

// ClassifyDeletion is the resource-level counterpart to Classify: removing a
// Service, Ingress, or PersistentVolumeClaim carries no field-level change
// (ChangeRecord.Changes is empty for removed pairs per spec.md §3/§4.3.5),
// so this DANGER annotation is produced from the pair's status and kind
// directly rather than from a field path match (spec.md §4.4.1).
func ClassifyDeletion(status types.PairStatus, resourceKind string) (types.RiskAnnotation, bool) {
	if status != types.StatusRemoved || !isDeletionSensitiveKind(resourceKind) {
		return types.RiskAnnotation{}, false
	}

	return types.RiskAnnotation{
		Level:   types.RiskDanger,
		Rule:    "service_pvc_ingress_removed",
		Message: "service_pvc_ingress_removed",
	}, true
}

func classifyOne(c types.FieldChange, resourceKind string, rules []Rule) (types.RiskAnnotation, bool) {
	for _, r := range rules {
		if r.Path != nil && !r.Path.MatchString(c.Path) {
			continue
		}

		if r.Matches != nil && !r.Matches(c, resourceKind) {
			continue
		}

		return types.RiskAnnotation{
			Level:   r.Level,
			Rule:    r.ID,
			Message: r.ID,
			Path:    c.Path,
		}, true
	}

	return types.RiskAnnotation{}, false
}
