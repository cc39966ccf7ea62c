// Package render assembles the structured JSON output and the colorized
// terminal output (spec.md §6) from a set of ChangeRecords and an optional
// CrdReport. Neither renderer re-sorts anything it is handed; ordering is
// the core pipeline's contract (spec.md §9).
package render

import (
	"encoding/json"

	"github.com/chartdiff/chartdiff/internal/types"
)

// Summary is the top-level pair-status rollup.
type Summary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
}

// RiskSummary is the top-level risk-level rollup across every annotation on
// every change.
type RiskSummary struct {
	Safe    int `json:"safe"`
	Warning int `json:"warning"`
	Danger  int `json:"danger"`
}

// FieldChangeJSON is the wire shape of a types.FieldChange.
type FieldChangeJSON struct {
	Path       string           `json:"path"`
	OldValue   any              `json:"old_value,omitempty"`
	NewValue   any              `json:"new_value,omitempty"`
	ChangeType types.ChangeType `json:"change_type"`
}

// RiskAnnotationJSON is the wire shape of a types.RiskAnnotation.
type RiskAnnotationJSON struct {
	Level   types.RiskLevel `json:"level"`
	Rule    string          `json:"rule"`
	Message string          `json:"message"`
	Path    string          `json:"path,omitempty"`
}

// OwnershipJSON is the wire shape of a types.OwnershipInfo.
type OwnershipJSON struct {
	Manager types.OwnerManager `json:"manager"`
	Release string             `json:"release,omitempty"`
	App     string             `json:"app,omitempty"`
}

// ChangeJSON is one entry of the top-level `changes` array.
type ChangeJSON struct {
	Resource  string               `json:"resource"`
	Kind      string               `json:"kind"`
	Name      string               `json:"name"`
	Namespace string               `json:"namespace,omitempty"`
	Status    types.PairStatus     `json:"status"`
	Risk      []RiskAnnotationJSON `json:"risk"`
	Fields    []FieldChangeJSON    `json:"fields,omitempty"`
	Ownership *OwnershipJSON       `json:"ownership,omitempty"`
}

// CrdJSON is the wire shape of a types.CrdChangeDetail.
type CrdJSON struct {
	Name                   string               `json:"name"`
	Status                 types.PairStatus     `json:"status"`
	MaxRisk                types.RiskLevel      `json:"max_risk"`
	RiskAnnotations        []RiskAnnotationJSON `json:"risk_annotations"`
	Changes                []FieldChangeJSON    `json:"changes"`
	StoredVersionWarnings  []string             `json:"stored_version_warnings,omitempty"`
	SchemaValidationErrors []string             `json:"schema_validation_errors,omitempty"`
	OwnershipConflict      string               `json:"ownership_conflict,omitempty"`
}

// NewCrdJSON is the wire shape of a types.NewCrdInfo.
type NewCrdJSON struct {
	Name     string   `json:"name"`
	Group    string   `json:"group"`
	Kind     string   `json:"kind"`
	Versions []string `json:"versions"`
}

// CrdAnalysisJSON is the wire shape of a types.CrdReport.
type CrdAnalysisJSON struct {
	Crds     []CrdJSON    `json:"crds"`
	NewCrds  []NewCrdJSON `json:"new_crds"`
	Warnings []string     `json:"warnings,omitempty"`
	Policy   *PolicyJSON  `json:"policy,omitempty"`
}

// PolicyJSON is the wire shape of a types.PolicyResult.
type PolicyJSON struct {
	Mode     types.PolicyMode `json:"mode"`
	Blocked  bool             `json:"blocked"`
	Message  string           `json:"message"`
	ExitCode int              `json:"exit_code"`
}

// Document is the top-level JSON output object.
type Document struct {
	Summary     Summary          `json:"summary"`
	RiskSummary RiskSummary      `json:"risk_summary"`
	Changes     []ChangeJSON     `json:"changes"`
	CrdAnalysis *CrdAnalysisJSON `json:"crd_analysis,omitempty"`
}

// BuildDocument assembles the top-level JSON document from change records
// and an optional CRD report. riskOnly, when true, drops changes that carry
// no WARNING/DANGER annotation.
func BuildDocument(records []types.ChangeRecord, report *types.CrdReport, riskOnly bool) Document {
	doc := Document{}

	for _, r := range records {
		countStatus(&doc.Summary, r.Status)

		for _, a := range r.Risks {
			countRisk(&doc.RiskSummary, a.Level)
		}

		if riskOnly && !hasRisk(r.Risks) {
			continue
		}

		doc.Changes = append(doc.Changes, toChangeJSON(r))
	}

	if report != nil {
		doc.CrdAnalysis = toCrdAnalysisJSON(*report)
	}

	return doc
}

func hasRisk(anns []types.RiskAnnotation) bool {
	for _, a := range anns {
		if a.Level == types.RiskWarning || a.Level == types.RiskDanger {
			return true
		}
	}

	return false
}

func countStatus(s *Summary, status types.PairStatus) {
	switch status {
	case types.StatusAdded:
		s.Added++
	case types.StatusRemoved:
		s.Removed++
	case types.StatusChanged:
		s.Changed++
	case types.StatusUnchanged:
		s.Unchanged++
	}
}

func countRisk(s *RiskSummary, level types.RiskLevel) {
	switch level {
	case types.RiskSafe:
		s.Safe++
	case types.RiskWarning:
		s.Warning++
	case types.RiskDanger:
		s.Danger++
	}
}

func toChangeJSON(r types.ChangeRecord) ChangeJSON {
	c := ChangeJSON{
		Resource: r.ResourceKey,
		Kind:     r.Kind,
		Name:     r.Name,
		Namespace: r.Namespace,
		Status:   r.Status,
	}

	for _, a := range r.Risks {
		c.Risk = append(c.Risk, RiskAnnotationJSON{Level: a.Level, Rule: a.Rule, Message: a.Message, Path: a.Path})
	}

	for _, f := range r.Changes {
		c.Fields = append(c.Fields, FieldChangeJSON{Path: f.Path, OldValue: f.OldValue, NewValue: f.NewValue, ChangeType: f.ChangeType})
	}

	if r.Ownership != nil {
		c.Ownership = &OwnershipJSON{Manager: r.Ownership.Manager, Release: r.Ownership.Release, App: r.Ownership.App}
	}

	return c
}

func toCrdAnalysisJSON(report types.CrdReport) *CrdAnalysisJSON {
	out := &CrdAnalysisJSON{Warnings: report.Warnings}

	for _, c := range report.Crds {
		cj := CrdJSON{
			Name:                   c.Name,
			Status:                 c.Status,
			MaxRisk:                c.MaxRisk(),
			StoredVersionWarnings:  c.StoredVersionWarnings,
			SchemaValidationErrors: c.SchemaValidationErrors,
			OwnershipConflict:      c.OwnershipConflict,
		}

		for _, a := range c.RiskAnnotations {
			cj.RiskAnnotations = append(cj.RiskAnnotations, RiskAnnotationJSON{Level: a.Level, Rule: a.Rule, Message: a.Message, Path: a.Path})
		}

		for _, f := range c.Changes {
			cj.Changes = append(cj.Changes, FieldChangeJSON{Path: f.Path, OldValue: f.OldValue, NewValue: f.NewValue, ChangeType: f.ChangeType})
		}

		out.Crds = append(out.Crds, cj)
	}

	for _, n := range report.NewCrds {
		out.NewCrds = append(out.NewCrds, NewCrdJSON{Name: n.Name, Group: n.Group, Kind: n.Kind, Versions: n.Versions})
	}

	if report.PolicyResult != nil {
		out.Policy = &PolicyJSON{
			Mode:     report.PolicyResult.Mode,
			Blocked:  report.PolicyResult.Blocked,
			Message:  report.PolicyResult.Message,
			ExitCode: report.PolicyResult.ExitCode,
		}
	}

	return out
}

// MarshalJSON renders doc as indented JSON text.
func MarshalJSON(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
