package render

import (
	"testing"

	"github.com/chartdiff/chartdiff/internal/types"
)

func TestBuildDocumentSummaryCounts(t *testing.T) {
	records := []types.ChangeRecord{
		{ResourceKey: "a", Status: types.StatusAdded},
		{ResourceKey: "b", Status: types.StatusRemoved},
		{ResourceKey: "c", Status: types.StatusChanged, Risks: []types.RiskAnnotation{{Level: types.RiskWarning}}},
	}

	doc := BuildDocument(records, nil, false)

	if doc.Summary.Added != 1 || doc.Summary.Removed != 1 || doc.Summary.Changed != 1 {
		t.Fatalf("unexpected summary: %+v", doc.Summary)
	}

	if doc.RiskSummary.Warning != 1 {
		t.Fatalf("unexpected risk summary: %+v", doc.RiskSummary)
	}

	if len(doc.Changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(doc.Changes))
	}
}

func TestBuildDocumentRiskOnlyFiltersSafeChanges(t *testing.T) {
	records := []types.ChangeRecord{
		{ResourceKey: "a", Status: types.StatusChanged},
		{ResourceKey: "b", Status: types.StatusChanged, Risks: []types.RiskAnnotation{{Level: types.RiskDanger}}},
	}

	doc := BuildDocument(records, nil, true)

	if len(doc.Changes) != 1 || doc.Changes[0].Resource != "b" {
		t.Fatalf("expected only the risky change retained, got %+v", doc.Changes)
	}

	// Summary/risk_summary still reflect every record, not just the kept ones.
	if doc.Summary.Changed != 2 {
		t.Fatalf("expected summary to count all records regardless of risk-only filter, got %+v", doc.Summary)
	}
}

func TestBuildDocumentIncludesCrdAnalysis(t *testing.T) {
	report := types.CrdReport{
		Crds: []types.CrdChangeDetail{{Name: "widgets.example.com", RiskAnnotations: []types.RiskAnnotation{{Level: types.RiskDanger}}}},
		PolicyResult: &types.PolicyResult{Mode: types.PolicyFail, Blocked: true, ExitCode: 1, Message: "blocked"},
	}

	doc := BuildDocument(nil, &report, false)

	if doc.CrdAnalysis == nil || len(doc.CrdAnalysis.Crds) != 1 {
		t.Fatalf("expected crd_analysis populated, got %+v", doc.CrdAnalysis)
	}

	if doc.CrdAnalysis.Crds[0].MaxRisk != types.RiskDanger {
		t.Errorf("expected max_risk DANGER, got %+v", doc.CrdAnalysis.Crds[0])
	}

	if doc.CrdAnalysis.Policy == nil || !doc.CrdAnalysis.Policy.Blocked {
		t.Errorf("expected policy carried through, got %+v", doc.CrdAnalysis.Policy)
	}
}

func TestMarshalJSONProducesValidOutput(t *testing.T) {
	doc := BuildDocument(nil, nil, false)

	data, err := MarshalJSON(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data) == 0 {
		t.Fatalf("expected non-empty JSON output")
	}
}
