package crd

import (
	"testing"

	"github.com/chartdiff/chartdiff/internal/types"
)

func dangerReport() types.CrdReport {
	return types.CrdReport{
		Crds: []types.CrdChangeDetail{
			{Name: "widgets.example.com", RiskAnnotations: []types.RiskAnnotation{{Level: types.RiskDanger}}},
		},
	}
}

func warnOnlyReport() types.CrdReport {
	return types.CrdReport{
		Crds: []types.CrdChangeDetail{
			{Name: "widgets.example.com", RiskAnnotations: []types.RiskAnnotation{{Level: types.RiskWarning}}},
		},
	}
}

func safeReport() types.CrdReport {
	return types.CrdReport{
		Crds: []types.CrdChangeDetail{
			{Name: "widgets.example.com", RiskAnnotations: []types.RiskAnnotation{{Level: types.RiskSafe}}},
		},
	}
}

func TestPolicyIgnoreNeverBlocks(t *testing.T) {
	for _, r := range []types.CrdReport{dangerReport(), warnOnlyReport(), safeReport()} {
		result := EvaluatePolicy(r, types.PolicyIgnore)
		if result.Blocked || result.ExitCode != 0 {
			t.Errorf("expected ignore to never block, got %+v", result)
		}
	}
}

func TestPolicyWarnNeverBlocks(t *testing.T) {
	for _, r := range []types.CrdReport{dangerReport(), warnOnlyReport(), safeReport()} {
		result := EvaluatePolicy(r, types.PolicyWarn)
		if result.Blocked || result.ExitCode != 0 {
			t.Errorf("expected warn to never block, got %+v", result)
		}
	}
}

func TestPolicyFailBlocksOnlyOnDanger(t *testing.T) {
	if result := EvaluatePolicy(dangerReport(), types.PolicyFail); !result.Blocked || result.ExitCode != 1 {
		t.Errorf("expected fail to block on DANGER, got %+v", result)
	}

	if result := EvaluatePolicy(warnOnlyReport(), types.PolicyFail); result.Blocked || result.ExitCode != 0 {
		t.Errorf("expected fail to pass on WARNING-only, got %+v", result)
	}

	if result := EvaluatePolicy(safeReport(), types.PolicyFail); result.Blocked || result.ExitCode != 0 {
		t.Errorf("expected fail to pass on SAFE-only, got %+v", result)
	}
}
