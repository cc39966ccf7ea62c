package crd

import (
	"sort"
	"strings"

	"github.com/chartdiff/chartdiff/internal/types"
)

// EvaluatePolicy is a pure function of a CrdReport and a PolicyMode (spec.md
// §4.5.8).
func EvaluatePolicy(report types.CrdReport, mode types.PolicyMode) types.PolicyResult {
	switch mode {
	case types.PolicyIgnore:
		return types.PolicyResult{
			Mode:     mode,
			Blocked:  false,
			ExitCode: 0,
			Message:  "CRD policy: ignore (all CRD issues suppressed)",
		}
	case types.PolicyFail:
		return evaluateFail(report, mode)
	default:
		return evaluateWarn(report, mode)
	}
}

func evaluateWarn(report types.CrdReport, mode types.PolicyMode) types.PolicyResult {
	danger := namesAtLevel(report, types.RiskDanger)
	warning := namesAtLevel(report, types.RiskWarning)

	if len(danger) == 0 && len(warning) == 0 {
		return types.PolicyResult{Mode: mode, Blocked: false, ExitCode: 0, Message: "CRD policy: warn (no issues found)"}
	}

	var parts []string
	if len(danger) > 0 {
		parts = append(parts, "DANGER: "+strings.Join(danger, ", "))
	}

	if len(warning) > 0 {
		parts = append(parts, "WARNING: "+strings.Join(warning, ", "))
	}

	return types.PolicyResult{
		Mode:     mode,
		Blocked:  false,
		ExitCode: 0,
		Message:  "CRD policy: warn (" + strings.Join(parts, "; ") + ")",
	}
}

func evaluateFail(report types.CrdReport, mode types.PolicyMode) types.PolicyResult {
	danger := namesAtLevel(report, types.RiskDanger)

	if len(danger) == 0 {
		return types.PolicyResult{Mode: mode, Blocked: false, ExitCode: 0, Message: "CRD policy: fail (passed, no dangerous changes)"}
	}

	return types.PolicyResult{
		Mode:     mode,
		Blocked:  true,
		ExitCode: 1,
		Message:  "CRD policy: fail (blocked by dangerous CRDs: " + strings.Join(danger, ", ") + ")",
	}
}

func namesAtLevel(report types.CrdReport, level types.RiskLevel) []string {
	var names []string

	for _, c := range report.Crds {
		if c.MaxRisk() == level {
			names = append(names, c.Name)
		}
	}

	sort.Strings(names)

	return names
}
