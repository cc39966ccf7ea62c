package crd

import (
	"github.com/chartdiff/chartdiff/internal/risk"
	"github.com/chartdiff/chartdiff/internal/types"
)

// OwnershipConflict reports the ownership-conflict message for a CRD that
// exists both installed and proposed (spec.md §4.5.5), looked up against
// the installed copy. Empty string means no conflict. currentRelease is
// the release performing the upgrade, used to detect a Helm release
// mismatch.
func OwnershipConflict(installed types.Resource, currentRelease string) string {
	labels, annotations := risk.LabelsAndAnnotations(installed.Body)
	info := risk.DetectOwnership(labels, annotations)

	switch {
	case info.Manager == types.ManagerUnknown:
		return ""
	case info.Manager != types.ManagerHelm:
		return "managed by " + string(info.Manager) + ", not Helm"
	case currentRelease != "" && info.Release != currentRelease:
		return "managed by Helm release \"" + info.Release + "\", not \"" + currentRelease + "\""
	default:
		return ""
	}
}
