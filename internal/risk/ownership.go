package risk

import (
	"strings"

	"github.com/chartdiff/chartdiff/internal/types"
)

// DetectOwnership inspects a resource's labels and annotations for the
// well-known ownership families, Helm first, then ArgoCD, then Flux
// (spec.md §4.4.2). Returns ManagerUnknown when none match.
func DetectOwnership(labels, annotations map[string]string) types.OwnershipInfo {
	if info, ok := detectHelm(labels, annotations); ok {
		return info
	}

	if info, ok := detectArgoCD(labels, annotations); ok {
		return info
	}

	if info, ok := detectFlux(labels, annotations); ok {
		return info
	}

	return types.OwnershipInfo{Manager: types.ManagerUnknown}
}

func detectHelm(labels, annotations map[string]string) (types.OwnershipInfo, bool) {
	_, hasReleaseAnnotation := annotations["meta.helm.sh/release-name"]

	if labels["app.kubernetes.io/managed-by"] != "Helm" && !hasReleaseAnnotation {
		return types.OwnershipInfo{}, false
	}

	return types.OwnershipInfo{
		Manager: types.ManagerHelm,
		Release: annotations["meta.helm.sh/release-name"],
		App:     labels["app.kubernetes.io/name"],
	}, true
}

func detectArgoCD(labels, annotations map[string]string) (types.OwnershipInfo, bool) {
	instance, hasInstance := labels["app.kubernetes.io/instance"]
	if !hasInstance {
		return types.OwnershipInfo{}, false
	}

	hasArgoAnnotation := false

	for k := range annotations {
		if strings.HasPrefix(k, "argocd.argoproj.io/") {
			hasArgoAnnotation = true
			break
		}
	}

	if !hasArgoAnnotation {
		return types.OwnershipInfo{}, false
	}

	return types.OwnershipInfo{
		Manager: types.ManagerArgoCD,
		Release: instance,
		App:     labels["app.kubernetes.io/name"],
	}, true
}

func detectFlux(labels, _ map[string]string) (types.OwnershipInfo, bool) {
	name, ok := labels["kustomize.toolkit.fluxcd.io/name"]
	if !ok {
		name, ok = labels["helm.toolkit.fluxcd.io/name"]
	}

	if !ok {
		return types.OwnershipInfo{}, false
	}

	return types.OwnershipInfo{
		Manager: types.ManagerFlux,
		Release: name,
		App:     labels["app.kubernetes.io/name"],
	}, true
}

// LabelsAndAnnotations extracts string-keyed/string-valued label and
// annotation maps from a parsed Resource body, tolerating missing or
// malformed metadata.
func LabelsAndAnnotations(body map[string]any) (labels, annotations map[string]string) {
	meta, _ := body["metadata"].(map[string]any)
	return stringMap(meta["labels"]), stringMap(meta["annotations"])
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}
	}

	out := make(map[string]string, len(m))

	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}

	return out
}
