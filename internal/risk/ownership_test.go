package risk

import (
	"testing"

	"github.com/chartdiff/chartdiff/internal/types"
)

func TestDetectOwnershipHelm(t *testing.T) {
	labels := map[string]string{"app.kubernetes.io/managed-by": "Helm", "app.kubernetes.io/name": "web"}
	annotations := map[string]string{"meta.helm.sh/release-name": "myrelease"}

	info := DetectOwnership(labels, annotations)

	if info.Manager != types.ManagerHelm || info.Release != "myrelease" || info.App != "web" {
		t.Fatalf("unexpected ownership: %+v", info)
	}
}

func TestDetectOwnershipArgoCD(t *testing.T) {
	labels := map[string]string{"app.kubernetes.io/instance": "my-app"}
	annotations := map[string]string{"argocd.argoproj.io/tracking-id": "abc"}

	info := DetectOwnership(labels, annotations)

	if info.Manager != types.ManagerArgoCD || info.Release != "my-app" {
		t.Fatalf("unexpected ownership: %+v", info)
	}
}

func TestDetectOwnershipFlux(t *testing.T) {
	labels := map[string]string{"kustomize.toolkit.fluxcd.io/name": "infra"}

	info := DetectOwnership(labels, nil)

	if info.Manager != types.ManagerFlux || info.Release != "infra" {
		t.Fatalf("unexpected ownership: %+v", info)
	}
}

func TestDetectOwnershipUnknown(t *testing.T) {
	info := DetectOwnership(map[string]string{"foo": "bar"}, nil)

	if info.Manager != types.ManagerUnknown {
		t.Fatalf("expected unknown, got %+v", info)
	}
}

func TestDetectOwnershipHelmWinsOverArgoCD(t *testing.T) {
	labels := map[string]string{
		"app.kubernetes.io/managed-by": "Helm",
		"app.kubernetes.io/instance":   "my-app",
	}
	annotations := map[string]string{
		"meta.helm.sh/release-name":      "myrelease",
		"argocd.argoproj.io/tracking-id": "abc",
	}

	info := DetectOwnership(labels, annotations)

	if info.Manager != types.ManagerHelm {
		t.Fatalf("expected Helm to win first-match order, got %+v", info)
	}
}

func TestLabelsAndAnnotationsFromBody(t *testing.T) {
	body := map[string]any{
		"metadata": map[string]any{
			"labels":      map[string]any{"a": "1"},
			"annotations": map[string]any{"b": "2"},
		},
	}

	labels, annotations := LabelsAndAnnotations(body)

	if labels["a"] != "1" || annotations["b"] != "2" {
		t.Fatalf("unexpected extraction: %+v %+v", labels, annotations)
	}
}

func TestLabelsAndAnnotationsMissingMetadata(t *testing.T) {
	labels, annotations := LabelsAndAnnotations(map[string]any{})

	if len(labels) != 0 || len(annotations) != 0 {
		t.Fatalf("expected empty maps, got %+v %+v", labels, annotations)
	}
}
