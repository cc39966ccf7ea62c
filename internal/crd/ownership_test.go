package crd

import (
	"testing"

	"github.com/chartdiff/chartdiff/internal/types"
)

func TestOwnershipConflictUnknownIsNoConflict(t *testing.T) {
	installed := types.Resource{Body: map[string]any{"metadata": map[string]any{}}}

	if got := OwnershipConflict(installed, "myrelease"); got != "" {
		t.Errorf("expected no conflict for unknown manager, got %q", got)
	}
}

func TestOwnershipConflictNonHelmManager(t *testing.T) {
	installed := types.Resource{Body: map[string]any{
		"metadata": map[string]any{
			"labels": map[string]any{"kustomize.toolkit.fluxcd.io/name": "infra"},
		},
	}}

	got := OwnershipConflict(installed, "myrelease")
	if got == "" {
		t.Fatalf("expected a conflict message for non-Helm manager")
	}
}

func TestOwnershipConflictHelmReleaseMismatch(t *testing.T) {
	installed := types.Resource{Body: map[string]any{
		"metadata": map[string]any{
			"annotations": map[string]any{"meta.helm.sh/release-name": "other-release"},
		},
	}}

	got := OwnershipConflict(installed, "myrelease")
	if got == "" {
		t.Fatalf("expected a conflict message for Helm release mismatch")
	}
}

func TestOwnershipConflictHelmSameRelease(t *testing.T) {
	installed := types.Resource{Body: map[string]any{
		"metadata": map[string]any{
			"annotations": map[string]any{"meta.helm.sh/release-name": "myrelease"},
		},
	}}

	if got := OwnershipConflict(installed, "myrelease"); got != "" {
		t.Errorf("expected no conflict for matching Helm release, got %q", got)
	}
}
