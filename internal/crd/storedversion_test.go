package crd

import (
	"testing"

	"github.com/chartdiff/chartdiff/internal/types"
)

func crdResource(name string, versions []string, storedVersions []string) types.Resource {
	var versionList []any
	for _, v := range versions {
		versionList = append(versionList, map[string]any{"name": v})
	}

	body := map[string]any{
		"metadata": map[string]any{"name": name},
		"spec":     map[string]any{"versions": versionList},
	}

	if len(storedVersions) > 0 {
		var sv []any
		for _, s := range storedVersions {
			sv = append(sv, s)
		}

		body["status"] = map[string]any{"storedVersions": sv}
	}

	return types.Resource{Name: name, Body: body}
}

func TestStoredVersionWarningWhenRemoved(t *testing.T) {
	installed := crdResource("widgets.example.com", []string{"v1", "v2"}, []string{"v1", "v2"})
	proposed := crdResource("widgets.example.com", []string{"v2"}, nil)

	warnings := StoredVersionWarnings(installed, proposed)

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %+v", warnings)
	}
}

func TestStoredVersionNoWarningWhenAbsent(t *testing.T) {
	installed := crdResource("widgets.example.com", []string{"v1"}, nil)
	proposed := crdResource("widgets.example.com", []string{"v1"}, nil)

	if warnings := StoredVersionWarnings(installed, proposed); len(warnings) != 0 {
		t.Fatalf("expected no warnings when storedVersions absent, got %+v", warnings)
	}
}

func TestStoredVersionNoWarningWhenStillServed(t *testing.T) {
	installed := crdResource("widgets.example.com", []string{"v1", "v2"}, []string{"v1"})
	proposed := crdResource("widgets.example.com", []string{"v1", "v2"}, nil)

	if warnings := StoredVersionWarnings(installed, proposed); len(warnings) != 0 {
		t.Fatalf("expected no warnings, stored version still served, got %+v", warnings)
	}
}
