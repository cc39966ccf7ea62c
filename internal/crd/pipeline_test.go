package crd

import (
	"context"
	"testing"

	"github.com/chartdiff/chartdiff/internal/types"
)

type fakeClusterClient struct {
	crdsYAML      string
	crdsErr       error
	instancesYAML map[string]string
}

func (f *fakeClusterClient) ServerSideDryRun(_ context.Context, yamlText, _ string) (string, error) {
	return yamlText, nil
}

func (f *fakeClusterClient) GetCRDs(_ context.Context) (string, error) {
	return f.crdsYAML, f.crdsErr
}

func (f *fakeClusterClient) GetCustomResources(_ context.Context, plural, group string) (string, error) {
	return f.instancesYAML[plural+"."+group], nil
}

const installedWidgetsYAML = `apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.example.com
  annotations:
    meta.helm.sh/release-name: myrelease
spec:
  group: example.com
  names:
    kind: Widget
    plural: widgets
  scope: Namespaced
  versions:
  - name: v1
    storage: true
status:
  storedVersions: [v1]
`

func TestRunNoProposedCrdsShortCircuits(t *testing.T) {
	report := Run(context.Background(), nil, &fakeClusterClient{}, Options{PolicyMode: types.PolicyWarn})

	if len(report.Crds) != 0 || report.PolicyResult == nil {
		t.Fatalf("expected empty report with policy evaluated, got %+v", report)
	}
}

func TestRunDetectsScopeChangeAsDanger(t *testing.T) {
	rendered := []types.Resource{
		{
			Kind: kindCRD,
			Name: "widgets.example.com",
			Body: map[string]any{
				"metadata": map[string]any{"name": "widgets.example.com"},
				"spec": map[string]any{
					"group": "example.com",
					"names": map[string]any{"kind": "Widget", "plural": "widgets"},
					"scope": "Cluster",
					"versions": []any{
						map[string]any{"name": "v1", "storage": true},
					},
				},
			},
		},
	}

	cluster := &fakeClusterClient{crdsYAML: installedWidgetsYAML}

	report := Run(context.Background(), rendered, cluster, Options{
		CurrentRelease: "myrelease",
		PolicyMode:     types.PolicyFail,
	})

	if len(report.Crds) != 1 {
		t.Fatalf("expected 1 CRD detail, got %+v", report.Crds)
	}

	if report.Crds[0].MaxRisk() != types.RiskDanger {
		t.Fatalf("expected DANGER from scope change, got %+v", report.Crds[0])
	}

	if !report.PolicyResult.Blocked {
		t.Errorf("expected fail policy to block on scope change DANGER")
	}
}

func TestRunGetCRDsFailureDegradesToEmptyInstalled(t *testing.T) {
	rendered := []types.Resource{
		{
			Kind: kindCRD,
			Name: "widgets.example.com",
			Body: map[string]any{
				"metadata": map[string]any{"name": "widgets.example.com"},
				"spec": map[string]any{
					"group":    "example.com",
					"names":    map[string]any{"kind": "Widget", "plural": "widgets"},
					"versions": []any{map[string]any{"name": "v1", "storage": true}},
				},
			},
		},
	}

	cluster := &fakeClusterClient{crdsErr: errFakeRunFailure{}}

	report := Run(context.Background(), rendered, cluster, Options{PolicyMode: types.PolicyWarn})

	if len(report.Warnings) == 0 {
		t.Errorf("expected a warning when CRD discovery fails")
	}

	if len(report.NewCrds) != 1 {
		t.Fatalf("expected the CRD to show as new since installed set is empty, got %+v", report.NewCrds)
	}
}

type errFakeRunFailure struct{}

func (errFakeRunFailure) Error() string { return "simulated RunError" }
