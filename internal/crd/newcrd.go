package crd

import "github.com/chartdiff/chartdiff/internal/types"

// DetectNew returns a NewCrdInfo for p when it is an added CRD (spec.md
// §4.5.4). Returns false for anything else.
func DetectNew(p types.ResourcePair) (types.NewCrdInfo, bool) {
	if p.Status != types.StatusAdded || p.New == nil {
		return types.NewCrdInfo{}, false
	}

	spec, _ := p.New.Body["spec"].(map[string]any)
	group, _ := spec["group"].(string)

	names, _ := spec["names"].(map[string]any)
	kind, _ := names["kind"].(string)

	versions, _ := spec["versions"].([]any)

	var versionNames []string

	for _, v := range versions {
		vm, ok := v.(map[string]any)
		if !ok {
			continue
		}

		if name, ok := vm["name"].(string); ok {
			versionNames = append(versionNames, name)
		}
	}

	return types.NewCrdInfo{
		Name:     p.New.Name,
		Group:    group,
		Kind:     kind,
		Versions: versionNames,
	}, true
}
