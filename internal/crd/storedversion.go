package crd

import "github.com/chartdiff/chartdiff/internal/types"

// StoredVersionWarnings returns one warning per stored version on installed
// that no longer appears in proposed's spec.versions (spec.md §4.5.6). Nil
// when installed carries no status.storedVersions.
func StoredVersionWarnings(installed, proposed types.Resource) []string {
	status, _ := installed.Body["status"].(map[string]any)

	storedRaw, _ := status["storedVersions"].([]any)
	if len(storedRaw) == 0 {
		return nil
	}

	proposedNames := versionNames(proposed)

	var warnings []string

	for _, sv := range storedRaw {
		name, ok := sv.(string)
		if !ok {
			continue
		}

		if _, present := proposedNames[name]; present {
			continue
		}

		warnings = append(warnings, "stored version \""+name+"\" of "+installed.Name+
			" is no longer served; existing objects will become inaccessible until migrated")
	}

	return warnings
}

func versionNames(r types.Resource) map[string]bool {
	spec, _ := r.Body["spec"].(map[string]any)
	versions, _ := spec["versions"].([]any)

	out := make(map[string]bool, len(versions))

	for _, v := range versions {
		vm, ok := v.(map[string]any)
		if !ok {
			continue
		}

		if name, ok := vm["name"].(string); ok {
			out[name] = true
		}
	}

	return out
}
